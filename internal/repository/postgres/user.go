package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/skillmint/marketplace-core/internal/domain"
)

// UserRepository реализует domain.UserRepository
type UserRepository struct {
	db DBTX
}

// NewUserRepository создает новый UserRepository
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, role, referral_code, referred_by, active, wallet_frozen, flagged_for_recovery, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Role, &u.ReferralCode, &u.ReferredBy,
		&u.Active, &u.WalletFrozen, &u.FlaggedForRecovery, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users
		 WHERE id = $1`,
		id,
	))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("repository: failed to get user by id %d: %w", id, err)
	}

	return user, nil
}

// GetByReferralCode получает пользователя по реферальному коду
func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users
		 WHERE referral_code = $1`,
		code,
	))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("repository: failed to get user by referral code %q: %w", code, err)
	}

	return user, nil
}

// SetFlagged помечает пользователя для ручного взыскания задолженности
func (r *UserRepository) SetFlagged(ctx context.Context, id int64, flagged bool) error {
	result, err := r.db.Exec(ctx,
		`UPDATE users
		 SET flagged_for_recovery = $2
		 WHERE id = $1`,
		id, flagged,
	)

	if err != nil {
		return fmt.Errorf("repository: failed to flag user %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// CountReferrals возвращает число пользователей, приведенных данным
func (r *UserRepository) CountReferrals(ctx context.Context, id int64) (int, error) {
	var count int

	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM users
		 WHERE referred_by = $1`,
		id,
	).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("repository: failed to count referrals for user %d: %w", id, err)
	}

	return count, nil
}
