package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/skillmint/marketplace-core/internal/domain"
)

// WithdrawalRepository реализует domain.WithdrawalRepository
type WithdrawalRepository struct {
	db DBTX
}

// NewWithdrawalRepository создает новый WithdrawalRepository
func NewWithdrawalRepository(db DBTX) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

const withdrawalColumns = `id, user_id, amount, method, account_details, status, review_notes, flagged, fee, reserve_entry_id, external_ref, created_at, updated_at`

func scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	w := &domain.Withdrawal{}
	err := row.Scan(&w.ID, &w.UserID, &w.Amount, &w.Method, &w.AccountDetails, &w.Status,
		&w.ReviewNotes, &w.Flagged, &w.Fee, &w.ReserveEntryID, &w.ExternalRef, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Create создает заявку на вывод средств
func (r *WithdrawalRepository) Create(ctx context.Context, w *domain.Withdrawal) (*domain.Withdrawal, error) {
	created, err := scanWithdrawal(r.db.QueryRow(ctx,
		`INSERT INTO withdrawals (user_id, amount, method, account_details, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+withdrawalColumns,
		w.UserID, w.Amount, w.Method, w.AccountDetails, w.Status,
	))

	if err != nil {
		return nil, fmt.Errorf("repository: failed to create withdrawal for user %d: %w", w.UserID, err)
	}

	return created, nil
}

// GetByID получает заявку по ID
func (r *WithdrawalRepository) GetByID(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	withdrawal, err := scanWithdrawal(r.db.QueryRow(ctx,
		`SELECT `+withdrawalColumns+`
		 FROM withdrawals
		 WHERE id = $1`,
		id,
	))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("repository: failed to get withdrawal by id %d: %w", id, err)
	}

	return withdrawal, nil
}

// UpdateStatus выполняет переход статуса заявки только из перечисленных
// состояний и сообщает, был ли он применен
func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, id int64, from []domain.WithdrawalStatus, to domain.WithdrawalStatus, notes string) (bool, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE withdrawals
		 SET status = $2, review_notes = CASE WHEN $4 <> '' THEN $4 ELSE review_notes END, updated_at = NOW()
		 WHERE id = $1 AND status = ANY($3)`,
		id, to, from, notes,
	)

	if err != nil {
		return false, fmt.Errorf("repository: failed to update withdrawal %d status to %s: %w", id, to, err)
	}

	return result.RowsAffected() > 0, nil
}

// SetReserveEntry связывает заявку с резервационной записью леджера
func (r *WithdrawalRepository) SetReserveEntry(ctx context.Context, id, entryID int64) error {
	result, err := r.db.Exec(ctx,
		`UPDATE withdrawals
		 SET reserve_entry_id = $2, updated_at = NOW()
		 WHERE id = $1`,
		id, entryID,
	)

	if err != nil {
		return fmt.Errorf("repository: failed to set reserve entry for withdrawal %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrWithdrawalNotFound
	}

	return nil
}

// SetSettlement сохраняет внешнюю ссылку и комиссию за обработку
func (r *WithdrawalRepository) SetSettlement(ctx context.Context, id int64, externalRef string, fee int64) error {
	result, err := r.db.Exec(ctx,
		`UPDATE withdrawals
		 SET external_ref = $2, fee = $3, updated_at = NOW()
		 WHERE id = $1`,
		id, externalRef, fee,
	)

	if err != nil {
		return fmt.Errorf("repository: failed to set settlement for withdrawal %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrWithdrawalNotFound
	}

	return nil
}

// SetFlagged помечает заявку для ручной проверки
func (r *WithdrawalRepository) SetFlagged(ctx context.Context, id int64, flagged bool) error {
	result, err := r.db.Exec(ctx,
		`UPDATE withdrawals
		 SET flagged = $2, updated_at = NOW()
		 WHERE id = $1`,
		id, flagged,
	)

	if err != nil {
		return fmt.Errorf("repository: failed to flag withdrawal %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrWithdrawalNotFound
	}

	return nil
}

// SumForMonth возвращает сумму заявок пользователя с начала месяца,
// не считая отклоненные, отмененные и неудавшиеся
func (r *WithdrawalRepository) SumForMonth(ctx context.Context, userID int64, monthStart time.Time) (int64, error) {
	var sum int64

	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)
		 FROM withdrawals
		 WHERE user_id = $1 AND created_at >= $2 AND status NOT IN ('rejected', 'cancelled', 'failed')`,
		userID, monthStart,
	).Scan(&sum)

	if err != nil {
		return 0, fmt.Errorf("repository: failed to sum monthly withdrawals for user %d: %w", userID, err)
	}

	return sum, nil
}
