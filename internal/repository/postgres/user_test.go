package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmint/marketplace-core/internal/domain"
)

var userCols = []string{
	"id", "email", "role", "referral_code", "referred_by",
	"active", "wallet_frozen", "flagged_for_recovery", "created_at",
}

func userRow(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows(userCols).AddRow(
		u.ID, u.Email, u.Role, u.ReferralCode, u.ReferredBy,
		u.Active, u.WalletFrozen, u.FlaggedForRecovery, u.CreatedAt,
	)
}

func TestUserRepository_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnRows(userRow(&domain.User{
				ID: 7, Email: "student@example.com", Role: domain.RoleStudent,
				ReferralCode: "AB12CD34", Active: true, CreatedAt: time.Now(),
			}))

		user, err := repo.GetByID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "student@example.com", user.Email)
		assert.True(t, user.Active)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByReferralCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`WHERE referral_code = \$1`).
			WithArgs("AB12CD34").
			WillReturnRows(userRow(&domain.User{
				ID: 3, Email: "affiliate@example.com", Role: domain.RoleAffiliate,
				ReferralCode: "AB12CD34", Active: true, CreatedAt: time.Now(),
			}))

		user, err := repo.GetByReferralCode(ctx, "AB12CD34")
		require.NoError(t, err)
		assert.Equal(t, int64(3), user.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown code", func(t *testing.T) {
		mock.ExpectQuery(`WHERE referral_code = \$1`).
			WithArgs("ZZZZZZZZ").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByReferralCode(ctx, "ZZZZZZZZ")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_SetFlagged(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`SET flagged_for_recovery = \$2`).
			WithArgs(int64(7), true).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.SetFlagged(ctx, 7, true))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("User not found", func(t *testing.T) {
		mock.ExpectExec(`SET flagged_for_recovery = \$2`).
			WithArgs(int64(99), true).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.SetFlagged(ctx, 99, true)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_CountReferrals(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))

	count, err := repo.CountReferrals(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 12, count)

	assert.NoError(t, mock.ExpectationsWereMet())
}
