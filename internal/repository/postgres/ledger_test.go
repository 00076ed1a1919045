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

var ledgerCols = []string{"id", "user_id", "seq", "direction", "amount", "category", "reference", "idempotency_key", "balance_after", "status", "created_at"}

func ledgerRow(e *domain.LedgerEntry) *pgxmock.Rows {
	return pgxmock.NewRows(ledgerCols).AddRow(
		e.ID, e.UserID, e.Seq, e.Direction, e.Amount, e.Category,
		e.Reference, e.IdempotencyKey, e.BalanceAfter, e.Status, e.CreatedAt,
	)
}

func TestLedgerRepository_Post(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepository(mock)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success - completed credit", func(t *testing.T) {
		mock.ExpectQuery(`WHERE user_id = \$1 AND idempotency_key = \$2`).
			WithArgs(int64(7), "order:1:earning").
			WillReturnError(pgx.ErrNoRows)

		mock.ExpectQuery(`COALESCE\(SUM`).
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows([]string{"balance", "reserved", "last_seq"}).AddRow(int64(1000), int64(0), int64(3)))

		mock.ExpectQuery(`INSERT INTO ledger_entries`).
			WithArgs(int64(7), int64(4), domain.LedgerDirectionCredit, int64(500), domain.LedgerCategoryCourseEarning,
				"order:1", "order:1:earning", int64(1500), domain.LedgerStatusCompleted).
			WillReturnRows(ledgerRow(&domain.LedgerEntry{
				ID: 10, UserID: 7, Seq: 4, Direction: domain.LedgerDirectionCredit, Amount: 500,
				Category: domain.LedgerCategoryCourseEarning, Reference: "order:1",
				IdempotencyKey: "order:1:earning", BalanceAfter: 1500,
				Status: domain.LedgerStatusCompleted, CreatedAt: now,
			}))

		entry, err := repo.Post(ctx, domain.PostParams{
			UserID:         7,
			Direction:      domain.LedgerDirectionCredit,
			Amount:         500,
			Category:       domain.LedgerCategoryCourseEarning,
			Reference:      "order:1",
			IdempotencyKey: "order:1:earning",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4), entry.Seq)
		assert.Equal(t, int64(1500), entry.BalanceAfter)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - pending reserve keeps balance", func(t *testing.T) {
		mock.ExpectQuery(`WHERE user_id = \$1 AND idempotency_key = \$2`).
			WithArgs(int64(7), "withdrawal:5:reserve").
			WillReturnError(pgx.ErrNoRows)

		mock.ExpectQuery(`COALESCE\(SUM`).
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows([]string{"balance", "reserved", "last_seq"}).AddRow(int64(1000), int64(0), int64(4)))

		mock.ExpectQuery(`INSERT INTO ledger_entries`).
			WithArgs(int64(7), int64(5), domain.LedgerDirectionDebit, int64(600), domain.LedgerCategoryWithdrawalReserve,
				"withdrawal:5", "withdrawal:5:reserve", int64(1000), domain.LedgerStatusPending).
			WillReturnRows(ledgerRow(&domain.LedgerEntry{
				ID: 11, UserID: 7, Seq: 5, Direction: domain.LedgerDirectionDebit, Amount: 600,
				Category: domain.LedgerCategoryWithdrawalReserve, Reference: "withdrawal:5",
				IdempotencyKey: "withdrawal:5:reserve", BalanceAfter: 1000,
				Status: domain.LedgerStatusPending, CreatedAt: now,
			}))

		entry, err := repo.Post(ctx, domain.PostParams{
			UserID:         7,
			Direction:      domain.LedgerDirectionDebit,
			Amount:         600,
			Category:       domain.LedgerCategoryWithdrawalReserve,
			Reference:      "withdrawal:5",
			IdempotencyKey: "withdrawal:5:reserve",
			Pending:        true,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.LedgerStatusPending, entry.Status)
		assert.Equal(t, int64(1000), entry.BalanceAfter)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Idempotent replay returns existing entry", func(t *testing.T) {
		mock.ExpectQuery(`WHERE user_id = \$1 AND idempotency_key = \$2`).
			WithArgs(int64(7), "order:1:earning").
			WillReturnRows(ledgerRow(&domain.LedgerEntry{
				ID: 10, UserID: 7, Seq: 4, Direction: domain.LedgerDirectionCredit, Amount: 500,
				Category: domain.LedgerCategoryCourseEarning, Reference: "order:1",
				IdempotencyKey: "order:1:earning", BalanceAfter: 1500,
				Status: domain.LedgerStatusCompleted, CreatedAt: now,
			}))

		entry, err := repo.Post(ctx, domain.PostParams{
			UserID:         7,
			Direction:      domain.LedgerDirectionCredit,
			Amount:         500,
			Category:       domain.LedgerCategoryCourseEarning,
			Reference:      "order:1",
			IdempotencyKey: "order:1:earning",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(10), entry.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insufficient funds counts reservations", func(t *testing.T) {
		mock.ExpectQuery(`WHERE user_id = \$1 AND idempotency_key = \$2`).
			WithArgs(int64(7), "order:2:reserve").
			WillReturnError(pgx.ErrNoRows)

		// Баланс 1000, из них 800 зарезервировано: доступно 200
		mock.ExpectQuery(`COALESCE\(SUM`).
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows([]string{"balance", "reserved", "last_seq"}).AddRow(int64(1000), int64(800), int64(5)))

		_, err := repo.Post(ctx, domain.PostParams{
			UserID:         7,
			Direction:      domain.LedgerDirectionDebit,
			Amount:         300,
			Category:       domain.LedgerCategoryCoursePurchase,
			Reference:      "order:2",
			IdempotencyKey: "order:2:reserve",
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AllowNegative skips funds check", func(t *testing.T) {
		mock.ExpectQuery(`WHERE user_id = \$1 AND idempotency_key = \$2`).
			WithArgs(int64(7), "commission:9:clawback").
			WillReturnError(pgx.ErrNoRows)

		mock.ExpectQuery(`COALESCE\(SUM`).
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows([]string{"balance", "reserved", "last_seq"}).AddRow(int64(100), int64(0), int64(5)))

		mock.ExpectQuery(`INSERT INTO ledger_entries`).
			WithArgs(int64(7), int64(6), domain.LedgerDirectionDebit, int64(500), domain.LedgerCategoryCommissionPayout,
				"order:9:refund", "commission:9:clawback", int64(-400), domain.LedgerStatusCompleted).
			WillReturnRows(ledgerRow(&domain.LedgerEntry{
				ID: 12, UserID: 7, Seq: 6, Direction: domain.LedgerDirectionDebit, Amount: 500,
				Category: domain.LedgerCategoryCommissionPayout, Reference: "order:9:refund",
				IdempotencyKey: "commission:9:clawback", BalanceAfter: -400,
				Status: domain.LedgerStatusCompleted, CreatedAt: now,
			}))

		entry, err := repo.Post(ctx, domain.PostParams{
			UserID:         7,
			Direction:      domain.LedgerDirectionDebit,
			Amount:         500,
			Category:       domain.LedgerCategoryCommissionPayout,
			Reference:      "order:9:refund",
			IdempotencyKey: "commission:9:clawback",
			AllowNegative:  true,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(-400), entry.BalanceAfter)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Invalid amount", func(t *testing.T) {
		_, err := repo.Post(ctx, domain.PostParams{UserID: 7, Amount: 0})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}

func TestLedgerRepository_Finalize(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepository(mock)
	ctx := context.Background()
	now := time.Now()

	t.Run("Pending debit becomes completed", func(t *testing.T) {
		mock.ExpectQuery(`FROM ledger_entries\s+WHERE id = \$1`).
			WithArgs(int64(11)).
			WillReturnRows(ledgerRow(&domain.LedgerEntry{
				ID: 11, UserID: 7, Seq: 5, Direction: domain.LedgerDirectionDebit, Amount: 600,
				Category: domain.LedgerCategoryWithdrawalReserve, BalanceAfter: 1000,
				Status: domain.LedgerStatusPending, CreatedAt: now,
			}))

		mock.ExpectQuery(`COALESCE\(SUM`).
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows([]string{"balance", "reserved", "last_seq"}).AddRow(int64(1000), int64(600), int64(5)))

		mock.ExpectQuery(`UPDATE ledger_entries`).
			WithArgs(int64(11), int64(400)).
			WillReturnRows(ledgerRow(&domain.LedgerEntry{
				ID: 11, UserID: 7, Seq: 5, Direction: domain.LedgerDirectionDebit, Amount: 600,
				Category: domain.LedgerCategoryWithdrawalReserve, BalanceAfter: 400,
				Status: domain.LedgerStatusCompleted, CreatedAt: now,
			}))

		entry, err := repo.Finalize(ctx, 11)
		require.NoError(t, err)
		assert.Equal(t, domain.LedgerStatusCompleted, entry.Status)
		assert.Equal(t, int64(400), entry.BalanceAfter)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already completed is a no-op", func(t *testing.T) {
		mock.ExpectQuery(`FROM ledger_entries\s+WHERE id = \$1`).
			WithArgs(int64(11)).
			WillReturnRows(ledgerRow(&domain.LedgerEntry{
				ID: 11, UserID: 7, Status: domain.LedgerStatusCompleted,
				Direction: domain.LedgerDirectionDebit, Amount: 600, CreatedAt: now,
			}))

		entry, err := repo.Finalize(ctx, 11)
		require.NoError(t, err)
		assert.Equal(t, domain.LedgerStatusCompleted, entry.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Reversed entry cannot be finalized", func(t *testing.T) {
		mock.ExpectQuery(`FROM ledger_entries\s+WHERE id = \$1`).
			WithArgs(int64(11)).
			WillReturnRows(ledgerRow(&domain.LedgerEntry{
				ID: 11, UserID: 7, Status: domain.LedgerStatusReversed,
				Direction: domain.LedgerDirectionDebit, Amount: 600, CreatedAt: now,
			}))

		_, err := repo.Finalize(ctx, 11)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_Reverse(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepository(mock)
	ctx := context.Background()
	now := time.Now()

	t.Run("Completed credit gets compensating debit", func(t *testing.T) {
		mock.ExpectQuery(`FROM ledger_entries\s+WHERE id = \$1`).
			WithArgs(int64(10)).
			WillReturnRows(ledgerRow(&domain.LedgerEntry{
				ID: 10, UserID: 7, Seq: 4, Direction: domain.LedgerDirectionCredit, Amount: 500,
				Category: domain.LedgerCategoryCourseEarning, BalanceAfter: 1500,
				Status: domain.LedgerStatusCompleted, CreatedAt: now,
			}))

		mock.ExpectExec(`SET status = 'reversed'`).
			WithArgs(int64(10)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		// Баланс все еще содержит оригинал: reversed остается в сумме
		mock.ExpectQuery(`COALESCE\(SUM`).
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows([]string{"balance", "reserved", "last_seq"}).AddRow(int64(1500), int64(0), int64(6)))

		mock.ExpectQuery(`INSERT INTO ledger_entries`).
			WithArgs(int64(7), int64(7), domain.LedgerDirectionDebit, int64(500), domain.LedgerCategoryRefund,
				"order:1:refund", "reverse:10", int64(1000)).
			WillReturnRows(ledgerRow(&domain.LedgerEntry{
				ID: 15, UserID: 7, Seq: 7, Direction: domain.LedgerDirectionDebit, Amount: 500,
				Category: domain.LedgerCategoryRefund, Reference: "order:1:refund",
				IdempotencyKey: "reverse:10", BalanceAfter: 1000,
				Status: domain.LedgerStatusCompleted, CreatedAt: now,
			}))

		entry, err := repo.Reverse(ctx, 10, domain.LedgerCategoryRefund, "order:1:refund")
		require.NoError(t, err)
		assert.Equal(t, domain.LedgerDirectionDebit, entry.Direction)
		assert.Equal(t, int64(1000), entry.BalanceAfter)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already reversed returns compensating entry", func(t *testing.T) {
		mock.ExpectQuery(`FROM ledger_entries\s+WHERE id = \$1`).
			WithArgs(int64(10)).
			WillReturnRows(ledgerRow(&domain.LedgerEntry{
				ID: 10, UserID: 7, Direction: domain.LedgerDirectionCredit, Amount: 500,
				Status: domain.LedgerStatusReversed, CreatedAt: now,
			}))

		mock.ExpectQuery(`WHERE user_id = \$1 AND idempotency_key = \$2`).
			WithArgs(int64(7), "reverse:10").
			WillReturnRows(ledgerRow(&domain.LedgerEntry{
				ID: 15, UserID: 7, Direction: domain.LedgerDirectionDebit, Amount: 500,
				IdempotencyKey: "reverse:10", Status: domain.LedgerStatusCompleted, CreatedAt: now,
			}))

		entry, err := repo.Reverse(ctx, 10, domain.LedgerCategoryRefund, "order:1:refund")
		require.NoError(t, err)
		assert.Equal(t, int64(15), entry.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Concurrent reverse loses the update", func(t *testing.T) {
		mock.ExpectQuery(`FROM ledger_entries\s+WHERE id = \$1`).
			WithArgs(int64(10)).
			WillReturnRows(ledgerRow(&domain.LedgerEntry{
				ID: 10, UserID: 7, Direction: domain.LedgerDirectionCredit, Amount: 500,
				Status: domain.LedgerStatusCompleted, CreatedAt: now,
			}))

		mock.ExpectExec(`SET status = 'reversed'`).
			WithArgs(int64(10)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		_, err := repo.Reverse(ctx, 10, domain.LedgerCategoryRefund, "order:1:refund")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_Balance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepository(mock)
	ctx := context.Background()

	mock.ExpectQuery(`lifetime_earned`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"total", "reserved", "lifetime_earned", "lifetime_withdrawn"}).
			AddRow(int64(1000), int64(300), int64(2500), int64(1500)))

	balance, err := repo.Balance(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance.Total)
	assert.Equal(t, int64(700), balance.Available)
	assert.Equal(t, int64(300), balance.Reserved)
	assert.Equal(t, int64(2500), balance.LifetimeEarned)
	assert.Equal(t, int64(1500), balance.LifetimeWithdrawn)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_Scan(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepository(mock)
	ctx := context.Background()
	now := time.Now()

	t.Run("Default limit without filters", func(t *testing.T) {
		mock.ExpectQuery(`ORDER BY seq DESC LIMIT \$2`).
			WithArgs(int64(7), 50).
			WillReturnRows(ledgerRow(&domain.LedgerEntry{
				ID: 10, UserID: 7, Seq: 4, Direction: domain.LedgerDirectionCredit, Amount: 500,
				Category: domain.LedgerCategoryCourseEarning, Status: domain.LedgerStatusCompleted, CreatedAt: now,
			}))

		entries, err := repo.Scan(ctx, 7, domain.LedgerFilter{})
		require.NoError(t, err)
		assert.Len(t, entries, 1)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Category and cursor filters", func(t *testing.T) {
		category := domain.LedgerCategoryRefund

		mock.ExpectQuery(`AND category = \$2 AND seq < \$3 ORDER BY seq DESC LIMIT \$4`).
			WithArgs(int64(7), category, int64(100), 10).
			WillReturnRows(pgxmock.NewRows(ledgerCols))

		entries, err := repo.Scan(ctx, 7, domain.LedgerFilter{Category: &category, Cursor: 100, Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, entries)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
