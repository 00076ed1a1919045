package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmint/marketplace-core/internal/domain"
)

var commissionCols = []string{
	"id", "affiliate_id", "referred_user_id", "order_id", "course_id",
	"level", "rate_bp", "amount", "status", "hold_until", "created_at", "updated_at",
}

func commissionRow(c *domain.Commission) *pgxmock.Rows {
	return pgxmock.NewRows(commissionCols).AddRow(
		c.ID, c.AffiliateID, c.ReferredUserID, c.OrderID, c.CourseID,
		c.Level, c.RateBp, c.Amount, c.Status, c.HoldUntil, c.CreatedAt, c.UpdatedAt,
	)
}

func TestCommissionRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCommissionRepository(mock)
	ctx := context.Background()
	holdUntil := time.Now().Add(7 * 24 * time.Hour)

	commission := &domain.Commission{
		AffiliateID: 3, ReferredUserID: 7, OrderID: 1, CourseID: 2,
		Level: 1, RateBp: 1000, Amount: 9000,
		Status: domain.CommissionStatusPending, HoldUntil: holdUntil,
	}

	t.Run("Success writes audit event", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO commissions`).
			WithArgs(int64(3), int64(7), int64(1), int64(2), 1, int32(1000), int64(9000),
				domain.CommissionStatusPending, holdUntil).
			WillReturnRows(commissionRow(&domain.Commission{
				ID: 5, AffiliateID: 3, ReferredUserID: 7, OrderID: 1, CourseID: 2,
				Level: 1, RateBp: 1000, Amount: 9000,
				Status: domain.CommissionStatusPending, HoldUntil: holdUntil,
			}))

		mock.ExpectExec(`INSERT INTO commission_events`).
			WithArgs(int64(5), domain.CommissionStatus(""), domain.CommissionStatusPending, "created").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		created, wasNew, err := repo.Create(ctx, commission)
		require.NoError(t, err)
		assert.True(t, wasNew)
		assert.Equal(t, int64(5), created.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate order level returns existing", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO commissions`).
			WithArgs(int64(3), int64(7), int64(1), int64(2), 1, int32(1000), int64(9000),
				domain.CommissionStatusPending, holdUntil).
			WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

		mock.ExpectQuery(`WHERE order_id = \$1 AND level = \$2 AND status <> 'cancelled'`).
			WithArgs(int64(1), 1).
			WillReturnRows(commissionRow(&domain.Commission{
				ID: 5, AffiliateID: 3, OrderID: 1, Level: 1, Amount: 9000,
				Status: domain.CommissionStatusPending, HoldUntil: holdUntil,
			}))

		existing, wasNew, err := repo.Create(ctx, commission)
		require.NoError(t, err)
		assert.False(t, wasNew)
		assert.Equal(t, int64(5), existing.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCommissionRepository_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCommissionRepository(mock)
	ctx := context.Background()
	from := []domain.CommissionStatus{domain.CommissionStatusPending, domain.CommissionStatusUnderReview}

	t.Run("Transition applied with audit", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE commissions`).
			WithArgs(int64(5), domain.CommissionStatusApproved, from).
			WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(domain.CommissionStatusPending))

		mock.ExpectExec(`INSERT INTO commission_events`).
			WithArgs(int64(5), domain.CommissionStatusPending, domain.CommissionStatusApproved, "approved manually").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		applied, err := repo.UpdateStatus(ctx, 5, from, domain.CommissionStatusApproved, "approved manually")
		require.NoError(t, err)
		assert.True(t, applied)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Guard rejects transition", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE commissions`).
			WithArgs(int64(5), domain.CommissionStatusApproved, from).
			WillReturnError(pgx.ErrNoRows)

		applied, err := repo.UpdateStatus(ctx, 5, from, domain.CommissionStatusApproved, "approved manually")
		require.NoError(t, err)
		assert.False(t, applied)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCommissionRepository_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCommissionRepository(mock)
	ctx := context.Background()

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery(`FROM commissions\s+WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrCommissionNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCommissionRepository_ListByOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCommissionRepository(mock)
	ctx := context.Background()

	rows := commissionRow(&domain.Commission{
		ID: 5, AffiliateID: 3, OrderID: 1, Level: 1, Amount: 9000,
		Status: domain.CommissionStatusPaid,
	}).AddRow(
		int64(6), int64(4), int64(7), int64(1), int64(2), 2, int32(300), int64(2700),
		domain.CommissionStatusPending, time.Time{}, time.Time{}, time.Time{},
	)

	mock.ExpectQuery(`WHERE order_id = \$1\s+ORDER BY level ASC`).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	commissions, err := repo.ListByOrder(ctx, 1)
	require.NoError(t, err)
	require.Len(t, commissions, 2)
	assert.Equal(t, 2, commissions[1].Level)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommissionRepository_ListDueIDs(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCommissionRepository(mock)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(`WHERE status = 'pending' AND hold_until <= \$1`).
		WithArgs(now, 100).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)).AddRow(int64(6)))

	ids, err := repo.ListDueIDs(ctx, now, 100)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6}, ids)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommissionRepository_ExpirePendingBefore(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCommissionRepository(mock)
	ctx := context.Background()
	before := time.Now().Add(-30 * 24 * time.Hour)

	mock.ExpectQuery(`WITH expired AS`).
		WithArgs(domain.CommissionStatusPending, before).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := repo.ExpirePendingBefore(ctx, before)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	assert.NoError(t, mock.ExpectationsWereMet())
}
