package postgres

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmint/marketplace-core/internal/domain"
)

func TestEnrollmentRepository_Grant(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEnrollmentRepository(mock)
	ctx := context.Background()
	enrollment := &domain.Enrollment{UserID: 7, CourseID: 2, OrderID: 1}

	t.Run("First grant", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO enrollments`).
			WithArgs(int64(7), int64(2), int64(1)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		granted, err := repo.Grant(ctx, enrollment)
		require.NoError(t, err)
		assert.True(t, granted)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Repeat grant for same order is a no-op", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO enrollments`).
			WithArgs(int64(7), int64(2), int64(1)).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))

		granted, err := repo.Grant(ctx, enrollment)
		require.NoError(t, err)
		assert.False(t, granted)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEnrollmentRepository_RevokeByOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEnrollmentRepository(mock)
	ctx := context.Background()

	t.Run("Active enrollment revoked", func(t *testing.T) {
		mock.ExpectExec(`SET active = FALSE`).
			WithArgs(int64(1)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		revoked, err := repo.RevokeByOrder(ctx, 1)
		require.NoError(t, err)
		assert.True(t, revoked)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nothing to revoke", func(t *testing.T) {
		mock.ExpectExec(`SET active = FALSE`).
			WithArgs(int64(1)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		revoked, err := repo.RevokeByOrder(ctx, 1)
		require.NoError(t, err)
		assert.False(t, revoked)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
