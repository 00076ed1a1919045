package postgres

import (
	"context"
	"fmt"

	"github.com/skillmint/marketplace-core/internal/domain"
)

// EnrollmentRepository реализует domain.EnrollmentRepository
type EnrollmentRepository struct {
	db DBTX
}

// NewEnrollmentRepository создает новый EnrollmentRepository
func NewEnrollmentRepository(db DBTX) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Grant выдает зачисление на курс. Идемпотентен по заказу: повторный
// вызов для того же заказа возвращает created=false.
func (r *EnrollmentRepository) Grant(ctx context.Context, e *domain.Enrollment) (bool, error) {
	result, err := r.db.Exec(ctx,
		`INSERT INTO enrollments (user_id, course_id, order_id, active)
		 VALUES ($1, $2, $3, TRUE)
		 ON CONFLICT (order_id) DO NOTHING`,
		e.UserID, e.CourseID, e.OrderID,
	)

	if err != nil {
		return false, fmt.Errorf("repository: failed to grant enrollment for order %d: %w", e.OrderID, err)
	}

	return result.RowsAffected() > 0, nil
}

// RevokeByOrder отзывает зачисление по заказу (полный возврат)
func (r *EnrollmentRepository) RevokeByOrder(ctx context.Context, orderID int64) (bool, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE enrollments
		 SET active = FALSE
		 WHERE order_id = $1 AND active`,
		orderID,
	)

	if err != nil {
		return false, fmt.Errorf("repository: failed to revoke enrollment for order %d: %w", orderID, err)
	}

	return result.RowsAffected() > 0, nil
}
