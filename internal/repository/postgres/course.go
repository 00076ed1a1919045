package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/skillmint/marketplace-core/internal/domain"
)

// CourseRepository реализует domain.CourseRepository
type CourseRepository struct {
	db DBTX
}

// NewCourseRepository создает новый CourseRepository
func NewCourseRepository(db DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

// GetByID получает курс по ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*domain.Course, error) {
	course := &domain.Course{}

	err := r.db.QueryRow(ctx,
		`SELECT id, instructor_id, title, price, discounted_price, commission_rate_bp, enrollment_count, active, created_at
		 FROM courses
		 WHERE id = $1`,
		id,
	).Scan(&course.ID, &course.InstructorID, &course.Title, &course.Price, &course.DiscountedPrice,
		&course.CommissionRateBp, &course.EnrollmentCount, &course.Active, &course.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, fmt.Errorf("repository: failed to get course by id %d: %w", id, err)
	}

	return course, nil
}

// AdjustEnrollment изменяет счетчик зачислений курса
func (r *CourseRepository) AdjustEnrollment(ctx context.Context, id int64, delta int) error {
	result, err := r.db.Exec(ctx,
		`UPDATE courses
		 SET enrollment_count = enrollment_count + $2
		 WHERE id = $1`,
		id, delta,
	)

	if err != nil {
		return fmt.Errorf("repository: failed to adjust enrollment count for course %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCourseNotFound
	}

	return nil
}
