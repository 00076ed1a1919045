package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/skillmint/marketplace-core/internal/domain"
)

// OrderRepository реализует domain.OrderRepository
type OrderRepository struct {
	db DBTX
}

// NewOrderRepository создает новый OrderRepository
func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, user_id, course_id, gross_amount, discount, final_amount, currency, referrer_id, payment_method, status, gateway_order_id, gateway_payment_id, reserve_entry_id, refunded_amount, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	o := &domain.Order{}
	err := row.Scan(&o.ID, &o.UserID, &o.CourseID, &o.GrossAmount, &o.Discount, &o.FinalAmount,
		&o.Currency, &o.ReferrerID, &o.PaymentMethod, &o.Status, &o.GatewayOrderID,
		&o.GatewayPaymentID, &o.ReserveEntryID, &o.RefundedAmount, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Create создает новый заказ
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	created, err := scanOrder(r.db.QueryRow(ctx,
		`INSERT INTO orders (user_id, course_id, gross_amount, discount, final_amount, currency, referrer_id, payment_method, status, gateway_order_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+orderColumns,
		o.UserID, o.CourseID, o.GrossAmount, o.Discount, o.FinalAmount, o.Currency,
		o.ReferrerID, o.PaymentMethod, o.Status, o.GatewayOrderID,
	))

	if err != nil {
		return nil, fmt.Errorf("repository: failed to create order for user %d: %w", o.UserID, err)
	}

	return created, nil
}

// GetByID получает заказ по ID
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx,
		`SELECT `+orderColumns+`
		 FROM orders
		 WHERE id = $1`,
		id,
	))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to get order by id %d: %w", id, err)
	}

	return order, nil
}

// GetByGatewayOrderID получает заказ по идентификатору заказа шлюза
func (r *OrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx,
		`SELECT `+orderColumns+`
		 FROM orders
		 WHERE gateway_order_id = $1`,
		gatewayOrderID,
	))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to get order by gateway order id %q: %w", gatewayOrderID, err)
	}

	return order, nil
}

// GetByGatewayPaymentID получает заказ по идентификатору платежа шлюза
func (r *OrderRepository) GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx,
		`SELECT `+orderColumns+`
		 FROM orders
		 WHERE gateway_payment_id = $1`,
		gatewayPaymentID,
	))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to get order by gateway payment id %q: %w", gatewayPaymentID, err)
	}

	return order, nil
}

// HasCompleted сообщает, есть ли у пользователя завершенный заказ курса
func (r *OrderRepository) HasCompleted(ctx context.Context, userID, courseID int64) (bool, error) {
	var exists bool

	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM orders
			WHERE user_id = $1 AND course_id = $2 AND status IN ('completed', 'partially_refunded')
		 )`,
		userID, courseID,
	).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("repository: failed to check completed order for user %d course %d: %w", userID, courseID, err)
	}

	return exists, nil
}

// UpdateStatus выполняет переход статуса заказа только из перечисленных
// состояний и сообщает, был ли он применен
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, from []domain.OrderStatus, to domain.OrderStatus) (bool, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE orders
		 SET status = $2, updated_at = NOW()
		 WHERE id = $1 AND status = ANY($3)`,
		id, to, from,
	)

	if err != nil {
		return false, fmt.Errorf("repository: failed to update order %d status to %s: %w", id, to, err)
	}

	return result.RowsAffected() > 0, nil
}

// SetGatewayPayment сохраняет идентификатор платежа шлюза
func (r *OrderRepository) SetGatewayPayment(ctx context.Context, id int64, gatewayPaymentID string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE orders
		 SET gateway_payment_id = $2, updated_at = NOW()
		 WHERE id = $1`,
		id, gatewayPaymentID,
	)

	if err != nil {
		return fmt.Errorf("repository: failed to set gateway payment id for order %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

// SetReserveEntry связывает заказ с резервационной записью леджера
func (r *OrderRepository) SetReserveEntry(ctx context.Context, id, entryID int64) error {
	result, err := r.db.Exec(ctx,
		`UPDATE orders
		 SET reserve_entry_id = $2, updated_at = NOW()
		 WHERE id = $1`,
		id, entryID,
	)

	if err != nil {
		return fmt.Errorf("repository: failed to set reserve entry for order %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

// AddRefundedAmount увеличивает возвращенную по заказу сумму
func (r *OrderRepository) AddRefundedAmount(ctx context.Context, id, amount int64) error {
	result, err := r.db.Exec(ctx,
		`UPDATE orders
		 SET refunded_amount = refunded_amount + $2, updated_at = NOW()
		 WHERE id = $1`,
		id, amount,
	)

	if err != nil {
		return fmt.Errorf("repository: failed to add refunded amount for order %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

// GetStalePending возвращает зависшие pending заказы для авто-отмены
func (r *OrderRepository) GetStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+`
		 FROM orders
		 WHERE status = 'pending' AND created_at < $1
		 ORDER BY created_at ASC
		 LIMIT $2`,
		olderThan, limit,
	)

	if err != nil {
		return nil, fmt.Errorf("repository: failed to get stale pending orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating stale pending orders: %w", err)
	}

	return orders, nil
}
