package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/skillmint/marketplace-core/internal/domain"
)

// CommissionRepository реализует domain.CommissionRepository
type CommissionRepository struct {
	db DBTX
}

// NewCommissionRepository создает новый CommissionRepository
func NewCommissionRepository(db DBTX) *CommissionRepository {
	return &CommissionRepository{db: db}
}

const commissionColumns = `id, affiliate_id, referred_user_id, order_id, course_id, level, rate_bp, amount, status, hold_until, created_at, updated_at`

func scanCommission(row pgx.Row) (*domain.Commission, error) {
	c := &domain.Commission{}
	err := row.Scan(&c.ID, &c.AffiliateID, &c.ReferredUserID, &c.OrderID, &c.CourseID,
		&c.Level, &c.RateBp, &c.Amount, &c.Status, &c.HoldUntil, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// logEvent добавляет запись аудита смены статуса
func (r *CommissionRepository) logEvent(ctx context.Context, commissionID int64, from, to domain.CommissionStatus, note string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO commission_events (commission_id, from_status, to_status, note)
		 VALUES ($1, $2, $3, $4)`,
		commissionID, from, to, note,
	)

	if err != nil {
		return fmt.Errorf("repository: failed to log commission event for %d: %w", commissionID, err)
	}

	return nil
}

// Create создает комиссию. Для (orderID, level) среди неотмененных
// записей допускается только одна: повторная вставка возвращает
// существующую с признаком created=false.
func (r *CommissionRepository) Create(ctx context.Context, c *domain.Commission) (*domain.Commission, bool, error) {
	created, err := scanCommission(r.db.QueryRow(ctx,
		`INSERT INTO commissions (affiliate_id, referred_user_id, order_id, course_id, level, rate_bp, amount, status, hold_until)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+commissionColumns,
		c.AffiliateID, c.ReferredUserID, c.OrderID, c.CourseID, c.Level, c.RateBp, c.Amount, c.Status, c.HoldUntil,
	))

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			existing, getErr := r.getActiveByOrderLevel(ctx, c.OrderID, c.Level)
			if getErr != nil {
				return nil, false, fmt.Errorf("repository: failed to get existing commission: %w", getErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("repository: failed to create commission for order %d level %d: %w", c.OrderID, c.Level, err)
	}

	if err := r.logEvent(ctx, created.ID, "", created.Status, "created"); err != nil {
		return nil, false, err
	}

	return created, true, nil
}

// getActiveByOrderLevel возвращает неотмененную комиссию уровня заказа
func (r *CommissionRepository) getActiveByOrderLevel(ctx context.Context, orderID int64, level int) (*domain.Commission, error) {
	commission, err := scanCommission(r.db.QueryRow(ctx,
		`SELECT `+commissionColumns+`
		 FROM commissions
		 WHERE order_id = $1 AND level = $2 AND status <> 'cancelled'`,
		orderID, level,
	))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommissionNotFound
		}
		return nil, err
	}

	return commission, nil
}

// GetByID получает комиссию по ID
func (r *CommissionRepository) GetByID(ctx context.Context, id int64) (*domain.Commission, error) {
	commission, err := scanCommission(r.db.QueryRow(ctx,
		`SELECT `+commissionColumns+`
		 FROM commissions
		 WHERE id = $1`,
		id,
	))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommissionNotFound
		}
		return nil, fmt.Errorf("repository: failed to get commission by id %d: %w", id, err)
	}

	return commission, nil
}

// ListByOrder возвращает все комиссии заказа
func (r *CommissionRepository) ListByOrder(ctx context.Context, orderID int64) ([]*domain.Commission, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+commissionColumns+`
		 FROM commissions
		 WHERE order_id = $1
		 ORDER BY level ASC`,
		orderID,
	)

	if err != nil {
		return nil, fmt.Errorf("repository: failed to list commissions for order %d: %w", orderID, err)
	}
	defer rows.Close()

	return collectCommissions(rows)
}

// ListByAffiliate возвращает страницу комиссий партнера, от новых к старым
func (r *CommissionRepository) ListByAffiliate(ctx context.Context, affiliateID int64, limit, offset int) ([]*domain.Commission, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+commissionColumns+`
		 FROM commissions
		 WHERE affiliate_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		affiliateID, limit, offset,
	)

	if err != nil {
		return nil, fmt.Errorf("repository: failed to list commissions for affiliate %d: %w", affiliateID, err)
	}
	defer rows.Close()

	return collectCommissions(rows)
}

func collectCommissions(rows pgx.Rows) ([]*domain.Commission, error) {
	var commissions []*domain.Commission
	for rows.Next() {
		commission, err := scanCommission(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan commission: %w", err)
		}
		commissions = append(commissions, commission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating commissions: %w", err)
	}

	return commissions, nil
}

// UpdateStatus выполняет переход статуса комиссии только из
// перечисленных состояний и пишет запись аудита
func (r *CommissionRepository) UpdateStatus(ctx context.Context, id int64, from []domain.CommissionStatus, to domain.CommissionStatus, note string) (bool, error) {
	var oldStatus domain.CommissionStatus

	err := r.db.QueryRow(ctx,
		`UPDATE commissions
		 SET status = $2, updated_at = NOW()
		 WHERE id = $1 AND status = ANY($3)
		 RETURNING (SELECT status FROM commissions WHERE id = $1)`,
		id, to, from,
	).Scan(&oldStatus)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("repository: failed to update commission %d status to %s: %w", id, to, err)
	}

	if err := r.logEvent(ctx, id, oldStatus, to, note); err != nil {
		return false, err
	}

	return true, nil
}

// ListDueIDs возвращает комиссии с истекшим периодом удержания
func (r *CommissionRepository) ListDueIDs(ctx context.Context, now time.Time, limit int) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id
		 FROM commissions
		 WHERE status = 'pending' AND hold_until <= $1
		 ORDER BY hold_until ASC
		 LIMIT $2`,
		now, limit,
	)

	if err != nil {
		return nil, fmt.Errorf("repository: failed to list due commissions: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("repository: failed to scan commission id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating due commissions: %w", err)
	}

	return ids, nil
}

// ExpirePendingBefore переводит застоявшиеся pending комиссии в expired
func (r *CommissionRepository) ExpirePendingBefore(ctx context.Context, before time.Time) (int64, error) {
	return r.expireBefore(ctx, domain.CommissionStatusPending, before)
}

// ExpireApprovedBefore переводит застоявшиеся approved комиссии в expired
func (r *CommissionRepository) ExpireApprovedBefore(ctx context.Context, before time.Time) (int64, error) {
	return r.expireBefore(ctx, domain.CommissionStatusApproved, before)
}

func (r *CommissionRepository) expireBefore(ctx context.Context, status domain.CommissionStatus, before time.Time) (int64, error) {
	var count int64

	err := r.db.QueryRow(ctx,
		`WITH expired AS (
			UPDATE commissions
			SET status = 'expired', updated_at = NOW()
			WHERE status = $1 AND created_at < $2
			RETURNING id
		 ), logged AS (
			INSERT INTO commission_events (commission_id, from_status, to_status, note)
			SELECT id, $1, 'expired', 'auto-expired' FROM expired
		 )
		 SELECT COUNT(*) FROM expired`,
		status, before,
	).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("repository: failed to expire %s commissions: %w", status, err)
	}

	return count, nil
}
