package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/skillmint/marketplace-core/internal/domain"
)

// LedgerRepository реализует domain.LedgerRepository.
//
// Инвариант учета: записи completed и reversed входят в баланс с
// обычным знаком, компенсирующая запись сторнирования обнуляет эффект
// пары. Запись pending (резервация) в баланс не входит, но уменьшает
// available. Post, Finalize и Reverse должны выполняться внутри
// UnitOfWork, удерживающего advisory-блокировку владельца.
type LedgerRepository struct {
	db DBTX
}

// NewLedgerRepository создает новый LedgerRepository
func NewLedgerRepository(db DBTX) *LedgerRepository {
	return &LedgerRepository{db: db}
}

const ledgerColumns = `id, user_id, seq, direction, amount, category, reference, idempotency_key, balance_after, status, created_at`

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	e := &domain.LedgerEntry{}
	err := row.Scan(&e.ID, &e.UserID, &e.Seq, &e.Direction, &e.Amount, &e.Category,
		&e.Reference, &e.IdempotencyKey, &e.BalanceAfter, &e.Status, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ownerState возвращает баланс, резерв и последний seq владельца
func (r *LedgerRepository) ownerState(ctx context.Context, userID int64) (balance, reserved, lastSeq int64, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN status IN ('completed', 'reversed')
				THEN CASE WHEN direction = 'credit' THEN amount ELSE -amount END
				ELSE 0 END), 0) AS balance,
			COALESCE(SUM(CASE WHEN status = 'pending' AND direction = 'debit' THEN amount ELSE 0 END), 0) AS reserved,
			COALESCE(MAX(seq), 0) AS last_seq
		 FROM ledger_entries
		 WHERE user_id = $1`,
		userID,
	).Scan(&balance, &reserved, &lastSeq)

	if err != nil {
		return 0, 0, 0, fmt.Errorf("repository: failed to get ledger state for user %d: %w", userID, err)
	}

	return balance, reserved, lastSeq, nil
}

// GetByKey возвращает запись по ключу идемпотентности
func (r *LedgerRepository) GetByKey(ctx context.Context, userID int64, key string) (*domain.LedgerEntry, error) {
	return r.getByIdempotencyKey(ctx, userID, key)
}

// getByIdempotencyKey возвращает запись по ключу идемпотентности
func (r *LedgerRepository) getByIdempotencyKey(ctx context.Context, userID int64, key string) (*domain.LedgerEntry, error) {
	entry, err := scanLedgerEntry(r.db.QueryRow(ctx,
		`SELECT `+ledgerColumns+`
		 FROM ledger_entries
		 WHERE user_id = $1 AND idempotency_key = $2`,
		userID, key,
	))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("repository: failed to get ledger entry by key %q: %w", key, err)
	}

	return entry, nil
}

// Post добавляет запись в леджер. Повторный вызов с тем же ключом
// идемпотентности возвращает исходную запись без новой вставки.
func (r *LedgerRepository) Post(ctx context.Context, p domain.PostParams) (*domain.LedgerEntry, error) {
	if p.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	if p.IdempotencyKey != "" {
		existing, err := r.getByIdempotencyKey(ctx, p.UserID, p.IdempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, domain.ErrEntryNotFound) {
			return nil, err
		}
	}

	balance, reserved, lastSeq, err := r.ownerState(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	if p.Direction == domain.LedgerDirectionDebit && !p.AllowNegative {
		if balance-reserved < p.Amount {
			return nil, domain.ErrInsufficientFunds
		}
	}

	status := domain.LedgerStatusCompleted
	balanceAfter := balance
	if p.Pending {
		status = domain.LedgerStatusPending
	} else if p.Direction == domain.LedgerDirectionCredit {
		balanceAfter += p.Amount
	} else {
		balanceAfter -= p.Amount
	}

	entry, err := scanLedgerEntry(r.db.QueryRow(ctx,
		`INSERT INTO ledger_entries (user_id, seq, direction, amount, category, reference, idempotency_key, balance_after, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+ledgerColumns,
		p.UserID, lastSeq+1, p.Direction, p.Amount, p.Category, p.Reference, p.IdempotencyKey, balanceAfter, status,
	))

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && p.IdempotencyKey != "" {
			return r.getByIdempotencyKey(ctx, p.UserID, p.IdempotencyKey)
		}
		return nil, fmt.Errorf("repository: failed to post ledger entry for user %d: %w", p.UserID, err)
	}

	return entry, nil
}

// Finalize переводит резервацию из pending в completed, окончательно
// списывая средства. Повторный вызов возвращает запись без изменений.
func (r *LedgerRepository) Finalize(ctx context.Context, entryID int64) (*domain.LedgerEntry, error) {
	entry, err := r.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if entry.Status == domain.LedgerStatusCompleted {
		return entry, nil
	}
	if entry.Status != domain.LedgerStatusPending {
		return nil, domain.ErrInvalidTransition
	}

	balance, _, _, err := r.ownerState(ctx, entry.UserID)
	if err != nil {
		return nil, err
	}

	balanceAfter := balance - entry.Amount
	if entry.Direction == domain.LedgerDirectionCredit {
		balanceAfter = balance + entry.Amount
	}

	finalized, err := scanLedgerEntry(r.db.QueryRow(ctx,
		`UPDATE ledger_entries
		 SET status = 'completed', balance_after = $2
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+ledgerColumns,
		entryID, balanceAfter,
	))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, fmt.Errorf("repository: failed to finalize ledger entry %d: %w", entryID, err)
	}

	return finalized, nil
}

// Reverse сторнирует запись: оригинал помечается reversed, в леджер
// добавляется компенсирующая запись противоположного направления.
// Обе записи остаются в истории. Идемпотентен по исходной записи.
func (r *LedgerRepository) Reverse(ctx context.Context, entryID int64, category domain.LedgerCategory, reference string) (*domain.LedgerEntry, error) {
	original, err := r.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	compKey := "reverse:" + strconv.FormatInt(entryID, 10)

	if original.Status == domain.LedgerStatusReversed {
		return r.getByIdempotencyKey(ctx, original.UserID, compKey)
	}

	// Пометка reversed вводит запись в баланс (в том числе бывшую
	// pending-резервацию), компенсирующая запись тут же его выравнивает:
	// пара в сумме не меняет баланс владельца.
	tag, err := r.db.Exec(ctx,
		`UPDATE ledger_entries
		 SET status = 'reversed'
		 WHERE id = $1 AND status IN ('pending', 'completed')`,
		entryID,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to mark ledger entry %d reversed: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrInvalidTransition
	}

	balance, _, lastSeq, err := r.ownerState(ctx, original.UserID)
	if err != nil {
		return nil, err
	}

	compDirection := domain.LedgerDirectionCredit
	balanceAfter := balance + original.Amount
	if original.Direction == domain.LedgerDirectionCredit {
		compDirection = domain.LedgerDirectionDebit
		balanceAfter = balance - original.Amount
	}

	entry, err := scanLedgerEntry(r.db.QueryRow(ctx,
		`INSERT INTO ledger_entries (user_id, seq, direction, amount, category, reference, idempotency_key, balance_after, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'completed')
		 RETURNING `+ledgerColumns,
		original.UserID, lastSeq+1, compDirection, original.Amount, category, reference, compKey, balanceAfter,
	))

	if err != nil {
		return nil, fmt.Errorf("repository: failed to post compensating entry for %d: %w", entryID, err)
	}

	return entry, nil
}

// GetByID получает запись леджера по идентификатору
func (r *LedgerRepository) GetByID(ctx context.Context, entryID int64) (*domain.LedgerEntry, error) {
	entry, err := scanLedgerEntry(r.db.QueryRow(ctx,
		`SELECT `+ledgerColumns+`
		 FROM ledger_entries
		 WHERE id = $1`,
		entryID,
	))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("repository: failed to get ledger entry %d: %w", entryID, err)
	}

	return entry, nil
}

// Balance возвращает денежное состояние кошелька пользователя
func (r *LedgerRepository) Balance(ctx context.Context, userID int64) (*domain.Balance, error) {
	b := &domain.Balance{}

	err := r.db.QueryRow(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN status IN ('completed', 'reversed')
				THEN CASE WHEN direction = 'credit' THEN amount ELSE -amount END
				ELSE 0 END), 0) AS total,
			COALESCE(SUM(CASE WHEN status = 'pending' AND direction = 'debit' THEN amount ELSE 0 END), 0) AS reserved,
			COALESCE(SUM(CASE WHEN status IN ('completed', 'reversed')
					AND category IN ('course_earning', 'commission_payout')
				THEN CASE WHEN direction = 'credit' THEN amount ELSE -amount END
				ELSE 0 END), 0) AS lifetime_earned,
			COALESCE(SUM(CASE WHEN status = 'completed' AND direction = 'debit'
					AND category = 'withdrawal_reserve'
				THEN amount ELSE 0 END), 0) AS lifetime_withdrawn
		 FROM ledger_entries
		 WHERE user_id = $1`,
		userID,
	).Scan(&b.Total, &b.Reserved, &b.LifetimeEarned, &b.LifetimeWithdrawn)

	if err != nil {
		return nil, fmt.Errorf("repository: failed to get balance for user %d: %w", userID, err)
	}

	b.Available = b.Total - b.Reserved
	return b, nil
}

// Scan возвращает страницу записей леджера владельца, от новых к старым
func (r *LedgerRepository) Scan(ctx context.Context, userID int64, f domain.LedgerFilter) ([]*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE user_id = $1`
	args := []any{userID}

	if f.Category != nil {
		args = append(args, *f.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f.Direction != nil {
		args = append(args, *f.Direction)
		query += fmt.Sprintf(" AND direction = $%d", len(args))
	}
	if f.Cursor > 0 {
		args = append(args, f.Cursor)
		query += fmt.Sprintf(" AND seq < $%d", len(args))
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY seq DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan ledger for user %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating ledger entries: %w", err)
	}

	return entries, nil
}
