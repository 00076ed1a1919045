package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/skillmint/marketplace-core/internal/domain"
)

// NewRepos собирает репозитории, привязанные к одному DBTX
func NewRepos(db DBTX) domain.Repos {
	return domain.Repos{
		Users:       NewUserRepository(db),
		Courses:     NewCourseRepository(db),
		Orders:      NewOrderRepository(db),
		Ledger:      NewLedgerRepository(db),
		Commissions: NewCommissionRepository(db),
		Withdrawals: NewWithdrawalRepository(db),
		Enrollments: NewEnrollmentRepository(db),
	}
}

// UnitOfWork реализует domain.UnitOfWork поверх pgx-транзакций.
// Сериализация операций по кошелькам достигается advisory-блокировками
// по идентификатору владельца; блокировки берутся в возрастающем
// порядке, чтобы исключить взаимоблокировку двусторонних операций.
type UnitOfWork struct {
	db DBTX
}

// NewUnitOfWork создает новый UnitOfWork
func NewUnitOfWork(db DBTX) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do выполняет fn в одной транзакции, удерживая блокировки владельцев
func (u *UnitOfWork) Do(ctx context.Context, ownerIDs []int64, fn func(r domain.Repos) error) error {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // Rollback после Commit безопасен

	for _, ownerID := range lockOrder(ownerIDs) {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, ownerID); err != nil {
			return fmt.Errorf("repository: failed to acquire lock for owner %d: %w", ownerID, err)
		}
	}

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit transaction: %w", err)
	}

	return nil
}

// lockOrder сортирует владельцев по возрастанию и убирает дубликаты
func lockOrder(ownerIDs []int64) []int64 {
	ids := make([]int64, len(ownerIDs))
	copy(ids, ownerIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := ids[:0]
	var prev int64
	for i, id := range ids {
		if i == 0 || id != prev {
			out = append(out, id)
		}
		prev = id
	}

	return out
}
