package domain

import (
	"context"
	"time"
)

// PostParams описывает параметры добавления записи в леджер
type PostParams struct {
	UserID         int64
	Direction      LedgerDirection
	Amount         int64
	Category       LedgerCategory
	Reference      string
	IdempotencyKey string
	// Pending помечает запись как резервацию: она не уменьшает баланс,
	// но учитывается в reserved и уменьшает available.
	Pending bool
	// AllowNegative разрешает списанию увести available ниже нуля.
	// Единственный легальный случай — сторнирование выплаченной
	// комиссии при возврате заказа.
	AllowNegative bool
}

// LedgerFilter описывает параметры выборки записей леджера.
// Cursor — seq последней увиденной записи, 0 означает "с начала"
// (выборка идет по убыванию seq).
type LedgerFilter struct {
	Category  *LedgerCategory
	Direction *LedgerDirection
	Cursor    int64
	Limit     int
}

// LedgerRepository определяет методы двойной записи кошелька.
// Post, Finalize и Reverse обязаны выполняться внутри UnitOfWork,
// удерживающего блокировку владельца записи.
type LedgerRepository interface {
	Post(ctx context.Context, p PostParams) (*LedgerEntry, error)
	Finalize(ctx context.Context, entryID int64) (*LedgerEntry, error)
	Reverse(ctx context.Context, entryID int64, category LedgerCategory, reference string) (*LedgerEntry, error)
	GetByID(ctx context.Context, entryID int64) (*LedgerEntry, error)
	GetByKey(ctx context.Context, userID int64, key string) (*LedgerEntry, error)
	Balance(ctx context.Context, userID int64) (*Balance, error)
	Scan(ctx context.Context, userID int64, f LedgerFilter) ([]*LedgerEntry, error)
}

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByReferralCode(ctx context.Context, code string) (*User, error)
	SetFlagged(ctx context.Context, id int64, flagged bool) error
	CountReferrals(ctx context.Context, id int64) (int, error)
}

// CourseRepository определяет методы для работы с курсами
type CourseRepository interface {
	GetByID(ctx context.Context, id int64) (*Course, error)
	AdjustEnrollment(ctx context.Context, id int64, delta int) error
}

// OrderRepository определяет методы для работы с заказами.
// UpdateStatus выполняет переход только из перечисленных статусов и
// сообщает, был ли он применен: так переходы остаются идемпотентными
// при конкурентных вызовах.
type OrderRepository interface {
	Create(ctx context.Context, o *Order) (*Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*Order, error)
	GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*Order, error)
	HasCompleted(ctx context.Context, userID, courseID int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, from []OrderStatus, to OrderStatus) (bool, error)
	SetGatewayPayment(ctx context.Context, id int64, gatewayPaymentID string) error
	SetReserveEntry(ctx context.Context, id, entryID int64) error
	AddRefundedAmount(ctx context.Context, id, amount int64) error
	GetStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*Order, error)
}

// CommissionRepository определяет методы для работы с комиссиями.
// Create идемпотентен по (orderID, level) среди неотмененных записей.
type CommissionRepository interface {
	Create(ctx context.Context, c *Commission) (*Commission, bool, error)
	GetByID(ctx context.Context, id int64) (*Commission, error)
	ListByOrder(ctx context.Context, orderID int64) ([]*Commission, error)
	ListByAffiliate(ctx context.Context, affiliateID int64, limit, offset int) ([]*Commission, error)
	UpdateStatus(ctx context.Context, id int64, from []CommissionStatus, to CommissionStatus, note string) (bool, error)
	ListDueIDs(ctx context.Context, now time.Time, limit int) ([]int64, error)
	ExpirePendingBefore(ctx context.Context, before time.Time) (int64, error)
	ExpireApprovedBefore(ctx context.Context, before time.Time) (int64, error)
}

// WithdrawalRepository определяет методы для работы с заявками на вывод
type WithdrawalRepository interface {
	Create(ctx context.Context, w *Withdrawal) (*Withdrawal, error)
	GetByID(ctx context.Context, id int64) (*Withdrawal, error)
	UpdateStatus(ctx context.Context, id int64, from []WithdrawalStatus, to WithdrawalStatus, notes string) (bool, error)
	SetReserveEntry(ctx context.Context, id, entryID int64) error
	SetSettlement(ctx context.Context, id int64, externalRef string, fee int64) error
	SetFlagged(ctx context.Context, id int64, flagged bool) error
	SumForMonth(ctx context.Context, userID int64, monthStart time.Time) (int64, error)
}

// EnrollmentRepository определяет методы для работы с зачислениями
type EnrollmentRepository interface {
	Grant(ctx context.Context, e *Enrollment) (bool, error)
	RevokeByOrder(ctx context.Context, orderID int64) (bool, error)
}

// Repos объединяет репозитории, привязанные к одной БД-транзакции
type Repos struct {
	Users       UserRepository
	Courses     CourseRepository
	Orders      OrderRepository
	Ledger      LedgerRepository
	Commissions CommissionRepository
	Withdrawals WithdrawalRepository
	Enrollments EnrollmentRepository
}

// UnitOfWork выполняет fn в одной БД-транзакции, предварительно взяв
// блокировки перечисленных владельцев кошельков в возрастающем порядке
// их идентификаторов. Все операции над леджером одного пользователя
// сериализуются через эти блокировки.
type UnitOfWork interface {
	Do(ctx context.Context, ownerIDs []int64, fn func(r Repos) error) error
}

// GatewayClient определяет методы взаимодействия с платежным шлюзом
type GatewayClient interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error)
	RefundPayment(ctx context.Context, gatewayPaymentID string, amount int64) (string, error)
}

// Notifier отправляет уведомления пользователю. Доставка best-effort:
// реализации не возвращают ошибок вызывающему.
type Notifier interface {
	OrderCompleted(ctx context.Context, userID, orderID int64)
	WithdrawalSettled(ctx context.Context, userID, withdrawalID int64)
}

// CommissionReleaser определяет методы фоновой обработки комиссий
type CommissionReleaser interface {
	DueCommissions(ctx context.Context, limit int) ([]int64, error)
	Release(ctx context.Context, commissionID int64) error
	ExpireStale(ctx context.Context) (int64, error)
}

// OrderReaper определяет методы фоновой очистки зависших заказов
type OrderReaper interface {
	ExpireStalePending(ctx context.Context) (int, error)
}
