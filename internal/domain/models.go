package domain

import "time"

// Role представляет роль пользователя
type Role string

const (
	RoleStudent    Role = "student"
	RoleAffiliate  Role = "affiliate"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
	RolePlatform   Role = "platform"
)

// PaymentMethod представляет способ оплаты заказа
type PaymentMethod string

const (
	PaymentMethodGateway PaymentMethod = "gateway"
	PaymentMethodWallet  PaymentMethod = "wallet"
)

// OrderStatus представляет статус заказа
type OrderStatus string

const (
	OrderStatusPending           OrderStatus = "pending"
	OrderStatusProcessing        OrderStatus = "processing"
	OrderStatusCompleted         OrderStatus = "completed"
	OrderStatusFailed            OrderStatus = "failed"
	OrderStatusRefunded          OrderStatus = "refunded"
	OrderStatusPartiallyRefunded OrderStatus = "partially_refunded"
	OrderStatusCancelled         OrderStatus = "cancelled"
	OrderStatusExpired           OrderStatus = "expired"
)

// CommissionStatus представляет статус комиссии
type CommissionStatus string

const (
	CommissionStatusPending     CommissionStatus = "pending"
	CommissionStatusApproved    CommissionStatus = "approved"
	CommissionStatusPaid        CommissionStatus = "paid"
	CommissionStatusRejected    CommissionStatus = "rejected"
	CommissionStatusCancelled   CommissionStatus = "cancelled"
	CommissionStatusExpired     CommissionStatus = "expired"
	CommissionStatusHold        CommissionStatus = "hold"
	CommissionStatusUnderReview CommissionStatus = "under_review"
)

// WithdrawalStatus представляет статус заявки на вывод средств
type WithdrawalStatus string

const (
	WithdrawalStatusPending     WithdrawalStatus = "pending"
	WithdrawalStatusApproved    WithdrawalStatus = "approved"
	WithdrawalStatusProcessing  WithdrawalStatus = "processing"
	WithdrawalStatusCompleted   WithdrawalStatus = "completed"
	WithdrawalStatusRejected    WithdrawalStatus = "rejected"
	WithdrawalStatusCancelled   WithdrawalStatus = "cancelled"
	WithdrawalStatusFailed      WithdrawalStatus = "failed"
	WithdrawalStatusUnderReview WithdrawalStatus = "under_review"
)

// LedgerDirection представляет направление записи в леджере
type LedgerDirection string

const (
	LedgerDirectionCredit LedgerDirection = "credit"
	LedgerDirectionDebit  LedgerDirection = "debit"
)

// LedgerStatus представляет статус записи в леджере.
// Запись reversed остается учтенной в балансе: ее эффект обнуляет
// компенсирующая запись, сами записи задним числом не изменяются.
type LedgerStatus string

const (
	LedgerStatusPending   LedgerStatus = "pending"
	LedgerStatusCompleted LedgerStatus = "completed"
	LedgerStatusReversed  LedgerStatus = "reversed"
)

// LedgerCategory представляет категорию записи в леджере
type LedgerCategory string

const (
	LedgerCategoryCoursePurchase    LedgerCategory = "course_purchase"
	LedgerCategoryCourseEarning     LedgerCategory = "course_earning"
	LedgerCategoryPlatformFee       LedgerCategory = "platform_fee"
	LedgerCategoryCommissionPayout  LedgerCategory = "commission_payout"
	LedgerCategoryTopup             LedgerCategory = "topup"
	LedgerCategoryWithdrawalReserve LedgerCategory = "withdrawal_reserve"
	LedgerCategoryWithdrawalSettle  LedgerCategory = "withdrawal_settle"
	LedgerCategoryWithdrawalRelease LedgerCategory = "withdrawal_release"
	LedgerCategoryRefund            LedgerCategory = "refund"
	LedgerCategoryAdminAdjustment   LedgerCategory = "admin_adjustment"
)

// User представляет пользователя системы.
// Денежные показатели на записи не хранятся, они выводятся из леджера
// (см. Balance).
type User struct {
	ID                 int64     `json:"id"`
	Email              string    `json:"email"`
	Role               Role      `json:"role"`
	ReferralCode       string    `json:"referral_code"`
	ReferredBy         *int64    `json:"referred_by,omitempty"`
	Active             bool      `json:"active"`
	WalletFrozen       bool      `json:"-"`
	FlaggedForRecovery bool      `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
}

// CanEarnCommission сообщает, может ли пользователь получать комиссии
func (u *User) CanEarnCommission() bool {
	return u.Active && (u.Role == RoleAffiliate || u.Role == RoleInstructor)
}

// Course представляет курс.
// CommissionRateBp — ставка партнерской комиссии первого уровня в
// базисных пунктах; nil означает "взять дефолт из политики",
// ноль — "комиссия первого уровня не начисляется".
type Course struct {
	ID               int64     `json:"id"`
	InstructorID     int64     `json:"instructor_id"`
	Title            string    `json:"title"`
	Price            int64     `json:"price"`
	DiscountedPrice  int64     `json:"discounted_price"`
	CommissionRateBp *int32    `json:"commission_rate_bp,omitempty"`
	EnrollmentCount  int64     `json:"enrollment_count"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
}

// EffectiveAmount возвращает фактическую цену покупки в пайсах
func (c *Course) EffectiveAmount() int64 {
	if c.DiscountedPrice > 0 {
		return c.DiscountedPrice
	}
	return c.Price
}

// Order представляет заказ на покупку курса.
// Все суммы в пайсах. ReferrerID фиксируется при создании заказа и
// дальше не меняется.
type Order struct {
	ID               int64         `json:"id"`
	UserID           int64         `json:"-"`
	CourseID         int64         `json:"course_id"`
	GrossAmount      int64         `json:"gross_amount"`
	Discount         int64         `json:"discount"`
	FinalAmount      int64         `json:"final_amount"`
	Currency         string        `json:"currency"`
	ReferrerID       *int64        `json:"-"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	Status           OrderStatus   `json:"status"`
	GatewayOrderID   string        `json:"gateway_order_id,omitempty"`
	GatewayPaymentID string        `json:"-"`
	ReserveEntryID   *int64        `json:"-"`
	RefundedAmount   int64         `json:"refunded_amount,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Commission представляет партнерскую комиссию по заказу
type Commission struct {
	ID             int64            `json:"id"`
	AffiliateID    int64            `json:"-"`
	ReferredUserID int64            `json:"referred_user_id"`
	OrderID        int64            `json:"order_id"`
	CourseID       int64            `json:"course_id"`
	Level          int              `json:"level"`
	RateBp         int32            `json:"rate_bp"`
	Amount         int64            `json:"amount"`
	Status         CommissionStatus `json:"status"`
	HoldUntil      time.Time        `json:"hold_until"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// CommissionEvent представляет запись аудита смены статуса комиссии
type CommissionEvent struct {
	ID           int64            `json:"id"`
	CommissionID int64            `json:"commission_id"`
	FromStatus   CommissionStatus `json:"from_status"`
	ToStatus     CommissionStatus `json:"to_status"`
	Note         string           `json:"note,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// LedgerEntry представляет запись в леджере кошелька.
// Записи только добавляются: сторнирование — это новая компенсирующая
// запись, оригинал лишь помечается статусом reversed.
type LedgerEntry struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"-"`
	Seq            int64           `json:"seq"`
	Direction      LedgerDirection `json:"direction"`
	Amount         int64           `json:"amount"`
	Category       LedgerCategory  `json:"category"`
	Reference      string          `json:"reference"`
	IdempotencyKey string          `json:"-"`
	BalanceAfter   int64           `json:"balance_after"`
	Status         LedgerStatus    `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Balance представляет денежное состояние кошелька пользователя.
// Available = Total минус зарезервированные (pending) списания.
type Balance struct {
	Total             int64 `json:"total"`
	Available         int64 `json:"available"`
	Reserved          int64 `json:"reserved"`
	LifetimeEarned    int64 `json:"lifetime_earned"`
	LifetimeWithdrawn int64 `json:"lifetime_withdrawn"`
}

// Withdrawal представляет заявку на вывод средств
type Withdrawal struct {
	ID             int64            `json:"id"`
	UserID         int64            `json:"-"`
	Amount         int64            `json:"amount"`
	Method         string           `json:"method"`
	AccountDetails string           `json:"-"`
	Status         WithdrawalStatus `json:"status"`
	ReviewNotes    string           `json:"review_notes,omitempty"`
	Flagged        bool             `json:"-"`
	Fee            int64            `json:"fee"`
	ReserveEntryID *int64           `json:"-"`
	ExternalRef    string           `json:"external_ref,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Enrollment представляет зачисление покупателя на курс
type Enrollment struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	CourseID  int64     `json:"course_id"`
	OrderID   int64     `json:"order_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// GatewayEvent представляет событие вебхука платежного шлюза
type GatewayEvent struct {
	Event            string `json:"event"`
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Amount           int64  `json:"amount"`
}

// Вебхук-события, которые распознает система
const (
	GatewayEventPaymentCaptured = "payment.captured"
	GatewayEventPaymentFailed   = "payment.failed"
	GatewayEventRefundProcessed = "refund.processed"
)

// PlatformAccountID — идентификатор служебного аккаунта платформы,
// владельца записей platform_fee. Создается первой миграцией.
const PlatformAccountID int64 = 1
