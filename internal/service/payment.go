package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skillmint/marketplace-core/internal/domain"
	"github.com/skillmint/marketplace-core/internal/utils/money"
	"github.com/skillmint/marketplace-core/internal/utils/signature"
)

// CommissionEngine определяет операции с комиссиями, выполняемые внутри
// транзакций жизненного цикла заказа.
type CommissionEngine interface {
	CreateForOrder(ctx context.Context, r domain.Repos, order *domain.Order, course *domain.Course) ([]*domain.Commission, error)
	ReverseForOrder(ctx context.Context, r domain.Repos, orderID int64, note string) error
}

// PaymentService координирует жизненный цикл заказа: создание, оплату
// через шлюз или кошелек, отмену и возврат. Все денежные эффекты
// проходят через леджер внутри одной транзакции с блокировками
// затронутых кошельков.
type PaymentService struct {
	uow           domain.UnitOfWork
	repos         domain.Repos
	gateway       domain.GatewayClient
	commissions   CommissionEngine
	policy        PolicyProvider
	notifier      domain.Notifier
	paymentSecret string
}

// NewPaymentService создает новый PaymentService
func NewPaymentService(uow domain.UnitOfWork, repos domain.Repos, gateway domain.GatewayClient, commissions CommissionEngine, policy PolicyProvider, notifier domain.Notifier, paymentSecret string) *PaymentService {
	return &PaymentService{
		uow:           uow,
		repos:         repos,
		gateway:       gateway,
		commissions:   commissions,
		policy:        policy,
		notifier:      notifier,
		paymentSecret: paymentSecret,
	}
}

// CreateOrderParams описывает параметры создания заказа
type CreateOrderParams struct {
	UserID        int64
	CourseID      int64
	PaymentMethod domain.PaymentMethod
	ReferralCode  string
}

// CreateOrder создает заказ на покупку курса. Для оплаты через шлюз
// заказ сперва регистрируется в шлюзе; для оплаты кошельком сумма
// резервируется на кошельке покупателя.
func (s *PaymentService) CreateOrder(ctx context.Context, p CreateOrderParams) (*domain.Order, error) {
	user, err := s.repos.Users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	course, err := s.repos.Courses.GetByID(ctx, p.CourseID)
	if err != nil {
		return nil, err
	}
	if !course.Active {
		return nil, domain.ErrCourseInactive
	}

	completed, err := s.repos.Orders.HasCompleted(ctx, p.UserID, p.CourseID)
	if err != nil {
		return nil, fmt.Errorf("payment service: failed to check duplicate purchase: %w", err)
	}
	if completed {
		return nil, domain.ErrDuplicatePurchase
	}

	referrerID, err := s.resolveReferrer(ctx, user, p.ReferralCode)
	if err != nil {
		return nil, err
	}

	amount := course.EffectiveAmount()
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	order := &domain.Order{
		UserID:        p.UserID,
		CourseID:      p.CourseID,
		GrossAmount:   course.Price,
		Discount:      course.Price - amount,
		FinalAmount:   amount,
		Currency:      "INR",
		ReferrerID:    referrerID,
		PaymentMethod: p.PaymentMethod,
		Status:        domain.OrderStatusPending,
	}

	switch p.PaymentMethod {
	case domain.PaymentMethodGateway:
		return s.createGatewayOrder(ctx, order)
	case domain.PaymentMethodWallet:
		return s.createWalletOrder(ctx, user, order)
	default:
		return nil, fmt.Errorf("payment service: unknown payment method %q", p.PaymentMethod)
	}
}

// resolveReferrer определяет партнера первого уровня для заказа.
// Явный реферальный код имеет приоритет над постоянной привязкой
// пользователя.
func (s *PaymentService) resolveReferrer(ctx context.Context, user *domain.User, code string) (*int64, error) {
	if code == "" {
		return user.ReferredBy, nil
	}

	referrer, err := s.repos.Users.GetByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			if s.policy.Load().StrictReferral {
				return nil, domain.ErrInvalidReferral
			}
			return user.ReferredBy, nil
		}
		return nil, fmt.Errorf("payment service: failed to resolve referral code: %w", err)
	}

	if referrer.ID == user.ID {
		return nil, domain.ErrInvalidReferral
	}

	return &referrer.ID, nil
}

func (s *PaymentService) createGatewayOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	receipt := uuid.NewString()

	gatewayOrderID, err := s.gateway.CreateOrder(ctx, order.FinalAmount, order.Currency, receipt)
	if err != nil {
		return nil, fmt.Errorf("payment service: failed to register order in gateway: %w", err)
	}
	order.GatewayOrderID = gatewayOrderID

	created, err := s.repos.Orders.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("payment service: failed to create order: %w", err)
	}

	return created, nil
}

func (s *PaymentService) createWalletOrder(ctx context.Context, user *domain.User, order *domain.Order) (*domain.Order, error) {
	if user.WalletFrozen {
		return nil, domain.ErrWalletFrozen
	}

	var created *domain.Order

	err := s.uow.Do(ctx, []int64{user.ID}, func(r domain.Repos) error {
		var err error
		created, err = r.Orders.Create(ctx, order)
		if err != nil {
			return err
		}

		reserve, err := r.Ledger.Post(ctx, domain.PostParams{
			UserID:         user.ID,
			Direction:      domain.LedgerDirectionDebit,
			Amount:         order.FinalAmount,
			Category:       domain.LedgerCategoryCoursePurchase,
			Reference:      fmt.Sprintf("order:%d", created.ID),
			IdempotencyKey: fmt.Sprintf("order:%d:reserve", created.ID),
			Pending:        true,
		})
		if err != nil {
			return err
		}

		if err := r.Orders.SetReserveEntry(ctx, created.ID, reserve.ID); err != nil {
			return err
		}
		created.ReserveEntryID = &reserve.ID

		// Резерв и переход в processing атомарны: заказ с удержанными
		// деньгами не должен быть виден как pending
		if _, err := r.Orders.UpdateStatus(ctx, created.ID,
			[]domain.OrderStatus{domain.OrderStatusPending},
			domain.OrderStatusProcessing,
		); err != nil {
			return err
		}
		created.Status = domain.OrderStatusProcessing

		return nil
	})

	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("payment service: failed to create wallet order: %w", err)
	}

	return created, nil
}

// ConfirmWalletPayment завершает заказ, оплаченный кошельком. Резерв
// покупателя закрывается, деньги распределяются между инструктором и
// платформой.
func (s *PaymentService) ConfirmWalletPayment(ctx context.Context, orderID, userID int64) (*domain.Order, error) {
	order, err := s.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	if order.PaymentMethod != domain.PaymentMethodWallet {
		return nil, domain.ErrInvalidTransition
	}

	if err := s.complete(ctx, order, ""); err != nil {
		return nil, err
	}

	return s.repos.Orders.GetByID(ctx, orderID)
}

// ConfirmGatewayPayment завершает заказ по подтвержденному платежу
// шлюза. Подпись события проверяется на уровне хендлера.
func (s *PaymentService) ConfirmGatewayPayment(ctx context.Context, gatewayOrderID, gatewayPaymentID string) error {
	order, err := s.repos.Orders.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return err
	}

	return s.complete(ctx, order, gatewayPaymentID)
}

// ConfirmGatewayByBuyer завершает заказ через шлюз по инициативе
// покупателя, не дожидаясь вебхука. Подпись пары идентификаторов
// проверяется до каких-либо изменений.
func (s *PaymentService) ConfirmGatewayByBuyer(ctx context.Context, orderID, userID int64, gatewayPaymentID, receivedSignature string) (*domain.Order, error) {
	order, err := s.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	if order.PaymentMethod != domain.PaymentMethodGateway {
		return nil, domain.ErrInvalidTransition
	}

	if !signature.VerifyPayment(s.paymentSecret, order.GatewayOrderID, gatewayPaymentID, receivedSignature) {
		return nil, domain.ErrSignatureInvalid
	}

	if err := s.complete(ctx, order, gatewayPaymentID); err != nil {
		return nil, err
	}

	return s.repos.Orders.GetByID(ctx, orderID)
}

// complete выполняет транзакцию завершения заказа. Повторный вызов для
// уже завершенного заказа безопасен.
func (s *PaymentService) complete(ctx context.Context, order *domain.Order, gatewayPaymentID string) error {
	course, err := s.repos.Courses.GetByID(ctx, order.CourseID)
	if err != nil {
		return err
	}

	locks := []int64{order.UserID, course.InstructorID, domain.PlatformAccountID}

	err = s.uow.Do(ctx, locks, func(r domain.Repos) error {
		applied, err := r.Orders.UpdateStatus(ctx, order.ID,
			[]domain.OrderStatus{domain.OrderStatusPending, domain.OrderStatusProcessing},
			domain.OrderStatusCompleted,
		)
		if err != nil {
			return err
		}
		if !applied {
			current, err := r.Orders.GetByID(ctx, order.ID)
			if err != nil {
				return err
			}
			if current.Status == domain.OrderStatusCompleted {
				return nil
			}
			return domain.ErrInvalidTransition
		}

		if gatewayPaymentID != "" {
			if err := r.Orders.SetGatewayPayment(ctx, order.ID, gatewayPaymentID); err != nil {
				return err
			}
		}

		if order.PaymentMethod == domain.PaymentMethodWallet {
			if order.ReserveEntryID == nil {
				return fmt.Errorf("wallet order %d has no reserve entry", order.ID)
			}
			if _, err := r.Ledger.Finalize(ctx, *order.ReserveEntryID); err != nil {
				return err
			}
		}

		if _, err := s.commissions.CreateForOrder(ctx, r, order, course); err != nil {
			return err
		}

		// Пул комиссии курса удерживается из доли инструктора всегда,
		// даже когда по цепочке никому ничего не начислено. Платформа
		// получает ровно свою комиссию за обслуживание.
		policy := s.policy.Load()
		courseRate := policy.CommissionLevelRatesBp[0]
		if course.CommissionRateBp != nil {
			courseRate = *course.CommissionRateBp
		}
		commissionPool := money.ApplyRate(order.FinalAmount, courseRate)

		platformFee := money.ApplyRate(order.FinalAmount, policy.PlatformFeeBp)
		instructorShare := order.FinalAmount - platformFee - commissionPool
		if instructorShare < 0 {
			return fmt.Errorf("platform fee and commission exceed order %d amount", order.ID)
		}

		if instructorShare > 0 {
			if _, err := r.Ledger.Post(ctx, domain.PostParams{
				UserID:         course.InstructorID,
				Direction:      domain.LedgerDirectionCredit,
				Amount:         instructorShare,
				Category:       domain.LedgerCategoryCourseEarning,
				Reference:      fmt.Sprintf("order:%d", order.ID),
				IdempotencyKey: fmt.Sprintf("order:%d:earning", order.ID),
			}); err != nil {
				return err
			}
		}

		if platformFee > 0 {
			if _, err := r.Ledger.Post(ctx, domain.PostParams{
				UserID:         domain.PlatformAccountID,
				Direction:      domain.LedgerDirectionCredit,
				Amount:         platformFee,
				Category:       domain.LedgerCategoryPlatformFee,
				Reference:      fmt.Sprintf("order:%d", order.ID),
				IdempotencyKey: fmt.Sprintf("order:%d:fee", order.ID),
			}); err != nil {
				return err
			}
		}

		granted, err := r.Enrollments.Grant(ctx, &domain.Enrollment{
			UserID:   order.UserID,
			CourseID: order.CourseID,
			OrderID:  order.ID,
		})
		if err != nil {
			return err
		}
		if granted {
			if err := r.Courses.AdjustEnrollment(ctx, order.CourseID, 1); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		if isDomainError(err) {
			return err
		}
		return fmt.Errorf("payment service: failed to complete order %d: %w", order.ID, err)
	}

	s.notifier.OrderCompleted(ctx, order.UserID, order.ID)

	return nil
}

// FailGatewayPayment помечает заказ как неоплаченный по событию шлюза
func (s *PaymentService) FailGatewayPayment(ctx context.Context, gatewayOrderID string) error {
	order, err := s.repos.Orders.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return err
	}

	applied, err := s.repos.Orders.UpdateStatus(ctx, order.ID,
		[]domain.OrderStatus{domain.OrderStatusPending, domain.OrderStatusProcessing},
		domain.OrderStatusFailed,
	)
	if err != nil {
		return fmt.Errorf("payment service: failed to mark order %d as failed: %w", order.ID, err)
	}
	if !applied && order.Status != domain.OrderStatusFailed {
		return domain.ErrInvalidTransition
	}

	return nil
}

// Cancel отменяет неоплаченный заказ по инициативе покупателя.
// Для кошелькового заказа резерв освобождается.
func (s *PaymentService) Cancel(ctx context.Context, orderID, userID int64) error {
	order, err := s.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.UserID != userID {
		return domain.ErrOrderNotFound
	}

	return s.cancel(ctx, order, domain.OrderStatusCancelled)
}

func (s *PaymentService) cancel(ctx context.Context, order *domain.Order, to domain.OrderStatus) error {
	err := s.uow.Do(ctx, []int64{order.UserID}, func(r domain.Repos) error {
		applied, err := r.Orders.UpdateStatus(ctx, order.ID,
			[]domain.OrderStatus{domain.OrderStatusPending, domain.OrderStatusProcessing}, to,
		)
		if err != nil {
			return err
		}
		if !applied {
			current, err := r.Orders.GetByID(ctx, order.ID)
			if err != nil {
				return err
			}
			if current.Status == to {
				return nil
			}
			return domain.ErrInvalidTransition
		}

		if order.ReserveEntryID != nil {
			reference := fmt.Sprintf("order:%d:cancel", order.ID)
			if _, err := r.Ledger.Reverse(ctx, *order.ReserveEntryID, domain.LedgerCategoryRefund, reference); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		if isDomainError(err) {
			return err
		}
		return fmt.Errorf("payment service: failed to cancel order %d: %w", order.ID, err)
	}

	return nil
}

// Refund выполняет возврат по завершенному заказу. Нулевая сумма
// означает полный возврат остатка. Для заказов через шлюз возврат
// сперва запрашивается у шлюза, затем применяется внутренняя разводка.
func (s *PaymentService) Refund(ctx context.Context, orderID, amount int64) error {
	order, err := s.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	remaining := order.FinalAmount - order.RefundedAmount
	if amount <= 0 {
		amount = remaining
	}
	if amount > remaining || remaining <= 0 {
		return domain.ErrInvalidAmount
	}

	if order.PaymentMethod == domain.PaymentMethodGateway {
		if order.GatewayPaymentID == "" {
			return domain.ErrInvalidTransition
		}
		if _, err := s.gateway.RefundPayment(ctx, order.GatewayPaymentID, amount); err != nil {
			return fmt.Errorf("payment service: failed to request gateway refund for order %d: %w", orderID, err)
		}
	}

	return s.applyRefund(ctx, order, amount)
}

// applyRefund применяет внутренние эффекты возврата: дебетует
// инструктора и платформу пропорционально их долям, при полном
// возврате отменяет комиссии и отзывает зачисление.
func (s *PaymentService) applyRefund(ctx context.Context, order *domain.Order, amount int64) error {
	course, err := s.repos.Courses.GetByID(ctx, order.CourseID)
	if err != nil {
		return err
	}

	locks := []int64{order.UserID, course.InstructorID, domain.PlatformAccountID}

	err = s.uow.Do(ctx, locks, func(r domain.Repos) error {
		current, err := r.Orders.GetByID(ctx, order.ID)
		if err != nil {
			return err
		}

		switch current.Status {
		case domain.OrderStatusCompleted, domain.OrderStatusPartiallyRefunded:
		case domain.OrderStatusRefunded:
			return nil
		default:
			return domain.ErrInvalidTransition
		}

		newTotal := current.RefundedAmount + amount
		if newTotal > current.FinalAmount {
			return domain.ErrInvalidAmount
		}
		full := newTotal == current.FinalAmount

		// Доли считаются от фактических записей завершения, а не от
		// текущей политики: политика могла смениться после покупки.
		// Разница между суммой возврата и этими долями покрывается
		// удержанным комиссионным пулом (его отзыв по paid-комиссиям
		// делает ReverseForOrder).
		instructorShare, err := s.completionAmount(ctx, r, course.InstructorID, fmt.Sprintf("order:%d:earning", order.ID))
		if err != nil {
			return err
		}
		platformShare, err := s.completionAmount(ctx, r, domain.PlatformAccountID, fmt.Sprintf("order:%d:fee", order.ID))
		if err != nil {
			return err
		}

		instructorDebit := money.DivRound(instructorShare*amount, current.FinalAmount)
		platformDebit := money.DivRound(platformShare*amount, current.FinalAmount)

		keyPrefix := fmt.Sprintf("order:%d:refund:%d", order.ID, newTotal)
		reference := fmt.Sprintf("order:%d:refund", order.ID)

		if instructorDebit > 0 {
			if _, err := r.Ledger.Post(ctx, domain.PostParams{
				UserID:         course.InstructorID,
				Direction:      domain.LedgerDirectionDebit,
				Amount:         instructorDebit,
				Category:       domain.LedgerCategoryRefund,
				Reference:      reference,
				IdempotencyKey: keyPrefix + ":earning",
				AllowNegative:  true,
			}); err != nil {
				return err
			}
		}

		if platformDebit > 0 {
			if _, err := r.Ledger.Post(ctx, domain.PostParams{
				UserID:         domain.PlatformAccountID,
				Direction:      domain.LedgerDirectionDebit,
				Amount:         platformDebit,
				Category:       domain.LedgerCategoryRefund,
				Reference:      reference,
				IdempotencyKey: keyPrefix + ":fee",
				AllowNegative:  true,
			}); err != nil {
				return err
			}
		}

		// Покупателю через кошелек деньги возвращаются на кошелек;
		// при оплате через шлюз возврат уходит внешним платежом
		if current.PaymentMethod == domain.PaymentMethodWallet {
			if _, err := r.Ledger.Post(ctx, domain.PostParams{
				UserID:         current.UserID,
				Direction:      domain.LedgerDirectionCredit,
				Amount:         amount,
				Category:       domain.LedgerCategoryRefund,
				Reference:      reference,
				IdempotencyKey: keyPrefix + ":buyer",
			}); err != nil {
				return err
			}
		}

		if err := r.Orders.AddRefundedAmount(ctx, order.ID, amount); err != nil {
			return err
		}

		to := domain.OrderStatusPartiallyRefunded
		if full {
			to = domain.OrderStatusRefunded
		}
		if _, err := r.Orders.UpdateStatus(ctx, order.ID,
			[]domain.OrderStatus{domain.OrderStatusCompleted, domain.OrderStatusPartiallyRefunded}, to,
		); err != nil {
			return err
		}

		if full {
			if err := s.commissions.ReverseForOrder(ctx, r, order.ID, "order refunded"); err != nil {
				return err
			}

			revoked, err := r.Enrollments.RevokeByOrder(ctx, order.ID)
			if err != nil {
				return err
			}
			if revoked {
				if err := r.Courses.AdjustEnrollment(ctx, order.CourseID, -1); err != nil {
					return err
				}
			}
		}

		balance, err := r.Ledger.Balance(ctx, course.InstructorID)
		if err != nil {
			return err
		}
		if balance.Available < 0 {
			if err := r.Users.SetFlagged(ctx, course.InstructorID, true); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		if isDomainError(err) {
			return err
		}
		return fmt.Errorf("payment service: failed to apply refund for order %d: %w", order.ID, err)
	}

	return nil
}

// completionAmount возвращает сумму записи завершения заказа или ноль,
// если запись не создавалась (нулевая доля не постится).
func (s *PaymentService) completionAmount(ctx context.Context, r domain.Repos, ownerID int64, key string) (int64, error) {
	entry, err := r.Ledger.GetByKey(ctx, ownerID, key)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return entry.Amount, nil
}

// HandleGatewayEvent применяет событие вебхука шлюза. Неизвестные
// события игнорируются: шлюз шлет больше типов, чем нас интересует.
func (s *PaymentService) HandleGatewayEvent(ctx context.Context, event *domain.GatewayEvent) error {
	switch event.Event {
	case domain.GatewayEventPaymentCaptured:
		return s.ConfirmGatewayPayment(ctx, event.GatewayOrderID, event.GatewayPaymentID)

	case domain.GatewayEventPaymentFailed:
		return s.FailGatewayPayment(ctx, event.GatewayOrderID)

	case domain.GatewayEventRefundProcessed:
		order, err := s.repos.Orders.GetByGatewayPaymentID(ctx, event.GatewayPaymentID)
		if err != nil {
			return err
		}
		amount := event.Amount
		if amount <= 0 || amount > order.FinalAmount-order.RefundedAmount {
			amount = order.FinalAmount - order.RefundedAmount
		}
		if amount <= 0 {
			return nil
		}
		return s.applyRefund(ctx, order, amount)

	default:
		return nil
	}
}

// GetOrder возвращает заказ пользователя
func (s *PaymentService) GetOrder(ctx context.Context, orderID, userID int64) (*domain.Order, error) {
	order, err := s.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}

	return order, nil
}

// ExpireStalePending отменяет pending-заказы старше срока политики.
// Возвращает число отмененных заказов.
func (s *PaymentService) ExpireStalePending(ctx context.Context) (int, error) {
	policy := s.policy.Load()
	olderThan := time.Now().Add(-time.Duration(policy.PendingOrderAutoCancelHrs) * time.Hour)

	orders, err := s.repos.Orders.GetStalePending(ctx, olderThan, 100)
	if err != nil {
		return 0, fmt.Errorf("payment service: failed to list stale pending orders: %w", err)
	}

	var expired int
	for _, order := range orders {
		if err := s.cancel(ctx, order, domain.OrderStatusExpired); err != nil {
			return expired, err
		}
		expired++
	}

	return expired, nil
}
