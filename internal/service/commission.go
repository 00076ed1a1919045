package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/skillmint/marketplace-core/internal/config"
	"github.com/skillmint/marketplace-core/internal/domain"
	"github.com/skillmint/marketplace-core/internal/utils/money"
)

// PolicyProvider отдает действующую политику денежного ядра
type PolicyProvider interface {
	Load() *config.Policy
}

// maxCommissionLevel — глубина реферальной цепочки
const maxCommissionLevel = 3

// CommissionService управляет жизненным циклом партнерских комиссий
type CommissionService struct {
	uow    domain.UnitOfWork
	repos  domain.Repos
	policy PolicyProvider
	logger *zap.Logger
}

// NewCommissionService создает новый CommissionService
func NewCommissionService(uow domain.UnitOfWork, repos domain.Repos, policy PolicyProvider, logger *zap.Logger) *CommissionService {
	return &CommissionService{
		uow:    uow,
		repos:  repos,
		policy: policy,
		logger: logger,
	}
}

// CreateForOrder начисляет комиссии по завершенному заказу. Вызывается
// внутри транзакции завершения заказа, поэтому работает на переданных
// репозиториях. Денег не двигает: записи создаются в pending и
// выплачиваются после периода удержания.
//
// Пропуск расходует позицию и не продвигает цепочку: неподходящий
// кандидат остается на своем уровне, так что его пригласивший никогда
// не поднимается выше по цепочке. Самореферал — единственный пропуск,
// который продвигает цепочку дальше.
func (s *CommissionService) CreateForOrder(ctx context.Context, r domain.Repos, order *domain.Order, course *domain.Course) ([]*domain.Commission, error) {
	if order.ReferrerID == nil {
		return nil, nil
	}

	policy := s.policy.Load()
	now := time.Now()

	commissions := make([]*domain.Commission, 0, maxCommissionLevel)
	seen := make(map[int64]bool, maxCommissionLevel)
	candidateID := *order.ReferrerID

	for level := 1; level <= maxCommissionLevel; level++ {
		// Самореферал: уровень сгорает, цепочка продолжается с
		// пригласившего покупателя
		if candidateID == order.UserID {
			buyer, err := r.Users.GetByID(ctx, order.UserID)
			if err != nil {
				return nil, fmt.Errorf("commission service: failed to load buyer %d: %w", order.UserID, err)
			}
			if buyer.ReferredBy == nil {
				break
			}
			candidateID = *buyer.ReferredBy
			continue
		}

		if seen[candidateID] {
			s.logger.Warn("referral cycle detected, stopping commission walk",
				zap.Int64("order_id", order.ID),
				zap.Int64("user_id", candidateID),
			)
			break
		}
		seen[candidateID] = true

		affiliate, err := r.Users.GetByID(ctx, candidateID)
		if err != nil {
			return nil, fmt.Errorf("commission service: failed to load affiliate %d: %w", candidateID, err)
		}

		// Неподходящий кандидат закрепляется на уровне и поглощает
		// остаток цепочки
		if !affiliate.CanEarnCommission() {
			break
		}

		rate, err := s.rateFor(ctx, r, policy, level, course, affiliate)
		if err != nil {
			return nil, err
		}

		amount := money.ApplyRate(order.FinalAmount, rate)

		status := domain.CommissionStatusPending
		if amount == 0 {
			status = domain.CommissionStatusCancelled
		}

		commission := &domain.Commission{
			AffiliateID:    affiliate.ID,
			ReferredUserID: order.UserID,
			OrderID:        order.ID,
			CourseID:       course.ID,
			Level:          level,
			RateBp:         rate,
			Amount:         amount,
			Status:         status,
			HoldUntil:      now.AddDate(0, 0, s.holdDays(policy, affiliate, amount, now)),
		}

		created, _, err := r.Commissions.Create(ctx, commission)
		if err != nil {
			return nil, fmt.Errorf("commission service: failed to create level %d commission for order %d: %w", level, order.ID, err)
		}
		commissions = append(commissions, created)

		if affiliate.ReferredBy == nil {
			break
		}
		candidateID = *affiliate.ReferredBy
	}

	return commissions, nil
}

// rateFor вычисляет ставку комиссии для уровня в базисных пунктах.
// На первом уровне приоритет: ставка курса, затем ступень партнера,
// затем дефолт политики. Уровни выше первого всегда берут дефолт.
func (s *CommissionService) rateFor(ctx context.Context, r domain.Repos, policy *config.Policy, level int, course *domain.Course, affiliate *domain.User) (int32, error) {
	if level != 1 {
		return policy.CommissionLevelRatesBp[level-1], nil
	}

	if course.CommissionRateBp != nil {
		return *course.CommissionRateBp, nil
	}

	referrals, err := r.Users.CountReferrals(ctx, affiliate.ID)
	if err != nil {
		return 0, fmt.Errorf("commission service: failed to count referrals of affiliate %d: %w", affiliate.ID, err)
	}

	if tier := policy.TierFor(referrals); tier != nil {
		return tier.BaseRateBp + tier.BonusRateBp, nil
	}

	return policy.CommissionLevelRatesBp[0], nil
}

// holdDays выбирает период удержания: применяется самый длинный из
// подходящих классов.
func (s *CommissionService) holdDays(policy *config.Policy, affiliate *domain.User, amount int64, now time.Time) int {
	days := policy.HoldPeriods.Standard

	newAffiliateSince := now.AddDate(0, 0, -policy.NewAffiliateDays)
	if affiliate.CreatedAt.After(newAffiliateSince) && policy.HoldPeriods.NewAffiliate > days {
		days = policy.HoldPeriods.NewAffiliate
	}

	if amount > policy.AutoApproveCommissionMax && policy.HoldPeriods.HighValue > days {
		days = policy.HoldPeriods.HighValue
	}

	return days
}

// DueCommissions возвращает идентификаторы комиссий, у которых истек
// период удержания.
func (s *CommissionService) DueCommissions(ctx context.Context, limit int) ([]int64, error) {
	ids, err := s.repos.Commissions.ListDueIDs(ctx, time.Now(), limit)
	if err != nil {
		return nil, fmt.Errorf("commission service: failed to list due commissions: %w", err)
	}

	return ids, nil
}

// Release обрабатывает комиссию с истекшим удержанием: в пределах
// лимита автоодобрения выплачивает ее, выше лимита отправляет на
// ручную проверку. Повторный вызов для уже обработанной комиссии
// безопасен.
func (s *CommissionService) Release(ctx context.Context, commissionID int64) error {
	commission, err := s.repos.Commissions.GetByID(ctx, commissionID)
	if err != nil {
		return fmt.Errorf("commission service: failed to get commission %d: %w", commissionID, err)
	}

	if commission.Status != domain.CommissionStatusPending {
		return nil
	}

	policy := s.policy.Load()

	if commission.Amount > policy.AutoApproveCommissionMax {
		if _, err := s.repos.Commissions.UpdateStatus(ctx, commissionID,
			[]domain.CommissionStatus{domain.CommissionStatusPending},
			domain.CommissionStatusUnderReview, "amount above auto-approve limit",
		); err != nil {
			return fmt.Errorf("commission service: failed to queue commission %d for review: %w", commissionID, err)
		}
		return nil
	}

	if err := s.pay(ctx, commission, domain.CommissionStatusPending, "auto-approved"); err != nil {
		return err
	}

	return nil
}

// Approve одобряет комиссию вручную и сразу выплачивает ее
func (s *CommissionService) Approve(ctx context.Context, commissionID int64, note string) error {
	commission, err := s.repos.Commissions.GetByID(ctx, commissionID)
	if err != nil {
		return fmt.Errorf("commission service: failed to get commission %d: %w", commissionID, err)
	}

	switch commission.Status {
	case domain.CommissionStatusPending, domain.CommissionStatusUnderReview, domain.CommissionStatusHold:
	case domain.CommissionStatusPaid:
		return nil
	default:
		return domain.ErrInvalidTransition
	}

	if note == "" {
		note = "approved manually"
	}

	return s.pay(ctx, commission, commission.Status, note)
}

// Reject отклоняет невыплаченную комиссию
func (s *CommissionService) Reject(ctx context.Context, commissionID int64, note string) error {
	applied, err := s.repos.Commissions.UpdateStatus(ctx, commissionID,
		[]domain.CommissionStatus{
			domain.CommissionStatusPending,
			domain.CommissionStatusUnderReview,
			domain.CommissionStatusHold,
			domain.CommissionStatusApproved,
		},
		domain.CommissionStatusRejected, note,
	)
	if err != nil {
		return fmt.Errorf("commission service: failed to reject commission %d: %w", commissionID, err)
	}
	if !applied {
		return domain.ErrInvalidTransition
	}

	return nil
}

// pay переводит комиссию from -> approved -> paid и зачисляет выплату
// на кошелек партнера из пула, удержанного при завершении заказа.
// Идемпотентность выплаты обеспечивает ключ леджера.
func (s *CommissionService) pay(ctx context.Context, c *domain.Commission, from domain.CommissionStatus, note string) error {
	err := s.uow.Do(ctx, []int64{c.AffiliateID}, func(r domain.Repos) error {
		commission, err := r.Commissions.GetByID(ctx, c.ID)
		if err != nil {
			return err
		}
		if commission.Status == domain.CommissionStatusPaid {
			return nil
		}

		return s.payLocked(ctx, r, commission, from, note)
	})

	if err != nil {
		if isDomainError(err) {
			return err
		}
		return fmt.Errorf("commission service: failed to pay commission %d: %w", c.ID, err)
	}

	return nil
}

func (s *CommissionService) payLocked(ctx context.Context, r domain.Repos, commission *domain.Commission, from domain.CommissionStatus, note string) error {
	affiliate, err := r.Users.GetByID(ctx, commission.AffiliateID)
	if err != nil {
		return err
	}
	if !affiliate.Active {
		_, err := r.Commissions.UpdateStatus(ctx, commission.ID,
			[]domain.CommissionStatus{from},
			domain.CommissionStatusHold, "affiliate is inactive",
		)
		return err
	}

	if from != domain.CommissionStatusApproved {
		applied, err := r.Commissions.UpdateStatus(ctx, commission.ID,
			[]domain.CommissionStatus{from},
			domain.CommissionStatusApproved, note,
		)
		if err != nil {
			return err
		}
		if !applied {
			// Состояние изменилось под ногами; повторный проход
			// воркера разберется
			return nil
		}
	}

	if _, err := r.Ledger.Post(ctx, domain.PostParams{
		UserID:         commission.AffiliateID,
		Direction:      domain.LedgerDirectionCredit,
		Amount:         commission.Amount,
		Category:       domain.LedgerCategoryCommissionPayout,
		Reference:      fmt.Sprintf("order:%d:level:%d", commission.OrderID, commission.Level),
		IdempotencyKey: fmt.Sprintf("commission:%d:payout", commission.ID),
	}); err != nil {
		return err
	}

	applied, err := r.Commissions.UpdateStatus(ctx, commission.ID,
		[]domain.CommissionStatus{domain.CommissionStatusApproved},
		domain.CommissionStatusPaid, "",
	)
	if err != nil {
		return err
	}
	if !applied {
		return domain.ErrInvalidTransition
	}

	return nil
}

// ReverseForOrder отменяет комиссии по заказу при возврате. Вызывается
// внутри транзакции возврата. Невыплаченные комиссии отменяются;
// выплаченные взыскиваются с кошелька партнера, при уходе баланса в
// минус пользователь помечается для взыскания.
func (s *CommissionService) ReverseForOrder(ctx context.Context, r domain.Repos, orderID int64, note string) error {
	commissions, err := r.Commissions.ListByOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("commission service: failed to list commissions for order %d: %w", orderID, err)
	}

	for _, commission := range commissions {
		switch commission.Status {
		case domain.CommissionStatusCancelled, domain.CommissionStatusRejected, domain.CommissionStatusExpired:
			continue

		case domain.CommissionStatusPaid:
			if err := s.clawBack(ctx, r, commission, note); err != nil {
				return err
			}

		default:
			if _, err := r.Commissions.UpdateStatus(ctx, commission.ID,
				[]domain.CommissionStatus{commission.Status},
				domain.CommissionStatusCancelled, note,
			); err != nil {
				return fmt.Errorf("commission service: failed to cancel commission %d: %w", commission.ID, err)
			}
		}
	}

	return nil
}

// clawBack взыскивает выплаченную комиссию компенсирующим списанием с
// кошелька партнера. Единственное место, где списание может увести
// available ниже нуля.
func (s *CommissionService) clawBack(ctx context.Context, r domain.Repos, commission *domain.Commission, note string) error {
	if _, err := r.Ledger.Post(ctx, domain.PostParams{
		UserID:         commission.AffiliateID,
		Direction:      domain.LedgerDirectionDebit,
		Amount:         commission.Amount,
		Category:       domain.LedgerCategoryCommissionPayout,
		Reference:      fmt.Sprintf("order:%d:refund", commission.OrderID),
		IdempotencyKey: fmt.Sprintf("commission:%d:clawback", commission.ID),
		AllowNegative:  true,
	}); err != nil {
		return fmt.Errorf("commission service: failed to claw back commission %d: %w", commission.ID, err)
	}

	if _, err := r.Commissions.UpdateStatus(ctx, commission.ID,
		[]domain.CommissionStatus{domain.CommissionStatusPaid},
		domain.CommissionStatusRejected, note,
	); err != nil {
		return fmt.Errorf("commission service: failed to reject paid commission %d: %w", commission.ID, err)
	}

	balance, err := r.Ledger.Balance(ctx, commission.AffiliateID)
	if err != nil {
		return fmt.Errorf("commission service: failed to check balance of affiliate %d: %w", commission.AffiliateID, err)
	}
	if balance.Available < 0 {
		if err := r.Users.SetFlagged(ctx, commission.AffiliateID, true); err != nil {
			return fmt.Errorf("commission service: failed to flag affiliate %d: %w", commission.AffiliateID, err)
		}
	}

	return nil
}

// ExpireStale переводит в expired комиссии, зависшие в pending или
// approved дольше сроков политики. Возвращает число затронутых записей.
func (s *CommissionService) ExpireStale(ctx context.Context) (int64, error) {
	policy := s.policy.Load()
	now := time.Now()

	var total int64

	n, err := s.repos.Commissions.ExpirePendingBefore(ctx, now.AddDate(0, 0, -policy.PendingExpiryDays))
	if err != nil {
		return total, fmt.Errorf("commission service: failed to expire pending commissions: %w", err)
	}
	total += n

	n, err = s.repos.Commissions.ExpireApprovedBefore(ctx, now.AddDate(0, 0, -policy.ApprovedUnpaidExpiryDays))
	if err != nil {
		return total, fmt.Errorf("commission service: failed to expire approved commissions: %w", err)
	}
	total += n

	return total, nil
}

// ListByAffiliate возвращает страницу комиссий партнера
func (s *CommissionService) ListByAffiliate(ctx context.Context, affiliateID int64, limit, offset int) ([]*domain.Commission, error) {
	commissions, err := s.repos.Commissions.ListByAffiliate(ctx, affiliateID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("commission service: failed to list commissions of affiliate %d: %w", affiliateID, err)
	}

	return commissions, nil
}
