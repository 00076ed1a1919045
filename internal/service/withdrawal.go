package service

import (
	"context"
	"fmt"
	"time"

	"github.com/skillmint/marketplace-core/internal/domain"
	"github.com/skillmint/marketplace-core/internal/utils/money"
	"github.com/skillmint/marketplace-core/internal/utils/secrets"
)

// WithdrawalService управляет заявками на вывод средств. Сумма заявки
// резервируется на кошельке до расчета; платежные реквизиты хранятся
// зашифрованными.
type WithdrawalService struct {
	uow      domain.UnitOfWork
	repos    domain.Repos
	policy   PolicyProvider
	codec    secrets.Codec
	notifier domain.Notifier
}

// NewWithdrawalService создает новый WithdrawalService
func NewWithdrawalService(uow domain.UnitOfWork, repos domain.Repos, policy PolicyProvider, codec secrets.Codec, notifier domain.Notifier) *WithdrawalService {
	return &WithdrawalService{
		uow:      uow,
		repos:    repos,
		policy:   policy,
		codec:    codec,
		notifier: notifier,
	}
}

// Request создает заявку на вывод средств. Сумма резервируется на
// кошельке; заявки в пределах лимита автоодобрения сразу переходят в
// approved, заявки помеченного пользователя уходят на ручную проверку.
func (s *WithdrawalService) Request(ctx context.Context, userID, amount int64, method, accountDetails string) (*domain.Withdrawal, error) {
	policy := s.policy.Load()

	if amount < policy.MinPayout {
		return nil, domain.ErrBelowMinPayout
	}

	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.WalletFrozen {
		return nil, domain.ErrWalletFrozen
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	monthly, err := s.repos.Withdrawals.SumForMonth(ctx, userID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("withdrawal service: failed to sum monthly withdrawals: %w", err)
	}
	if monthly+amount > policy.MonthlyWithdrawalCap {
		return nil, domain.ErrMonthlyCapExceeded
	}

	sealed, err := s.codec.Seal(accountDetails)
	if err != nil {
		return nil, fmt.Errorf("withdrawal service: failed to seal account details: %w", err)
	}

	var created *domain.Withdrawal

	err = s.uow.Do(ctx, []int64{userID}, func(r domain.Repos) error {
		var err error
		created, err = r.Withdrawals.Create(ctx, &domain.Withdrawal{
			UserID:         userID,
			Amount:         amount,
			Method:         method,
			AccountDetails: sealed,
			Status:         domain.WithdrawalStatusPending,
		})
		if err != nil {
			return err
		}

		reserve, err := r.Ledger.Post(ctx, domain.PostParams{
			UserID:         userID,
			Direction:      domain.LedgerDirectionDebit,
			Amount:         amount,
			Category:       domain.LedgerCategoryWithdrawalReserve,
			Reference:      fmt.Sprintf("withdrawal:%d", created.ID),
			IdempotencyKey: fmt.Sprintf("withdrawal:%d:reserve", created.ID),
			Pending:        true,
		})
		if err != nil {
			return err
		}

		if err := r.Withdrawals.SetReserveEntry(ctx, created.ID, reserve.ID); err != nil {
			return err
		}
		created.ReserveEntryID = &reserve.ID

		switch {
		case user.FlaggedForRecovery:
			if _, err := r.Withdrawals.UpdateStatus(ctx, created.ID,
				[]domain.WithdrawalStatus{domain.WithdrawalStatusPending},
				domain.WithdrawalStatusUnderReview, "user flagged for recovery",
			); err != nil {
				return err
			}
			if err := r.Withdrawals.SetFlagged(ctx, created.ID, true); err != nil {
				return err
			}
			created.Status = domain.WithdrawalStatusUnderReview
			created.Flagged = true

		case amount <= policy.AutoApproveWithdrawalMax:
			if _, err := r.Withdrawals.UpdateStatus(ctx, created.ID,
				[]domain.WithdrawalStatus{domain.WithdrawalStatusPending},
				domain.WithdrawalStatusApproved, "auto-approved",
			); err != nil {
				return err
			}
			created.Status = domain.WithdrawalStatusApproved
		}

		return nil
	})

	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("withdrawal service: failed to create withdrawal for user %d: %w", userID, err)
	}

	return created, nil
}

// Approve одобряет заявку вручную
func (s *WithdrawalService) Approve(ctx context.Context, withdrawalID int64, note string) error {
	applied, err := s.repos.Withdrawals.UpdateStatus(ctx, withdrawalID,
		[]domain.WithdrawalStatus{domain.WithdrawalStatusPending, domain.WithdrawalStatusUnderReview},
		domain.WithdrawalStatusApproved, note,
	)
	if err != nil {
		return fmt.Errorf("withdrawal service: failed to approve withdrawal %d: %w", withdrawalID, err)
	}
	if !applied {
		withdrawal, err := s.repos.Withdrawals.GetByID(ctx, withdrawalID)
		if err != nil {
			return err
		}
		if withdrawal.Status == domain.WithdrawalStatusApproved {
			return nil
		}
		return domain.ErrInvalidTransition
	}

	return nil
}

// Reject отклоняет заявку и освобождает резерв
func (s *WithdrawalService) Reject(ctx context.Context, withdrawalID int64, note string) error {
	return s.release(ctx, withdrawalID, domain.WithdrawalStatusRejected, note,
		[]domain.WithdrawalStatus{
			domain.WithdrawalStatusPending,
			domain.WithdrawalStatusApproved,
			domain.WithdrawalStatusUnderReview,
		},
	)
}

// Cancel отменяет заявку по инициативе пользователя
func (s *WithdrawalService) Cancel(ctx context.Context, withdrawalID, userID int64) error {
	withdrawal, err := s.repos.Withdrawals.GetByID(ctx, withdrawalID)
	if err != nil {
		return err
	}
	if withdrawal.UserID != userID {
		return domain.ErrWithdrawalNotFound
	}

	return s.release(ctx, withdrawalID, domain.WithdrawalStatusCancelled, "cancelled by user",
		[]domain.WithdrawalStatus{
			domain.WithdrawalStatusPending,
			domain.WithdrawalStatusApproved,
			domain.WithdrawalStatusUnderReview,
		},
	)
}

// release переводит заявку в терминальный статус и сторнирует резерв
func (s *WithdrawalService) release(ctx context.Context, withdrawalID int64, to domain.WithdrawalStatus, note string, from []domain.WithdrawalStatus) error {
	withdrawal, err := s.repos.Withdrawals.GetByID(ctx, withdrawalID)
	if err != nil {
		return err
	}

	err = s.uow.Do(ctx, []int64{withdrawal.UserID}, func(r domain.Repos) error {
		applied, err := r.Withdrawals.UpdateStatus(ctx, withdrawalID, from, to, note)
		if err != nil {
			return err
		}
		if !applied {
			current, err := r.Withdrawals.GetByID(ctx, withdrawalID)
			if err != nil {
				return err
			}
			if current.Status == to {
				return nil
			}
			return domain.ErrInvalidTransition
		}

		if withdrawal.ReserveEntryID != nil {
			reference := fmt.Sprintf("withdrawal:%d:%s", withdrawalID, to)
			if _, err := r.Ledger.Reverse(ctx, *withdrawal.ReserveEntryID, domain.LedgerCategoryWithdrawalRelease, reference); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		if isDomainError(err) {
			return err
		}
		return fmt.Errorf("withdrawal service: failed to release withdrawal %d: %w", withdrawalID, err)
	}

	return nil
}

// BeginSettlement забирает одобренную заявку в обработку. Пока заявка
// в processing, ее нельзя отменить или отклонить.
func (s *WithdrawalService) BeginSettlement(ctx context.Context, withdrawalID int64) error {
	applied, err := s.repos.Withdrawals.UpdateStatus(ctx, withdrawalID,
		[]domain.WithdrawalStatus{domain.WithdrawalStatusApproved},
		domain.WithdrawalStatusProcessing, "settlement started",
	)
	if err != nil {
		return fmt.Errorf("withdrawal service: failed to begin settlement for withdrawal %d: %w", withdrawalID, err)
	}
	if !applied {
		withdrawal, err := s.repos.Withdrawals.GetByID(ctx, withdrawalID)
		if err != nil {
			return err
		}
		if withdrawal.Status == domain.WithdrawalStatusProcessing {
			return nil
		}
		return domain.ErrInvalidTransition
	}

	return nil
}

// FailSettlement возвращает заявку из обработки с освобождением резерва.
// Заявка уходит в терминальный failed; пользователь может подать новую.
func (s *WithdrawalService) FailSettlement(ctx context.Context, withdrawalID int64, reason string) error {
	return s.release(ctx, withdrawalID, domain.WithdrawalStatusFailed, reason,
		[]domain.WithdrawalStatus{domain.WithdrawalStatusProcessing},
	)
}

// Flag помечает заявку для ручной проверки. Заявки в pending и approved
// дополнительно переводятся в under_review; по остальным флаг просто
// фиксируется.
func (s *WithdrawalService) Flag(ctx context.Context, withdrawalID int64, reason string) error {
	withdrawal, err := s.repos.Withdrawals.GetByID(ctx, withdrawalID)
	if err != nil {
		return err
	}

	err = s.uow.Do(ctx, []int64{withdrawal.UserID}, func(r domain.Repos) error {
		if err := r.Withdrawals.SetFlagged(ctx, withdrawalID, true); err != nil {
			return err
		}

		_, err := r.Withdrawals.UpdateStatus(ctx, withdrawalID,
			[]domain.WithdrawalStatus{domain.WithdrawalStatusPending, domain.WithdrawalStatusApproved},
			domain.WithdrawalStatusUnderReview, reason,
		)
		return err
	})

	if err != nil {
		if isDomainError(err) {
			return err
		}
		return fmt.Errorf("withdrawal service: failed to flag withdrawal %d: %w", withdrawalID, err)
	}

	return nil
}

// CompleteSettlement завершает расчет по заявке в обработке: резерв
// закрывается, комиссия за обработку уходит платформе, выплата
// отправляется внешним переводом с указанной ссылкой.
func (s *WithdrawalService) CompleteSettlement(ctx context.Context, withdrawalID int64, externalRef string) error {
	withdrawal, err := s.repos.Withdrawals.GetByID(ctx, withdrawalID)
	if err != nil {
		return err
	}

	fee := money.ApplyRate(withdrawal.Amount, s.policy.Load().WithdrawalFeeBp)

	locks := []int64{withdrawal.UserID, domain.PlatformAccountID}

	err = s.uow.Do(ctx, locks, func(r domain.Repos) error {
		applied, err := r.Withdrawals.UpdateStatus(ctx, withdrawalID,
			[]domain.WithdrawalStatus{domain.WithdrawalStatusProcessing},
			domain.WithdrawalStatusCompleted, "",
		)
		if err != nil {
			return err
		}
		if !applied {
			current, err := r.Withdrawals.GetByID(ctx, withdrawalID)
			if err != nil {
				return err
			}
			if current.Status == domain.WithdrawalStatusCompleted {
				return nil
			}
			return domain.ErrInvalidTransition
		}

		if withdrawal.ReserveEntryID == nil {
			return fmt.Errorf("withdrawal %d has no reserve entry", withdrawalID)
		}
		if _, err := r.Ledger.Finalize(ctx, *withdrawal.ReserveEntryID); err != nil {
			return err
		}

		if fee > 0 {
			if _, err := r.Ledger.Post(ctx, domain.PostParams{
				UserID:         domain.PlatformAccountID,
				Direction:      domain.LedgerDirectionCredit,
				Amount:         fee,
				Category:       domain.LedgerCategoryWithdrawalSettle,
				Reference:      fmt.Sprintf("withdrawal:%d", withdrawalID),
				IdempotencyKey: fmt.Sprintf("withdrawal:%d:fee", withdrawalID),
			}); err != nil {
				return err
			}
		}

		return r.Withdrawals.SetSettlement(ctx, withdrawalID, externalRef, fee)
	})

	if err != nil {
		if isDomainError(err) {
			return err
		}
		return fmt.Errorf("withdrawal service: failed to settle withdrawal %d: %w", withdrawalID, err)
	}

	s.notifier.WithdrawalSettled(ctx, withdrawal.UserID, withdrawalID)

	return nil
}

// Get возвращает заявку пользователя с расшифрованными реквизитами
func (s *WithdrawalService) Get(ctx context.Context, withdrawalID, userID int64) (*domain.Withdrawal, error) {
	withdrawal, err := s.repos.Withdrawals.GetByID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal.UserID != userID {
		return nil, domain.ErrWithdrawalNotFound
	}

	details, err := s.codec.Open(withdrawal.AccountDetails)
	if err != nil {
		return nil, fmt.Errorf("withdrawal service: failed to open account details: %w", err)
	}
	withdrawal.AccountDetails = details

	return withdrawal, nil
}
