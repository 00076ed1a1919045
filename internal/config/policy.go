package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
)

// Tier представляет ступень партнерской программы: диапазон по числу
// приведенных пользователей и надбавка к базовой ставке.
// MaxReferrals == 0 означает "без верхней границы".
type Tier struct {
	MinReferrals int   `json:"min_referrals"`
	MaxReferrals int   `json:"max_referrals"`
	BaseRateBp   int32 `json:"base_rate_bp"`
	BonusRateBp  int32 `json:"bonus_rate_bp"`
}

// HoldPeriods задает периоды удержания комиссий в днях
type HoldPeriods struct {
	Standard     int `json:"standard"`
	NewAffiliate int `json:"new_affiliate"`
	HighValue    int `json:"high_value"`
	Disputed     int `json:"disputed"`
}

// Policy содержит параметры денежного ядра. Набор опций закрытый:
// неизвестные ключи в файле политики — ошибка загрузки.
// Все ставки в базисных пунктах, все суммы в пайсах.
type Policy struct {
	PlatformFeeBp             int32       `json:"platform_fee_bp"`
	CommissionLevelRatesBp    [3]int32    `json:"commission_level_rates_bp"`
	Tiers                     []Tier      `json:"tiers"`
	HoldPeriods               HoldPeriods `json:"hold_periods"`
	PendingExpiryDays         int         `json:"pending_expiry_days"`
	ApprovedUnpaidExpiryDays  int         `json:"approved_unpaid_expiry_days"`
	MinPayout                 int64       `json:"min_payout"`
	MonthlyWithdrawalCap      int64       `json:"monthly_withdrawal_cap"`
	AutoApproveCommissionMax  int64       `json:"auto_approve_commission_max"`
	AutoApproveWithdrawalMax  int64       `json:"auto_approve_withdrawal_max"`
	PendingOrderAutoCancelHrs int         `json:"pending_order_auto_cancel_hours"`
	WithdrawalFeeBp           int32       `json:"withdrawal_fee_bp"`
	NewAffiliateDays          int         `json:"new_affiliate_days"`
	// StrictReferral: true — неразрешимый реферальный код отклоняет
	// заказ, false — атрибуция молча отбрасывается.
	StrictReferral bool `json:"strict_referral"`
}

// DefaultPolicy возвращает политику по умолчанию
func DefaultPolicy() *Policy {
	return &Policy{
		PlatformFeeBp:          1000,                     // 10%
		CommissionLevelRatesBp: [3]int32{1000, 500, 200}, // 10% / 5% / 2%
		HoldPeriods: HoldPeriods{
			Standard:     7,
			NewAffiliate: 14,
			HighValue:    21,
			Disputed:     30,
		},
		PendingExpiryDays:         90,
		ApprovedUnpaidExpiryDays:  180,
		MinPayout:                 50000,    // ₹500
		MonthlyWithdrawalCap:      10000000, // ₹100 000
		AutoApproveCommissionMax:  500000,   // ₹5 000
		AutoApproveWithdrawalMax:  2500000,  // ₹25 000
		PendingOrderAutoCancelHrs: 24,
		WithdrawalFeeBp:           0,
		NewAffiliateDays:          30,
	}
}

// Validate проверяет согласованность политики
func (p *Policy) Validate() error {
	if p.PlatformFeeBp < 0 || p.PlatformFeeBp > 10000 {
		return fmt.Errorf("platform fee must be within [0, 10000] bp, got %d", p.PlatformFeeBp)
	}

	for i, rate := range p.CommissionLevelRatesBp {
		if rate < 0 || rate > 5000 {
			return fmt.Errorf("commission level %d rate must be within [0, 5000] bp, got %d", i+1, rate)
		}
	}

	if p.PlatformFeeBp+p.CommissionLevelRatesBp[0] > 10000 {
		return fmt.Errorf("platform fee and level-1 commission together exceed 100%%")
	}

	if p.WithdrawalFeeBp < 0 || p.WithdrawalFeeBp > 10000 {
		return fmt.Errorf("withdrawal fee must be within [0, 10000] bp, got %d", p.WithdrawalFeeBp)
	}

	for _, days := range []int{
		p.HoldPeriods.Standard, p.HoldPeriods.NewAffiliate,
		p.HoldPeriods.HighValue, p.HoldPeriods.Disputed,
	} {
		if days < 0 {
			return fmt.Errorf("hold periods must be non-negative")
		}
	}

	if p.PendingExpiryDays <= 0 || p.ApprovedUnpaidExpiryDays <= 0 {
		return fmt.Errorf("expiry periods must be positive")
	}

	if p.MinPayout <= 0 {
		return fmt.Errorf("min payout must be positive, got %d", p.MinPayout)
	}

	if p.MonthlyWithdrawalCap < p.MinPayout {
		return fmt.Errorf("monthly withdrawal cap %d is below min payout %d", p.MonthlyWithdrawalCap, p.MinPayout)
	}

	if p.PendingOrderAutoCancelHrs <= 0 {
		return fmt.Errorf("pending order auto-cancel period must be positive")
	}

	// Ступени идут по возрастанию и не пересекаются
	prevMax := -1
	for i, tier := range p.Tiers {
		if tier.MinReferrals <= prevMax {
			return fmt.Errorf("tier %d overlaps the previous tier", i)
		}
		if tier.MaxReferrals != 0 && tier.MaxReferrals < tier.MinReferrals {
			return fmt.Errorf("tier %d has max below min", i)
		}
		if tier.BaseRateBp < 0 || tier.BonusRateBp < 0 {
			return fmt.Errorf("tier %d has negative rate", i)
		}
		if tier.MaxReferrals == 0 {
			if i != len(p.Tiers)-1 {
				return fmt.Errorf("unbounded tier %d must be the last one", i)
			}
			break
		}
		prevMax = tier.MaxReferrals
	}

	return nil
}

// TierFor возвращает ступень для данного числа приведенных
// пользователей или nil, если подходящей нет.
func (p *Policy) TierFor(referrals int) *Tier {
	for i := range p.Tiers {
		t := &p.Tiers[i]
		if referrals >= t.MinReferrals && (t.MaxReferrals == 0 || referrals <= t.MaxReferrals) {
			return t
		}
	}
	return nil
}

// LoadPolicy загружает политику из JSON-файла. Пустой путь дает
// политику по умолчанию.
func LoadPolicy(path string) (*Policy, error) {
	policy := DefaultPolicy()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read policy file %q: %w", path, err)
		}

		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(policy); err != nil {
			return nil, fmt.Errorf("failed to parse policy file %q: %w", path, err)
		}
	}

	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}

	return policy, nil
}

// PolicyStore хранит актуальную политику и позволяет атомарно ее
// заменить. Изменения применяются только к новым операциям: записи,
// созданные по прежней политике, не пересчитываются.
type PolicyStore struct {
	path    string
	current atomic.Pointer[Policy]
}

// NewPolicyStore создает хранилище политики, сразу загружая ее
func NewPolicyStore(path string) (*PolicyStore, error) {
	policy, err := LoadPolicy(path)
	if err != nil {
		return nil, err
	}

	s := &PolicyStore{path: path}
	s.current.Store(policy)
	return s, nil
}

// Load возвращает действующую политику
func (s *PolicyStore) Load() *Policy {
	return s.current.Load()
}

// Reload перечитывает политику из файла. При ошибке действующая
// политика остается прежней.
func (s *PolicyStore) Reload() error {
	policy, err := LoadPolicy(s.path)
	if err != nil {
		return err
	}
	s.current.Store(policy)
	return nil
}
