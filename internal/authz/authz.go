package authz

import "github.com/skillmint/marketplace-core/internal/domain"

// Capability представляет право на операцию денежного ядра
type Capability string

const (
	CapCreditWallet       Capability = "CREDIT_WALLET"
	CapDebitWallet        Capability = "DEBIT_WALLET"
	CapApproveCommission  Capability = "APPROVE_COMMISSION"
	CapApproveWithdrawal  Capability = "APPROVE_WITHDRAWAL"
	CapProcessWithdrawal  Capability = "PROCESS_WITHDRAWAL"
	CapFreezeWallet       Capability = "FREEZE_WALLET"
	CapProcessRefund      Capability = "PROCESS_REFUND"
)

// roleCapabilities задает права каждой роли.
// Компоненты спрашивают право, а не роль: хендлеры не знают,
// какие роли за каким правом стоят.
var roleCapabilities = map[domain.Role]map[Capability]bool{
	domain.RoleAdmin: {
		CapCreditWallet:      true,
		CapDebitWallet:       true,
		CapApproveCommission: true,
		CapApproveWithdrawal: true,
		CapProcessWithdrawal: true,
		CapFreezeWallet:      true,
		CapProcessRefund:     true,
	},
	domain.RolePlatform: {
		CapCreditWallet: true,
		CapDebitWallet:  true,
	},
}

// Can сообщает, есть ли у роли данное право
func Can(role domain.Role, cap Capability) bool {
	caps, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	return caps[cap]
}
