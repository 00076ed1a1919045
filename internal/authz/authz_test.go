package authz

import (
	"testing"

	"github.com/skillmint/marketplace-core/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	tests := []struct {
		name string
		role domain.Role
		cap  Capability
		want bool
	}{
		{
			name: "Admin can approve withdrawals",
			role: domain.RoleAdmin,
			cap:  CapApproveWithdrawal,
			want: true,
		},
		{
			name: "Admin can process refunds",
			role: domain.RoleAdmin,
			cap:  CapProcessRefund,
			want: true,
		},
		{
			name: "Platform can credit wallets",
			role: domain.RolePlatform,
			cap:  CapCreditWallet,
			want: true,
		},
		{
			name: "Platform cannot approve withdrawals",
			role: domain.RolePlatform,
			cap:  CapApproveWithdrawal,
			want: false,
		},
		{
			name: "Student has no capabilities",
			role: domain.RoleStudent,
			cap:  CapCreditWallet,
			want: false,
		},
		{
			name: "Affiliate cannot approve commissions",
			role: domain.RoleAffiliate,
			cap:  CapApproveCommission,
			want: false,
		},
		{
			name: "Unknown role",
			role: domain.Role("superuser"),
			cap:  CapDebitWallet,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Can(tt.role, tt.cap))
		})
	}
}
