package service

import (
	"context"
	"testing"

	"github.com/skillmint/marketplace-core/internal/config"
	"github.com/skillmint/marketplace-core/internal/domain"
	"github.com/skillmint/marketplace-core/internal/domain/mocks"
)

// testRepos собирает domain.Repos из моков репозиториев
type testRepos struct {
	users       *mocks.UserRepositoryMock
	courses     *mocks.CourseRepositoryMock
	orders      *mocks.OrderRepositoryMock
	ledger      *mocks.LedgerRepositoryMock
	commissions *mocks.CommissionRepositoryMock
	withdrawals *mocks.WithdrawalRepositoryMock
	enrollments *mocks.EnrollmentRepositoryMock
}

func newTestRepos(t *testing.T) *testRepos {
	t.Helper()

	return &testRepos{
		users:       mocks.NewUserRepositoryMock(t),
		courses:     mocks.NewCourseRepositoryMock(t),
		orders:      mocks.NewOrderRepositoryMock(t),
		ledger:      mocks.NewLedgerRepositoryMock(t),
		commissions: mocks.NewCommissionRepositoryMock(t),
		withdrawals: mocks.NewWithdrawalRepositoryMock(t),
		enrollments: mocks.NewEnrollmentRepositoryMock(t),
	}
}

func (tr *testRepos) repos() domain.Repos {
	return domain.Repos{
		Users:       tr.users,
		Courses:     tr.courses,
		Orders:      tr.orders,
		Ledger:      tr.ledger,
		Commissions: tr.commissions,
		Withdrawals: tr.withdrawals,
		Enrollments: tr.enrollments,
	}
}

// uowStub выполняет fn на тех же репозиториях без транзакции и
// запоминает, какие блокировки запрашивались
type uowStub struct {
	repos domain.Repos
	locks [][]int64
}

func (u *uowStub) Do(_ context.Context, ownerIDs []int64, fn func(r domain.Repos) error) error {
	owners := make([]int64, len(ownerIDs))
	copy(owners, ownerIDs)
	u.locks = append(u.locks, owners)

	return fn(u.repos)
}

// policyStub отдает фиксированную политику
type policyStub struct {
	p *config.Policy
}

func (s policyStub) Load() *config.Policy {
	return s.p
}
