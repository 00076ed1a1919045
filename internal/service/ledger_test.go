package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skillmint/marketplace-core/internal/domain"
)

func newLedgerService(t *testing.T) (*LedgerService, *testRepos, *uowStub) {
	t.Helper()

	tr := newTestRepos(t)
	uow := &uowStub{repos: tr.repos()}
	return NewLedgerService(uow, tr.repos()), tr, uow
}

func TestLedgerService_GetBalance(t *testing.T) {
	svc, tr, _ := newLedgerService(t)
	ctx := context.Background()

	tr.ledger.EXPECT().Balance(mock.Anything, int64(7)).
		Return(&domain.Balance{Total: 100000, Available: 60000, Reserved: 40000}, nil).Once()

	balance, err := svc.GetBalance(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(60000), balance.Available)
}

func TestLedgerService_GetTransactions(t *testing.T) {
	svc, tr, _ := newLedgerService(t)
	ctx := context.Background()

	filter := domain.LedgerFilter{Limit: 10}
	tr.ledger.EXPECT().Scan(mock.Anything, int64(7), filter).
		Return([]*domain.LedgerEntry{{ID: 1}, {ID: 2}}, nil).Once()

	entries, err := svc.GetTransactions(ctx, 7, filter)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestLedgerService_AdminAdjust(t *testing.T) {
	ctx := context.Background()

	t.Run("Credit adjustment", func(t *testing.T) {
		svc, tr, uow := newLedgerService(t)

		tr.users.EXPECT().GetByID(mock.Anything, int64(7)).
			Return(&domain.User{ID: 7, Active: true}, nil).Once()
		tr.ledger.EXPECT().Post(mock.Anything, domain.PostParams{
			UserID:         int64(7),
			Direction:      domain.LedgerDirectionCredit,
			Amount:         50000,
			Category:       domain.LedgerCategoryAdminAdjustment,
			Reference:      "support:ticket:991",
			IdempotencyKey: "adjust:991",
		}).Return(&domain.LedgerEntry{ID: 20, Amount: 50000}, nil).Once()

		entry, err := svc.AdminAdjust(ctx, 7, domain.LedgerDirectionCredit, 50000, "support:ticket:991", "adjust:991")
		require.NoError(t, err)
		assert.Equal(t, int64(20), entry.ID)

		require.Len(t, uow.locks, 1)
		assert.Equal(t, []int64{7}, uow.locks[0])
	})

	t.Run("Debit on frozen wallet", func(t *testing.T) {
		svc, tr, _ := newLedgerService(t)

		tr.users.EXPECT().GetByID(mock.Anything, int64(7)).
			Return(&domain.User{ID: 7, WalletFrozen: true}, nil).Once()

		_, err := svc.AdminAdjust(ctx, 7, domain.LedgerDirectionDebit, 50000, "support:ticket:991", "adjust:991")
		assert.ErrorIs(t, err, domain.ErrWalletFrozen)
	})

	t.Run("Credit on frozen wallet is allowed", func(t *testing.T) {
		svc, tr, _ := newLedgerService(t)

		tr.users.EXPECT().GetByID(mock.Anything, int64(7)).
			Return(&domain.User{ID: 7, WalletFrozen: true}, nil).Once()
		tr.ledger.EXPECT().Post(mock.Anything, mock.MatchedBy(func(p domain.PostParams) bool {
			return p.Direction == domain.LedgerDirectionCredit && p.Amount == 10000
		})).Return(&domain.LedgerEntry{ID: 21}, nil).Once()

		_, err := svc.AdminAdjust(ctx, 7, domain.LedgerDirectionCredit, 10000, "support:ticket:992", "adjust:992")
		assert.NoError(t, err)
	})

	t.Run("Insufficient funds passes through", func(t *testing.T) {
		svc, tr, _ := newLedgerService(t)

		tr.users.EXPECT().GetByID(mock.Anything, int64(7)).
			Return(&domain.User{ID: 7, Active: true}, nil).Once()
		tr.ledger.EXPECT().Post(mock.Anything, mock.Anything).
			Return(nil, domain.ErrInsufficientFunds).Once()

		_, err := svc.AdminAdjust(ctx, 7, domain.LedgerDirectionDebit, 900000, "support:ticket:993", "adjust:993")
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	})
}
