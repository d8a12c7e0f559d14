package ledger

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/guildledger/internal/concurrency"
	"github.com/osse101/guildledger/internal/database/sqlite"
	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/event"
	"github.com/osse101/guildledger/internal/testing/storetest"
	"github.com/osse101/guildledger/mocks"
)

func newTestService(t *testing.T) (Service, *sqlite.Store, *event.MemoryBus) {
	t.Helper()
	store := storetest.NewSQLite(t)
	bus := event.NewMemoryBus()
	svc := NewService(store, concurrency.NewLockManager(), bus, Options{StartingGold: 500, OperationTimeout: 5 * time.Second})
	return svc, store, bus
}

func TestProvision(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	l, created, err := svc.Provision(ctx, "alice", nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.Balance{Gold: 500}, l.Balance)

	// Second call returns the stored ledger instead of resetting it.
	l, created, err = svc.Provision(ctx, "alice", &domain.Balance{Gold: 9999})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(500), l.Gold)
}

func TestProvision_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.Provision(context.Background(), "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = svc.Provision(context.Background(), "bob", &domain.Balance{Gems: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestGetBalance(t *testing.T) {
	svc, store, _ := newTestService(t)
	storetest.Player(t, store, "alice", domain.Balance{Gold: 10, Gems: 2, Metals: 3, Quartz: 4})

	b, err := svc.GetBalance(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.Balance{Gold: 10, Gems: 2, Metals: 3, Quartz: 4}, b)

	_, err = svc.GetBalance(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestApplyDelta(t *testing.T) {
	tests := []struct {
		name    string
		delta   domain.Delta
		want    domain.Balance
		wantErr error
	}{
		{"credit", domain.Delta{Gold: 50, Quartz: 1}, domain.Balance{Gold: 150, Metals: 10, Quartz: 1}, nil},
		{"debit to zero", domain.Delta{Gold: -100, Metals: -10}, domain.Balance{}, nil},
		{"overdraw gold", domain.Delta{Gold: -101}, domain.Balance{Gold: 100, Metals: 10}, domain.ErrInsufficientFunds},
		{"one field overdrawn blocks all", domain.Delta{Gold: 5, Metals: -11}, domain.Balance{Gold: 100, Metals: 10}, domain.ErrInsufficientFunds},
		{"empty delta", domain.Delta{}, domain.Balance{Gold: 100, Metals: 10}, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newTestService(t)
			storetest.Player(t, store, "alice", domain.Balance{Gold: 100, Metals: 10})

			got, err := svc.ApplyDelta(context.Background(), "alice", tt.delta)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, tt.want, storetest.Balance(t, store, "alice"))
		})
	}
}

func TestApplyDelta_UnknownPlayer(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.ApplyDelta(context.Background(), "ghost", domain.Delta{Gold: 1})
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestApplyDelta_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	svc, store, _ := newTestService(t)
	storetest.Player(t, store, "alice", domain.Balance{Gold: 100})

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.ApplyDelta(context.Background(), "alice", domain.Delta{Gold: -30}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, int64(10), storetest.Balance(t, store, "alice").Gold)
}

func TestGrant_PublishesAfterCommit(t *testing.T) {
	svc, store, bus := newTestService(t)
	storetest.Player(t, store, "alice", domain.Balance{Gold: 100})

	var got []event.Event
	bus.Subscribe(event.LedgerGranted, func(_ context.Context, e event.Event) error {
		got = append(got, e)
		return nil
	})

	b, err := svc.Grant(context.Background(), "alice", domain.Delta{Gold: 25, Gems: 3}, "beach fight")
	require.NoError(t, err)
	assert.Equal(t, domain.Balance{Gold: 125, Gems: 3}, b)

	require.Len(t, got, 1)
	p, err := event.DecodePayload[event.LedgerGrantedPayloadV1](got[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.PlayerID)
	assert.Equal(t, "beach fight", p.Reason)
	assert.Equal(t, b, p.Balance)
}

func TestGrant_RejectedDeltaPublishesNothing(t *testing.T) {
	svc, store, bus := newTestService(t)
	storetest.Player(t, store, "alice", domain.Balance{Gold: 10})

	published := false
	bus.Subscribe(event.LedgerGranted, func(context.Context, event.Event) error {
		published = true
		return nil
	})

	_, err := svc.Grant(context.Background(), "alice", domain.Delta{Gold: -11}, "loss")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.False(t, published)
}

func TestApplyDelta_CommitFailureIsReported(t *testing.T) {
	repo := new(mocks.MockEconomy)
	tx := new(mocks.MockEconomyTx)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("LockPlayers", mock.Anything, []string{"alice"}).Return(map[string]domain.Balance{"alice": {Gold: 5}}, nil)
	tx.On("ApplyDelta", mock.Anything, "alice", domain.Delta{Gold: 1}).Return(domain.Balance{Gold: 6}, nil)
	tx.On("Commit", mock.Anything).Return(errors.New("connection reset"))
	tx.On("Rollback", mock.Anything).Return(nil)

	svc := NewService(repo, concurrency.NewLockManager(), event.NewMemoryBus(), Options{})
	_, err := svc.ApplyDelta(context.Background(), "alice", domain.Delta{Gold: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to commit transaction")
	tx.AssertCalled(t, "Rollback", mock.Anything)
}

func TestProvision_PublishesOnlyWhenCreated(t *testing.T) {
	svc, _, bus := newTestService(t)
	ctx := context.Background()

	var got []event.Event
	bus.Subscribe(event.LedgerProvisioned, func(_ context.Context, e event.Event) error {
		got = append(got, e)
		return nil
	})

	_, _, err := svc.Provision(ctx, "alice", &domain.Balance{Gold: 40, Quartz: 2})
	require.NoError(t, err)
	_, _, err = svc.Provision(ctx, "alice", nil)
	require.NoError(t, err)

	require.Len(t, got, 1)
	p, err := event.DecodePayload[event.LedgerProvisionedPayloadV1](got[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.PlayerID)
	assert.Equal(t, domain.Balance{Gold: 40, Quartz: 2}, p.Balance)
}

func TestGrant_PastLedgerMaximumIsRejected(t *testing.T) {
	svc, store, bus := newTestService(t)
	storetest.Player(t, store, "alice", domain.Balance{Gold: math.MaxInt64 - 5, Gems: 1})

	published := false
	bus.Subscribe(event.LedgerGranted, func(context.Context, event.Event) error {
		published = true
		return nil
	})

	_, err := svc.Grant(context.Background(), "alice", domain.Delta{Gold: 100}, "jackpot")
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
	assert.False(t, published)
	assert.Equal(t, domain.Balance{Gold: math.MaxInt64 - 5, Gems: 1}, storetest.Balance(t, store, "alice"))

	// Debits near the maximum still apply.
	b, err := svc.Grant(context.Background(), "alice", domain.Delta{Gold: -5}, "fee")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64-10), b.Gold)
}

func TestGrant_WithoutPublisher(t *testing.T) {
	store := storetest.NewSQLite(t)
	storetest.Player(t, store, "alice", domain.Balance{Gold: 1})
	svc := NewService(store, concurrency.NewLockManager(), nil, Options{})

	b, err := svc.Grant(context.Background(), "alice", domain.Delta{Gold: 2}, "refund")
	require.NoError(t, err)
	assert.Equal(t, int64(3), b.Gold)

	_, created, err := svc.Provision(context.Background(), "bob", nil)
	require.NoError(t, err)
	assert.True(t, created)
}
