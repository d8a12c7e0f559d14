package economy

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/guildledger/internal/catalog"
	"github.com/osse101/guildledger/internal/concurrency"
	"github.com/osse101/guildledger/internal/database"
	"github.com/osse101/guildledger/internal/database/sqlite"
	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/event"
	"github.com/osse101/guildledger/internal/inventory"
	"github.com/osse101/guildledger/internal/repository"
	"github.com/osse101/guildledger/internal/testing/storetest"
)

type fixture struct {
	svc    Service
	store  *sqlite.Store
	bus    *event.MemoryBus
	events []event.Event
	mu     sync.Mutex
}

func newFixture(t *testing.T, repo repository.Economy, store *sqlite.Store) *fixture {
	t.Helper()
	f := &fixture{store: store, bus: event.NewMemoryBus()}
	for _, typ := range []event.Type{event.EquipmentPurchased, event.EquipmentSold} {
		f.bus.Subscribe(typ, func(_ context.Context, e event.Event) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.events = append(f.events, e)
			return nil
		})
	}
	cat := catalog.NewService(store, time.Minute)
	f.svc = NewService(repo, cat, inventory.NewManager(store, cat), concurrency.NewLockManager(), f.bus,
		Options{OperationTimeout: 5 * time.Second})
	return f
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := storetest.NewSQLite(t)
	return newFixture(t, store, store)
}

func TestPurchase_Scenario(t *testing.T) {
	f := setup(t)
	storetest.Player(t, f.store, "alice", domain.Balance{Gold: 500})

	res, err := f.svc.Purchase(context.Background(), "alice", "iron_sword", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(300), res.Balance.Gold)
	assert.Equal(t, int64(200), res.CostGold)

	items := storetest.Items(t, f.store, "alice")
	require.Len(t, items, 1)
	assert.Equal(t, res.InventoryID, items[0].InventoryID)
	assert.False(t, items[0].IsEquipped())
	assert.Equal(t, int64(300), storetest.Balance(t, f.store, "alice").Gold)

	require.Len(t, f.events, 1)
	assert.Equal(t, event.EquipmentPurchased, f.events[0].Type)
}

func TestPurchase_InsufficientFunds(t *testing.T) {
	f := setup(t)
	storetest.Player(t, f.store, "alice", domain.Balance{Gold: 50})

	_, err := f.svc.Purchase(context.Background(), "alice", "iron_sword", nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	assert.Equal(t, int64(50), storetest.Balance(t, f.store, "alice").Gold)
	assert.Empty(t, storetest.Items(t, f.store, "alice"))
	assert.Empty(t, f.events)
}

func TestPurchase_Rejections(t *testing.T) {
	armor := domain.SlotArmor
	tests := []struct {
		name        string
		player      string
		equipmentID string
		slot        *domain.SlotType
		wantErr     error
	}{
		{"unknown equipment", "alice", "excalibur", nil, domain.ErrNotFound},
		{"wrong slot type", "alice", "iron_sword", &armor, domain.ErrSlotMismatch},
		{"unknown player", "ghost", "iron_sword", nil, domain.ErrPlayerNotFound},
		{"missing id", "alice", "", nil, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			storetest.Player(t, f.store, "alice", domain.Balance{Gold: 500})

			_, err := f.svc.Purchase(context.Background(), tt.player, tt.equipmentID, tt.slot)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, int64(500), storetest.Balance(t, f.store, "alice").Gold)
			assert.Empty(t, storetest.Items(t, f.store, "alice"))
		})
	}
}

func TestSell_RefundRoundsDown(t *testing.T) {
	tests := []struct {
		equipmentID string
		cost        int64
		refund      int64
	}{
		{"iron_sword", 200, 100},
		{"leather_vest", 100, 50},
		{"odd_dagger", 101, 50},
		{"sandals", 25, 12},
	}

	for _, tt := range tests {
		t.Run(tt.equipmentID, func(t *testing.T) {
			f := setup(t)
			storetest.Player(t, f.store, "alice", domain.Balance{Gold: tt.cost})

			bought, err := f.svc.Purchase(context.Background(), "alice", tt.equipmentID, nil)
			require.NoError(t, err)
			require.Zero(t, bought.Balance.Gold)

			sold, err := f.svc.Sell(context.Background(), "alice", bought.InventoryID)
			require.NoError(t, err)
			assert.Equal(t, tt.refund, sold.RefundGold)
			assert.Equal(t, tt.refund, sold.Balance.Gold)
			assert.Empty(t, storetest.Items(t, f.store, "alice"))
		})
	}
}

func TestSell_ItemNotFound(t *testing.T) {
	f := setup(t)
	storetest.Player(t, f.store, "alice", domain.Balance{Gold: 500})
	storetest.Player(t, f.store, "bob", domain.Balance{Gold: 500})

	bought, err := f.svc.Purchase(context.Background(), "bob", "iron_sword", nil)
	require.NoError(t, err)

	for _, id := range []string{"2b5e0f3c-0000-4000-8000-000000000000", bought.InventoryID, ""} {
		_, err := f.svc.Sell(context.Background(), "alice", id)
		require.ErrorIs(t, err, domain.ErrItemNotFound)
		assert.Contains(t, err.Error(), "Item not found in inventory.")
	}
	assert.Equal(t, int64(500), storetest.Balance(t, f.store, "alice").Gold)
	assert.Len(t, storetest.Items(t, f.store, "bob"), 1)
}

func TestSell_EquippedItem(t *testing.T) {
	f := setup(t)
	storetest.Player(t, f.store, "alice", domain.Balance{Gold: 500})
	ctx := context.Background()

	bought, err := f.svc.Purchase(ctx, "alice", "iron_helm", nil)
	require.NoError(t, err)
	_, err = f.svc.EquipOrSwap(ctx, "alice", bought.InventoryID, domain.SlotHelmet)
	require.NoError(t, err)

	sold, err := f.svc.Sell(ctx, "alice", bought.InventoryID)
	require.NoError(t, err)
	assert.Equal(t, int64(90), sold.RefundGold)

	view, err := f.svc.Inventory(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, view.Equipped)
	assert.Equal(t, domain.BaseStats, view.Stats)
}

func TestEquipOrSwap_AndUnequip(t *testing.T) {
	f := setup(t)
	storetest.Player(t, f.store, "alice", domain.Balance{Gold: 1000})
	ctx := context.Background()

	sword, err := f.svc.Purchase(ctx, "alice", "iron_sword", nil)
	require.NoError(t, err)
	dagger, err := f.svc.Purchase(ctx, "alice", "odd_dagger", nil)
	require.NoError(t, err)

	equipped, err := f.svc.EquipOrSwap(ctx, "alice", sword.InventoryID, domain.SlotWeapon)
	require.NoError(t, err)
	assert.Equal(t, sword.InventoryID, equipped[domain.SlotWeapon].InventoryID)

	equipped, err = f.svc.EquipOrSwap(ctx, "alice", dagger.InventoryID, domain.SlotWeapon)
	require.NoError(t, err)
	assert.Equal(t, dagger.InventoryID, equipped[domain.SlotWeapon].InventoryID)

	_, err = f.svc.EquipOrSwap(ctx, "alice", dagger.InventoryID, domain.SlotBoots)
	assert.ErrorIs(t, err, domain.ErrSlotMismatch)

	equipped, err = f.svc.Unequip(ctx, "alice", domain.SlotWeapon)
	require.NoError(t, err)
	assert.Empty(t, equipped)

	// Equip changes never touch the ledger.
	assert.Equal(t, int64(1000-200-101), storetest.Balance(t, f.store, "alice").Gold)
}

func TestShop(t *testing.T) {
	f := setup(t)
	storetest.Player(t, f.store, "alice", domain.Balance{Gold: 321})

	view, err := f.svc.Shop(context.Background(), "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(321), view.Gold)
	require.Len(t, view.Equipment, len(storetest.Catalog))
	for i := 1; i < len(view.Equipment); i++ {
		assert.LessOrEqual(t, view.Equipment[i-1].CostGold, view.Equipment[i].CostGold)
	}

	weapon := domain.SlotWeapon
	view, err = f.svc.Shop(context.Background(), "alice", &weapon)
	require.NoError(t, err)
	require.Len(t, view.Equipment, 2)
	assert.Equal(t, "odd_dagger", view.Equipment[0].ID)

	_, err = f.svc.Shop(context.Background(), "ghost", nil)
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestPurchase_ConcurrentSpendNeverOverdraws(t *testing.T) {
	f := setup(t)
	storetest.Player(t, f.store, "alice", domain.Balance{Gold: 500})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.Purchase(context.Background(), "alice", "iron_sword", nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), storetest.Balance(t, f.store, "alice").Gold)
	assert.Len(t, storetest.Items(t, f.store, "alice"), 2)
}

// failingStore injects a failure after the debit has been applied.
type failingStore struct {
	*sqlite.Store
	insertErr error
}

func (s failingStore) BeginTx(ctx context.Context) (repository.EconomyTx, error) {
	tx, err := s.Store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return failingTx{EconomyTx: tx, insertErr: s.insertErr}, nil
}

type failingTx struct {
	repository.EconomyTx
	insertErr error
}

func (tx failingTx) InsertItem(context.Context, domain.InventoryItem) error {
	return tx.insertErr
}

func TestPurchase_FailureMidTransactionLeavesNoTrace(t *testing.T) {
	store := storetest.NewSQLite(t)
	storetest.Player(t, store, "alice", domain.Balance{Gold: 500})
	f := newFixture(t, failingStore{Store: store, insertErr: database.Transient("insert inventory item", context.DeadlineExceeded)}, store)

	_, err := f.svc.Purchase(context.Background(), "alice", "iron_sword", nil)
	require.ErrorIs(t, err, domain.ErrTransient)
	assert.Equal(t, domain.CodeTransient, domain.Code(err))

	assert.Equal(t, int64(500), storetest.Balance(t, store, "alice").Gold)
	assert.Empty(t, storetest.Items(t, store, "alice"))
	assert.Empty(t, f.events)
}
