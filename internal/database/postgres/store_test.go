package postgres

import (
	"context"
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/guildledger/internal/database"
	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/testing/pgtest"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	flag.Parse()

	terminate := func() {}
	if !testing.Short() {
		ctx := context.Background()
		var connStr string
		connStr, terminate = pgtest.Start(ctx)
		if connStr != "" {
			testPool = mustMigratedPool(ctx, connStr)
		}
	}

	code := m.Run()
	if testPool != nil {
		testPool.Close()
	}
	terminate()
	os.Exit(code)
}

func mustMigratedPool(ctx context.Context, connStr string) *pgxpool.Pool {
	pool, err := database.NewPool(ctx, connStr, database.PoolConfig{MaxConns: 10})
	if err != nil {
		panic(err)
	}
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	if err := database.Migrate(ctx, db, database.DialectPostgres); err != nil {
		panic(err)
	}
	return pool
}

// newStore returns the shared store. Tests isolate themselves with unique ids.
func newStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testPool == nil {
		t.Skip("Skipping integration test: database not available")
	}
	return NewStore(testPool)
}

func playerID(t *testing.T) string {
	return t.Name() + "-" + uuid.NewString()[:8]
}

var testEquipment = []domain.Equipment{
	{ID: "pg_sword", Name: "Test Sword", SlotType: domain.SlotWeapon, CostGold: 200, Stats: domain.Stats{Attack: 8, Speed: -1}},
	{ID: "pg_vest", Name: "Test Vest", SlotType: domain.SlotArmor, CostGold: 100, Stats: domain.Stats{Defense: 4, Health: 10}},
}

func TestStore_CreateLedgerIsIdempotent(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	id := playerID(t)

	l, created, err := store.CreateLedger(ctx, id, domain.Balance{Gold: 500})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(500), l.Gold)

	l, created, err = store.CreateLedger(ctx, id, domain.Balance{Gold: 9999})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(500), l.Gold, "existing ledger is returned unchanged")

	_, err = store.GetLedger(ctx, "missing-"+id)
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestStore_ApplyDeltaGuard(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	id := playerID(t)
	_, _, err := store.CreateLedger(ctx, id, domain.Balance{Gold: 100, Metals: 10})
	require.NoError(t, err)

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	balances, err := tx.LockPlayers(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.Balance{Gold: 100, Metals: 10}, balances[id])

	_, err = tx.ApplyDelta(ctx, id, domain.Delta{Gold: -101})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	b, err := tx.ApplyDelta(ctx, id, domain.Delta{Gold: -100, Metals: 5})
	require.NoError(t, err)
	assert.Equal(t, domain.Balance{Gold: 0, Metals: 15}, b)
	require.NoError(t, tx.Commit(ctx))

	l, err := store.GetLedger(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.Balance{Gold: 0, Metals: 15}, l.Balance)
}

func TestStore_LockPlayersMissing(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	id := playerID(t)
	_, _, err := store.CreateLedger(ctx, id, domain.Balance{})
	require.NoError(t, err)

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.LockPlayers(ctx, id, "ghost-"+id)
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestStore_CatalogUpsert(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, _, err := store.UpsertEquipment(ctx, testEquipment)
	require.NoError(t, err)

	changed := testEquipment[0]
	changed.CostGold = 250
	inserted, updated, err := store.UpsertEquipment(ctx, []domain.Equipment{changed})
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
	assert.Equal(t, 1, updated)

	got, err := store.GetEquipment(ctx, changed.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(250), got.CostGold)

	_, _, err = store.UpsertEquipment(ctx, testEquipment)
	require.NoError(t, err)
}

func TestStore_InventorySlots(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	id := playerID(t)
	_, _, err := store.CreateLedger(ctx, id, domain.Balance{})
	require.NoError(t, err)
	_, _, err = store.UpsertEquipment(ctx, testEquipment)
	require.NoError(t, err)

	first := domain.InventoryItem{InventoryID: uuid.NewString(), OwnerID: id, EquipmentID: "pg_sword", AcquiredAt: time.Now()}
	second := domain.InventoryItem{InventoryID: uuid.NewString(), OwnerID: id, EquipmentID: "pg_sword", AcquiredAt: time.Now()}
	weapon := domain.SlotWeapon

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.InsertItem(ctx, first))
	require.NoError(t, tx.InsertItem(ctx, second))
	require.NoError(t, tx.SetEquippedSlot(ctx, first.InventoryID, &weapon))

	equipped, err := tx.GetEquippedForUpdate(ctx, id, domain.SlotWeapon)
	require.NoError(t, err)
	require.NotNil(t, equipped)
	assert.Equal(t, first.InventoryID, equipped.InventoryID)

	// Swap: clear the occupant before filling the slot.
	require.NoError(t, tx.SetEquippedSlot(ctx, first.InventoryID, nil))
	require.NoError(t, tx.SetEquippedSlot(ctx, second.InventoryID, &weapon))
	require.NoError(t, tx.Commit(ctx))

	items, err := store.ListInventory(ctx, id)
	require.NoError(t, err)
	require.Len(t, items, 2)
	var equippedCount int
	for _, it := range items {
		if it.IsEquipped() {
			equippedCount++
			assert.Equal(t, second.InventoryID, it.InventoryID)
		}
	}
	assert.Equal(t, 1, equippedCount)

	tx, err = store.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()
	_, err = tx.GetItemForUpdate(ctx, "someone-else", first.InventoryID)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestStore_ListingLifecycle(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	seller := playerID(t)
	buyer := "buyer-" + seller
	for _, p := range []string{seller, buyer} {
		_, _, err := store.CreateLedger(ctx, p, domain.Balance{})
		require.NoError(t, err)
	}

	base := time.Now().UTC().Truncate(time.Microsecond)
	prices := []int64{30, 10, 20}
	ids := make([]string, len(prices))

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	for i, price := range prices {
		ids[i] = uuid.NewString()
		require.NoError(t, tx.InsertListing(ctx, domain.Listing{
			ListingID: ids[i],
			SellerID:  seller,
			ItemType:  domain.ResourceQuartz,
			Quantity:  1,
			UnitPrice: price,
			Status:    domain.ListingActive,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, tx.Commit(ctx))

	quartz := domain.ResourceQuartz
	active, err := store.ListActiveListings(ctx, &quartz)
	require.NoError(t, err)
	var mine []int64
	for _, l := range active {
		if l.SellerID == seller {
			mine = append(mine, l.UnitPrice)
		}
	}
	assert.Equal(t, []int64{10, 20, 30}, mine)

	tx, err = store.BeginTx(ctx)
	require.NoError(t, err)
	l, err := tx.GetListingForUpdate(ctx, ids[1])
	require.NoError(t, err)
	assert.True(t, l.IsActive())
	require.NoError(t, tx.CloseListing(ctx, ids[1], domain.ListingSold, &buyer, time.Now()))
	assert.ErrorIs(t, tx.CloseListing(ctx, ids[1], domain.ListingCancelled, nil, time.Now()), domain.ErrListingNotActive)
	require.NoError(t, tx.Commit(ctx))

	history, err := store.ListSellerListings(ctx, seller)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, ids[2], history[0].ListingID, "newest first")
	assert.Equal(t, domain.ListingSold, history[1].Status)
	require.NotNil(t, history[1].BuyerID)
	assert.Equal(t, buyer, *history[1].BuyerID)

	tx, err = store.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()
	_, err = tx.GetListingForUpdate(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
