// Package storetest builds real economy stores for service tests.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/osse101/guildledger/internal/database/sqlite"
	"github.com/osse101/guildledger/internal/domain"
)

// Catalog is a small fixed catalog with one item per slot plus an odd-priced weapon.
var Catalog = []domain.Equipment{
	{ID: "iron_sword", Name: "Iron Sword", SlotType: domain.SlotWeapon, CostGold: 200, Stats: domain.Stats{Attack: 8, Speed: -1}},
	{ID: "odd_dagger", Name: "Odd Dagger", SlotType: domain.SlotWeapon, CostGold: 101, Stats: domain.Stats{Attack: 4, Speed: 2}},
	{ID: "leather_vest", Name: "Leather Vest", SlotType: domain.SlotArmor, CostGold: 100, Stats: domain.Stats{Defense: 4, Health: 10}},
	{ID: "iron_helm", Name: "Iron Helm", SlotType: domain.SlotHelmet, CostGold: 180, Stats: domain.Stats{Defense: 5, Health: 10, Speed: -1}},
	{ID: "sandals", Name: "Sandals", SlotType: domain.SlotBoots, CostGold: 25, Stats: domain.Stats{Speed: 2}},
	{ID: "copper_ring", Name: "Copper Ring", SlotType: domain.SlotAccessory, CostGold: 75, Stats: domain.Stats{Attack: 1, Defense: 1}},
}

// NewSQLite opens a private in-memory store seeded with Catalog.
func NewSQLite(t testing.TB) *sqlite.Store {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(store.Close)

	_, _, err = store.UpsertEquipment(ctx, Catalog)
	require.NoError(t, err)
	return store
}

// Player provisions a ledger holding b.
func Player(t testing.TB, store *sqlite.Store, playerID string, b domain.Balance) {
	t.Helper()
	_, created, err := store.CreateLedger(context.Background(), playerID, b)
	require.NoError(t, err)
	require.True(t, created, "player %s already exists", playerID)
}

// Balance reads a player's balance and fails the test on error.
func Balance(t testing.TB, store *sqlite.Store, playerID string) domain.Balance {
	t.Helper()
	l, err := store.GetLedger(context.Background(), playerID)
	require.NoError(t, err)
	return l.Balance
}

// Items reads a player's inventory and fails the test on error.
func Items(t testing.TB, store *sqlite.Store, playerID string) []domain.InventoryItem {
	t.Helper()
	items, err := store.ListInventory(context.Background(), playerID)
	require.NoError(t, err)
	return items
}
