// Package mocks holds testify mocks for the repository ports, laid out the way
// mockery generates them.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/repository"
)

// MockEconomy implements repository.Economy.
type MockEconomy struct {
	mock.Mock
}

func (m *MockEconomy) GetLedger(ctx context.Context, playerID string) (*domain.Ledger, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockEconomy) CreateLedger(ctx context.Context, playerID string, opening domain.Balance) (*domain.Ledger, bool, error) {
	args := m.Called(ctx, playerID, opening)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Ledger), args.Bool(1), args.Error(2)
}

func (m *MockEconomy) GetEquipment(ctx context.Context, equipmentID string) (*domain.Equipment, error) {
	args := m.Called(ctx, equipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

func (m *MockEconomy) ListEquipment(ctx context.Context) ([]domain.Equipment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Equipment), args.Error(1)
}

func (m *MockEconomy) UpsertEquipment(ctx context.Context, defs []domain.Equipment) (int, int, error) {
	args := m.Called(ctx, defs)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockEconomy) ListInventory(ctx context.Context, ownerID string) ([]domain.InventoryItem, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryItem), args.Error(1)
}

func (m *MockEconomy) ListActiveListings(ctx context.Context, itemType *domain.Resource) ([]domain.Listing, error) {
	args := m.Called(ctx, itemType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *MockEconomy) ListSellerListings(ctx context.Context, sellerID string) ([]domain.Listing, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *MockEconomy) BeginTx(ctx context.Context) (repository.EconomyTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.EconomyTx), args.Error(1)
}

func (m *MockEconomy) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockEconomyTx implements repository.EconomyTx.
type MockEconomyTx struct {
	mock.Mock
}

func (m *MockEconomyTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEconomyTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEconomyTx) LockPlayers(ctx context.Context, playerIDs ...string) (map[string]domain.Balance, error) {
	args := m.Called(ctx, playerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Balance), args.Error(1)
}

func (m *MockEconomyTx) ApplyDelta(ctx context.Context, playerID string, d domain.Delta) (domain.Balance, error) {
	args := m.Called(ctx, playerID, d)
	return args.Get(0).(domain.Balance), args.Error(1)
}

func (m *MockEconomyTx) GetEquipment(ctx context.Context, equipmentID string) (*domain.Equipment, error) {
	args := m.Called(ctx, equipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

func (m *MockEconomyTx) InsertItem(ctx context.Context, item domain.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockEconomyTx) GetItemForUpdate(ctx context.Context, ownerID, inventoryID string) (*domain.InventoryItem, error) {
	args := m.Called(ctx, ownerID, inventoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockEconomyTx) GetEquippedForUpdate(ctx context.Context, ownerID string, slot domain.SlotType) (*domain.InventoryItem, error) {
	args := m.Called(ctx, ownerID, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockEconomyTx) SetEquippedSlot(ctx context.Context, inventoryID string, slot *domain.SlotType) error {
	args := m.Called(ctx, inventoryID, slot)
	return args.Error(0)
}

func (m *MockEconomyTx) DeleteItem(ctx context.Context, inventoryID string) error {
	args := m.Called(ctx, inventoryID)
	return args.Error(0)
}

func (m *MockEconomyTx) ListInventory(ctx context.Context, ownerID string) ([]domain.InventoryItem, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryItem), args.Error(1)
}

func (m *MockEconomyTx) InsertListing(ctx context.Context, listing domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockEconomyTx) GetListingForUpdate(ctx context.Context, listingID string) (*domain.Listing, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockEconomyTx) CloseListing(ctx context.Context, listingID string, status domain.ListingStatus, buyerID *string, closedAt time.Time) error {
	args := m.Called(ctx, listingID, status, buyerID, closedAt)
	return args.Error(0)
}
