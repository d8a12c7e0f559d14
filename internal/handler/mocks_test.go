package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/economy"
	"github.com/osse101/guildledger/internal/market"
)

// MockEconomyService implements economy.Service.
type MockEconomyService struct {
	mock.Mock
}

// NewMockEconomyService registers a cleanup that asserts expectations.
func NewMockEconomyService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEconomyService {
	m := &MockEconomyService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockEconomyService) Purchase(ctx context.Context, playerID, equipmentID string, expectedSlot *domain.SlotType) (*economy.PurchaseResult, error) {
	args := m.Called(ctx, playerID, equipmentID, expectedSlot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*economy.PurchaseResult), args.Error(1)
}

func (m *MockEconomyService) Sell(ctx context.Context, playerID, inventoryID string) (*economy.SellResult, error) {
	args := m.Called(ctx, playerID, inventoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*economy.SellResult), args.Error(1)
}

func (m *MockEconomyService) EquipOrSwap(ctx context.Context, playerID, inventoryID string, slot domain.SlotType) (map[domain.SlotType]domain.InventoryItem, error) {
	args := m.Called(ctx, playerID, inventoryID, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.SlotType]domain.InventoryItem), args.Error(1)
}

func (m *MockEconomyService) Unequip(ctx context.Context, playerID string, slot domain.SlotType) (map[domain.SlotType]domain.InventoryItem, error) {
	args := m.Called(ctx, playerID, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.SlotType]domain.InventoryItem), args.Error(1)
}

func (m *MockEconomyService) Shop(ctx context.Context, playerID string, slot *domain.SlotType) (*economy.ShopView, error) {
	args := m.Called(ctx, playerID, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*economy.ShopView), args.Error(1)
}

func (m *MockEconomyService) Inventory(ctx context.Context, playerID string) (*domain.InventoryView, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryView), args.Error(1)
}

// MockMarketService implements market.Service.
type MockMarketService struct {
	mock.Mock
}

// NewMockMarketService registers a cleanup that asserts expectations.
func NewMockMarketService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMarketService {
	m := &MockMarketService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockMarketService) CreateListing(ctx context.Context, sellerID string, itemType domain.Resource, quantity, unitPrice int64) (*domain.Listing, error) {
	args := m.Called(ctx, sellerID, itemType, quantity, unitPrice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockMarketService) CancelListing(ctx context.Context, sellerID, listingID string) (*market.CancelResult, error) {
	args := m.Called(ctx, sellerID, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*market.CancelResult), args.Error(1)
}

func (m *MockMarketService) Buy(ctx context.Context, buyerID, listingID string) (*market.BuyResult, error) {
	args := m.Called(ctx, buyerID, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*market.BuyResult), args.Error(1)
}

func (m *MockMarketService) Browse(ctx context.Context, filter string) ([]domain.Listing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *MockMarketService) MyListings(ctx context.Context, sellerID string) ([]domain.Listing, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Listing), args.Error(1)
}

// MockLedgerService implements ledger.Service.
type MockLedgerService struct {
	mock.Mock
}

// NewMockLedgerService registers a cleanup that asserts expectations.
func NewMockLedgerService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLedgerService {
	m := &MockLedgerService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLedgerService) GetBalance(ctx context.Context, playerID string) (domain.Balance, error) {
	args := m.Called(ctx, playerID)
	return args.Get(0).(domain.Balance), args.Error(1)
}

func (m *MockLedgerService) GetLedger(ctx context.Context, playerID string) (*domain.Ledger, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockLedgerService) ApplyDelta(ctx context.Context, playerID string, d domain.Delta) (domain.Balance, error) {
	args := m.Called(ctx, playerID, d)
	return args.Get(0).(domain.Balance), args.Error(1)
}

func (m *MockLedgerService) Provision(ctx context.Context, playerID string, opening *domain.Balance) (*domain.Ledger, bool, error) {
	args := m.Called(ctx, playerID, opening)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Ledger), args.Bool(1), args.Error(2)
}

func (m *MockLedgerService) Grant(ctx context.Context, playerID string, d domain.Delta, reason string) (domain.Balance, error) {
	args := m.Called(ctx, playerID, d, reason)
	return args.Get(0).(domain.Balance), args.Error(1)
}
