package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/economy"
)

const testItemID = "6f1c1c52-3f0e-4d53-9b1e-0d4f3e0f6a11"

func TestHandlePurchase(t *testing.T) {
	InitValidator()
	weapon := domain.SlotWeapon

	tests := []struct {
		name       string
		body       any
		setupMock  func(*MockEconomyService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "Success",
			body: map[string]any{"equipment_id": "iron_sword"},
			setupMock: func(m *MockEconomyService) {
				m.On("Purchase", mock.Anything, "alice", "iron_sword", (*domain.SlotType)(nil)).
					Return(&economy.PurchaseResult{InventoryID: testItemID, EquipmentID: "iron_sword", CostGold: 200, Balance: domain.Balance{Gold: 300}}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "Success with slot check",
			body: map[string]any{"equipment_id": "iron_sword", "type": "weapon"},
			setupMock: func(m *MockEconomyService) {
				m.On("Purchase", mock.Anything, "alice", "iron_sword", &weapon).
					Return(&economy.PurchaseResult{InventoryID: testItemID}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Unknown slot",
			body:       map[string]any{"equipment_id": "iron_sword", "type": "cape"},
			setupMock:  func(m *MockEconomyService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeValidation,
		},
		{
			name:       "Missing equipment id",
			body:       map[string]any{},
			setupMock:  func(m *MockEconomyService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeValidation,
		},
		{
			name:       "Unknown field",
			body:       `{"equipment_id":"iron_sword","price":1}`,
			setupMock:  func(m *MockEconomyService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   domain.CodeInvalidInput,
		},
		{
			name: "Insufficient funds",
			body: map[string]any{"equipment_id": "iron_sword"},
			setupMock: func(m *MockEconomyService) {
				m.On("Purchase", mock.Anything, "alice", "iron_sword", (*domain.SlotType)(nil)).
					Return(nil, fmt.Errorf("purchase: %w", domain.ErrInsufficientFunds))
			},
			wantStatus: http.StatusConflict,
			wantCode:   domain.CodeInsufficientFunds,
		},
		{
			name: "Unknown equipment",
			body: map[string]any{"equipment_id": "mythic_blade"},
			setupMock: func(m *MockEconomyService) {
				m.On("Purchase", mock.Anything, "alice", "mythic_blade", (*domain.SlotType)(nil)).
					Return(nil, domain.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   domain.CodeNotFound,
		},
		{
			name: "Slot mismatch",
			body: map[string]any{"equipment_id": "iron_sword", "type": "weapon"},
			setupMock: func(m *MockEconomyService) {
				m.On("Purchase", mock.Anything, "alice", "iron_sword", &weapon).
					Return(nil, domain.ErrSlotMismatch)
			},
			wantStatus: http.StatusConflict,
			wantCode:   domain.CodeSlotMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewMockEconomyService(t)
			tt.setupMock(svc)

			req := asPlayer(newRequest(t, http.MethodPost, "/api/v1/equipment/purchase", tt.body), "alice")
			rec := serve(NewEquipmentHandlers(svc).HandlePurchase(), req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			}
		})
	}
}

func TestHandlePurchase_RequiresPlayer(t *testing.T) {
	svc := NewMockEconomyService(t)
	req := newRequest(t, http.MethodPost, "/api/v1/equipment/purchase", map[string]any{"equipment_id": "iron_sword"})

	rec := serve(NewEquipmentHandlers(svc).HandlePurchase(), req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", decodeError(t, rec).Code)
}

func TestHandleSell(t *testing.T) {
	InitValidator()

	t.Run("Success", func(t *testing.T) {
		svc := NewMockEconomyService(t)
		svc.On("Sell", mock.Anything, "alice", testItemID).
			Return(&economy.SellResult{InventoryID: testItemID, EquipmentID: "iron_sword", RefundGold: 100, Balance: domain.Balance{Gold: 400}}, nil)

		req := asPlayer(newRequest(t, http.MethodPost, "/api/v1/equipment/sell", SellRequest{InventoryID: testItemID}), "alice")
		rec := serve(NewEquipmentHandlers(svc).HandleSell(), req)

		require.Equal(t, http.StatusOK, rec.Code)
		var res economy.SellResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, int64(100), res.RefundGold)
		assert.Equal(t, int64(400), res.Balance.Gold)
	})

	t.Run("Not owned", func(t *testing.T) {
		svc := NewMockEconomyService(t)
		svc.On("Sell", mock.Anything, "alice", testItemID).Return(nil, domain.ErrItemNotFound)

		req := asPlayer(newRequest(t, http.MethodPost, "/api/v1/equipment/sell", SellRequest{InventoryID: testItemID}), "alice")
		rec := serve(NewEquipmentHandlers(svc).HandleSell(), req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		detail := decodeError(t, rec)
		assert.Equal(t, domain.CodeItemNotFound, detail.Code)
		assert.Equal(t, domain.ErrMsgItemNotFound, detail.Message)
	})

	t.Run("Non-uuid id is not in inventory", func(t *testing.T) {
		svc := NewMockEconomyService(t)
		svc.On("Sell", mock.Anything, "alice", "99999").Return(nil, domain.ErrItemNotFound)

		req := asPlayer(newRequest(t, http.MethodPost, "/api/v1/equipment/sell", SellRequest{InventoryID: "99999"}), "alice")
		rec := serve(NewEquipmentHandlers(svc).HandleSell(), req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		detail := decodeError(t, rec)
		assert.Equal(t, domain.CodeItemNotFound, detail.Code)
		assert.Equal(t, domain.ErrMsgItemNotFound, detail.Message)
	})

	t.Run("Missing id", func(t *testing.T) {
		svc := NewMockEconomyService(t)
		req := asPlayer(newRequest(t, http.MethodPost, "/api/v1/equipment/sell", SellRequest{}), "alice")
		rec := serve(NewEquipmentHandlers(svc).HandleSell(), req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Fields, "inventory_id")
	})

	t.Run("Overlong id", func(t *testing.T) {
		svc := NewMockEconomyService(t)
		req := asPlayer(newRequest(t, http.MethodPost, "/api/v1/equipment/sell",
			SellRequest{InventoryID: strings.Repeat("x", 65)}), "alice")
		rec := serve(NewEquipmentHandlers(svc).HandleSell(), req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Fields, "inventory_id")
	})
}

func TestHandleSlot(t *testing.T) {
	InitValidator()
	weapon := domain.SlotWeapon
	equipped := map[domain.SlotType]domain.InventoryItem{
		domain.SlotWeapon: {InventoryID: testItemID, OwnerID: "alice", EquipmentID: "iron_sword", EquippedSlot: &weapon},
	}

	t.Run("Equip", func(t *testing.T) {
		svc := NewMockEconomyService(t)
		svc.On("EquipOrSwap", mock.Anything, "alice", testItemID, domain.SlotWeapon).Return(equipped, nil)

		req := newRequest(t, http.MethodPost, "/api/v1/equipment/slot/weapon", SlotRequest{ItemID: testItemID})
		req = withURLParams(asPlayer(req, "alice"), "slot", "weapon")
		rec := serve(NewEquipmentHandlers(svc).HandleSlot(), req)

		require.Equal(t, http.StatusOK, rec.Code)
		var res SlotResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "iron_sword", res.Equipped[domain.SlotWeapon].EquipmentID)
	})

	t.Run("Unequip with empty body", func(t *testing.T) {
		svc := NewMockEconomyService(t)
		svc.On("Unequip", mock.Anything, "alice", domain.SlotWeapon).Return(map[domain.SlotType]domain.InventoryItem{}, nil)

		req := newRequest(t, http.MethodPost, "/api/v1/equipment/slot/weapon", nil)
		req = withURLParams(asPlayer(req, "alice"), "slot", "weapon")
		rec := serve(NewEquipmentHandlers(svc).HandleSlot(), req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"equipped":{}}`, rec.Body.String())
	})

	t.Run("Unknown slot", func(t *testing.T) {
		svc := NewMockEconomyService(t)
		req := newRequest(t, http.MethodPost, "/api/v1/equipment/slot/cape", nil)
		req = withURLParams(asPlayer(req, "alice"), "slot", "cape")
		rec := serve(NewEquipmentHandlers(svc).HandleSlot(), req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, domain.CodeInvalidInput, decodeError(t, rec).Code)
	})

	t.Run("Non-uuid item is not in inventory", func(t *testing.T) {
		svc := NewMockEconomyService(t)
		svc.On("EquipOrSwap", mock.Anything, "alice", "99999", domain.SlotWeapon).Return(nil, domain.ErrItemNotFound)

		req := newRequest(t, http.MethodPost, "/api/v1/equipment/slot/weapon", SlotRequest{ItemID: "99999"})
		req = withURLParams(asPlayer(req, "alice"), "slot", "weapon")
		rec := serve(NewEquipmentHandlers(svc).HandleSlot(), req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, domain.CodeItemNotFound, decodeError(t, rec).Code)
	})

	t.Run("Wrong slot", func(t *testing.T) {
		svc := NewMockEconomyService(t)
		svc.On("EquipOrSwap", mock.Anything, "alice", testItemID, domain.SlotBoots).Return(nil, domain.ErrSlotMismatch)

		req := newRequest(t, http.MethodPost, "/api/v1/equipment/slot/boots", SlotRequest{ItemID: testItemID})
		req = withURLParams(asPlayer(req, "alice"), "slot", "boots")
		rec := serve(NewEquipmentHandlers(svc).HandleSlot(), req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, domain.CodeSlotMismatch, decodeError(t, rec).Code)
	})
}

func TestHandleShopAndInventory(t *testing.T) {
	armor := domain.SlotArmor

	t.Run("Shop filtered", func(t *testing.T) {
		svc := NewMockEconomyService(t)
		svc.On("Shop", mock.Anything, "alice", &armor).Return(&economy.ShopView{
			Equipment: []domain.Equipment{{ID: "leather_vest", SlotType: domain.SlotArmor, CostGold: 100}},
			Gold:      500,
		}, nil)

		req := asPlayer(newRequest(t, http.MethodGet, "/api/v1/equipment/shop?type=armor", nil), "alice")
		rec := serve(NewEquipmentHandlers(svc).HandleShop(), req)

		require.Equal(t, http.StatusOK, rec.Code)
		var view economy.ShopView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.Equal(t, int64(500), view.Gold)
		assert.Len(t, view.Equipment, 1)
	})

	t.Run("Shop bad filter", func(t *testing.T) {
		svc := NewMockEconomyService(t)
		req := asPlayer(newRequest(t, http.MethodGet, "/api/v1/equipment/shop?type=cape", nil), "alice")
		rec := serve(NewEquipmentHandlers(svc).HandleShop(), req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Inventory", func(t *testing.T) {
		svc := NewMockEconomyService(t)
		svc.On("Inventory", mock.Anything, "alice").Return(&domain.InventoryView{
			Equipped:   map[domain.SlotType]domain.OwnedEquipment{},
			Unequipped: []domain.OwnedEquipment{},
			Stats:      domain.BaseStats,
		}, nil)

		req := asPlayer(newRequest(t, http.MethodGet, "/api/v1/equipment/inventory", nil), "alice")
		rec := serve(NewEquipmentHandlers(svc).HandleInventory(), req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"health":100`)
	})

	t.Run("Inventory unknown player", func(t *testing.T) {
		svc := NewMockEconomyService(t)
		svc.On("Inventory", mock.Anything, "ghost").Return(nil, domain.ErrPlayerNotFound)

		req := asPlayer(newRequest(t, http.MethodGet, "/api/v1/equipment/inventory", nil), "ghost")
		rec := serve(NewEquipmentHandlers(svc).HandleInventory(), req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, domain.CodePlayerNotFound, decodeError(t, rec).Code)
	})
}
