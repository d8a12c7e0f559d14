package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/guildledger/internal/catalog"
	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/logger"
	"github.com/osse101/guildledger/internal/repository"
)

// Manager owns slot assignment for owned equipment. Mutations run on the
// caller's transaction so they commit or roll back with the rest of the
// caller's unit of work; the caller must already hold the owner's ledger lock.
type Manager interface {
	// AddItem creates an unequipped item and returns its inventory id.
	AddItem(ctx context.Context, tx repository.EconomyTx, ownerID, equipmentID string) (string, error)
	// RemoveItem deletes an owned item, unequipping it first.
	RemoveItem(ctx context.Context, tx repository.EconomyTx, ownerID, inventoryID string) (domain.InventoryItem, error)
	// Equip puts the item in slot, unequipping whatever was there.
	Equip(ctx context.Context, tx repository.EconomyTx, ownerID, inventoryID string, slot domain.SlotType) (map[domain.SlotType]domain.InventoryItem, error)
	// Unequip empties slot. An empty slot is not an error.
	Unequip(ctx context.Context, tx repository.EconomyTx, ownerID string, slot domain.SlotType) (map[domain.SlotType]domain.InventoryItem, error)
	// View is a display read and may be stale by the time a mutation runs.
	View(ctx context.Context, ownerID string) (*domain.InventoryView, error)
}

type manager struct {
	repo    repository.Inventory
	catalog catalog.Service
	now     func() time.Time
}

// NewManager creates an inventory manager.
func NewManager(repo repository.Inventory, catalogSvc catalog.Service) Manager {
	return &manager{
		repo:    repo,
		catalog: catalogSvc,
		now:     time.Now,
	}
}

func (m *manager) AddItem(ctx context.Context, tx repository.EconomyTx, ownerID, equipmentID string) (string, error) {
	item := domain.InventoryItem{
		InventoryID: uuid.NewString(),
		OwnerID:     ownerID,
		EquipmentID: equipmentID,
		AcquiredAt:  m.now().UTC(),
	}
	if err := tx.InsertItem(ctx, item); err != nil {
		return "", fmt.Errorf(ErrMsgAddItemFailed, err)
	}
	return item.InventoryID, nil
}

func (m *manager) RemoveItem(ctx context.Context, tx repository.EconomyTx, ownerID, inventoryID string) (domain.InventoryItem, error) {
	item, err := tx.GetItemForUpdate(ctx, ownerID, inventoryID)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf(ErrMsgRemoveItemFailed, err)
	}
	if item.IsEquipped() {
		if err := tx.SetEquippedSlot(ctx, item.InventoryID, nil); err != nil {
			return domain.InventoryItem{}, fmt.Errorf(ErrMsgRemoveItemFailed, err)
		}
	}
	if err := tx.DeleteItem(ctx, item.InventoryID); err != nil {
		return domain.InventoryItem{}, fmt.Errorf(ErrMsgRemoveItemFailed, err)
	}
	return *item, nil
}

func (m *manager) Equip(ctx context.Context, tx repository.EconomyTx, ownerID, inventoryID string, slot domain.SlotType) (map[domain.SlotType]domain.InventoryItem, error) {
	log := logger.FromContext(ctx)

	item, err := tx.GetItemForUpdate(ctx, ownerID, inventoryID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgEquipFailed, err)
	}
	def, err := tx.GetEquipment(ctx, item.EquipmentID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgDefinitionFailed, item.EquipmentID, err)
	}
	if def.SlotType != slot {
		return nil, fmt.Errorf(ErrFmtSlotMismatch, domain.ErrSlotMismatch, def.ID, def.SlotType, slot)
	}

	if item.EquippedSlot != nil && *item.EquippedSlot == slot {
		log.Debug(LogMsgEquipNoop, "inventory_id", inventoryID, "slot", slot)
		return equippedMap(ctx, tx, ownerID)
	}

	occupant, err := tx.GetEquippedForUpdate(ctx, ownerID, slot)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgEquipFailed, err)
	}
	// The occupant leaves before the new item arrives so the per-slot unique
	// index never sees two rows.
	if occupant != nil {
		if err := tx.SetEquippedSlot(ctx, occupant.InventoryID, nil); err != nil {
			return nil, fmt.Errorf(ErrMsgEquipFailed, err)
		}
		log.Debug(LogMsgItemSwapped, "slot", slot, "removed", occupant.InventoryID, "equipped", inventoryID)
	}
	if err := tx.SetEquippedSlot(ctx, item.InventoryID, &slot); err != nil {
		return nil, fmt.Errorf(ErrMsgEquipFailed, err)
	}
	return equippedMap(ctx, tx, ownerID)
}

func (m *manager) Unequip(ctx context.Context, tx repository.EconomyTx, ownerID string, slot domain.SlotType) (map[domain.SlotType]domain.InventoryItem, error) {
	occupant, err := tx.GetEquippedForUpdate(ctx, ownerID, slot)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgUnequipFailed, err)
	}
	if occupant == nil {
		logger.FromContext(ctx).Debug(LogMsgUnequipNoop, "slot", slot)
	} else if err := tx.SetEquippedSlot(ctx, occupant.InventoryID, nil); err != nil {
		return nil, fmt.Errorf(ErrMsgUnequipFailed, err)
	}
	return equippedMap(ctx, tx, ownerID)
}

func (m *manager) View(ctx context.Context, ownerID string) (*domain.InventoryView, error) {
	items, err := m.repo.ListInventory(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListFailed, err)
	}

	view := &domain.InventoryView{
		Equipped:   make(map[domain.SlotType]domain.OwnedEquipment),
		Unequipped: make([]domain.OwnedEquipment, 0, len(items)),
		Stats:      domain.BaseStats,
	}
	for _, item := range items {
		def, err := m.catalog.Lookup(ctx, item.EquipmentID)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgDefinitionFailed, item.EquipmentID, err)
		}
		owned := domain.OwnedEquipment{InventoryItem: item, Equipment: *def}
		if item.IsEquipped() {
			view.Equipped[*item.EquippedSlot] = owned
			view.Stats = view.Stats.Add(def.Stats)
		} else {
			view.Unequipped = append(view.Unequipped, owned)
		}
	}
	return view, nil
}

func equippedMap(ctx context.Context, tx repository.EconomyTx, ownerID string) (map[domain.SlotType]domain.InventoryItem, error) {
	items, err := tx.ListInventory(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListFailed, err)
	}
	out := make(map[domain.SlotType]domain.InventoryItem)
	for _, item := range items {
		if item.IsEquipped() {
			out[*item.EquippedSlot] = item
		}
	}
	return out, nil
}
