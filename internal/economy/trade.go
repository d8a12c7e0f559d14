package economy

import (
	"context"
	"fmt"

	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/event"
	"github.com/osse101/guildledger/internal/logger"
	"github.com/osse101/guildledger/internal/repository"
)

func (s *service) Purchase(ctx context.Context, playerID, equipmentID string, expectedSlot *domain.SlotType) (_ *PurchaseResult, err error) {
	ctx, finish := s.begin(ctx, OpPurchase, playerID)
	defer finish(&err)

	if err := requireID("equipment_id", equipmentID); err != nil {
		return nil, err
	}

	def, err := s.catalog.Lookup(ctx, equipmentID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLookupFailed, err)
	}
	if expectedSlot != nil && def.SlotType != *expectedSlot {
		return nil, fmt.Errorf(ErrFmtPurchaseSlotMismatch, domain.ErrSlotMismatch, def.ID, def.SlotType, *expectedSlot)
	}

	tx, err := s.lockPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer repository.SafeRollback(ctx, tx)

	balance, err := tx.ApplyDelta(ctx, playerID, domain.Delta{Gold: -def.CostGold})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgDebitFailed, err)
	}
	inventoryID, err := s.inventory.AddItem(ctx, tx, playerID, def.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgItemPurchased,
		"player_id", playerID, "equipment_id", def.ID, "inventory_id", inventoryID, "cost", def.CostGold)
	s.publish(ctx, event.NewEquipmentPurchasedEvent(logger.GetRequestID(ctx), event.EquipmentPurchasedPayloadV1{
		PlayerID:    playerID,
		InventoryID: inventoryID,
		EquipmentID: def.ID,
		CostGold:    def.CostGold,
	}))

	return &PurchaseResult{
		InventoryID: inventoryID,
		EquipmentID: def.ID,
		CostGold:    def.CostGold,
		Balance:     balance,
	}, nil
}

func (s *service) Sell(ctx context.Context, playerID, inventoryID string) (_ *SellResult, err error) {
	ctx, finish := s.begin(ctx, OpSell, playerID)
	defer finish(&err)

	if inventoryID == "" {
		return nil, domain.ErrItemNotFound
	}

	tx, err := s.lockPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer repository.SafeRollback(ctx, tx)

	item, err := s.inventory.RemoveItem(ctx, tx, playerID, inventoryID)
	if err != nil {
		return nil, err
	}
	def, err := tx.GetEquipment(ctx, item.EquipmentID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLookupFailed, err)
	}
	refund := def.SellBackPrice()

	balance, err := tx.ApplyDelta(ctx, playerID, domain.Delta{Gold: refund})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgCreditFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgItemSold,
		"player_id", playerID, "equipment_id", def.ID, "inventory_id", inventoryID, "refund", refund)
	s.publish(ctx, event.NewEquipmentSoldEvent(logger.GetRequestID(ctx), event.EquipmentSoldPayloadV1{
		PlayerID:    playerID,
		InventoryID: inventoryID,
		EquipmentID: def.ID,
		RefundGold:  refund,
	}))

	return &SellResult{
		InventoryID: inventoryID,
		EquipmentID: def.ID,
		RefundGold:  refund,
		Balance:     balance,
	}, nil
}
