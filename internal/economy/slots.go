package economy

import (
	"context"
	"fmt"

	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/logger"
	"github.com/osse101/guildledger/internal/repository"
)

func (s *service) EquipOrSwap(ctx context.Context, playerID, inventoryID string, slot domain.SlotType) (_ map[domain.SlotType]domain.InventoryItem, err error) {
	ctx, finish := s.begin(ctx, OpEquip, playerID)
	defer finish(&err)

	if inventoryID == "" {
		return nil, domain.ErrItemNotFound
	}

	tx, err := s.lockPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer repository.SafeRollback(ctx, tx)

	equipped, err := s.inventory.Equip(ctx, tx, playerID, inventoryID, slot)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgSlotChanged, "player_id", playerID, "slot", slot, "inventory_id", inventoryID)
	return equipped, nil
}

func (s *service) Unequip(ctx context.Context, playerID string, slot domain.SlotType) (_ map[domain.SlotType]domain.InventoryItem, err error) {
	ctx, finish := s.begin(ctx, OpUnequip, playerID)
	defer finish(&err)

	tx, err := s.lockPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer repository.SafeRollback(ctx, tx)

	equipped, err := s.inventory.Unequip(ctx, tx, playerID, slot)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgSlotChanged, "player_id", playerID, "slot", slot)
	return equipped, nil
}
