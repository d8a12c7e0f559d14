package economy

import (
	"context"
	"fmt"

	"github.com/osse101/guildledger/internal/domain"
)

func (s *service) Shop(ctx context.Context, playerID string, slot *domain.SlotType) (*ShopView, error) {
	l, err := s.repo.GetLedger(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetLedgerFailed, err)
	}
	defs, err := s.catalog.List(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListCatalogFailed, err)
	}
	return &ShopView{Equipment: defs, Gold: l.Gold}, nil
}

func (s *service) Inventory(ctx context.Context, playerID string) (*domain.InventoryView, error) {
	if _, err := s.repo.GetLedger(ctx, playerID); err != nil {
		return nil, fmt.Errorf(ErrMsgGetLedgerFailed, err)
	}
	return s.inventory.View(ctx, playerID)
}
