package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/repository"
)

// Service is the read-only equipment catalog.
type Service interface {
	Lookup(ctx context.Context, equipmentID string) (*domain.Equipment, error)
	// List returns definitions ordered by cost_gold ascending. A nil slot
	// returns every definition.
	List(ctx context.Context, slot *domain.SlotType) ([]domain.Equipment, error)
	// Invalidate drops cached definitions after a reseed.
	Invalidate()
}

type service struct {
	repo  repository.Catalog
	byID  *expirable.LRU[string, domain.Equipment]
	lists *expirable.LRU[string, []domain.Equipment]
}

// NewService creates a catalog service that caches definitions for ttl.
func NewService(repo repository.Catalog, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &service{
		repo:  repo,
		byID:  expirable.NewLRU[string, domain.Equipment](DefaultCacheSize, nil, ttl),
		lists: expirable.NewLRU[string, []domain.Equipment](1, nil, ttl),
	}
}

func (s *service) Lookup(ctx context.Context, equipmentID string) (*domain.Equipment, error) {
	if def, ok := s.byID.Get(equipmentID); ok {
		return &def, nil
	}

	def, err := s.repo.GetEquipment(ctx, equipmentID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLookupFailed, err)
	}
	s.byID.Add(equipmentID, *def)
	return def, nil
}

func (s *service) List(ctx context.Context, slot *domain.SlotType) ([]domain.Equipment, error) {
	all, ok := s.lists.Get(listCacheKey)
	if !ok {
		var err error
		all, err = s.repo.ListEquipment(ctx)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgListFailed, err)
		}
		s.lists.Add(listCacheKey, all)
	}

	out := make([]domain.Equipment, 0, len(all))
	for _, def := range all {
		if slot == nil || def.SlotType == *slot {
			out = append(out, def)
		}
	}
	return out, nil
}

func (s *service) Invalidate() {
	s.byID.Purge()
	s.lists.Purge()
}
