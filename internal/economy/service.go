package economy

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/osse101/guildledger/internal/catalog"
	"github.com/osse101/guildledger/internal/concurrency"
	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/event"
	"github.com/osse101/guildledger/internal/inventory"
	"github.com/osse101/guildledger/internal/logger"
	"github.com/osse101/guildledger/internal/metrics"
	"github.com/osse101/guildledger/internal/repository"
	"github.com/osse101/guildledger/internal/telemetry"
)

// PurchaseResult is returned by a successful purchase.
type PurchaseResult struct {
	InventoryID string         `json:"inventory_id"`
	EquipmentID string         `json:"equipment_id"`
	CostGold    int64          `json:"cost_gold"`
	Balance     domain.Balance `json:"balance"`
}

// SellResult is returned by a successful sell-back.
type SellResult struct {
	InventoryID string         `json:"inventory_id"`
	EquipmentID string         `json:"equipment_id"`
	RefundGold  int64          `json:"refund_gold"`
	Balance     domain.Balance `json:"balance"`
}

// ShopView is the catalog as seen by one player.
type ShopView struct {
	Equipment []domain.Equipment `json:"equipment"`
	Gold      int64              `json:"gold"`
}

// Service buys and sells catalog equipment and changes equipped slots. Every
// mutation is one transaction that locks the player's ledger row first, so
// operations on the same player serialize.
type Service interface {
	// Purchase debits cost_gold and creates an unequipped item. When
	// expectedSlot is set the definition must belong to that slot.
	Purchase(ctx context.Context, playerID, equipmentID string, expectedSlot *domain.SlotType) (*PurchaseResult, error)
	// Sell removes an owned item and refunds half its catalog cost, rounded down.
	Sell(ctx context.Context, playerID, inventoryID string) (*SellResult, error)
	EquipOrSwap(ctx context.Context, playerID, inventoryID string, slot domain.SlotType) (map[domain.SlotType]domain.InventoryItem, error)
	Unequip(ctx context.Context, playerID string, slot domain.SlotType) (map[domain.SlotType]domain.InventoryItem, error)
	Shop(ctx context.Context, playerID string, slot *domain.SlotType) (*ShopView, error)
	Inventory(ctx context.Context, playerID string) (*domain.InventoryView, error)
}

// Options tune the economy service.
type Options struct {
	OperationTimeout time.Duration
}

type service struct {
	repo      repository.Economy
	catalog   catalog.Service
	inventory inventory.Manager
	locks     *concurrency.LockManager
	publisher event.Publisher
	tracer    trace.Tracer
	opts      Options
}

// NewService creates a new economy service
func NewService(repo repository.Economy, catalogSvc catalog.Service, inv inventory.Manager, locks *concurrency.LockManager, publisher event.Publisher, opts Options) Service {
	return &service{
		repo:      repo,
		catalog:   catalogSvc,
		inventory: inv,
		locks:     locks,
		publisher: publisher,
		tracer:    telemetry.Tracer(tracerName),
		opts:      opts,
	}
}

// begin applies the operation timeout, takes the player's in-process lock and
// starts a span. The returned finish func must be deferred with the final error.
func (s *service) begin(ctx context.Context, op, playerID string) (context.Context, func(*error)) {
	ctx, span := telemetry.StartSpan(ctx, s.tracer, op, playerID)

	cancel := context.CancelFunc(func() {})
	if s.opts.OperationTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.opts.OperationTimeout)
	}
	unlock := s.locks.LockAll(concurrency.PlayerKey(playerID))

	return ctx, func(errp *error) {
		unlock()
		cancel()
		if err := *errp; err != nil {
			s.logFailure(ctx, op, playerID, err)
		}
		telemetry.EndSpan(span, *errp)
	}
}

// lockPlayer starts a transaction and takes the player's ledger row lock.
func (s *service) lockPlayer(ctx context.Context, playerID string) (repository.EconomyTx, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	if _, err := tx.LockPlayers(ctx, playerID); err != nil {
		repository.SafeRollback(ctx, tx)
		return nil, fmt.Errorf(ErrMsgLockPlayerFailed, err)
	}
	return tx, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}

func (s *service) logFailure(ctx context.Context, op, playerID string, err error) {
	code := domain.Code(err)
	metrics.RecordOperationError(code)

	log := logger.FromContext(ctx)
	if domain.IsBusinessError(err) {
		log.Debug(LogMsgOperationRejected, "op", op, "player_id", playerID, "code", code, "error", err)
		return
	}
	log.Error(LogMsgOperationFailed, "op", op, "player_id", playerID, "code", code, "error", err)
}

func requireID(name, value string) error {
	if value == "" {
		return fmt.Errorf(ErrFmtEmptyField, domain.ErrInvalidInput, name)
	}
	return nil
}
