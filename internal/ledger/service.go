package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/guildledger/internal/concurrency"
	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/event"
	"github.com/osse101/guildledger/internal/logger"
	"github.com/osse101/guildledger/internal/metrics"
	"github.com/osse101/guildledger/internal/repository"
	"github.com/osse101/guildledger/internal/telemetry"
)

// Service reads and adjusts player ledgers outside of trades.
type Service interface {
	GetBalance(ctx context.Context, playerID string) (domain.Balance, error)
	GetLedger(ctx context.Context, playerID string) (*domain.Ledger, error)
	// ApplyDelta adds d in its own transaction. No field may drop below zero.
	ApplyDelta(ctx context.Context, playerID string, d domain.Delta) (domain.Balance, error)
	// Provision creates the player's ledger with opening, or with the starting
	// gold when opening is nil. Existing ledgers are returned unchanged.
	Provision(ctx context.Context, playerID string, opening *domain.Balance) (ledger *domain.Ledger, created bool, err error)
	// Grant is ApplyDelta for external systems such as combat rewards. It
	// publishes ledger.granted after commit.
	Grant(ctx context.Context, playerID string, d domain.Delta, reason string) (domain.Balance, error)
}

// Options tune the ledger service.
type Options struct {
	StartingGold     int64
	OperationTimeout time.Duration
}

type service struct {
	repo      repository.Economy
	locks     *concurrency.LockManager
	publisher event.Publisher
	opts      Options
}

// NewService creates a ledger service.
func NewService(repo repository.Economy, locks *concurrency.LockManager, publisher event.Publisher, opts Options) Service {
	return &service{
		repo:      repo,
		locks:     locks,
		publisher: publisher,
		opts:      opts,
	}
}

func (s *service) GetLedger(ctx context.Context, playerID string) (*domain.Ledger, error) {
	if playerID == "" {
		return nil, fmt.Errorf(ErrMsgEmptyPlayerID, domain.ErrInvalidInput)
	}
	l, err := s.repo.GetLedger(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetLedgerFailed, err)
	}
	return l, nil
}

func (s *service) GetBalance(ctx context.Context, playerID string) (domain.Balance, error) {
	l, err := s.GetLedger(ctx, playerID)
	if err != nil {
		return domain.Balance{}, err
	}
	return l.Balance, nil
}

func (s *service) ApplyDelta(ctx context.Context, playerID string, d domain.Delta) (balance domain.Balance, err error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.Tracer(tracerName), "ledger.ApplyDelta", playerID)
	defer func() { telemetry.EndSpan(span, err) }()

	if playerID == "" {
		return domain.Balance{}, fmt.Errorf(ErrMsgEmptyPlayerID, domain.ErrInvalidInput)
	}
	if d.IsZero() {
		return domain.Balance{}, fmt.Errorf(ErrMsgEmptyDelta, domain.ErrInvalidInput)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock := s.locks.LockAll(concurrency.PlayerKey(playerID))
	defer unlock()

	balance, err = s.applyDelta(ctx, playerID, d)
	if err != nil {
		s.logFailure(ctx, playerID, err)
		return domain.Balance{}, err
	}
	return balance, nil
}

func (s *service) applyDelta(ctx context.Context, playerID string, d domain.Delta) (domain.Balance, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return domain.Balance{}, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	locked, err := tx.LockPlayers(ctx, playerID)
	if err != nil {
		return domain.Balance{}, fmt.Errorf(ErrMsgApplyDeltaFailed, err)
	}
	if locked[playerID].Overflows(d) {
		return domain.Balance{}, fmt.Errorf(ErrMsgDeltaOverflow, domain.ErrInvalidRange)
	}
	balance, err := tx.ApplyDelta(ctx, playerID, d)
	if err != nil {
		return domain.Balance{}, fmt.Errorf(ErrMsgApplyDeltaFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Balance{}, fmt.Errorf(ErrMsgCommitFailed, err)
	}
	return balance, nil
}

func (s *service) Provision(ctx context.Context, playerID string, opening *domain.Balance) (*domain.Ledger, bool, error) {
	log := logger.FromContext(ctx)

	if playerID == "" {
		return nil, false, fmt.Errorf(ErrMsgEmptyPlayerID, domain.ErrInvalidInput)
	}
	start := domain.Balance{Gold: s.opts.StartingGold}
	if opening != nil {
		start = *opening
	}
	if !start.Valid() {
		return nil, false, fmt.Errorf(ErrMsgNegativeOpening, domain.ErrInvalidRange)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	l, created, err := s.repo.CreateLedger(ctx, playerID, start)
	if err != nil {
		log.Error(LogMsgDeltaFailed, "player_id", playerID, "error", err)
		return nil, false, fmt.Errorf(ErrMsgProvisionFailed, err)
	}
	if !created {
		log.Debug(LogMsgLedgerExists, "player_id", playerID)
		return l, false, nil
	}

	log.Info(LogMsgLedgerProvisioned, "player_id", playerID, "gold", l.Gold)
	s.publish(ctx, event.NewLedgerProvisionedEvent(logger.GetRequestID(ctx), event.LedgerProvisionedPayloadV1{
		PlayerID: playerID,
		Balance:  l.Balance,
	}))
	return l, true, nil
}

func (s *service) Grant(ctx context.Context, playerID string, d domain.Delta, reason string) (domain.Balance, error) {
	balance, err := s.ApplyDelta(ctx, playerID, d)
	if err != nil {
		return domain.Balance{}, err
	}

	logger.FromContext(ctx).Info(LogMsgLedgerGranted, "player_id", playerID, "delta", d, "reason", reason)

	s.publish(ctx, event.NewLedgerGrantedEvent(logger.GetRequestID(ctx), event.LedgerGrantedPayloadV1{
		PlayerID: playerID,
		Delta:    d,
		Balance:  balance,
		Reason:   reason,
	}))
	return balance, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}

func (s *service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.OperationTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.OperationTimeout)
}

func (s *service) logFailure(ctx context.Context, playerID string, err error) {
	metrics.RecordOperationError(domain.Code(err))
	log := logger.FromContext(ctx)
	if domain.IsBusinessError(err) {
		log.Debug(LogMsgDeltaRejected, "player_id", playerID, "error", err)
		return
	}
	log.Error(LogMsgDeltaFailed, "player_id", playerID, "error", err)
}
