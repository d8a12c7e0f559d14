package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/osse101/guildledger/internal/concurrency"
	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/event"
	"github.com/osse101/guildledger/internal/logger"
	"github.com/osse101/guildledger/internal/metrics"
	"github.com/osse101/guildledger/internal/repository"
	"github.com/osse101/guildledger/internal/telemetry"
)

// CancelResult reports the resources returned to the seller.
type CancelResult struct {
	Listing  domain.Listing  `json:"listing"`
	ItemType domain.Resource `json:"item_type"`
	Refunded int64           `json:"refunded"`
	Balance  domain.Balance  `json:"balance"`
}

// BuyResult reports both sides of a settled trade.
type BuyResult struct {
	Listing       domain.Listing `json:"listing"`
	Transferred   int64          `json:"transferred"`
	TotalGold     int64          `json:"total_gold"`
	BuyerBalance  domain.Balance `json:"buyer_balance"`
	SellerBalance domain.Balance `json:"seller_balance"`
}

// Service is the player-to-player resource market. A listing moves from
// active to sold or cancelled and never leaves either. Listed resources are
// held out of the seller's ledger until the listing closes.
type Service interface {
	CreateListing(ctx context.Context, sellerID string, itemType domain.Resource, quantity, unitPrice int64) (*domain.Listing, error)
	CancelListing(ctx context.Context, sellerID, listingID string) (*CancelResult, error)
	// Buy purchases the whole listing.
	Buy(ctx context.Context, buyerID, listingID string) (*BuyResult, error)
	// Browse returns active listings cheapest first. filter is a listable
	// resource, or "all" or "" for every resource.
	Browse(ctx context.Context, filter string) ([]domain.Listing, error)
	// MyListings returns every listing of the seller, newest first.
	MyListings(ctx context.Context, sellerID string) ([]domain.Listing, error)
}

// Options tune the market service.
type Options struct {
	OperationTimeout time.Duration
}

type service struct {
	repo      repository.Economy
	locks     *concurrency.LockManager
	publisher event.Publisher
	tracer    trace.Tracer
	now       func() time.Time
	opts      Options
}

// NewService creates a market service.
func NewService(repo repository.Economy, locks *concurrency.LockManager, publisher event.Publisher, opts Options) Service {
	return &service{
		repo:      repo,
		locks:     locks,
		publisher: publisher,
		tracer:    telemetry.Tracer(tracerName),
		now:       time.Now,
		opts:      opts,
	}
}

func (s *service) CreateListing(ctx context.Context, sellerID string, itemType domain.Resource, quantity, unitPrice int64) (_ *domain.Listing, err error) {
	ctx, finish := s.begin(ctx, OpCreateListing, sellerID, concurrency.PlayerKey(sellerID))
	defer finish(&err)

	if err := requireID("seller_id", sellerID); err != nil {
		return nil, err
	}
	if !itemType.IsListable() {
		return nil, fmt.Errorf(ErrFmtNotListable, domain.ErrInvalidInput, itemType)
	}
	if err := domain.ValidateListingTerms(quantity, unitPrice); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if _, err := tx.LockPlayers(ctx, sellerID); err != nil {
		return nil, fmt.Errorf(ErrMsgLockPlayersFailed, err)
	}
	if _, err := tx.ApplyDelta(ctx, sellerID, domain.DeltaOf(itemType, -quantity)); err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			return nil, fmt.Errorf(ErrFmtInsufficientQuantity, domain.ErrInsufficientQuantity, itemType, quantity)
		}
		return nil, fmt.Errorf(ErrMsgReserveFailed, err)
	}

	listing := domain.Listing{
		ListingID: uuid.NewString(),
		SellerID:  sellerID,
		ItemType:  itemType,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Status:    domain.ListingActive,
		CreatedAt: s.now().UTC(),
	}
	if err := tx.InsertListing(ctx, listing); err != nil {
		return nil, fmt.Errorf(ErrMsgInsertListingFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgListingCreated,
		"listing_id", listing.ListingID, "seller_id", sellerID, "item_type", itemType,
		"quantity", quantity, "unit_price", unitPrice)
	s.publish(ctx, event.NewListingEvent(event.ListingCreated, logger.GetRequestID(ctx), listing))
	return &listing, nil
}

func (s *service) CancelListing(ctx context.Context, sellerID, listingID string) (_ *CancelResult, err error) {
	ctx, finish := s.begin(ctx, OpCancelListing, sellerID, concurrency.ListingKey(listingID), concurrency.PlayerKey(sellerID))
	defer finish(&err)

	if err := requireID("listing_id", listingID); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	listing, err := tx.GetListingForUpdate(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetListingFailed, err)
	}
	if listing.SellerID != sellerID {
		return nil, domain.ErrNotOwner
	}
	if !listing.IsActive() {
		return nil, domain.ErrListingNotActive
	}

	locked, err := tx.LockPlayers(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLockPlayersFailed, err)
	}
	refund := domain.DeltaOf(listing.ItemType, listing.Quantity)
	if locked[sellerID].Overflows(refund) {
		return nil, fmt.Errorf(ErrFmtLedgerOverflow, domain.ErrInvalidRange, sellerID)
	}
	balance, err := tx.ApplyDelta(ctx, sellerID, refund)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgRefundFailed, err)
	}

	closedAt := s.now().UTC()
	if err := tx.CloseListing(ctx, listingID, domain.ListingCancelled, nil, closedAt); err != nil {
		return nil, fmt.Errorf(ErrMsgCloseListingFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	listing.Status = domain.ListingCancelled
	listing.ClosedAt = &closedAt

	logger.FromContext(ctx).Info(LogMsgListingCancelled,
		"listing_id", listingID, "seller_id", sellerID, "refunded", listing.Quantity)
	s.publish(ctx, event.NewListingEvent(event.ListingCancelled, logger.GetRequestID(ctx), *listing))

	return &CancelResult{
		Listing:  *listing,
		ItemType: listing.ItemType,
		Refunded: listing.Quantity,
		Balance:  balance,
	}, nil
}

func (s *service) Buy(ctx context.Context, buyerID, listingID string) (_ *BuyResult, err error) {
	ctx, finish := s.begin(ctx, OpBuy, buyerID, concurrency.ListingKey(listingID), concurrency.PlayerKey(buyerID))
	defer finish(&err)

	if err := requireID("listing_id", listingID); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	listing, err := tx.GetListingForUpdate(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetListingFailed, err)
	}
	if !listing.IsActive() {
		return nil, domain.ErrListingNotActive
	}
	if listing.SellerID == buyerID {
		return nil, domain.ErrSelfTrade
	}

	locked, err := tx.LockPlayers(ctx, buyerID, listing.SellerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLockPlayersFailed, err)
	}

	total := listing.Total()
	if locked[listing.SellerID].Overflows(domain.Delta{Gold: total}) {
		return nil, fmt.Errorf(ErrFmtLedgerOverflow, domain.ErrInvalidRange, listing.SellerID)
	}
	if locked[buyerID].Overflows(domain.DeltaOf(listing.ItemType, listing.Quantity)) {
		return nil, fmt.Errorf(ErrFmtLedgerOverflow, domain.ErrInvalidRange, buyerID)
	}
	if _, err := tx.ApplyDelta(ctx, buyerID, domain.Delta{Gold: -total}); err != nil {
		return nil, fmt.Errorf(ErrMsgBuyerDebitFailed, err)
	}
	sellerBalance, err := tx.ApplyDelta(ctx, listing.SellerID, domain.Delta{Gold: total})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgSettleFailed, err)
	}
	buyerBalance, err := tx.ApplyDelta(ctx, buyerID, domain.DeltaOf(listing.ItemType, listing.Quantity))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgSettleFailed, err)
	}

	closedAt := s.now().UTC()
	if err := tx.CloseListing(ctx, listingID, domain.ListingSold, &buyerID, closedAt); err != nil {
		return nil, fmt.Errorf(ErrMsgCloseListingFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	listing.Status = domain.ListingSold
	listing.BuyerID = &buyerID
	listing.ClosedAt = &closedAt

	logger.FromContext(ctx).Info(LogMsgListingSold,
		"listing_id", listingID, "seller_id", listing.SellerID, "buyer_id", buyerID, "total", total)
	s.publish(ctx, event.NewListingEvent(event.ListingSold, logger.GetRequestID(ctx), *listing))

	return &BuyResult{
		Listing:       *listing,
		Transferred:   listing.Quantity,
		TotalGold:     total,
		BuyerBalance:  buyerBalance,
		SellerBalance: sellerBalance,
	}, nil
}

func (s *service) Browse(ctx context.Context, filter string) ([]domain.Listing, error) {
	var itemType *domain.Resource
	if filter != "" && filter != domain.MarketFilterAll {
		r := domain.Resource(filter)
		if !r.IsListable() {
			return nil, fmt.Errorf(ErrFmtUnknownFilter, domain.ErrInvalidInput, filter)
		}
		itemType = &r
	}

	listings, err := s.repo.ListActiveListings(ctx, itemType)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListFailed, err)
	}
	return listings, nil
}

func (s *service) MyListings(ctx context.Context, sellerID string) ([]domain.Listing, error) {
	if err := requireID("seller_id", sellerID); err != nil {
		return nil, err
	}
	listings, err := s.repo.ListSellerListings(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListFailed, err)
	}
	return listings, nil
}

// begin applies the operation timeout, takes the in-process locks for keys
// and starts a span. The returned finish func must be deferred with the final error.
func (s *service) begin(ctx context.Context, op, playerID string, keys ...string) (context.Context, func(*error)) {
	ctx, span := telemetry.StartSpan(ctx, s.tracer, op, playerID)

	cancel := context.CancelFunc(func() {})
	if s.opts.OperationTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.opts.OperationTimeout)
	}
	unlock := s.locks.LockAll(keys...)

	return ctx, func(errp *error) {
		unlock()
		cancel()
		if err := *errp; err != nil {
			s.logFailure(ctx, op, playerID, err)
		}
		telemetry.EndSpan(span, *errp)
	}
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
