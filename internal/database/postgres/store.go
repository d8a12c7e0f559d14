package postgres

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/guildledger/internal/database"
	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/repository"
)

// Store implements repository.Economy for PostgreSQL.
type Store struct {
	db *pgxpool.Pool
	q  *queries
}

// NewStore creates a Store over an existing pool. The caller owns the pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{
		db: db,
		q:  newQueries(db),
	}
}

var _ repository.Economy = (*Store)(nil)

// economyTx implements repository.EconomyTx
type economyTx struct {
	tx pgx.Tx
	q  *queries
}

// BeginTx starts a new read-committed transaction. Row locks taken through
// the returned tx give every operation a consistent view of what it mutates.
func (s *Store) BeginTx(ctx context.Context) (repository.EconomyTx, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, wrapErr(database.ErrMsgFailedToBeginTransaction, err)
	}
	return &economyTx{
		tx: tx,
		q:  s.q.withTx(tx),
	}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close releases the pool.
func (s *Store) Close() {
	s.db.Close()
}

func (s *Store) GetLedger(ctx context.Context, playerID string) (*domain.Ledger, error) {
	return s.q.getLedger(ctx, playerID)
}

func (s *Store) CreateLedger(ctx context.Context, playerID string, opening domain.Balance) (*domain.Ledger, bool, error) {
	created, err := s.q.insertLedger(ctx, playerID, opening)
	if err != nil {
		return nil, false, err
	}
	l, err := s.q.getLedger(ctx, playerID)
	return l, created, err
}

func (s *Store) GetEquipment(ctx context.Context, equipmentID string) (*domain.Equipment, error) {
	return s.q.getEquipment(ctx, equipmentID)
}

func (s *Store) ListEquipment(ctx context.Context) ([]domain.Equipment, error) {
	return s.q.listEquipment(ctx)
}

// UpsertEquipment seeds the catalog in a single transaction.
func (s *Store) UpsertEquipment(ctx context.Context, defs []domain.Equipment) (inserted, updated int, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, 0, wrapErr(database.ErrMsgFailedToBeginTransaction, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	q := s.q.withTx(tx)
	for _, def := range defs {
		ins, err := q.upsertEquipment(ctx, def)
		if err != nil {
			return 0, 0, fmt.Errorf("equipment %q: %w", def.ID, err)
		}
		if ins {
			inserted++
		} else {
			updated++
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, 0, wrapErr("commit catalog", err)
	}
	return inserted, updated, nil
}

func (s *Store) ListInventory(ctx context.Context, ownerID string) ([]domain.InventoryItem, error) {
	return s.q.listInventory(ctx, ownerID)
}

func (s *Store) ListActiveListings(ctx context.Context, itemType *domain.Resource) ([]domain.Listing, error) {
	return s.q.listActiveListings(ctx, itemType)
}

func (s *Store) ListSellerListings(ctx context.Context, sellerID string) ([]domain.Listing, error) {
	return s.q.listSellerListings(ctx, sellerID)
}

// Commit commits the transaction
func (t *economyTx) Commit(ctx context.Context) error {
	return wrapErr("commit", t.tx.Commit(ctx))
}

// Rollback rolls back the transaction
func (t *economyTx) Rollback(ctx context.Context) error {
	return wrapErr("rollback", t.tx.Rollback(ctx))
}

func (t *economyTx) LockPlayers(ctx context.Context, playerIDs ...string) (map[string]domain.Balance, error) {
	ids := slices.Clone(playerIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	balances, err := t.q.lockLedgers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := balances[id]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, id)
		}
	}
	return balances, nil
}

func (t *economyTx) ApplyDelta(ctx context.Context, playerID string, d domain.Delta) (domain.Balance, error) {
	return t.q.applyDelta(ctx, playerID, d)
}

func (t *economyTx) GetEquipment(ctx context.Context, equipmentID string) (*domain.Equipment, error) {
	return t.q.getEquipment(ctx, equipmentID)
}

func (t *economyTx) InsertItem(ctx context.Context, item domain.InventoryItem) error {
	return t.q.insertItem(ctx, item)
}

func (t *economyTx) GetItemForUpdate(ctx context.Context, ownerID, inventoryID string) (*domain.InventoryItem, error) {
	return t.q.getItemForUpdate(ctx, ownerID, inventoryID)
}

func (t *economyTx) GetEquippedForUpdate(ctx context.Context, ownerID string, slot domain.SlotType) (*domain.InventoryItem, error) {
	return t.q.getEquippedForUpdate(ctx, ownerID, slot)
}

func (t *economyTx) SetEquippedSlot(ctx context.Context, inventoryID string, slot *domain.SlotType) error {
	return t.q.setEquippedSlot(ctx, inventoryID, slot)
}

func (t *economyTx) DeleteItem(ctx context.Context, inventoryID string) error {
	return t.q.deleteItem(ctx, inventoryID)
}

func (t *economyTx) ListInventory(ctx context.Context, ownerID string) ([]domain.InventoryItem, error) {
	return t.q.listInventory(ctx, ownerID)
}

func (t *economyTx) InsertListing(ctx context.Context, listing domain.Listing) error {
	return t.q.insertListing(ctx, listing)
}

func (t *economyTx) GetListingForUpdate(ctx context.Context, listingID string) (*domain.Listing, error) {
	return t.q.getListingForUpdate(ctx, listingID)
}

func (t *economyTx) CloseListing(ctx context.Context, listingID string, status domain.ListingStatus, buyerID *string, closedAt time.Time) error {
	return t.q.closeListing(ctx, listingID, status, buyerID, closedAt)
}
