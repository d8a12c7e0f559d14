package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/osse101/guildledger/internal/domain"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// queries holds the hand-written statements shared by the pool and transactions.
type queries struct {
	db dbtx
}

func newQueries(db dbtx) *queries {
	return &queries{db: db}
}

func (q *queries) withTx(tx pgx.Tx) *queries {
	return &queries{db: tx}
}

// ---- Ledger ----

const getLedger = `
SELECT player_id, gold, gems, metals, quartz, created_at, updated_at
FROM player_ledgers WHERE player_id = $1`

const insertLedger = `
INSERT INTO player_ledgers (player_id, gold, gems, metals, quartz)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (player_id) DO NOTHING`

const lockLedgers = `
SELECT player_id, gold, gems, metals, quartz
FROM player_ledgers
WHERE player_id = ANY($1::text[])
ORDER BY player_id
FOR UPDATE`

// The WHERE clause is the guard: a delta that would take any field below
// zero matches no row.
const applyLedgerDelta = `
UPDATE player_ledgers
SET gold = gold + $2, gems = gems + $3, metals = metals + $4, quartz = quartz + $5,
    updated_at = now()
WHERE player_id = $1
  AND gold + $2 >= 0 AND gems + $3 >= 0 AND metals + $4 >= 0 AND quartz + $5 >= 0
RETURNING gold, gems, metals, quartz`

const ledgerExists = `SELECT EXISTS (SELECT 1 FROM player_ledgers WHERE player_id = $1)`

func (q *queries) getLedger(ctx context.Context, playerID string) (*domain.Ledger, error) {
	var l domain.Ledger
	err := q.db.QueryRow(ctx, getLedger, playerID).Scan(
		&l.PlayerID, &l.Gold, &l.Gems, &l.Metals, &l.Quartz, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, wrapErr("get ledger", err)
	}
	return &l, nil
}

func (q *queries) insertLedger(ctx context.Context, playerID string, b domain.Balance) (bool, error) {
	tag, err := q.db.Exec(ctx, insertLedger, playerID, b.Gold, b.Gems, b.Metals, b.Quartz)
	if err != nil {
		return false, wrapErr("insert ledger", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (q *queries) lockLedgers(ctx context.Context, playerIDs []string) (map[string]domain.Balance, error) {
	rows, err := q.db.Query(ctx, lockLedgers, playerIDs)
	if err != nil {
		return nil, wrapErr("lock ledgers", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Balance, len(playerIDs))
	for rows.Next() {
		var id string
		var b domain.Balance
		if err := rows.Scan(&id, &b.Gold, &b.Gems, &b.Metals, &b.Quartz); err != nil {
			return nil, wrapErr("scan ledger", err)
		}
		out[id] = b
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("lock ledgers", err)
	}
	return out, nil
}

func (q *queries) applyDelta(ctx context.Context, playerID string, d domain.Delta) (domain.Balance, error) {
	var b domain.Balance
	err := q.db.QueryRow(ctx, applyLedgerDelta, playerID, d.Gold, d.Gems, d.Metals, d.Quartz).
		Scan(&b.Gold, &b.Gems, &b.Metals, &b.Quartz)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return b, wrapErr("apply ledger delta", err)
	}

	var exists bool
	if err := q.db.QueryRow(ctx, ledgerExists, playerID).Scan(&exists); err != nil {
		return b, wrapErr("check ledger", err)
	}
	if !exists {
		return b, domain.ErrPlayerNotFound
	}
	return b, domain.ErrInsufficientFunds
}

// ---- Catalog ----

const selectEquipment = `
SELECT equipment_id, name, slot_type, cost_gold, attack, defense, health, speed
FROM equipment`

const upsertEquipment = `
INSERT INTO equipment (equipment_id, name, slot_type, cost_gold, attack, defense, health, speed)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (equipment_id) DO UPDATE
SET name = EXCLUDED.name, slot_type = EXCLUDED.slot_type, cost_gold = EXCLUDED.cost_gold,
    attack = EXCLUDED.attack, defense = EXCLUDED.defense, health = EXCLUDED.health, speed = EXCLUDED.speed
RETURNING (xmax = 0) AS inserted`

func scanEquipment(row pgx.Row) (domain.Equipment, error) {
	var e domain.Equipment
	var slot string
	err := row.Scan(&e.ID, &e.Name, &slot, &e.CostGold,
		&e.Stats.Attack, &e.Stats.Defense, &e.Stats.Health, &e.Stats.Speed)
	e.SlotType = domain.SlotType(slot)
	return e, err
}

func (q *queries) getEquipment(ctx context.Context, id string) (*domain.Equipment, error) {
	e, err := scanEquipment(q.db.QueryRow(ctx, selectEquipment+` WHERE equipment_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: equipment %q", domain.ErrNotFound, id)
		}
		return nil, wrapErr("get equipment", err)
	}
	return &e, nil
}

func (q *queries) listEquipment(ctx context.Context) ([]domain.Equipment, error) {
	rows, err := q.db.Query(ctx, selectEquipment+` ORDER BY cost_gold, equipment_id`)
	if err != nil {
		return nil, wrapErr("list equipment", err)
	}
	defer rows.Close()

	defs := []domain.Equipment{}
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, wrapErr("scan equipment", err)
		}
		defs = append(defs, e)
	}
	return defs, wrapErr("list equipment", rows.Err())
}

func (q *queries) upsertEquipment(ctx context.Context, e domain.Equipment) (bool, error) {
	var inserted bool
	err := q.db.QueryRow(ctx, upsertEquipment, e.ID, e.Name, string(e.SlotType), e.CostGold,
		e.Stats.Attack, e.Stats.Defense, e.Stats.Health, e.Stats.Speed).Scan(&inserted)
	if err != nil {
		return false, wrapErr("upsert equipment", err)
	}
	return inserted, nil
}

// ---- Inventory ----

const selectItem = `
SELECT inventory_id, owner_id, equipment_id, equipped_slot, acquired_at
FROM inventory_items`

func scanItem(row pgx.Row) (domain.InventoryItem, error) {
	var it domain.InventoryItem
	var id uuid.UUID
	var slot *string
	if err := row.Scan(&id, &it.OwnerID, &it.EquipmentID, &slot, &it.AcquiredAt); err != nil {
		return it, err
	}
	it.InventoryID = id.String()
	if slot != nil {
		s := domain.SlotType(*slot)
		it.EquippedSlot = &s
	}
	return it, nil
}

func (q *queries) listInventory(ctx context.Context, ownerID string) ([]domain.InventoryItem, error) {
	rows, err := q.db.Query(ctx, selectItem+` WHERE owner_id = $1 ORDER BY acquired_at, inventory_id`, ownerID)
	if err != nil {
		return nil, wrapErr("list inventory", err)
	}
	defer rows.Close()

	items := []domain.InventoryItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, wrapErr("scan inventory item", err)
		}
		items = append(items, it)
	}
	return items, wrapErr("list inventory", rows.Err())
}

func (q *queries) insertItem(ctx context.Context, it domain.InventoryItem) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO inventory_items (inventory_id, owner_id, equipment_id, equipped_slot, acquired_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		it.InventoryID, it.OwnerID, it.EquipmentID, slotParam(it.EquippedSlot), it.AcquiredAt)
	return wrapErr("insert inventory item", err)
}

func (q *queries) getItemForUpdate(ctx context.Context, ownerID, inventoryID string) (*domain.InventoryItem, error) {
	if _, err := uuid.Parse(inventoryID); err != nil {
		return nil, domain.ErrItemNotFound
	}
	it, err := scanItem(q.db.QueryRow(ctx,
		selectItem+` WHERE inventory_id = $1 AND owner_id = $2 FOR UPDATE`, inventoryID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, wrapErr("get inventory item", err)
	}
	return &it, nil
}

func (q *queries) getEquippedForUpdate(ctx context.Context, ownerID string, slot domain.SlotType) (*domain.InventoryItem, error) {
	it, err := scanItem(q.db.QueryRow(ctx,
		selectItem+` WHERE owner_id = $1 AND equipped_slot = $2 FOR UPDATE`, ownerID, string(slot)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get equipped item", err)
	}
	return &it, nil
}

func (q *queries) setEquippedSlot(ctx context.Context, inventoryID string, slot *domain.SlotType) error {
	tag, err := q.db.Exec(ctx,
		`UPDATE inventory_items SET equipped_slot = $2 WHERE inventory_id = $1`, inventoryID, slotParam(slot))
	if err != nil {
		return wrapErr("set equipped slot", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (q *queries) deleteItem(ctx context.Context, inventoryID string) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM inventory_items WHERE inventory_id = $1`, inventoryID)
	if err != nil {
		return wrapErr("delete inventory item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func slotParam(slot *domain.SlotType) *string {
	if slot == nil {
		return nil
	}
	s := string(*slot)
	return &s
}

// ---- Marketplace ----

const selectListing = `
SELECT listing_id, seller_id, item_type, quantity, unit_price, status, buyer_id, created_at, closed_at
FROM market_listings`

func scanListing(row pgx.Row) (domain.Listing, error) {
	var l domain.Listing
	var id uuid.UUID
	var itemType, status string
	if err := row.Scan(&id, &l.SellerID, &itemType, &l.Quantity, &l.UnitPrice, &status,
		&l.BuyerID, &l.CreatedAt, &l.ClosedAt); err != nil {
		return l, err
	}
	l.ListingID = id.String()
	l.ItemType = domain.Resource(itemType)
	l.Status = domain.ListingStatus(status)
	return l, nil
}

func (q *queries) queryListings(ctx context.Context, op, sql string, args ...any) ([]domain.Listing, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	listings := []domain.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, wrapErr("scan listing", err)
		}
		listings = append(listings, l)
	}
	return listings, wrapErr(op, rows.Err())
}

func (q *queries) listActiveListings(ctx context.Context, itemType *domain.Resource) ([]domain.Listing, error) {
	if itemType == nil {
		return q.queryListings(ctx, "list active listings",
			selectListing+` WHERE status = 'active' ORDER BY unit_price, created_at, listing_id`)
	}
	return q.queryListings(ctx, "list active listings",
		selectListing+` WHERE status = 'active' AND item_type = $1 ORDER BY unit_price, created_at, listing_id`,
		string(*itemType))
}

func (q *queries) listSellerListings(ctx context.Context, sellerID string) ([]domain.Listing, error) {
	return q.queryListings(ctx, "list seller listings",
		selectListing+` WHERE seller_id = $1 ORDER BY created_at DESC, listing_id DESC`, sellerID)
}

func (q *queries) insertListing(ctx context.Context, l domain.Listing) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO market_listings (listing_id, seller_id, item_type, quantity, unit_price, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ListingID, l.SellerID, string(l.ItemType), l.Quantity, l.UnitPrice, string(l.Status), l.CreatedAt)
	return wrapErr("insert listing", err)
}

func (q *queries) getListingForUpdate(ctx context.Context, listingID string) (*domain.Listing, error) {
	if _, err := uuid.Parse(listingID); err != nil {
		return nil, fmt.Errorf("%w: listing %q", domain.ErrNotFound, listingID)
	}
	l, err := scanListing(q.db.QueryRow(ctx, selectListing+` WHERE listing_id = $1 FOR UPDATE`, listingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: listing %q", domain.ErrNotFound, listingID)
		}
		return nil, wrapErr("get listing", err)
	}
	return &l, nil
}

func (q *queries) closeListing(ctx context.Context, listingID string, status domain.ListingStatus, buyerID *string, closedAt time.Time) error {
	tag, err := q.db.Exec(ctx,
		`UPDATE market_listings SET status = $2, buyer_id = $3, closed_at = $4
		 WHERE listing_id = $1 AND status = 'active'`,
		listingID, string(status), buyerID, closedAt)
	if err != nil {
		return wrapErr("close listing", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotActive
	}
	return nil
}
