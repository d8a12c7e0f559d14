package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/osse101/guildledger/internal/domain"
)

// ---- Catalog ----

type equipmentRow struct {
	ID       string `db:"equipment_id"`
	Name     string `db:"name"`
	SlotType string `db:"slot_type"`
	CostGold int64  `db:"cost_gold"`
	Attack   int    `db:"attack"`
	Defense  int    `db:"defense"`
	Health   int    `db:"health"`
	Speed    int    `db:"speed"`
}

func (r equipmentRow) toDomain() domain.Equipment {
	return domain.Equipment{
		ID:       r.ID,
		Name:     r.Name,
		SlotType: domain.SlotType(r.SlotType),
		CostGold: r.CostGold,
		Stats:    domain.Stats{Attack: r.Attack, Defense: r.Defense, Health: r.Health, Speed: r.Speed},
	}
}

const selectEquipment = `
SELECT equipment_id, name, slot_type, cost_gold, attack, defense, health, speed
FROM equipment`

func getEquipment(ctx context.Context, q sqlx.QueryerContext, id string) (*domain.Equipment, error) {
	var row equipmentRow
	if err := sqlx.GetContext(ctx, q, &row, selectEquipment+` WHERE equipment_id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: equipment %q", domain.ErrNotFound, id)
		}
		return nil, wrapErr("get equipment", err)
	}
	e := row.toDomain()
	return &e, nil
}

func (s *Store) GetEquipment(ctx context.Context, equipmentID string) (*domain.Equipment, error) {
	return getEquipment(ctx, s.db, equipmentID)
}

func (t *economyTx) GetEquipment(ctx context.Context, equipmentID string) (*domain.Equipment, error) {
	return getEquipment(ctx, t.tx, equipmentID)
}

func (s *Store) ListEquipment(ctx context.Context) ([]domain.Equipment, error) {
	var rows []equipmentRow
	if err := s.db.SelectContext(ctx, &rows, selectEquipment+` ORDER BY cost_gold, equipment_id`); err != nil {
		return nil, wrapErr("list equipment", err)
	}
	defs := make([]domain.Equipment, 0, len(rows))
	for _, r := range rows {
		defs = append(defs, r.toDomain())
	}
	return defs, nil
}

// UpsertEquipment seeds the catalog in a single transaction.
func (s *Store) UpsertEquipment(ctx context.Context, defs []domain.Equipment) (inserted, updated int, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, 0, wrapErr("begin catalog seed", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, def := range defs {
		var exists bool
		if err := tx.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM equipment WHERE equipment_id = ?)`, def.ID); err != nil {
			return 0, 0, wrapErr("check equipment", err)
		}

		row := equipmentRow{
			ID: def.ID, Name: def.Name, SlotType: string(def.SlotType), CostGold: def.CostGold,
			Attack: def.Stats.Attack, Defense: def.Stats.Defense, Health: def.Stats.Health, Speed: def.Stats.Speed,
		}
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO equipment (equipment_id, name, slot_type, cost_gold, attack, defense, health, speed)
			 VALUES (:equipment_id, :name, :slot_type, :cost_gold, :attack, :defense, :health, :speed)
			 ON CONFLICT (equipment_id) DO UPDATE
			 SET name = excluded.name, slot_type = excluded.slot_type, cost_gold = excluded.cost_gold,
			     attack = excluded.attack, defense = excluded.defense, health = excluded.health, speed = excluded.speed`,
			row); err != nil {
			return 0, 0, fmt.Errorf("equipment %q: %w", def.ID, wrapErr("upsert equipment", err))
		}

		if exists {
			updated++
		} else {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, wrapErr("commit catalog", err)
	}
	return inserted, updated, nil
}

// ---- Inventory ----

type itemRow struct {
	InventoryID  string    `db:"inventory_id"`
	OwnerID      string    `db:"owner_id"`
	EquipmentID  string    `db:"equipment_id"`
	EquippedSlot *string   `db:"equipped_slot"`
	AcquiredAt   time.Time `db:"acquired_at"`
}

func (r itemRow) toDomain() domain.InventoryItem {
	it := domain.InventoryItem{
		InventoryID: r.InventoryID,
		OwnerID:     r.OwnerID,
		EquipmentID: r.EquipmentID,
		AcquiredAt:  r.AcquiredAt,
	}
	if r.EquippedSlot != nil {
		s := domain.SlotType(*r.EquippedSlot)
		it.EquippedSlot = &s
	}
	return it
}

const selectItem = `
SELECT inventory_id, owner_id, equipment_id, equipped_slot, acquired_at
FROM inventory_items`

func listInventory(ctx context.Context, q sqlx.QueryerContext, ownerID string) ([]domain.InventoryItem, error) {
	var rows []itemRow
	if err := sqlx.SelectContext(ctx, q, &rows,
		selectItem+` WHERE owner_id = ? ORDER BY acquired_at, rowid`, ownerID); err != nil {
		return nil, wrapErr("list inventory", err)
	}
	items := make([]domain.InventoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toDomain())
	}
	return items, nil
}

func (s *Store) ListInventory(ctx context.Context, ownerID string) ([]domain.InventoryItem, error) {
	return listInventory(ctx, s.db, ownerID)
}

func (t *economyTx) ListInventory(ctx context.Context, ownerID string) ([]domain.InventoryItem, error) {
	return listInventory(ctx, t.tx, ownerID)
}

func (t *economyTx) InsertItem(ctx context.Context, item domain.InventoryItem) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO inventory_items (inventory_id, owner_id, equipment_id, equipped_slot, acquired_at)
		 VALUES (?, ?, ?, ?, ?)`,
		item.InventoryID, item.OwnerID, item.EquipmentID, slotParam(item.EquippedSlot), item.AcquiredAt.UTC())
	return wrapErr("insert inventory item", err)
}

func (t *economyTx) GetItemForUpdate(ctx context.Context, ownerID, inventoryID string) (*domain.InventoryItem, error) {
	var row itemRow
	err := t.tx.GetContext(ctx, &row,
		selectItem+` WHERE inventory_id = ? AND owner_id = ?`, inventoryID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, wrapErr("get inventory item", err)
	}
	it := row.toDomain()
	return &it, nil
}

func (t *economyTx) GetEquippedForUpdate(ctx context.Context, ownerID string, slot domain.SlotType) (*domain.InventoryItem, error) {
	var row itemRow
	err := t.tx.GetContext(ctx, &row,
		selectItem+` WHERE owner_id = ? AND equipped_slot = ?`, ownerID, string(slot))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get equipped item", err)
	}
	it := row.toDomain()
	return &it, nil
}

func (t *economyTx) SetEquippedSlot(ctx context.Context, inventoryID string, slot *domain.SlotType) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE inventory_items SET equipped_slot = ? WHERE inventory_id = ?`, slotParam(slot), inventoryID)
	return affectedOne(res, err, "set equipped slot", domain.ErrItemNotFound)
}

func (t *economyTx) DeleteItem(ctx context.Context, inventoryID string) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM inventory_items WHERE inventory_id = ?`, inventoryID)
	return affectedOne(res, err, "delete inventory item", domain.ErrItemNotFound)
}

func slotParam(slot *domain.SlotType) *string {
	if slot == nil {
		return nil
	}
	s := string(*slot)
	return &s
}

// ---- Marketplace ----

type listingRow struct {
	ListingID string     `db:"listing_id"`
	SellerID  string     `db:"seller_id"`
	ItemType  string     `db:"item_type"`
	Quantity  int64      `db:"quantity"`
	UnitPrice int64      `db:"unit_price"`
	Status    string     `db:"status"`
	BuyerID   *string    `db:"buyer_id"`
	CreatedAt time.Time  `db:"created_at"`
	ClosedAt  *time.Time `db:"closed_at"`
}

func (r listingRow) toDomain() domain.Listing {
	return domain.Listing{
		ListingID: r.ListingID,
		SellerID:  r.SellerID,
		ItemType:  domain.Resource(r.ItemType),
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
		Status:    domain.ListingStatus(r.Status),
		BuyerID:   r.BuyerID,
		CreatedAt: r.CreatedAt,
		ClosedAt:  r.ClosedAt,
	}
}

const selectListing = `
SELECT listing_id, seller_id, item_type, quantity, unit_price, status, buyer_id, created_at, closed_at
FROM market_listings`

func (s *Store) selectListings(ctx context.Context, op, query string, args ...any) ([]domain.Listing, error) {
	var rows []listingRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrapErr(op, err)
	}
	listings := make([]domain.Listing, 0, len(rows))
	for _, r := range rows {
		listings = append(listings, r.toDomain())
	}
	return listings, nil
}

func (s *Store) ListActiveListings(ctx context.Context, itemType *domain.Resource) ([]domain.Listing, error) {
	if itemType == nil {
		return s.selectListings(ctx, "list active listings",
			selectListing+` WHERE status = 'active' ORDER BY unit_price, created_at, rowid`)
	}
	return s.selectListings(ctx, "list active listings",
		selectListing+` WHERE status = 'active' AND item_type = ? ORDER BY unit_price, created_at, rowid`,
		string(*itemType))
}

func (s *Store) ListSellerListings(ctx context.Context, sellerID string) ([]domain.Listing, error) {
	return s.selectListings(ctx, "list seller listings",
		selectListing+` WHERE seller_id = ? ORDER BY created_at DESC, rowid DESC`, sellerID)
}

func (t *economyTx) InsertListing(ctx context.Context, l domain.Listing) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO market_listings (listing_id, seller_id, item_type, quantity, unit_price, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ListingID, l.SellerID, string(l.ItemType), l.Quantity, l.UnitPrice, string(l.Status), l.CreatedAt.UTC())
	return wrapErr("insert listing", err)
}

func (t *economyTx) GetListingForUpdate(ctx context.Context, listingID string) (*domain.Listing, error) {
	var row listingRow
	if err := t.tx.GetContext(ctx, &row, selectListing+` WHERE listing_id = ?`, listingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: listing %q", domain.ErrNotFound, listingID)
		}
		return nil, wrapErr("get listing", err)
	}
	l := row.toDomain()
	return &l, nil
}

func (t *economyTx) CloseListing(ctx context.Context, listingID string, status domain.ListingStatus, buyerID *string, closedAt time.Time) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE market_listings SET status = ?, buyer_id = ?, closed_at = ?
		 WHERE listing_id = ? AND status = 'active'`,
		string(status), buyerID, closedAt.UTC(), listingID)
	return affectedOne(res, err, "close listing", domain.ErrListingNotActive)
}

func affectedOne(res sql.Result, err error, op string, notFound error) error {
	if err != nil {
		return wrapErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr(op, err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
