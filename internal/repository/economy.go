package repository

import (
	"context"
	"time"

	"github.com/osse101/guildledger/internal/domain"
)

// Economy is the persistence port shared by the ledger, inventory, trade and
// marketplace services. Reads outside a transaction are for display only and
// may be stale by the time a mutation runs.
type Economy interface {
	Ledger
	Catalog
	Inventory
	Market

	BeginTx(ctx context.Context) (EconomyTx, error)
	Ping(ctx context.Context) error
}

// Ledger reads and provisions player ledgers.
type Ledger interface {
	GetLedger(ctx context.Context, playerID string) (*domain.Ledger, error)
	// CreateLedger inserts a ledger unless one exists. created reports whether
	// this call inserted it; the returned ledger is the stored row either way.
	CreateLedger(ctx context.Context, playerID string, opening domain.Balance) (ledger *domain.Ledger, created bool, err error)
}

// Catalog reads and seeds equipment definitions.
type Catalog interface {
	GetEquipment(ctx context.Context, equipmentID string) (*domain.Equipment, error)
	ListEquipment(ctx context.Context) ([]domain.Equipment, error)
	UpsertEquipment(ctx context.Context, defs []domain.Equipment) (inserted, updated int, err error)
}

// Inventory reads owned items.
type Inventory interface {
	ListInventory(ctx context.Context, ownerID string) ([]domain.InventoryItem, error)
}

// Market reads listings.
type Market interface {
	// ListActiveListings returns active listings ordered by unit_price ascending.
	// A nil itemType selects every resource.
	ListActiveListings(ctx context.Context, itemType *domain.Resource) ([]domain.Listing, error)
	// ListSellerListings returns every listing of the seller, newest first.
	ListSellerListings(ctx context.Context, sellerID string) ([]domain.Listing, error)
}

// EconomyTx is one atomic unit of work. Implementations take row locks in the
// order listing, players (sorted by id), inventory items. Callers must follow
// that order to stay deadlock free.
type EconomyTx interface {
	Tx

	// LockPlayers locks the ledgers of the given players in ascending id order
	// and returns their current balances. Fails with domain.ErrPlayerNotFound.
	LockPlayers(ctx context.Context, playerIDs ...string) (map[string]domain.Balance, error)
	// ApplyDelta adds d to the ledger only if no field would drop below zero.
	// Fails with domain.ErrInsufficientFunds or domain.ErrPlayerNotFound.
	ApplyDelta(ctx context.Context, playerID string, d domain.Delta) (domain.Balance, error)

	// GetEquipment reads the catalog on the transaction's connection.
	GetEquipment(ctx context.Context, equipmentID string) (*domain.Equipment, error)

	InsertItem(ctx context.Context, item domain.InventoryItem) error
	// GetItemForUpdate fails with domain.ErrItemNotFound when the item does not
	// exist or belongs to someone else.
	GetItemForUpdate(ctx context.Context, ownerID, inventoryID string) (*domain.InventoryItem, error)
	// GetEquippedForUpdate returns nil when the slot is empty.
	GetEquippedForUpdate(ctx context.Context, ownerID string, slot domain.SlotType) (*domain.InventoryItem, error)
	SetEquippedSlot(ctx context.Context, inventoryID string, slot *domain.SlotType) error
	DeleteItem(ctx context.Context, inventoryID string) error
	ListInventory(ctx context.Context, ownerID string) ([]domain.InventoryItem, error)

	InsertListing(ctx context.Context, listing domain.Listing) error
	// GetListingForUpdate fails with domain.ErrNotFound.
	GetListingForUpdate(ctx context.Context, listingID string) (*domain.Listing, error)
	CloseListing(ctx context.Context, listingID string, status domain.ListingStatus, buyerID *string, closedAt time.Time) error
}
