package catalog

import "time"

// Cache settings
const (
	DefaultCacheSize = 512
	DefaultCacheTTL  = 5 * time.Minute

	listCacheKey = "all"
)

// Error messages
const (
	ErrMsgReadConfigFailed  = "failed to read catalog file: %w"
	ErrMsgParseConfigFailed = "failed to parse catalog file: %w"
	ErrMsgSchemaFailedFmt   = "catalog schema validation failed for %s: %w"
	ErrMsgNoEquipment       = "no equipment defined"
	ErrFmtEmptyID           = "%w: equipment at index %d has an empty id"
	ErrFmtDuplicateID       = "%w: duplicate equipment id %q"
	ErrFmtEmptyName         = "%w: equipment %q has an empty name"
	ErrFmtUnknownSlot       = "%w: equipment %q has unknown slot_type %q"
	ErrFmtNegativeCost      = "%w: equipment %q has a negative cost"
	ErrMsgLookupFailed      = "catalog lookup failed: %w"
	ErrMsgListFailed        = "catalog list failed: %w"
	ErrMsgSyncFailed        = "catalog sync failed: %w"
)

// Log messages
const (
	LogMsgCatalogSynced = "Equipment catalog synced"
)
