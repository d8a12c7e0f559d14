package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/logger"
	"github.com/osse101/guildledger/internal/repository"
	"github.com/osse101/guildledger/internal/validation"
)

// ErrInvalidConfig is returned for catalog files that parse but make no sense.
var ErrInvalidConfig = errors.New("invalid catalog configuration")

// Config is the on-disk catalog seed.
type Config struct {
	Version   string `yaml:"version" json:"version"`
	Equipment []Def  `yaml:"equipment" json:"equipment"`
}

// Def is one equipment definition in the seed file.
type Def struct {
	ID       string       `yaml:"id" json:"id"`
	Name     string       `yaml:"name" json:"name"`
	SlotType string       `yaml:"slot_type" json:"slot_type"`
	CostGold int64        `yaml:"cost_gold" json:"cost_gold"`
	Stats    domain.Stats `yaml:"stats" json:"stats"`
}

// SyncResult counts what Sync changed.
type SyncResult struct {
	Inserted int
	Updated  int
}

// Loader reads, validates and seeds the equipment catalog.
type Loader struct {
	schemaPath string
	schemas    validation.SchemaValidator
}

// NewLoader creates a Loader that checks files against the schema at schemaPath.
func NewLoader(schemaPath string) *Loader {
	return &Loader{
		schemaPath: schemaPath,
		schemas:    validation.NewSchemaValidator(),
	}
}

// Load reads a YAML or JSON catalog file.
func (l *Loader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadConfigFailed, err)
	}

	var cfg Config
	if validation.IsYAML(path) {
		if err := l.schemas.ValidateYAML(data, l.schemaPath); err != nil {
			return nil, fmt.Errorf(ErrMsgSchemaFailedFmt, path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf(ErrMsgParseConfigFailed, err)
		}
	} else {
		if err := l.schemas.ValidateJSON(data, l.schemaPath); err != nil {
			return nil, fmt.Errorf(ErrMsgSchemaFailedFmt, path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf(ErrMsgParseConfigFailed, err)
		}
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks rules a schema cannot express, such as unique ids.
func Validate(cfg *Config) error {
	if cfg == nil || len(cfg.Equipment) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, ErrMsgNoEquipment)
	}

	seen := make(map[string]bool, len(cfg.Equipment))
	for i, def := range cfg.Equipment {
		switch {
		case def.ID == "":
			return fmt.Errorf(ErrFmtEmptyID, ErrInvalidConfig, i)
		case seen[def.ID]:
			return fmt.Errorf(ErrFmtDuplicateID, ErrInvalidConfig, def.ID)
		case def.Name == "":
			return fmt.Errorf(ErrFmtEmptyName, ErrInvalidConfig, def.ID)
		case def.CostGold < 0:
			return fmt.Errorf(ErrFmtNegativeCost, ErrInvalidConfig, def.ID)
		}
		if _, err := domain.ParseSlot(def.SlotType); err != nil {
			return fmt.Errorf(ErrFmtUnknownSlot, ErrInvalidConfig, def.ID, def.SlotType)
		}
		seen[def.ID] = true
	}
	return nil
}

// ToDomain converts the seed into catalog definitions.
func (c *Config) ToDomain() []domain.Equipment {
	defs := make([]domain.Equipment, 0, len(c.Equipment))
	for _, d := range c.Equipment {
		defs = append(defs, domain.Equipment{
			ID:       d.ID,
			Name:     d.Name,
			SlotType: domain.SlotType(d.SlotType),
			CostGold: d.CostGold,
			Stats:    d.Stats,
		})
	}
	return defs
}

// Sync upserts every definition in cfg. Definitions missing from the file are
// left in place because owned items may still reference them.
func (l *Loader) Sync(ctx context.Context, cfg *Config, repo repository.Catalog) (*SyncResult, error) {
	inserted, updated, err := repo.UpsertEquipment(ctx, cfg.ToDomain())
	if err != nil {
		return nil, fmt.Errorf(ErrMsgSyncFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgCatalogSynced,
		"version", cfg.Version,
		"inserted", inserted,
		"updated", updated)
	return &SyncResult{Inserted: inserted, Updated: updated}, nil
}
