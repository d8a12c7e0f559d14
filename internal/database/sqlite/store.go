// Package sqlite is a single-writer SQLite implementation of the economy
// store, used for local development and for tests that need real
// transactions without a PostgreSQL server.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/osse101/guildledger/internal/database"
	"github.com/osse101/guildledger/internal/domain"
	"github.com/osse101/guildledger/internal/repository"
)

// DSN options: every transaction starts with BEGIN IMMEDIATE so it holds the
// write lock from its first statement, which serializes writers the same way
// row locks do in PostgreSQL.
const dsnOptions = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

// Store implements repository.Economy for SQLite.
type Store struct {
	db *sqlx.DB
}

var _ repository.Economy = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies migrations.
// Use ":memory:" for a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := "file:" + path + "?" + dsnOptions
	if path == ":memory:" {
		dsn = "file::memory:?" + dsnOptions
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection: SQLite has a single writer, and an in-memory database
	// exists only on the connection that created it.
	db.SetMaxOpenConns(1)

	if err := database.Migrate(ctx, db.DB, database.DialectSQLite); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying handle for tests and tooling.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() {
	if err := s.db.Close(); err != nil {
		slog.Default().Error("Failed to close sqlite database", "error", err)
	}
}

// economyTx implements repository.EconomyTx
type economyTx struct {
	tx *sqlx.Tx
}

// BeginTx starts an immediate transaction.
func (s *Store) BeginTx(ctx context.Context) (repository.EconomyTx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, wrapErr(database.ErrMsgFailedToBeginTransaction, err)
	}
	return &economyTx{tx: tx}, nil
}

func (t *economyTx) Commit(ctx context.Context) error {
	return wrapErr("commit", t.tx.Commit())
}

func (t *economyTx) Rollback(ctx context.Context) error {
	return wrapErr("rollback", t.tx.Rollback())
}

// ---- Ledger ----

type ledgerRow struct {
	PlayerID  string    `db:"player_id"`
	Gold      int64     `db:"gold"`
	Gems      int64     `db:"gems"`
	Metals    int64     `db:"metals"`
	Quartz    int64     `db:"quartz"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r ledgerRow) toDomain() *domain.Ledger {
	return &domain.Ledger{
		PlayerID:  r.PlayerID,
		Balance:   domain.Balance{Gold: r.Gold, Gems: r.Gems, Metals: r.Metals, Quartz: r.Quartz},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func getLedger(ctx context.Context, q sqlx.QueryerContext, playerID string) (*domain.Ledger, error) {
	var row ledgerRow
	err := sqlx.GetContext(ctx, q, &row,
		`SELECT player_id, gold, gems, metals, quartz, created_at, updated_at
		 FROM player_ledgers WHERE player_id = ?`, playerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, wrapErr("get ledger", err)
	}
	return row.toDomain(), nil
}

func (s *Store) GetLedger(ctx context.Context, playerID string) (*domain.Ledger, error) {
	return getLedger(ctx, s.db, playerID)
}

func (s *Store) CreateLedger(ctx context.Context, playerID string, opening domain.Balance) (*domain.Ledger, bool, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO player_ledgers (player_id, gold, gems, metals, quartz, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (player_id) DO NOTHING`,
		playerID, opening.Gold, opening.Gems, opening.Metals, opening.Quartz, now, now)
	if err != nil {
		return nil, false, wrapErr("insert ledger", err)
	}
	n, _ := res.RowsAffected()
	l, err := getLedger(ctx, s.db, playerID)
	return l, n == 1, err
}

func (t *economyTx) LockPlayers(ctx context.Context, playerIDs ...string) (map[string]domain.Balance, error) {
	ids := slices.Clone(playerIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	query, args, err := sqlx.In(
		`SELECT player_id, gold, gems, metals, quartz, created_at, updated_at
		 FROM player_ledgers WHERE player_id IN (?) ORDER BY player_id`, ids)
	if err != nil {
		return nil, fmt.Errorf("lock ledgers: %w", err)
	}

	var rows []ledgerRow
	if err := t.tx.SelectContext(ctx, &rows, t.tx.Rebind(query), args...); err != nil {
		return nil, wrapErr("lock ledgers", err)
	}

	out := make(map[string]domain.Balance, len(rows))
	for _, r := range rows {
		out[r.PlayerID] = r.toDomain().Balance
	}
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, id)
		}
	}
	return out, nil
}

func (t *economyTx) ApplyDelta(ctx context.Context, playerID string, d domain.Delta) (domain.Balance, error) {
	var b domain.Balance
	row := t.tx.QueryRowxContext(ctx,
		`UPDATE player_ledgers
		 SET gold = gold + ?1, gems = gems + ?2, metals = metals + ?3, quartz = quartz + ?4, updated_at = ?5
		 WHERE player_id = ?6
		   AND gold + ?1 >= 0 AND gems + ?2 >= 0 AND metals + ?3 >= 0 AND quartz + ?4 >= 0
		 RETURNING gold, gems, metals, quartz`,
		d.Gold, d.Gems, d.Metals, d.Quartz, time.Now().UTC(), playerID)
	err := row.Scan(&b.Gold, &b.Gems, &b.Metals, &b.Quartz)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return b, wrapErr("apply ledger delta", err)
	}

	var exists bool
	if err := t.tx.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM player_ledgers WHERE player_id = ?)`, playerID); err != nil {
		return b, wrapErr("check ledger", err)
	}
	if !exists {
		return b, domain.ErrPlayerNotFound
	}
	return b, domain.ErrInsufficientFunds
}
