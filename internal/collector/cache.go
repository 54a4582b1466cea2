package collector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one cached payload.
type Entry struct {
	Symbol    string
	Kind      string
	Payload   []byte
	FetchedAt time.Time
}

// Cache stores raw provider payloads keyed by symbol and kind. Freshness is
// decided by the caller from FetchedAt.
type Cache interface {
	Get(ctx context.Context, symbol, kind string) (*Entry, error)
	Put(ctx context.Context, e *Entry) error
	Symbols(ctx context.Context) ([]string, error)
	Clear(ctx context.Context, symbol string) (int64, error)
	Close() error
}

// SQLiteCache persists cache entries in a SQLite database.
type SQLiteCache struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteCache opens (or creates) the cache database and runs migrations.
func NewSQLiteCache(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	c := &SQLiteCache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return c, nil
}

func (c *SQLiteCache) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS market_cache (
			symbol     TEXT NOT NULL,
			kind       TEXT NOT NULL,
			fetched_at INTEGER NOT NULL,
			payload    BLOB NOT NULL,
			PRIMARY KEY (symbol, kind)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_market_cache_symbol ON market_cache(symbol)`,
	}
	for _, s := range stmts {
		if _, err := c.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// Get returns the entry for (symbol, kind), or nil when absent.
func (c *SQLiteCache) Get(ctx context.Context, symbol, kind string) (*Entry, error) {
	var (
		ts      int64
		payload []byte
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT fetched_at, payload FROM market_cache WHERE symbol = ? AND kind = ?`,
		symbol, kind,
	).Scan(&ts, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s/%s: %w", symbol, kind, err)
	}
	return &Entry{Symbol: symbol, Kind: kind, Payload: payload, FetchedAt: time.Unix(ts, 0)}, nil
}

// Put upserts an entry.
func (c *SQLiteCache) Put(ctx context.Context, e *Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO market_cache (symbol, kind, fetched_at, payload) VALUES (?,?,?,?)`,
		e.Symbol, e.Kind, e.FetchedAt.Unix(), e.Payload,
	)
	if err != nil {
		return fmt.Errorf("cache put %s/%s: %w", e.Symbol, e.Kind, err)
	}
	return nil
}

// Symbols lists every symbol with at least one cached entry, sorted.
func (c *SQLiteCache) Symbols(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM market_cache ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("cache symbols: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Clear removes entries for symbol, or every entry when symbol is empty.
// It returns the number of removed entries.
func (c *SQLiteCache) Clear(ctx context.Context, symbol string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		res sql.Result
		err error
	)
	if symbol == "" {
		res, err = c.db.ExecContext(ctx, `DELETE FROM market_cache`)
	} else {
		res, err = c.db.ExecContext(ctx, `DELETE FROM market_cache WHERE symbol = ?`, symbol)
	}
	if err != nil {
		return 0, fmt.Errorf("cache clear: %w", err)
	}
	return res.RowsAffected()
}

func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
