// Package collector supplies OHLCV series and fundamentals, fetched from a
// provider and cached with a per-kind TTL.
package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"StockSentinel/internal/model"
)

// ErrNoData is returned when neither the provider nor the cache has data.
var ErrNoData = errors.New("no data available")

// Default cache TTLs per data kind.
const (
	TTLPrices       = 24 * time.Hour
	TTLFundamentals = 7 * 24 * time.Hour
)

const kindFundamentals = "fundamentals"

func kindPrices(period string) string { return "prices:" + period }

// Freshness describes where returned data came from.
type Freshness int

const (
	// Missing means no data was returned.
	Missing Freshness = iota
	// Fresh data is within its TTL or was just fetched.
	Fresh
	// Stale data is past its TTL and was served because the provider failed.
	Stale
)

func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "missing"
	}
}

func (f Freshness) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// Options configure a Collector.
type Options struct {
	PriceTTL       time.Duration
	FundamentalTTL time.Duration
}

// Collector serves market data cache-first, refreshing expired entries from
// the fetcher and falling back to stale entries when the fetch fails.
type Collector struct {
	fetcher Fetcher
	cache   Cache
	opts    Options
	log     zerolog.Logger
	now     func() time.Time
}

// New creates a Collector. Zero TTLs take the defaults.
func New(fetcher Fetcher, cache Cache, opts Options, log zerolog.Logger) *Collector {
	if opts.PriceTTL <= 0 {
		opts.PriceTTL = TTLPrices
	}
	if opts.FundamentalTTL <= 0 {
		opts.FundamentalTTL = TTLFundamentals
	}
	return &Collector{
		fetcher: fetcher,
		cache:   cache,
		opts:    opts,
		log:     log.With().Str("component", "collector").Str("provider", fetcher.Name()).Logger(),
		now:     time.Now,
	}
}

// Prices returns the daily series of symbol over period. With force set the
// cache is bypassed for reading but still refreshed.
func (c *Collector) Prices(ctx context.Context, symbol, period string, force bool) (*model.Series, Freshness, error) {
	symbol = normalize(symbol)
	var cached *model.Series
	entry, fetchedAt, err := c.load(ctx, symbol, kindPrices(period), &cached)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("price cache read failed")
	}
	if entry && !force && c.now().Sub(fetchedAt) < c.opts.PriceTTL {
		return cached, Fresh, nil
	}

	bars, fetchErr := c.fetcher.FetchDailyBars(ctx, symbol, period)
	if fetchErr == nil && len(bars) == 0 {
		fetchErr = fmt.Errorf("provider returned no bars")
	}
	if fetchErr == nil {
		series := &model.Series{Symbol: symbol, Bars: bars, FetchedAt: c.now()}
		c.store(ctx, symbol, kindPrices(period), series)
		return series, Fresh, nil
	}

	if entry {
		c.log.Warn().Err(fetchErr).Str("symbol", symbol).Time("fetched_at", fetchedAt).Msg("serving stale prices")
		return cached, Stale, nil
	}
	return nil, Missing, fmt.Errorf("%w: prices for %s: %v", ErrNoData, symbol, fetchErr)
}

// Fundamentals returns the fundamental metrics of symbol.
func (c *Collector) Fundamentals(ctx context.Context, symbol string, force bool) (model.Fundamentals, Freshness, error) {
	symbol = normalize(symbol)
	var cached model.Fundamentals
	entry, fetchedAt, err := c.load(ctx, symbol, kindFundamentals, &cached)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("fundamental cache read failed")
	}
	if entry && !force && c.now().Sub(fetchedAt) < c.opts.FundamentalTTL {
		return cached, Fresh, nil
	}

	metrics, fetchErr := c.fetcher.FetchFundamentals(ctx, symbol)
	if fetchErr == nil {
		c.store(ctx, symbol, kindFundamentals, metrics)
		return metrics, Fresh, nil
	}

	if entry {
		c.log.Warn().Err(fetchErr).Str("symbol", symbol).Time("fetched_at", fetchedAt).Msg("serving stale fundamentals")
		return cached, Stale, nil
	}
	return nil, Missing, fmt.Errorf("%w: fundamentals for %s: %v", ErrNoData, symbol, fetchErr)
}

// CachedSymbols lists symbols with cached data.
func (c *Collector) CachedSymbols(ctx context.Context) ([]string, error) {
	return c.cache.Symbols(ctx)
}

// ClearCache drops cached data for symbol, or everything when symbol is empty.
func (c *Collector) ClearCache(ctx context.Context, symbol string) (int64, error) {
	if symbol != "" {
		symbol = normalize(symbol)
	}
	n, err := c.cache.Clear(ctx, symbol)
	if err != nil {
		return 0, err
	}
	c.log.Info().Str("symbol", symbol).Int64("removed", n).Msg("cache cleared")
	return n, nil
}

// load decodes a cached entry into dst and reports whether one was found.
func (c *Collector) load(ctx context.Context, symbol, kind string, dst any) (bool, time.Time, error) {
	e, err := c.cache.Get(ctx, symbol, kind)
	if err != nil || e == nil {
		return false, time.Time{}, err
	}
	if err := msgpack.Unmarshal(e.Payload, dst); err != nil {
		return false, time.Time{}, fmt.Errorf("decode %s/%s: %w", symbol, kind, err)
	}
	return true, e.FetchedAt, nil
}

func (c *Collector) store(ctx context.Context, symbol, kind string, v any) {
	payload, err := msgpack.Marshal(v)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Str("kind", kind).Msg("encode cache entry")
		return
	}
	e := &Entry{Symbol: symbol, Kind: kind, Payload: payload, FetchedAt: c.now()}
	if err := c.cache.Put(ctx, e); err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Str("kind", kind).Msg("write cache entry")
	}
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
