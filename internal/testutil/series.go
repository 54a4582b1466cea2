// Package testutil provides synthetic price series for tests.
package testutil

import (
	"math"
	"math/rand/v2"
	"time"

	"StockSentinel/internal/model"
)

// Start is the first trading date of every synthetic series.
var Start = time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

// LinearSeries returns n bars whose close rises by step per session with constant volume.
func LinearSeries(symbol string, n int, start, step float64) *model.Series {
	bars := make([]model.OHLCV, n)
	for i := range bars {
		c := start + float64(i)*step
		bars[i] = model.OHLCV{
			Time:   Start.AddDate(0, 0, i),
			Open:   c - step/2,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return &model.Series{Symbol: symbol, Bars: bars, FetchedAt: Start.AddDate(0, 0, n)}
}

// RandomWalk returns n bars of a seeded geometric random walk with drift.
func RandomWalk(symbol string, n int, seed uint64, drift float64) *model.Series {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	bars := make([]model.OHLCV, n)
	price := 100.0
	for i := range bars {
		ret := drift + 0.015*rng.NormFloat64()
		open := price * (1 + 0.003*rng.NormFloat64())
		price *= math.Exp(ret)
		high := math.Max(open, price) * (1 + 0.005*rng.Float64())
		low := math.Min(open, price) * (1 - 0.005*rng.Float64())
		bars[i] = model.OHLCV{
			Time:   Start.AddDate(0, 0, i),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  price,
			Volume: 500_000 + float64(rng.IntN(1_000_000)),
		}
	}
	return &model.Series{Symbol: symbol, Bars: bars, FetchedAt: Start.AddDate(0, 0, n)}
}

// DecreasingLows returns n bars whose lows fall steadily while highs stay flat.
func DecreasingLows(symbol string, n int) *model.Series {
	bars := make([]model.OHLCV, n)
	for i := range bars {
		low := 100 - float64(i)*0.5
		bars[i] = model.OHLCV{
			Time:   Start.AddDate(0, 0, i),
			Open:   low + 1,
			High:   110,
			Low:    low,
			Close:  low + 2,
			Volume: 1_000_000,
		}
	}
	return &model.Series{Symbol: symbol, Bars: bars}
}

// ZeroVolume returns a copy of s with every volume set to 0, as reported for
// indices and halted listings.
func ZeroVolume(s *model.Series) *model.Series {
	bars := make([]model.OHLCV, len(s.Bars))
	copy(bars, s.Bars)
	for i := range bars {
		bars[i].Volume = 0
	}
	return &model.Series{Symbol: s.Symbol, Bars: bars, FetchedAt: s.FetchedAt}
}
