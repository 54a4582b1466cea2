package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnordered is returned when bars are not in ascending chronological order.
	ErrUnordered = errors.New("bars are not in ascending chronological order")
	// ErrDuplicateDate is returned when two bars share the same trading date.
	ErrDuplicateDate = errors.New("duplicate trading date")
)

// OHLCV represents a single daily bar.
type OHLCV struct {
	Time   time.Time `json:"date" msgpack:"t"`
	Open   float64   `json:"open" msgpack:"o"`
	High   float64   `json:"high" msgpack:"h"`
	Low    float64   `json:"low" msgpack:"l"`
	Close  float64   `json:"close" msgpack:"c"`
	Volume float64   `json:"volume" msgpack:"v"`
}

// Series holds the daily price history of one symbol, oldest bar first.
type Series struct {
	Symbol    string    `msgpack:"symbol"`
	Bars      []OHLCV   `msgpack:"bars"`
	FetchedAt time.Time `msgpack:"fetched_at"`
}

// Len returns the number of bars.
func (s *Series) Len() int { return len(s.Bars) }

// Validate checks that bars are strictly ascending by trading date.
func (s *Series) Validate() error {
	for i := 1; i < len(s.Bars); i++ {
		prev, cur := s.Bars[i-1].Time, s.Bars[i].Time
		if sameDay(prev, cur) {
			return fmt.Errorf("%w: %s", ErrDuplicateDate, cur.Format("2006-01-02"))
		}
		if cur.Before(prev) {
			return fmt.Errorf("%w: %s after %s", ErrUnordered, cur.Format("2006-01-02"), prev.Format("2006-01-02"))
		}
	}
	return nil
}

// LastClose returns the most recent close, or 0 for an empty series.
func (s *Series) LastClose() float64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// Tail returns the last n bars (all bars if n exceeds the length).
func (s *Series) Tail(n int) []OHLCV {
	if n >= len(s.Bars) {
		return s.Bars
	}
	return s.Bars[len(s.Bars)-n:]
}

func (s *Series) Opens() []float64   { return column(s.Bars, func(b OHLCV) float64 { return b.Open }) }
func (s *Series) Highs() []float64   { return column(s.Bars, func(b OHLCV) float64 { return b.High }) }
func (s *Series) Lows() []float64    { return column(s.Bars, func(b OHLCV) float64 { return b.Low }) }
func (s *Series) Closes() []float64  { return column(s.Bars, func(b OHLCV) float64 { return b.Close }) }
func (s *Series) Volumes() []float64 { return column(s.Bars, func(b OHLCV) float64 { return b.Volume }) }

// Dates returns the bar timestamps.
func (s *Series) Dates() []time.Time {
	out := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Time
	}
	return out
}

func column(bars []OHLCV, get func(OHLCV) float64) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = get(b)
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
