package collector

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"StockSentinel/internal/model"
)

// Fetcher retrieves raw market data from an upstream provider.
type Fetcher interface {
	// FetchDailyBars returns daily bars covering period ("2y", "6mo", "30d"), oldest first.
	FetchDailyBars(ctx context.Context, symbol, period string) ([]model.OHLCV, error)
	FetchFundamentals(ctx context.Context, symbol string) (model.Fundamentals, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price       float64
	DailyData   []model.OHLCV
	Fundamental model.Fundamentals
	Err         error
	DailyCalls  int
	FundCalls   int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, period string) ([]model.OHLCV, error) {
	m.DailyCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	start, err := PeriodStart(period, time.Now())
	if err != nil {
		return nil, err
	}
	return generateMockBars(m.Price, int(time.Since(start).Hours()/24*5/7)), nil
}

func (m *MockFetcher) FetchFundamentals(_ context.Context, _ string) (model.Fundamentals, error) {
	m.FundCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Fundamental, nil
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	if basePrice == 0 {
		basePrice = 100
	}
	today := time.Now().Truncate(24 * time.Hour)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   today.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// PeriodStart resolves a lookback period such as "2y", "6mo", "4wk" or "30d"
// against now.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	p := strings.ToLower(strings.TrimSpace(period))
	if p == "max" {
		return time.Unix(0, 0).UTC(), nil
	}
	for _, unit := range []string{"mo", "wk", "y", "d"} {
		if !strings.HasSuffix(p, unit) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(p, unit))
		if err != nil || n <= 0 {
			break
		}
		switch unit {
		case "y":
			return now.AddDate(-n, 0, 0), nil
		case "mo":
			return now.AddDate(0, -n, 0), nil
		case "wk":
			return now.AddDate(0, 0, -7*n), nil
		default:
			return now.AddDate(0, 0, -n), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid period %q", period)
}
