package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSentinel/internal/model"
)

const chartBody = `{"chart":{"result":[{"timestamp":[1704412800,1704240000,1704326400],
"indicators":{"quote":[{"open":[102,100,null],"high":[103,101,null],"low":[101,99,null],
"close":[102.5,100.5,null],"volume":[2000,1000,null]}]}}],"error":null}}`

const summaryBody = `{"quoteSummary":{"result":[{
"summaryDetail":{"maxAge":1,"trailingPE":{"raw":28.4,"fmt":"28.40"},"beta":{"raw":1.2,"fmt":"1.20"},"dividendYield":{}},
"financialData":{"returnOnEquity":{"raw":0.31,"fmt":"31%"},"debtToEquity":{"raw":1.5},"financialCurrency":"USD"},
"defaultKeyStatistics":{"priceToBook":{"raw":40.1}}}],"error":null}}`

func newTestYahoo(t *testing.T, handler http.HandlerFunc) *YahooFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	f := NewYahooFetcher("", time.Second)
	f.ChartURL = srv.URL
	f.SummaryURL = srv.URL
	return f
}

func TestYahoo_FetchDailyBars(t *testing.T) {
	var gotPath, gotQuery string
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Write([]byte(chartBody))
	})

	bars, err := f.FetchDailyBars(context.Background(), "SPX", "2y")
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/^GSPC", gotPath)
	assert.Contains(t, gotQuery, "interval=1d")
	assert.Contains(t, gotQuery, "period1=")
	require.Len(t, bars, 2, "null bar must be skipped")
	assert.True(t, bars[0].Time.Before(bars[1].Time))
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 2000.0, bars[1].Volume)
}

func TestYahoo_FetchDailyBars_RaggedArrays(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"timestamp":[1704240000,1704326400,1704412800],
"indicators":{"quote":[{"open":[100,101,102],"high":[101,102],"low":[99,100,101],
"close":[100.5,101.5,102.5],"volume":[1000]}]}}],"error":null}}`))
	})

	var bars []model.OHLCV
	var err error
	require.NotPanics(t, func() {
		bars, err = f.FetchDailyBars(context.Background(), "AAPL", "1mo")
	})
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 100.5, bars[0].Close)
}

func TestYahoo_FetchDailyBars_HTTPError(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := f.FetchDailyBars(context.Background(), "AAPL", "2y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestYahoo_FetchDailyBars_APIError(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	})

	_, err := f.FetchDailyBars(context.Background(), "NOPE", "2y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data found")
}

func TestYahoo_FetchFundamentals(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/AAPL"))
		w.Write([]byte(summaryBody))
	})

	m, err := f.FetchFundamentals(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, 28.4, m[model.MetricTrailingPE])
	assert.Equal(t, 1.2, m[model.MetricBeta])
	assert.Equal(t, 0.31, m[model.MetricReturnOnEquity])
	assert.Equal(t, 1.5, m[model.MetricDebtToEquity])
	assert.Equal(t, 40.1, m[model.MetricPriceToBook])
	_, ok := m[model.MetricDividendYield]
	assert.False(t, ok, "empty value object is absent")
	assert.Len(t, m, 5)
}
