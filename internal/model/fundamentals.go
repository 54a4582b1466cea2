package model

// Fundamental metric keys, named as the market-data provider reports them.
const (
	MetricTrailingPE     = "trailingPE"
	MetricForwardPE      = "forwardPE"
	MetricPriceToBook    = "priceToBook"
	MetricPriceToSales   = "priceToSales"
	MetricProfitMargins  = "profitMargins"
	MetricReturnOnEquity = "returnOnEquity"
	MetricDebtToEquity   = "debtToEquity"
	MetricCurrentRatio   = "currentRatio"
	MetricEarningsGrowth = "earningsGrowth"
	MetricRevenueGrowth  = "revenueGrowth"
	MetricDividendYield  = "dividendYield"
	MetricMarketCap      = "marketCap"
	MetricBeta           = "beta"
)

// FundamentalKeys lists every metric the collector requests.
var FundamentalKeys = []string{
	MetricTrailingPE, MetricForwardPE, MetricPriceToBook, MetricPriceToSales,
	MetricProfitMargins, MetricReturnOnEquity, MetricDebtToEquity, MetricCurrentRatio,
	MetricEarningsGrowth, MetricRevenueGrowth, MetricDividendYield, MetricMarketCap,
	MetricBeta,
}

// Fundamentals maps metric names to values. Absent metrics read as 0.
type Fundamentals map[string]float64

// Get returns the metric value, or 0 when the metric is absent.
func (f Fundamentals) Get(key string) float64 {
	if f == nil {
		return 0
	}
	return f[key]
}

// Empty reports whether no metric is present.
func (f Fundamentals) Empty() bool { return len(f) == 0 }
