// Package fundamental scores a symbol's financial ratios on a 0-100 scale.
package fundamental

import "StockSentinel/internal/model"

// Neutral is the score of a symbol with no fundamental data.
const Neutral = 50

// Breakdown holds the contribution of each rule bucket to the final score.
type Breakdown struct {
	Valuation     int `json:"valuation"`
	Profitability int `json:"profitability"`
	Health        int `json:"health"`
	Growth        int `json:"growth"`
	Score         int `json:"score"`
}

// Score returns the clamped fundamental score. Missing metrics count as 0.
func Score(metrics model.Fundamentals) int {
	return Evaluate(metrics).Score
}

// Evaluate applies every rule and returns the per-bucket contributions.
func Evaluate(metrics model.Fundamentals) Breakdown {
	if metrics.Empty() {
		return Breakdown{Score: Neutral}
	}

	b := Breakdown{
		Valuation:     valuation(metrics),
		Profitability: profitability(metrics),
		Health:        health(metrics),
		Growth:        growth(metrics),
	}
	b.Score = clamp(Neutral + b.Valuation + b.Profitability + b.Health + b.Growth)
	return b
}

func valuation(m model.Fundamentals) int {
	pts := 0
	pe := m.Get(model.MetricTrailingPE)
	switch {
	case pe > 0 && pe < 25:
		pts += 10
	case pe > 40:
		pts -= 10
	}
	pb := m.Get(model.MetricPriceToBook)
	switch {
	case pb > 0 && pb < 3:
		pts += 5
	case pb > 5:
		pts -= 5
	}
	return pts
}

func profitability(m model.Fundamentals) int {
	pts := 0
	margin := m.Get(model.MetricProfitMargins)
	switch {
	case margin > 0.1:
		pts += 10
	case margin < 0:
		pts -= 10
	}
	roe := m.Get(model.MetricReturnOnEquity)
	switch {
	case roe > 0.15:
		pts += 10
	case roe < 0:
		pts -= 5
	}
	return pts
}

func health(m model.Fundamentals) int {
	pts := 0
	de := m.Get(model.MetricDebtToEquity)
	switch {
	case de < 1:
		pts += 5
	case de > 2:
		pts -= 5
	}
	cr := m.Get(model.MetricCurrentRatio)
	switch {
	case cr > 1.5:
		pts += 5
	case cr < 1:
		pts -= 5
	}
	return pts
}

func growth(m model.Fundamentals) int {
	return growthPoints(m.Get(model.MetricEarningsGrowth)) +
		growthPoints(m.Get(model.MetricRevenueGrowth))
}

func growthPoints(g float64) int {
	switch {
	case g > 0.1:
		return 5
	case g < -0.1:
		return -5
	}
	return 0
}

func clamp(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	}
	return score
}
