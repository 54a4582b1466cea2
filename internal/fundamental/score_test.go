package fundamental

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"StockSentinel/internal/model"
)

func TestScore_EmptyIsNeutral(t *testing.T) {
	assert.Equal(t, 50, Score(nil))
	assert.Equal(t, 50, Score(model.Fundamentals{}))
}

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		metrics model.Fundamentals
		want    int
	}{
		{
			name: "strong company",
			metrics: model.Fundamentals{
				model.MetricTrailingPE:     15,
				model.MetricPriceToBook:    2,
				model.MetricProfitMargins:  0.25,
				model.MetricReturnOnEquity: 0.3,
				model.MetricDebtToEquity:   0.5,
				model.MetricCurrentRatio:   2,
				model.MetricEarningsGrowth: 0.2,
				model.MetricRevenueGrowth:  0.15,
			},
			want: 100,
		},
		{
			name: "weak company",
			metrics: model.Fundamentals{
				model.MetricTrailingPE:     60,
				model.MetricPriceToBook:    8,
				model.MetricProfitMargins:  -0.2,
				model.MetricReturnOnEquity: -0.1,
				model.MetricDebtToEquity:   3,
				model.MetricCurrentRatio:   0.5,
				model.MetricEarningsGrowth: -0.3,
				model.MetricRevenueGrowth:  -0.2,
			},
			want: 0,
		},
		{
			// missing D/E and current ratio both read as 0 and cancel out
			name:    "single unrelated metric",
			metrics: model.Fundamentals{model.MetricBeta: 1.2},
			want:    50,
		},
		{
			name: "mixed",
			metrics: model.Fundamentals{
				model.MetricTrailingPE:    30,
				model.MetricProfitMargins: 0.12,
				model.MetricDebtToEquity:  1.5,
				model.MetricCurrentRatio:  1.2,
			},
			want: 60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.metrics))
		})
	}
}

func TestScore_Bounds(t *testing.T) {
	values := []float64{-100, -1, -0.2, 0, 0.05, 0.12, 0.5, 1.2, 2, 4, 30, 50}
	for _, v := range values {
		m := model.Fundamentals{}
		for _, k := range model.FundamentalKeys {
			m[k] = v
		}
		s := Score(m)
		assert.GreaterOrEqual(t, s, 0)
		assert.LessOrEqual(t, s, 100)
	}
}

func TestEvaluate_DoesNotMutate(t *testing.T) {
	m := model.Fundamentals{model.MetricTrailingPE: 12}
	b := Evaluate(m)

	assert.Len(t, m, 1)
	assert.Equal(t, 10, b.Valuation)
	assert.Equal(t, 0, b.Health)
	assert.Equal(t, 60, b.Score)
}
