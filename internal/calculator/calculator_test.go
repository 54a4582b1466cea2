package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSentinel/internal/model"
)

func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestRollingMean_WarmupAndValues(t *testing.T) {
	got := RollingMean([]float64{100, 102, 104, 103, 105}, 3)
	require.Len(t, got, 5)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 102.0, got[2], 1e-9)
	assert.InDelta(t, 103.0, got[3], 1e-9)
	assert.InDelta(t, 104.0, got[4], 1e-9)
}

func TestRollingMean_SkipsUndefinedPrefix(t *testing.T) {
	got := RollingMean([]float64{math.NaN(), 1, 2, 3}, 2)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 1.5, got[2], 1e-9)
	assert.InDelta(t, 2.5, got[3], 1e-9)
}

func TestRollingMean_ShortInput(t *testing.T) {
	got := RollingMean([]float64{1, 2}, 5)
	for _, v := range got {
		assert.True(t, math.IsNaN(v))
	}
}

func TestRollingStd_SampleDenominator(t *testing.T) {
	got := RollingStd([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8)
	// population std is 2.0; sample std is sqrt(32/7)
	assert.InDelta(t, math.Sqrt(32.0/7.0), got[7], 1e-9)
}

func TestEMA_BiasAdjusted(t *testing.T) {
	got := EMA([]float64{1, 2, 3}, 3)
	assert.InDelta(t, 1.0, got[0], 1e-12)
	assert.InDelta(t, 2.5/1.5, got[1], 1e-12)
	assert.InDelta(t, 4.25/1.75, got[2], 1e-12)
}

func TestRSI_Saturation(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   float64
	}{
		{"only gains", linear(30, 10, 1), 100},
		{"flat", linear(30, 10, 0), 50},
		{"only losses", linear(30, 100, -1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RSI(tt.closes, 14)
			for i := 0; i < 14; i++ {
				assert.True(t, math.IsNaN(got[i]), "row %d should be warm-up", i)
			}
			for i := 14; i < len(got); i++ {
				assert.InDelta(t, tt.want, got[i], 1e-9)
			}
		})
	}
}

func TestRSI_MixedChanges(t *testing.T) {
	// changes: +2, -1, +2, -1 -> avg gain 1, avg loss 0.5 over 4
	got := RSI([]float64{10, 12, 11, 13, 12}, 4)
	assert.InDelta(t, 100-100/(1+2.0), got[4], 1e-9)
}

func TestMACD_LinearUptrendLineAboveSignal(t *testing.T) {
	m := DefaultMACD(linear(300, 100, 1))
	last := len(m.Line) - 1
	assert.Greater(t, m.Line[last], 0.0)
	assert.Greater(t, m.Line[last], m.Signal[last])
	assert.InDelta(t, m.Line[last]-m.Signal[last], m.Histogram[last], 1e-12)
}

func TestBollinger_ConstantSeriesCollapses(t *testing.T) {
	closes := linear(25, 50, 0)
	bb := Bollinger(closes, 20, 2)
	assert.InDelta(t, 50.0, bb.Mid[24], 1e-9)
	assert.InDelta(t, 50.0, bb.Upper[24], 1e-9)
	assert.InDelta(t, 50.0, bb.Lower[24], 1e-9)
	assert.True(t, math.IsNaN(bb.Position(closes)[24]))
}

func TestSupportResistance(t *testing.T) {
	highs := []float64{5, 7, 6, 9, 8}
	lows := []float64{3, 4, 2, 5, 6}
	support, resistance := SupportResistance(highs, lows, 3)
	assert.True(t, math.IsNaN(support[1]))
	assert.InDelta(t, 2.0, support[2], 1e-12)
	assert.InDelta(t, 2.0, support[4], 1e-12)
	assert.InDelta(t, 7.0, resistance[2], 1e-12)
	assert.InDelta(t, 9.0, resistance[4], 1e-12)
}

func TestVolumeRatio_ZeroMeanDefaultsToOne(t *testing.T) {
	got := VolumeRatio([]float64{0, 0, 0, 0}, 2)
	for _, v := range got {
		assert.Equal(t, 1.0, v)
	}
	got = VolumeRatio([]float64{10, 10, 40}, 2)
	assert.Equal(t, 1.0, got[0])
	assert.InDelta(t, 40.0/25.0, got[2], 1e-9)
}

func TestLinearTrendSlope(t *testing.T) {
	assert.InDelta(t, 2.0, LinearTrendSlope(linear(10, 1, 2)), 1e-9)
	assert.InDelta(t, -0.5, LinearTrendSlope(linear(10, 9, -0.5)), 1e-9)
	assert.True(t, math.IsNaN(LinearTrendSlope([]float64{1})))
}

func TestTrendDirection_NeverZero(t *testing.T) {
	got := TrendDirection([]float64{1, 2, 2, 1, 3}, 2)
	assert.True(t, math.IsNaN(got[0]))
	assert.Equal(t, []float64{1, -1, -1, 1}, got[1:])
}

func TestPctChangeAndLag(t *testing.T) {
	pct := PctChange([]float64{100, 110, 0, 5}, 1)
	assert.True(t, math.IsNaN(pct[0]))
	assert.InDelta(t, 0.1, pct[1], 1e-12)
	assert.True(t, math.IsNaN(pct[3]), "zero base is undefined")

	lag := Lag([]float64{1, 2, 3}, 2)
	assert.True(t, math.IsNaN(lag[1]))
	assert.Equal(t, 1.0, lag[2])
}

func TestAnnualizedVolatility(t *testing.T) {
	assert.Equal(t, 0.0, AnnualizedVolatility([]float64{100}))
	closes := []float64{100, 101, 100, 101, 100}
	assert.Greater(t, AnnualizedVolatility(closes), 0.0)
}

func TestTrailingRange(t *testing.T) {
	bars := []model.OHLCV{
		{High: 10, Low: 5}, {High: 12, Low: 6}, {High: 11, Low: 7},
	}
	high, low, err := TrailingRange(bars, 2)
	require.NoError(t, err)
	assert.Equal(t, 12.0, high)
	assert.Equal(t, 6.0, low)

	_, _, err = TrailingRange(nil, 2)
	assert.Error(t, err)
}

func TestCalculateSMA(t *testing.T) {
	v, err := CalculateSMA([]float64{1, 2, 3, 4}, 2)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, v, 1e-12)

	_, err = CalculateSMA([]float64{1}, 2)
	assert.Error(t, err)
}
