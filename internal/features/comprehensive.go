package features

import (
	"math"
	"strconv"

	"StockSentinel/internal/calculator"
	"StockSentinel/internal/model"
)

// Fundamental columns appended when metrics are available.
const (
	ColFundamentalScore = "Fundamental_Score"
	ColPE               = "PE"
	ColPB               = "PB"
	ColROE              = "ROE"
)

// BuildComprehensive derives the advanced feature set. When fundamentals is
// non-empty, the score and three ratios are appended as constant columns.
func BuildComprehensive(series *model.Series, fundamentals model.Fundamentals, fundamentalScore int) (*Table, error) {
	b, err := NewBuilder(series)
	if err != nil {
		return nil, err
	}
	closes := b.Column(ColClose)
	highs := b.Column(ColHigh)
	lows := b.Column(ColLow)
	volume := b.Column(ColVolume)

	mean20 := calculator.RollingMean(closes, 20)
	b.Add("Price_Rolling_Mean_20", mean20)
	b.Add("Price_Normalized", ratio(closes, mean20))

	for _, lag := range []int{1, 2, 3, 5, 10} {
		b.Add(name("Close_Lag_", lag), calculator.Lag(closes, lag))
		b.Add(name("Return_", lag), calculator.PctChange(closes, lag))
	}

	for _, w := range []int{5, 10, 20, 50, 100} {
		ma := calculator.RollingMean(closes, w)
		b.Add(name("MA_", w), ma)
		b.Add(name("MA_Ratio_", w), ratio(closes, ma))
	}

	b.Add("EMA_12", calculator.EMA(closes, 12))
	b.Add("EMA_26", calculator.EMA(closes, 26))

	daily := calculator.PctChange(closes, 1)
	for _, w := range []int{5, 20, 50} {
		b.Add(name("Vol_", w), calculator.RollingStd(daily, w))
	}

	support, resistance := calculator.SupportResistance(highs, lows, 20)
	b.Add("Resistance_20", resistance)
	b.Add("Support_20", support)
	b.Add("Price_vs_Resistance", ratio(closes, resistance))
	b.Add("Price_vs_Support", ratio(closes, support))

	b.Add("Vol_MA_5", calculator.RollingMean(volume, 5))
	b.Add("Vol_MA_20", calculator.RollingMean(volume, 20))
	b.Add("Volume_Ratio", calculator.VolumeRatio(volume, 20))

	for _, w := range []int{7, 14, 21} {
		b.Add(name("RSI_", w), calculator.RSI(closes, w))
	}

	macd := calculator.DefaultMACD(closes)
	b.Add("MACD", macd.Line)
	b.Add("MACD_Signal", macd.Signal)
	b.Add("MACD_Hist", macd.Histogram)

	bb := calculator.Bollinger(closes, 20, 2)
	b.Add("BB_Mid", bb.Mid)
	b.Add("BB_Upper", bb.Upper)
	b.Add("BB_Lower", bb.Lower)
	b.Add("BB_Width", bb.Width())
	b.Add("BB_Pos", bb.Position(closes))

	b.Add("Trend_5", calculator.TrendDirection(closes, 5))
	b.Add("Trend_20", calculator.TrendDirection(closes, 20))

	if !fundamentals.Empty() {
		b.Constant(ColFundamentalScore, float64(fundamentalScore))
		b.Constant(ColPE, fundamentals.Get(model.MetricTrailingPE))
		b.Constant(ColPB, fundamentals.Get(model.MetricPriceToBook))
		b.Constant(ColROE, fundamentals.Get(model.MetricReturnOnEquity))
	}

	return b.Build()
}

// ratio divides a by b row-wise; a zero or undefined divisor is undefined.
func ratio(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		if b[i] == 0 || !calculator.IsDefined(b[i]) {
			out[i] = math.NaN()
			continue
		}
		out[i] = a[i] / b[i]
	}
	return out
}

func name(prefix string, n int) string {
	return prefix + strconv.Itoa(n)
}
