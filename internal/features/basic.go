package features

import (
	"StockSentinel/internal/calculator"
	"StockSentinel/internal/model"
)

// BasicColumns is the feature set of the basic pipeline, in model order.
var BasicColumns = []string{
	ColOpen, ColHigh, ColLow, ColClose, ColVolume,
	"Price_Lag_1", "Price_Lag_2", "Price_Lag_3",
	"MA_5", "MA_10", "MA_20",
	"Volatility", "RSI", "MACD",
}

// BuildBasic derives close lags, short moving averages, 10-day close
// volatility, RSI(14) and the MACD line.
func BuildBasic(series *model.Series) (*Table, error) {
	b, err := NewBuilder(series)
	if err != nil {
		return nil, err
	}
	closes := b.Column(ColClose)

	for _, lag := range []int{1, 2, 3} {
		b.Add(name("Price_Lag_", lag), calculator.Lag(closes, lag))
	}
	for _, w := range []int{5, 10, 20} {
		b.Add(name("MA_", w), calculator.RollingMean(closes, w))
	}
	b.Add("Volatility", calculator.RollingStd(closes, 10))
	b.Add("RSI", calculator.RSI(closes, 14))
	b.Add("MACD", calculator.DefaultMACD(closes).Line)

	return b.Build()
}
