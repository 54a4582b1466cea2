package strategy

import (
	"fmt"

	"StockSentinel/internal/model"
)

// bullishCount is the number of MA5/10/20/50 below the current price.
func bullishCount(ind *model.Indicators) int {
	n := 0
	for _, ma := range ind.MovingAverages() {
		if ind.CurrentPrice > ma {
			n++
		}
	}
	return n
}

func maSignal(count int) model.MASignal {
	switch {
	case count >= 3:
		return model.MASignalStrongBuy
	case count >= 2:
		return model.MASignalNeutral
	default:
		return model.MASignalBearish
	}
}

// scoreMovingAverages adds 5 points per bullish moving average.
func scoreMovingAverages(ind *model.Indicators) model.FactorScore {
	n := bullishCount(ind)
	return model.FactorScore{
		Name:       "Moving Averages",
		Points:     5 * n,
		Commentary: fmt.Sprintf("%d/4 below price", n),
	}
}

// scoreRSI rewards a neutral RSI and mildly rewards oversold readings.
func scoreRSI(ind *model.Indicators) model.FactorScore {
	rsi := ind.RSI
	var pts int
	var commentary string
	switch {
	case rsi > 70:
		pts = -5
		commentary = "overbought"
	case rsi < 30:
		pts = 5
		commentary = "oversold"
	default:
		pts = 10
		commentary = "neutral zone"
	}
	return model.FactorScore{
		Name:       "RSI",
		Points:     pts,
		Commentary: fmt.Sprintf("RSI=%.1f %s", rsi, commentary),
	}
}

// scoreVolume rewards volume surges and penalizes thin trading.
func scoreVolume(ind *model.Indicators) model.FactorScore {
	ratio := volumeRatio(ind)
	var pts int
	switch {
	case ratio > 1.5:
		pts = 10
	case ratio < 0.8:
		pts = -5
	}
	return model.FactorScore{
		Name:       "Volume",
		Points:     pts,
		Commentary: fmt.Sprintf("%.2fx 20-day average", ratio),
	}
}

// scoreMACD rewards a MACD line above its signal.
func scoreMACD(ind *model.Indicators) model.FactorScore {
	if ind.MACD > ind.MACDSignal {
		return model.FactorScore{Name: "MACD", Points: 10, Commentary: "line above signal"}
	}
	return model.FactorScore{Name: "MACD", Points: -5, Commentary: "line at or below signal"}
}

func volumeRatio(ind *model.Indicators) float64 {
	if ind.VolumeMA20 == 0 {
		return 1
	}
	return ind.Volume / ind.VolumeMA20
}
