package strategy

import (
	"StockSentinel/internal/calculator"
	"StockSentinel/internal/model"
)

// minPatternSamples is the fewest sessions a triangle fit accepts.
const minPatternSamples = 10

// DetectAscendingTriangle looks for flat resistance over rising lows in bars.
// A target is projected only when the lows trend upward.
func DetectAscendingTriangle(bars []model.OHLCV) model.TrianglePattern {
	if len(bars) < minPatternSamples {
		return model.TrianglePattern{}
	}

	lows := make([]float64, len(bars))
	resistance, minLow := bars[0].High, bars[0].Low
	for i, b := range bars {
		lows[i] = b.Low
		resistance = max(resistance, b.High)
		minLow = min(minLow, b.Low)
	}

	slope := calculator.LinearTrendSlope(lows)
	if !calculator.IsDefined(slope) || slope <= 0 {
		return model.TrianglePattern{}
	}

	target := resistance + (resistance - minLow)
	return model.TrianglePattern{
		Detected:     true,
		Resistance:   resistance,
		SupportSlope: slope,
		Target:       &target,
	}
}
