package strategy

import (
	"errors"
	"fmt"

	"StockSentinel/internal/calculator"
	"StockSentinel/internal/model"
)

// ErrInsufficientHistory is returned when no row has every indicator defined.
var ErrInsufficientHistory = errors.New("not enough history for technical indicators")

// LookbackSessions is the trailing window for reported support/resistance and
// pattern detection.
const LookbackSessions = 90

// Tiers maps a technical score to a recommendation, highest first.
var Tiers = []struct {
	MinScore       int
	Recommendation model.Recommendation
}{
	{70, model.RecStrongBuy},
	{60, model.RecBuy},
	{50, model.RecNeutral},
	{40, model.RecCaution},
}

// DefaultRecommendation applies to scores below every tier.
const DefaultRecommendation = model.RecStrongSell

// mapRecommendation maps a technical score to a Recommendation.
func mapRecommendation(score int) model.Recommendation {
	for _, t := range Tiers {
		if score >= t.MinScore {
			return t.Recommendation
		}
	}
	return DefaultRecommendation
}

// Analyze computes indicators over series and scores the latest session.
func Analyze(symbol string, series *model.Series) (*model.TechnicalAnalysis, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	ind, err := ComputeIndicators(series)
	if err != nil {
		return nil, err
	}

	score, factors, maSignal := Evaluate(ind)

	resistance, support, err := calculator.TrailingRange(series.Bars, LookbackSessions)
	if err != nil {
		return nil, fmt.Errorf("support/resistance: %w", err)
	}
	triangle := DetectAscendingTriangle(series.Tail(LookbackSessions))

	return &model.TechnicalAnalysis{
		Symbol:         symbol,
		TechnicalScore: score,
		Recommendation: mapRecommendation(score),
		CurrentPrice:   ind.CurrentPrice,
		Resistance:     resistance,
		Support:        support,
		RSI:            ind.RSI,
		VolumeRatio:    volumeRatio(ind),
		MASignal:       maSignal,
		TriangleTarget: triangle.Target,
		Triangle:       triangle,
		Factors:        factors,
		Indicators:     *ind,
	}, nil
}

// Evaluate scores a set of latest-row indicators.
func Evaluate(ind *model.Indicators) (int, []model.FactorScore, model.MASignal) {
	ma := scoreMovingAverages(ind)
	factors := []model.FactorScore{
		ma,
		scoreRSI(ind),
		scoreVolume(ind),
		scoreMACD(ind),
	}

	total := 50
	for _, f := range factors {
		total += f.Points
	}
	return clampScore(total), factors, maSignal(bullishCount(ind))
}

// ComputeIndicators evaluates the indicator set on the most recent row where
// every value is defined.
func ComputeIndicators(series *model.Series) (*model.Indicators, error) {
	closes := series.Closes()
	volume := series.Volumes()

	ma5 := calculator.RollingMean(closes, 5)
	ma10 := calculator.RollingMean(closes, 10)
	ma20 := calculator.RollingMean(closes, 20)
	ma50 := calculator.RollingMean(closes, 50)
	rsi := calculator.RSI(closes, 14)
	macd := calculator.DefaultMACD(closes)
	volMA := calculator.RollingMean(volume, 20)
	bb := calculator.Bollinger(closes, 20, 2)
	support, resistance := calculator.SupportResistance(series.Highs(), series.Lows(), 20)

	cols := [][]float64{ma5, ma10, ma20, ma50, rsi, macd.Line, macd.Signal, volMA, bb.Upper, bb.Lower, support, resistance}
	row := -1
	for i := len(closes) - 1; i >= 0 && row < 0; i-- {
		if allDefined(cols, i) {
			row = i
		}
	}
	if row < 0 {
		return nil, fmt.Errorf("%w: %d bars", ErrInsufficientHistory, len(closes))
	}

	return &model.Indicators{
		Date:         series.Bars[row].Time.Format("2006-01-02"),
		CurrentPrice: closes[row],
		MA5:          ma5[row],
		MA10:         ma10[row],
		MA20:         ma20[row],
		MA50:         ma50[row],
		RSI:          rsi[row],
		MACD:         macd.Line[row],
		MACDSignal:   macd.Signal[row],
		MACDHist:     macd.Histogram[row],
		Volume:       volume[row],
		VolumeMA20:   volMA[row],
		BBUpper:      bb.Upper[row],
		BBMiddle:     bb.Mid[row],
		BBLower:      bb.Lower[row],
		Resistance20: resistance[row],
		Support20:    support[row],
	}, nil
}

func allDefined(cols [][]float64, row int) bool {
	for _, c := range cols {
		if !calculator.IsDefined(c[row]) {
			return false
		}
	}
	return true
}

func clampScore(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	}
	return score
}
