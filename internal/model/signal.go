package model

// Recommendation is the categorical outcome of technical scoring.
type Recommendation string

const (
	RecStrongBuy  Recommendation = "STRONG BUY"
	RecBuy        Recommendation = "BUY"
	RecNeutral    Recommendation = "NEUTRAL"
	RecCaution    Recommendation = "CAUTION"
	RecStrongSell Recommendation = "STRONG SELL"
)

// MASignal summarises how many moving averages sit below the current price.
type MASignal string

const (
	MASignalStrongBuy MASignal = "STRONG BUY"
	MASignalNeutral   MASignal = "NEUTRAL"
	MASignalBearish   MASignal = "BEARISH"
)

// FactorScore is one additive contribution to the technical score.
type FactorScore struct {
	Name       string `json:"name"`
	Points     int    `json:"points"`
	Commentary string `json:"commentary"`
}

// TrianglePattern is the ascending-triangle detection outcome.
type TrianglePattern struct {
	Detected     bool     `json:"detected"`
	Resistance   float64  `json:"resistance,omitempty"`
	SupportSlope float64  `json:"support_slope,omitempty"`
	Target       *float64 `json:"target"`
}

// TechnicalAnalysis is the output of the technical scoring engine.
type TechnicalAnalysis struct {
	Symbol         string          `json:"symbol"`
	TechnicalScore int             `json:"technical_score"`
	Recommendation Recommendation  `json:"recommendation"`
	CurrentPrice   float64         `json:"current_price"`
	Resistance     float64         `json:"resistance"`
	Support        float64         `json:"support"`
	RSI            float64         `json:"rsi"`
	VolumeRatio    float64         `json:"volume_ratio"`
	MASignal       MASignal        `json:"ma_signal"`
	TriangleTarget *float64        `json:"triangle_target"`
	Triangle       TrianglePattern `json:"triangle"`
	Factors        []FactorScore   `json:"factors"`
	Indicators     Indicators      `json:"indicators"`
}
