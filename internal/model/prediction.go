package model

// ModelType names a prediction pipeline.
type ModelType string

const (
	ModelBasic    ModelType = "basic"
	ModelAdvanced ModelType = "advanced"
)

// Range is a closed price interval, serialized as [lo, hi].
type Range [2]float64

func (r Range) Lo() float64 { return r[0] }
func (r Range) Hi() float64 { return r[1] }

// PredictionResult is the output of a prediction pipeline.
type PredictionResult struct {
	CurrentPrice     float64   `json:"current_price"`
	PredictedOpen    float64   `json:"predicted_open"`
	OpenRange        Range     `json:"open_range"`
	PredictedClose   float64   `json:"predicted_close"`
	CloseRange       Range     `json:"close_range"`
	Volatility       float64   `json:"volatility"`
	ModelType        ModelType `json:"model_type"`
	Horizon          int       `json:"horizon"`
	FundamentalScore *int      `json:"fundamental_score"`
}

// SessionSummary is a compact view of one recent session for reports and logs.
type SessionSummary struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}
