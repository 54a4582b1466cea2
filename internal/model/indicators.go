package model

// Indicators holds the latest-row indicator values used by the technical scorer.
type Indicators struct {
	Date         string  `json:"date"`
	CurrentPrice float64 `json:"current_price"`
	MA5          float64 `json:"ma_5"`
	MA10         float64 `json:"ma_10"`
	MA20         float64 `json:"ma_20"`
	MA50         float64 `json:"ma_50"`
	RSI          float64 `json:"rsi_14"`
	MACD         float64 `json:"macd"`
	MACDSignal   float64 `json:"macd_signal"`
	MACDHist     float64 `json:"macd_histogram"`
	Volume       float64 `json:"volume"`
	VolumeMA20   float64 `json:"volume_ma_20"`
	BBUpper      float64 `json:"bb_upper"`
	BBMiddle     float64 `json:"bb_middle"`
	BBLower      float64 `json:"bb_lower"`
	Resistance20 float64 `json:"resistance_20"`
	Support20    float64 `json:"support_20"`
}

// MovingAverages returns MA5, MA10, MA20 and MA50 in that order.
func (i *Indicators) MovingAverages() []float64 {
	return []float64{i.MA5, i.MA10, i.MA20, i.MA50}
}
