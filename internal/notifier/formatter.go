package notifier

import (
	"fmt"
	"strings"
	"time"

	"StockSentinel/internal/model"
	"StockSentinel/internal/recorder"
)

// FormatPrediction formats a prediction result with the most recent sessions.
func FormatPrediction(symbol string, res *model.PredictionResult, sessions []model.SessionSummary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🔮 <b>%s forecast</b> | %s model | %s\n\n", symbol, res.ModelType, time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Current price: %.2f\n", res.CurrentPrice))
	b.WriteString(fmt.Sprintf("Open  (+%dd): %.2f  [%.2f – %.2f]  %s\n",
		res.Horizon, res.PredictedOpen, res.OpenRange.Lo(), res.OpenRange.Hi(), change(res.CurrentPrice, res.PredictedOpen)))
	b.WriteString(fmt.Sprintf("Close (+%dd): %.2f  [%.2f – %.2f]  %s\n",
		res.Horizon, res.PredictedClose, res.CloseRange.Lo(), res.CloseRange.Hi(), change(res.CurrentPrice, res.PredictedClose)))
	b.WriteString(fmt.Sprintf("Volatility (ann.): %.1f%%\n", res.Volatility*100))
	if res.FundamentalScore != nil {
		b.WriteString(fmt.Sprintf("Fundamental score: %d/100\n", *res.FundamentalScore))
	}

	if len(sessions) > 0 {
		b.WriteString("\n📅 <b>Last sessions:</b>\n")
		for _, s := range sessions {
			b.WriteString(fmt.Sprintf("  %s  O %.2f  H %.2f  L %.2f  C %.2f  V %d\n", s.Date, s.Open, s.High, s.Low, s.Close, s.Volume))
		}
	}
	return b.String()
}

// FormatAnalysis formats a technical analysis result.
func FormatAnalysis(ta *model.TechnicalAnalysis) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s technical analysis</b> | %s\n\n", ta.Symbol, ta.Indicators.Date))
	b.WriteString(fmt.Sprintf("Price: %.2f\n", ta.CurrentPrice))
	b.WriteString(fmt.Sprintf("Support: %.2f | Resistance: %.2f (90d)\n", ta.Support, ta.Resistance))
	b.WriteString(fmt.Sprintf("RSI(14): %.1f | Volume: %.2fx | MACD: %.3f / %.3f\n",
		ta.RSI, ta.VolumeRatio, ta.Indicators.MACD, ta.Indicators.MACDSignal))
	b.WriteString(fmt.Sprintf("MA signal: %s\n\n", ta.MASignal))

	b.WriteString("📈 <b>Score breakdown:</b>\n")
	for _, f := range ta.Factors {
		b.WriteString(fmt.Sprintf("  %s: %+d (%s)\n", f.Name, f.Points, f.Commentary))
	}
	b.WriteString("  ─────────────────\n")
	b.WriteString(fmt.Sprintf("  Technical score: %d/100\n\n", ta.TechnicalScore))
	b.WriteString(fmt.Sprintf("💡 <b>Recommendation:</b> %s\n", ta.Recommendation))

	if ta.Triangle.Detected && ta.TriangleTarget != nil {
		b.WriteString(fmt.Sprintf("\n🔺 Ascending triangle: resistance %.2f, target %.2f\n", ta.Triangle.Resistance, *ta.TriangleTarget))
	}
	return b.String()
}

// FormatHistory formats logged predictions, newest last.
func FormatHistory(records []recorder.PredictionRecord) string {
	if len(records) == 0 {
		return "No predictions logged yet."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>Prediction log</b> (%d)\n\n", len(records)))
	for _, r := range records {
		p := r.Prediction
		if p == nil {
			continue
		}
		b.WriteString(fmt.Sprintf("%s %s [%s] %.2f → close %.2f (%s)\n",
			r.Timestamp.Format("2006-01-02 15:04"), r.Symbol, p.ModelType,
			p.CurrentPrice, p.PredictedClose, change(p.CurrentPrice, p.PredictedClose)))
	}
	return b.String()
}

// FormatError formats a failed command.
func FormatError(action string, err error) string {
	return fmt.Sprintf("❌ %s failed: %v", action, err)
}

func change(from, to float64) string {
	if from == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", (to-from)/from*100)
}
