package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"StockSentinel/internal/collector"
	"StockSentinel/internal/metrics"
	"StockSentinel/internal/model"
	"StockSentinel/internal/notifier"
	"StockSentinel/internal/runner"
)

const historyReplyLimit = 10

// Sender delivers a report to the configured chat.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the daily forecast and answers chat commands.
type Scheduler struct {
	Cron    *cron.Cron
	Runner  *runner.Runner
	Sender  Sender
	Metrics *metrics.Metrics
	Symbol  string
	Model   model.ModelType
	Ctx     context.Context

	log zerolog.Logger
}

// NewScheduler creates a new Scheduler. sender may be nil, in which case
// reports are only logged.
func NewScheduler(ctx context.Context, r *runner.Runner, sender Sender, m *metrics.Metrics, symbol string, mt model.ModelType, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Runner:  r,
		Sender:  sender,
		Metrics: m,
		Symbol:  strings.ToUpper(symbol),
		Model:   mt,
		Ctx:     ctx,
		log:     log.With().Str("component", "scheduler").Logger(),
	}
}

// Register adds the daily forecast task.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Str("symbol", s.Symbol).Str("model", string(s.Model)).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunDailyNow executes the daily task immediately.
func (s *Scheduler) RunDailyNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	s.log.Info().Str("symbol", s.Symbol).Msg("running daily forecast")
	report, err := s.dailyReport(s.Ctx)
	s.Metrics.ObserveScheduledRun(err)
	if err != nil {
		s.log.Error().Err(err).Str("symbol", s.Symbol).Msg("daily forecast")
		s.trySend(notifier.FormatError("Daily forecast for "+s.Symbol, err))
		return
	}
	s.trySend(report)
}

func (s *Scheduler) dailyReport(ctx context.Context) (string, error) {
	pred, err := s.Runner.Predict(ctx, runner.PredictRequest{Symbol: s.Symbol, Model: s.Model})
	if err != nil {
		return "", err
	}
	report := predictionReport(pred)

	ta, err := s.Runner.Analyze(ctx, s.Symbol, false)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", s.Symbol).Msg("daily analysis")
		return report, nil
	}
	return report + "\n" + notifier.FormatAnalysis(ta.Analysis), nil
}

func predictionReport(out *runner.PredictOutcome) string {
	text := notifier.FormatPrediction(out.Symbol, out.Result, out.LastSessions)
	if out.Freshness == collector.Stale {
		text += "\n⚠️ Provider unavailable, using cached prices.\n"
	}
	return text
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	if at := strings.IndexByte(name, '@'); at > 0 {
		name = name[:at]
	}

	switch name {
	case "/predict":
		req := runner.PredictRequest{Symbol: s.Symbol, Model: s.Model}
		for _, a := range args {
			switch mt := model.ModelType(strings.ToLower(a)); mt {
			case model.ModelBasic, model.ModelAdvanced:
				req.Model = mt
			default:
				req.Symbol = a
			}
		}
		out, err := s.Runner.Predict(ctx, req)
		if err != nil {
			return notifier.FormatError("Prediction", err)
		}
		return predictionReport(out)

	case "/analyze":
		symbol := s.Symbol
		if len(args) > 0 {
			symbol = args[0]
		}
		out, err := s.Runner.Analyze(ctx, symbol, false)
		if err != nil {
			return notifier.FormatError("Analysis", err)
		}
		return notifier.FormatAnalysis(out.Analysis)

	case "/history":
		limit := historyReplyLimit
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return "Usage: /history [count]"
			}
			limit = n
		}
		records, err := s.Runner.History(ctx, limit)
		if err != nil {
			return notifier.FormatError("History", err)
		}
		return notifier.FormatHistory(records)

	case "/cache":
		symbols, err := s.Runner.CachedSymbols(ctx)
		if err != nil {
			return notifier.FormatError("Cache listing", err)
		}
		if len(symbols) == 0 {
			return "Cache is empty."
		}
		return "Cached symbols: " + strings.Join(symbols, ", ")

	default:
		return helpText
	}
}

const helpText = "Available commands:\n" +
	"• /predict [basic|advanced] [symbol]\n" +
	"• /analyze [symbol]\n" +
	"• /history [count]\n" +
	"• /cache"

func (s *Scheduler) trySend(text string) {
	if s.Sender == nil {
		s.log.Info().Msg(text)
		return
	}
	if err := s.Sender.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
