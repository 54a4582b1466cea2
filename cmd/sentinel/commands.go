package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"StockSentinel/internal/metrics"
	"StockSentinel/internal/model"
	"StockSentinel/internal/notifier"
	"StockSentinel/internal/runner"
	"StockSentinel/internal/scheduler"
)

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		a       *app
	)

	root := &cobra.Command{
		Use:          "sentinel",
		Short:        "Next-session stock forecasts and technical scoring",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			a, err = newApp(cfgPath)
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a != nil {
				a.Close()
			}
		},
	}

	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", defaultCfg, "path to the YAML config file")

	get := func() *app { return a }
	root.AddCommand(
		newPredictCmd(get),
		newAnalyzeCmd(get),
		newHistoryCmd(get),
		newCacheCmd(get),
		newServeCmd(get),
	)
	return root
}

func newPredictCmd(get func() *app) *cobra.Command {
	var (
		modelName string
		horizon   int
		force     bool
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "predict [symbol]",
		Short: "Forecast the next session's open and close",
		Example: `  sentinel predict AAPL
  sentinel predict MSFT --model advanced --horizon 3 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			mt := a.cfg.ModelType()
			if modelName != "" {
				mt = model.ModelType(strings.ToLower(modelName))
			}
			if horizon <= 0 {
				horizon = a.cfg.Horizon
			}
			out, err := a.runner.Predict(ctx, runner.PredictRequest{
				Symbol:  symbolArg(a, args),
				Model:   mt,
				Horizon: horizon,
				Force:   force,
			})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			fmt.Fprint(cmd.OutOrStdout(), plain(notifier.FormatPrediction(out.Symbol, out.Result, out.LastSessions)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&modelName, "model", "m", "", "model type: basic or advanced (default from config)")
	cmd.Flags().IntVar(&horizon, "horizon", 0, "sessions ahead to forecast (default from config)")
	cmd.Flags().BoolVar(&force, "force", false, "bypass the data cache")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func newAnalyzeCmd(get func() *app) *cobra.Command {
	var (
		force  bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "analyze [symbol]",
		Short: "Technical score, support/resistance and pattern detection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			out, err := a.runner.Analyze(ctx, symbolArg(a, args), force)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			fmt.Fprint(cmd.OutOrStdout(), plain(notifier.FormatAnalysis(out.Analysis)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "bypass the data cache")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func newHistoryCmd(get func() *app) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show logged predictions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := get().runner.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			fmt.Fprintln(cmd.OutOrStdout(), plain(notifier.FormatHistory(records)))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "number of records to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func newCacheCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear cached market data",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cached symbols",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			symbols, err := get().runner.CachedSymbols(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range symbols {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear [symbol]",
		Short: "Clear cached data for one symbol, or all of it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var symbol string
			if len(args) == 1 {
				symbol = args[0]
			}
			n, err := get().runner.ClearCache(cmd.Context(), symbol)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d cache entries\n", n)
			return nil
		},
	})
	return cmd
}

func newServeCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daily forecast schedule, Telegram commands and /metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var sender scheduler.Sender
			var tn *notifier.TelegramNotifier
			if a.cfg.TelegramEnabled() {
				tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Data.Proxy, a.log)
				sender = tn
			} else {
				a.log.Warn().Msg("telegram not configured, reports will only be logged")
			}

			sched := scheduler.NewScheduler(ctx, a.runner, sender, a.metrics, a.cfg.Symbol, a.cfg.ModelType(), a.log)
			if err := sched.Register(a.cfg.Schedule.DailyCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if tn != nil {
				go tn.StartPolling(ctx, sched.HandleCommand)
			}

			var srv *metrics.Server
			if a.cfg.Metrics.Addr != "" {
				srv = metrics.NewServer(a.cfg.Metrics.Addr, a.metrics, a.log)
				srv.Start()
			}

			if a.cfg.Schedule.RunOnStart {
				a.log.Info().Msg("run_on_start enabled, executing daily forecast now")
				go sched.RunDailyNow()
			}

			a.log.Info().Str("symbol", a.cfg.Symbol).Str("cron", a.cfg.Schedule.DailyCron).Msg("sentinel is running")
			<-ctx.Done()
			a.log.Info().Msg("shutdown signal received, stopping")

			if srv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Stop(shutdownCtx); err != nil {
					a.log.Warn().Err(err).Msg("metrics server shutdown")
				}
			}
			return nil
		},
	}
}

func symbolArg(a *app, args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return a.cfg.Symbol
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// plain strips the Telegram HTML markup from a report.
func plain(s string) string {
	return strings.NewReplacer("<b>", "", "</b>", "").Replace(s)
}
