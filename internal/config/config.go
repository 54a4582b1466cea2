// Package config loads sentinel configuration from YAML, .env and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"StockSentinel/internal/collector"
	"StockSentinel/internal/logger"
	"StockSentinel/internal/model"
	"StockSentinel/internal/predictor"
	"StockSentinel/internal/runner"
)

// Config holds all application configuration.
type Config struct {
	Symbol  string `yaml:"symbol" default:"AAPL" validate:"required"`
	Model   string `yaml:"model" default:"basic" validate:"oneof=basic advanced"`
	Horizon int    `yaml:"horizon" default:"1" validate:"min=1,max=30"`

	Forest struct {
		Seed          *uint64 `yaml:"seed" default:"42"` // pointer keeps an explicit 0
		Workers       int     `yaml:"workers" validate:"min=0"`
		BasicTrees    int     `yaml:"basic_trees" default:"60" validate:"min=1"`
		AdvancedTrees int     `yaml:"advanced_trees" default:"200" validate:"min=1"`
	} `yaml:"forest"`

	Data struct {
		Provider       string        `yaml:"provider" default:"yahoo" validate:"oneof=yahoo mock"`
		CachePath      string        `yaml:"cache_path" default:"data/market_cache.db" validate:"required"`
		PriceTTL       time.Duration `yaml:"price_ttl" default:"24h" validate:"gt=0"`
		FundamentalTTL time.Duration `yaml:"fundamental_ttl" default:"168h" validate:"gt=0"`
		BasicPeriod    string        `yaml:"basic_period" default:"2y" validate:"required"`
		AdvancedPeriod string        `yaml:"advanced_period" default:"3y" validate:"required"`
		AnalysisPeriod string        `yaml:"analysis_period" default:"2y" validate:"required"`
		Proxy          string        `yaml:"proxy"`
		Timeout        time.Duration `yaml:"timeout" default:"20s" validate:"gt=0"`
	} `yaml:"data"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path" default:"data/stock_sentinel.db"`
	} `yaml:"database"`

	Telegram struct {
		BotToken string `yaml:"bot_token" validate:"required_with=ChatID"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`

	Schedule struct {
		DailyCron  string `yaml:"daily_cron" default:"0 30 16 * * 1-5"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`

	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stderr"`
	} `yaml:"log"`

	Metrics struct {
		Addr string `yaml:"addr" default:":9090"`
	} `yaml:"metrics"`
}

var validate = validator.New()

// Load reads config from a YAML file, applies .env and environment
// overrides, fills defaults and validates the result. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"SENTINEL_SYMBOL":    &c.Symbol,
		"SENTINEL_MODEL":     &c.Model,
		"DATA_PROVIDER":      &c.Data.Provider,
		"CACHE_PATH":         &c.Data.CachePath,
		"HTTPS_PROXY":        &c.Data.Proxy,
		"SQLITE_PATH":        &c.Database.SQLitePath,
		"TELEGRAM_BOT_TOKEN": &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &c.Telegram.ChatID,
		"CRON_DAILY":         &c.Schedule.DailyCron,
		"LOG_LEVEL":          &c.Log.Level,
		"LOG_FORMAT":         &c.Log.Format,
		"METRICS_ADDR":       &c.Metrics.Addr,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("SENTINEL_HORIZON"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SENTINEL_HORIZON: %w", err)
		}
		c.Horizon = h
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RUN_ON_START: %w", err)
		}
		c.Schedule.RunOnStart = b
	}
	return nil
}

// Validate checks field constraints and the cron expression.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q", e.Namespace(), e.Tag()))
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	if c.Schedule.DailyCron != "" {
		if _, err := CronParser.Parse(c.Schedule.DailyCron); err != nil {
			return fmt.Errorf("schedule.daily_cron: %w", err)
		}
	}
	return nil
}

// CronParser parses six-field expressions with a leading seconds field.
var CronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// TelegramEnabled reports whether bot credentials are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

func (c *Config) ModelType() model.ModelType { return model.ModelType(c.Model) }

func (c *Config) PredictorConfig() predictor.Config {
	var seed uint64
	if c.Forest.Seed != nil {
		seed = *c.Forest.Seed
	}
	return predictor.Config{
		Horizon:       c.Horizon,
		Seed:          seed,
		Workers:       c.Forest.Workers,
		BasicTrees:    c.Forest.BasicTrees,
		AdvancedTrees: c.Forest.AdvancedTrees,
	}
}

func (c *Config) CollectorOptions() collector.Options {
	return collector.Options{PriceTTL: c.Data.PriceTTL, FundamentalTTL: c.Data.FundamentalTTL}
}

func (c *Config) Periods() runner.Periods {
	return runner.Periods{
		Basic:    c.Data.BasicPeriod,
		Advanced: c.Data.AdvancedPeriod,
		Analysis: c.Data.AnalysisPeriod,
	}
}

func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{Level: c.Log.Level, Format: c.Log.Format, Output: c.Log.Output}
}
