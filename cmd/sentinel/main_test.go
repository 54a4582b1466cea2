package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	body := fmt.Sprintf(`
symbol: AAPL
forest:
  basic_trees: 10
  advanced_trees: 10
data:
  provider: mock
  cache_path: %s
database:
  sqlite_path: %s
log:
  level: error
  format: json
`, filepath.Join(dir, "cache", "market.db"), filepath.Join(dir, "sentinel.db"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute(), out.String())
	return out.String()
}

func TestPredictAndHistory(t *testing.T) {
	cfg := mockConfig(t)

	var res struct {
		RunID      string `json:"run_id"`
		Symbol     string `json:"symbol"`
		Freshness  string `json:"data_freshness"`
		Prediction struct {
			ModelType string `json:"model_type"`
		} `json:"prediction"`
		LastSessions []json.RawMessage `json:"last_3_days"`
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, "--config", cfg, "predict", "--json")), &res))
	assert.Equal(t, "AAPL", res.Symbol)
	assert.Equal(t, "basic", res.Prediction.ModelType)
	assert.Equal(t, "fresh", res.Freshness)
	assert.Len(t, res.LastSessions, 3)

	hist := run(t, "--config", cfg, "history")
	assert.Contains(t, hist, "Prediction log (1)")
	assert.NotContains(t, hist, "<b>")
}

func TestAnalyzeAndCache(t *testing.T) {
	cfg := mockConfig(t)

	assert.Contains(t, run(t, "--config", cfg, "analyze", "msft"), "MSFT technical analysis")
	assert.Equal(t, "MSFT\n", run(t, "--config", cfg, "cache", "list"))
	assert.Equal(t, "removed 1 cache entries\n", run(t, "--config", cfg, "cache", "clear"))
	assert.Empty(t, run(t, "--config", cfg, "cache", "list"))
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "AAPL forecast", plain("<b>AAPL forecast</b>"))
}
