// # internal/config/config.go
package config

import (
	"math"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	rerr "riskmap/internal/errors"
)

type Config struct {
	Root          string        `toml:"root"`
	MaxFileSizeMB float64       `toml:"max_file_size_mb"`
	Exclude       Exclude       `toml:"exclude"`
	Risk          Weights       `toml:"risk_weights"`
	Watch         Watch         `toml:"watch"`
	Output        Output        `toml:"output"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
	Alerts        Alerts        `toml:"alerts"`
}

type Exclude struct {
	// Patterns are matched against the slash-normalized full path and the
	// bare name, both for directories at descent time and per file.
	Patterns []string `toml:"patterns"`
}

// Weights combine the per-file risk factors into the overall score.
// They must sum to 1.0.
type Weights struct {
	Complexity   float64 `toml:"complexity"`
	Dependencies float64 `toml:"dependencies"`
	Dependents   float64 `toml:"dependents"`
	Size         float64 `toml:"size"`
	TestCoverage float64 `toml:"test_coverage"`
}

func (w Weights) Sum() float64 {
	return w.Complexity + w.Dependencies + w.Dependents + w.Size + w.TestCoverage
}

func (w Weights) Validate() error {
	if math.Abs(w.Sum()-1.0) > 1e-6 {
		return rerr.New(rerr.CodeValidation, "risk weights must sum to 1.0")
	}
	return nil
}

type Watch struct {
	Debounce         time.Duration `toml:"debounce"`
	RescansPerMinute float64       `toml:"rescans_per_minute"`
}

type Output struct {
	Markdown  string `toml:"markdown"`
	TSV       string `toml:"tsv"`
	Documents string `toml:"documents"` // JSONL of retrieval documents
}

type History struct {
	Path string `toml:"path"` // sqlite snapshot database; empty disables
}

type Observability struct {
	Addr         string `toml:"addr"`          // metrics/health listen address; empty disables
	OTLPEndpoint string `toml:"otlp_endpoint"` // trace exporter endpoint; empty disables
}

type Alerts struct {
	Terminal bool `toml:"terminal"`
}

// DefaultExcludePatterns skip version control, caches, virtual envs,
// build output and compiled artifacts.
var DefaultExcludePatterns = []string{
	"**/__pycache__/**",
	"**/.git/**",
	"**/node_modules/**",
	"**/.venv/**",
	"**/venv/**",
	"**/env/**",
	"**/.pytest_cache/**",
	"**/.mypy_cache/**",
	"**/dist/**",
	"**/build/**",
	"__pycache__",
	".git",
	"node_modules",
	".venv",
	"venv",
	"env",
	".pytest_cache",
	".mypy_cache",
	"dist",
	"build",
	"*.pyc",
	"*.pyo",
	".DS_Store",
}

func DefaultWeights() Weights {
	return Weights{
		Complexity:   0.30,
		Dependencies: 0.25,
		Dependents:   0.25,
		Size:         0.10,
		TestCoverage: 0.10,
	}
}

func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Alerts.Terminal = true
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Risk.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.MaxFileSizeMB == 0 {
		cfg.MaxFileSizeMB = 10.0
	}
	if len(cfg.Exclude.Patterns) == 0 {
		cfg.Exclude.Patterns = append([]string(nil), DefaultExcludePatterns...)
	}
	if cfg.Risk == (Weights{}) {
		cfg.Risk = DefaultWeights()
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RescansPerMinute == 0 {
		cfg.Watch.RescansPerMinute = 30
	}
}
