package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FileName is the config file inside the data directory.
const FileName = "spendwise.yaml"

// Environment variables read for secrets.
const (
	EnvAPIKey       = "SPENDWISE_AI_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// Config represents the top-level spendwise.yaml configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Budget  BudgetConfig  `yaml:"budget"`
	AI      AIConfig      `yaml:"ai"`
	Git     GitConfig     `yaml:"git"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig picks the persistence backend ("file" or "sqlite").
type StorageConfig struct {
	Backend string `yaml:"backend"`
}

// BudgetConfig holds the budget written on init and the display currency.
type BudgetConfig struct {
	Default        string `yaml:"default"`
	CurrencySymbol string `yaml:"currency_symbol"`
}

// AIConfig controls the free-text parser. The API key never lives here.
type AIConfig struct {
	Enabled bool          `yaml:"enabled"`
	BaseURL string        `yaml:"base_url,omitempty"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LogConfig sets the zerolog level and output format ("console" or "json").
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a spendwise.yaml file from disk. Fields absent from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadDir loads <dir>/spendwise.yaml, falling back to defaults when the
// file does not exist.
func LoadDir(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Backend: "file"},
		Budget: BudgetConfig{
			Default:        "2000",
			CurrencySymbol: "$",
		},
		AI: AIConfig{
			Enabled: true,
			Model:   "gpt-4o-mini",
			Timeout: 15 * time.Second,
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "spendwise",
			AuthorEmail: "spendwise@localhost",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultBudget parses Budget.Default.
func (c *Config) DefaultBudget() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(c.Budget.Default))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid budget.default %q: %w", c.Budget.Default, err)
	}
	return d, nil
}

var (
	validBackends   = []string{"file", "sqlite"}
	validLogLevels  = []string{"trace", "debug", "info", "warn", "error", "disabled"}
	validLogFormats = []string{"console", "json"}
)

// Validate reports every problem in the config at once.
func (c *Config) Validate() error {
	var problems []string

	if !contains(validBackends, c.Storage.Backend) {
		problems = append(problems, fmt.Sprintf("invalid storage.backend %q: must be one of %v", c.Storage.Backend, validBackends))
	}
	if d, err := c.DefaultBudget(); err != nil {
		problems = append(problems, err.Error())
	} else if d.IsNegative() {
		problems = append(problems, fmt.Sprintf("budget.default %s must not be negative", d))
	}
	if c.AI.Enabled {
		if c.AI.Model == "" {
			problems = append(problems, "ai.model is required when ai.enabled is true")
		}
		if c.AI.Timeout <= 0 {
			problems = append(problems, fmt.Sprintf("ai.timeout %s must be positive", c.AI.Timeout))
		}
	}
	if c.Git.AutoCommit && (c.Git.AuthorName == "" || c.Git.AuthorEmail == "") {
		problems = append(problems, "git.author_name and git.author_email are required when git.auto_commit is true")
	}
	if !contains(validLogLevels, strings.ToLower(c.Log.Level)) {
		problems = append(problems, fmt.Sprintf("invalid log.level %q: must be one of %v", c.Log.Level, validLogLevels))
	}
	if !contains(validLogFormats, c.Log.Format) {
		problems = append(problems, fmt.Sprintf("invalid log.format %q: must be one of %v", c.Log.Format, validLogFormats))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// LoadEnv reads <dir>/.env into the process environment without
// overriding variables that are already set. A missing file is fine.
func LoadEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// APIKey returns the text parser's key from the environment.
func APIKey() string {
	if k := os.Getenv(EnvAPIKey); k != "" {
		return k
	}
	return os.Getenv(EnvOpenAIAPIKey)
}
