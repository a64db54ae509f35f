// Package config loads extractor settings from a YAML file, .env and the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Run modes
const (
	ModeLoad   = "load"   // extract statements and replace stored records
	ModeShares = "shares" // only refresh stored shares outstanding
)

// Config holds every setting of a batch run
type Config struct {
	Forms       []string `yaml:"forms"`
	FormDir     string   `yaml:"form_dir"`
	Mode        string   `yaml:"mode"`
	MaxFiles    int      `yaml:"max_files"` // -1 for all
	Concurrent  int      `yaml:"concurrent"`
	RatePerSec  float64  `yaml:"rate_per_sec"` // 0 for unlimited
	DatabaseURL string   `yaml:"database_url"`
	Schema      string   `yaml:"schema"`
	OutputDir   string   `yaml:"output_dir"` // JSON records when no database is configured

	LogLevel    string `yaml:"log_level"`
	LogPretty   bool   `yaml:"log_pretty"`
	MetricsAddr string `yaml:"metrics_addr"`
	ListenAddr  string `yaml:"listen_addr"`

	MaxHTMLToParse int `yaml:"max_html_to_parse"`
	MaxTextToClean int `yaml:"max_text_to_clean"`
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Forms:          []string{"10-Q"},
		Mode:           ModeLoad,
		MaxFiles:       -1,
		Concurrent:     10,
		Schema:         "html_extracts",
		LogLevel:       "information",
		ListenAddr:     ":8080",
		MaxHTMLToParse: 1_000_000,
		MaxTextToClean: 20_000,
	}
}

// Load reads the configuration and validates it
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Read reads .env (if present), then the YAML file at path (if not empty),
// then applies environment overrides. The result is not validated, so that
// callers can layer flags on top first.
func Read(path string) (Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("EXTRACT_SCHEMA"); v != "" {
		cfg.Schema = v
	}
	if v := os.Getenv("EXTRACT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("EXTRACT_FORMS"); v != "" {
		cfg.Forms = SplitList(v)
	}
}

// Validate checks for settings that can't work
func (c Config) Validate() error {
	switch c.Mode {
	case ModeLoad, ModeShares:
	default:
		return fmt.Errorf("unknown mode %q, want %s or %s", c.Mode, ModeLoad, ModeShares)
	}
	if len(c.Forms) == 0 {
		return fmt.Errorf("at least one form type is required")
	}
	if c.Concurrent < 1 {
		return fmt.Errorf("concurrent must be at least 1, got %d", c.Concurrent)
	}
	if c.Mode == ModeShares && c.DatabaseURL == "" {
		return fmt.Errorf("mode %s needs a database", ModeShares)
	}
	return nil
}

// SplitList parses a comma separated list, dropping blanks
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
