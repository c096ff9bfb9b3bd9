package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rotisserie/eris"
)

// EnvBaseURL overrides Scraper.BaseURL when set
const EnvBaseURL = "SCRAPER_BASE_URL"

type Config struct {
	// Scraper backend
	Scraper struct {
		BaseURL        string `toml:"base_url"`        // Host serving /scrape and /scraped-data
		RequestTimeout int    `toml:"request_timeout"` // Per-request timeout in seconds
	} `toml:"scraper"`

	// Panel
	Panel struct {
		PollIntervalMS int `toml:"poll_interval_ms"`
	} `toml:"panel"`

	// Log
	Log struct {
		Level string `toml:"level"`
		Dir   string `toml:"dir"` // Log files go here; the TUI owns the terminal
	} `toml:"log"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Scraper.BaseURL = "http://localhost:8001"
	cfg.Scraper.RequestTimeout = 30
	cfg.Panel.PollIntervalMS = 3000
	cfg.Log.Level = "info"
	cfg.Log.Dir = "tmp"
	return cfg
}

// PollInterval returns the poll period as a duration
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Panel.PollIntervalMS) * time.Millisecond
}

// RequestTimeout returns the scraper request timeout as a duration
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Scraper.RequestTimeout) * time.Second
}

// ConfigPath returns the default path to the config file
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(homeDir, ".config", "scrape-panel", "config.toml"), nil
}

// Load reads configuration from the default path
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from path and applies environment
// overrides. Creates the file with defaults if it doesn't exist.
func LoadFrom(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

// Read returns the configuration stored at path, merged with defaults and
// without environment overrides. Creates the file if it doesn't exist.
func Read(path string) (*Config, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := SaveTo(path, cfg); err != nil {
			return nil, eris.Wrap(err, "failed to create default config")
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, eris.Wrap(err, "failed to parse config file")
	}

	mergeDefaults(&cfg)
	return &cfg, nil
}

// Save writes the configuration to the default path
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes the configuration to path
func SaveTo(path string, cfg *Config) error {
	path, err := expandHome(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return eris.Wrap(err, "failed to create config directory")
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return eris.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return eris.Wrap(err, "failed to write config file")
	}
	return nil
}

// Marshal renders cfg as TOML
func Marshal(cfg *Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", eris.Wrap(err, "failed to marshal config")
	}
	return string(data), nil
}

// mergeDefaults fills zero values from DefaultConfig
func mergeDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Scraper.BaseURL == "" {
		cfg.Scraper.BaseURL = def.Scraper.BaseURL
	}
	if cfg.Scraper.RequestTimeout <= 0 {
		cfg.Scraper.RequestTimeout = def.Scraper.RequestTimeout
	}
	if cfg.Panel.PollIntervalMS <= 0 {
		cfg.Panel.PollIntervalMS = def.Panel.PollIntervalMS
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Dir == "" {
		cfg.Log.Dir = def.Log.Dir
	}
}

// applyEnv overrides values from the environment (useful for Docker)
func applyEnv(cfg *Config) {
	if baseURL := os.Getenv(EnvBaseURL); baseURL != "" {
		cfg.Scraper.BaseURL = baseURL
	}
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "failed to get home directory")
	}
	return strings.Replace(path, "~", homeDir, 1), nil
}
