package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap/zapcore"

	"scrape-panel-go/pkg/config"
)

// ShowConfig prints the current configuration as TOML
func (a *App) ShowConfig() error {
	out, err := config.Marshal(a.cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, out)
	return nil
}

// SetConfig sets a configuration value and saves the file. Only the stored
// file is changed; flag and environment overrides of this run are not saved.
// Format: section.key=value (e.g., "scraper.base_url=http://localhost:8001")
func (a *App) SetConfig(setStr string) error {
	stored, err := config.Read(a.cfgPath)
	if err != nil {
		return err
	}
	if err := applySetting(stored, setStr); err != nil {
		return err
	}
	if err := config.SaveTo(a.cfgPath, stored); err != nil {
		return err
	}
	// keep this run's view consistent with what was written
	return applySetting(a.cfg, setStr)
}

func applySetting(cfg *config.Config, setStr string) error {
	parts := strings.SplitN(setStr, "=", 2)
	if len(parts) != 2 {
		return eris.New("invalid format: expected 'section.key=value'")
	}

	keyPath := strings.Split(parts[0], ".")
	value := strings.TrimSpace(parts[1])

	if len(keyPath) != 2 {
		return eris.New("invalid key format: expected 'section.key'")
	}

	section := keyPath[0]
	key := keyPath[1]

	switch section {
	case "scraper":
		switch key {
		case "base_url":
			if value == "" {
				return eris.New("base_url cannot be empty")
			}
			cfg.Scraper.BaseURL = value
		case "request_timeout":
			n, err := parsePositive(value)
			if err != nil {
				return eris.Wrapf(err, "invalid request_timeout value: %s", value)
			}
			cfg.Scraper.RequestTimeout = n
		default:
			return eris.Errorf("unknown scraper key: %s", key)
		}
	case "panel":
		switch key {
		case "poll_interval_ms":
			n, err := parsePositive(value)
			if err != nil {
				return eris.Wrapf(err, "invalid poll_interval_ms value: %s", value)
			}
			cfg.Panel.PollIntervalMS = n
		default:
			return eris.Errorf("unknown panel key: %s", key)
		}
	case "log":
		switch key {
		case "level":
			if _, err := zapcore.ParseLevel(value); err != nil {
				return eris.Wrapf(err, "invalid log level: %s", value)
			}
			cfg.Log.Level = value
		case "dir":
			cfg.Log.Dir = value
		default:
			return eris.Errorf("unknown log key: %s", key)
		}
	default:
		return eris.Errorf("unknown section: %s", section)
	}

	return nil
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, eris.New("must be positive")
	}
	return n, nil
}
