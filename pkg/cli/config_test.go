package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrape-panel-go/pkg/config"
)

func TestSetConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		set     string
		check   func(t *testing.T, cfg *config.Config)
		wantErr string
	}{
		{
			name: "base url",
			set:  "scraper.base_url=http://scraper:8001",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "http://scraper:8001", cfg.Scraper.BaseURL)
			},
		},
		{
			name: "request timeout",
			set:  "scraper.request_timeout=5",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 5*time.Second, cfg.RequestTimeout())
			},
		},
		{
			name: "poll interval",
			set:  "panel.poll_interval_ms=1500",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 1500*time.Millisecond, cfg.PollInterval())
			},
		},
		{
			name: "log level",
			set:  "log.level=debug",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "debug", cfg.Log.Level)
			},
		},
		{name: "missing equals", set: "scraper.base_url", wantErr: "invalid format"},
		{name: "missing section", set: "base_url=x", wantErr: "invalid key format"},
		{name: "unknown section", set: "db.url=x", wantErr: "unknown section"},
		{name: "unknown key", set: "scraper.port=1", wantErr: "unknown scraper key"},
		{name: "empty base url", set: "scraper.base_url= ", wantErr: "cannot be empty"},
		{name: "non numeric interval", set: "panel.poll_interval_ms=fast", wantErr: "invalid poll_interval_ms"},
		{name: "zero timeout", set: "scraper.request_timeout=0", wantErr: "invalid request_timeout"},
		{name: "bad level", set: "log.level=loud", wantErr: "invalid log level"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			app, _ := newTestApp(t, "http://localhost:8001")

			err := app.SetConfig(tt.set)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			stored, err := config.Read(app.cfgPath)
			require.NoError(t, err)
			tt.check(t, stored)
			tt.check(t, app.cfg)
		})
	}
}

func TestShowConfig(t *testing.T) {
	t.Parallel()

	app, out := newTestApp(t, "http://scraper:8001")
	require.NoError(t, app.ShowConfig())

	assert.Contains(t, out.String(), "http://scraper:8001")
	assert.Contains(t, out.String(), "[panel]")
	assert.Contains(t, out.String(), "poll_interval_ms = 20")
}
