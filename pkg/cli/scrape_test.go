package cli

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrape-panel-go/pkg/config"
	"scrape-panel-go/pkg/panel"
	"scrape-panel-go/pkg/scraper/scrapertest"
	"scrape-panel-go/pkg/utils"
)

func newTestApp(t *testing.T, baseURL string) (*App, *bytes.Buffer) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Scraper.BaseURL = baseURL
	cfg.Scraper.RequestTimeout = 2
	cfg.Panel.PollIntervalMS = 20
	cfg.Log.Dir = t.TempDir()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, config.SaveTo(path, cfg))

	var out bytes.Buffer
	app := NewApp(cfg, path, nil)
	app.SetOutput(&out)
	return app, &out
}

func TestHandleSubmit(t *testing.T) {
	t.Parallel()

	backend := scrapertest.NewServer()
	t.Cleanup(backend.Close)
	app, out := newTestApp(t, backend.URL)

	require.NoError(t, app.HandleSubmit(context.Background(), "  https://example.com "))
	assert.Equal(t, "Scraping complete!\n", out.String())
	assert.Equal(t, []string{"https://example.com"}, backend.Submissions())
}

func TestHandleSubmit_BackendError(t *testing.T) {
	t.Parallel()

	backend := scrapertest.NewServer()
	t.Cleanup(backend.Close)
	backend.SetScrapeResult("error", "bad url")
	app, out := newTestApp(t, backend.URL)

	err := app.HandleSubmit(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Equal(t, "Error: bad url\n", out.String())
}

func TestHandleSubmit_FetchError(t *testing.T) {
	t.Parallel()

	backend := scrapertest.NewServer()
	t.Cleanup(backend.Close)
	backend.SetScrapeRaw(http.StatusInternalServerError, "upstream exploded")
	app, out := newTestApp(t, backend.URL)

	err := app.HandleSubmit(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Contains(t, out.String(), "Fetch error: ")
}

func TestHandleSubmit_EmptyURL(t *testing.T) {
	t.Parallel()

	backend := scrapertest.NewServer()
	t.Cleanup(backend.Close)
	app, out := newTestApp(t, backend.URL)

	err := app.HandleSubmit(context.Background(), "   ")
	assert.ErrorIs(t, err, utils.ErrEmptyURL)
	assert.Empty(t, out.String())
	assert.Equal(t, 0, backend.ScrapeCalls())
}

func TestHandlePreview(t *testing.T) {
	t.Parallel()

	t.Run("no data yet", func(t *testing.T) {
		t.Parallel()
		backend := scrapertest.NewServer()
		t.Cleanup(backend.Close)
		app, out := newTestApp(t, backend.URL)

		require.NoError(t, app.HandlePreview(context.Background()))
		assert.Equal(t, "(no scraped data yet)\n", out.String())
	})

	t.Run("data", func(t *testing.T) {
		t.Parallel()
		backend := scrapertest.NewServer()
		t.Cleanup(backend.Close)
		backend.SetData("Example Domain")
		app, out := newTestApp(t, backend.URL)

		require.NoError(t, app.HandlePreview(context.Background()))
		assert.Equal(t, "Example Domain\n", out.String())
	})

	t.Run("poll error", func(t *testing.T) {
		t.Parallel()
		backend := scrapertest.NewServer()
		t.Cleanup(backend.Close)
		backend.SetDataRaw(http.StatusBadGateway, "not json")
		app, out := newTestApp(t, backend.URL)

		err := app.HandlePreview(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fetch scraped data")
		assert.Empty(t, out.String())
	})
}

func TestHandleWatch(t *testing.T) {
	t.Parallel()

	backend := scrapertest.NewServer()
	t.Cleanup(backend.Close)
	backend.SetData("Example Domain")
	app, out := newTestApp(t, backend.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	require.NoError(t, app.HandleWatch(ctx, "https://example.com"))

	got := out.String()
	assert.Contains(t, got, "Watching "+backend.URL+" every 20ms")
	assert.Contains(t, got, "status: Scraping...\n")
	assert.Contains(t, got, "status: Scraping complete!\n")
	assert.Contains(t, got, "preview:\nExample Domain\n")
	assert.Contains(t, got, "Chatbot ready with scraped data!\n")
	assert.Equal(t, []string{"https://example.com"}, backend.Submissions())
	assert.GreaterOrEqual(t, backend.DataCalls(), 1)
}

func TestHandleWatch_WithoutURL(t *testing.T) {
	t.Parallel()

	backend := scrapertest.NewServer()
	t.Cleanup(backend.Close)
	app, out := newTestApp(t, backend.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, app.HandleWatch(ctx, ""))
	assert.Equal(t, 0, backend.ScrapeCalls())
	assert.NotContains(t, out.String(), "status:")
	assert.NotContains(t, out.String(), "Chatbot ready")
}

func TestStatePrinter_PrintsOnlyChanges(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	sp := &statePrinter{out: &out}

	sp.print(panel.State{Status: "Scraping...", Preview: ""})
	sp.print(panel.State{Status: "Scraping...", Preview: ""})
	sp.print(panel.State{Status: "Scraping complete!", Preview: "text"})
	sp.print(panel.State{Status: "Scraping complete!", Preview: "text"})

	assert.Equal(t,
		"status: Scraping...\n"+
			"status: Scraping complete!\n"+
			"preview:\ntext\n"+
			"Chatbot ready with scraped data!\n",
		out.String())
}
