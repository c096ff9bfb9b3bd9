package cli

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"scrape-panel-go/pkg/cli/tui"
	"scrape-panel-go/pkg/config"
	"scrape-panel-go/pkg/panel"
	"scrape-panel-go/pkg/scraper"
)

type App struct {
	cfg     *config.Config
	cfgPath string
	log     *zap.Logger
	out     io.Writer

	client *scraper.Client
}

func NewApp(cfg *config.Config, cfgPath string, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		cfg:     cfg,
		cfgPath: cfgPath,
		log:     log,
		out:     os.Stdout,
	}
}

// SetOutput redirects command output (tests, cobra's OutOrStdout)
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

// getClient returns the scraper client, creating it if necessary
func (a *App) getClient() *scraper.Client {
	if a.client != nil {
		return a.client
	}
	a.client = scraper.NewClient(a.cfg.Scraper.BaseURL,
		scraper.WithTimeout(a.cfg.RequestTimeout()),
		scraper.WithLogger(a.log.Named("scraper")),
	)
	return a.client
}

func (a *App) newPanel(opts ...panel.Option) *panel.Panel {
	opts = append([]panel.Option{
		panel.WithInterval(a.cfg.PollInterval()),
		panel.WithLogger(a.log.Named("panel")),
	}, opts...)
	return panel.New(a.getClient(), opts...)
}

// Run starts the interactive panel and blocks until the user quits
func (a *App) Run(ctx context.Context) error {
	client := a.getClient()
	a.log.Info("starting panel", zap.String("base_url", client.BaseURL()), zap.Duration("poll_interval", a.cfg.PollInterval()))

	model := tui.NewScrapePanel(client, a.cfg.PollInterval(), a.log.Named("tui"))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return eris.Wrap(err, "run panel")
	}
	return nil
}
