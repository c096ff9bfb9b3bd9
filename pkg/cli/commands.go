package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scrape-panel-go/pkg/cli/logger"
	"scrape-panel-go/pkg/config"
)

type rootOptions struct {
	configPath string
	baseURL    string
	logLevel   string
}

// NewRootCommand builds the scrape-panel command tree. With no subcommand
// it opens the interactive panel.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	var app *App

	root := &cobra.Command{
		Use:           "scrape-panel",
		Short:         "Submit URLs to a scraper backend and watch the scraped text",
		Long:          "Submits a URL to the scraper backend, polls it for the latest scraped text and shows it in a terminal panel.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// the interactive panel owns the terminal; subcommands may log to stderr
			var fallback io.Writer
			if cmd.HasParent() {
				fallback = cmd.ErrOrStderr()
			}
			a, err := opts.load(fallback)
			if err != nil {
				return err
			}
			a.SetOutput(cmd.OutOrStdout())
			app = a
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/scrape-panel/config.toml)")
	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "scraper backend base URL for this run")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		&cobra.Command{
			Use:   "submit <url>",
			Short: "Submit a URL for scraping and print the status",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.HandleSubmit(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "preview",
			Short: "Print the most recently scraped data",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.HandlePreview(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "watch [url]",
			Short: "Poll the scraped data without the interactive panel, optionally submitting a URL first",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				url := ""
				if len(args) == 1 {
					url = args[0]
				}
				return app.HandleWatch(cmd.Context(), url)
			},
		},
		newConfigCommand(func() *App { return app }),
	)

	return root
}

// Execute runs root with ctx and closes the log file however the command
// ends. Cobra skips post-run hooks when RunE fails.
func Execute(ctx context.Context, root *cobra.Command) error {
	defer logger.Close()
	return root.ExecuteContext(ctx)
}

func newConfigCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return app().ShowConfig()
			},
		},
		&cobra.Command{
			Use:   "set <section.key=value>",
			Short: "Set a configuration value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app().SetConfig(args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Configuration updated successfully")
				return nil
			},
		},
	)
	return cmd
}

// load reads the config file, applies flag overrides and builds the App.
// logFallback receives log output when the log file cannot be opened.
func (o *rootOptions) load(logFallback io.Writer) (*App, error) {
	path := o.configPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, eris.Wrap(err, "load config")
	}

	// flags only affect this run; config set writes through config.Read
	runCfg := *cfg
	if o.baseURL != "" {
		runCfg.Scraper.BaseURL = o.baseURL
	}
	if o.logLevel != "" {
		runCfg.Log.Level = o.logLevel
	}

	log, err := logger.Init(runCfg.Log.Level, runCfg.Log.Dir, logFallback)
	if err != nil {
		return nil, eris.Wrap(err, "init logger")
	}
	log.Debug("config loaded", zap.String("path", path), zap.String("base_url", runCfg.Scraper.BaseURL))

	return NewApp(&runCfg, path, log), nil
}
