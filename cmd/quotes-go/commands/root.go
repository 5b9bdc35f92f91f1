package commands

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/GeorgiosLymperis/quotes-cache/internal/cache"
	"github.com/GeorgiosLymperis/quotes-cache/internal/config"
	"github.com/GeorgiosLymperis/quotes-cache/internal/driver"
	"github.com/GeorgiosLymperis/quotes-cache/internal/scraper"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configFile string
	envFile    string
	baseURL    string
	dataPath   string
	maxPages   int
	timeout    time.Duration
	userAgent  string
	format     string
	verbose    bool
}

var flags rootFlags

var rootCmd = &cobra.Command{
	Use:   "quotes-go",
	Short: "Scrape a paginated quote listing once and replay it from a local cache.",
	Long: `quotes-go prints the quotes stored in the cache file. When there is no
cache yet it scrapes <base-url>page/1, page/2, ... until the site reports
"No quotes found!", saves everything to the cache and prints it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initSlog(flags.verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		client := scraper.NewClient(cfg.Timeout, cfg.UserAgent)
		d := &driver.Driver{
			Store: cache.Open(cfg.DataPath),
			Scraper: &scraper.Paginator{
				Fetcher:  client,
				BaseURL:  cfg.BaseURL,
				MaxPages: cfg.MaxPages,
				OnPage: func(page int, url string, records int) {
					slog.Info("done", "page", page, "url", url, "records", records)
				},
			},
			Out:    cmd.OutOrStdout(),
			Format: cfg.Format,
		}
		return d.Run(cmd.Context())
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "JSON5 config file (with optional <name>.local.<ext> overrides)")
	pf.StringVar(&flags.envFile, "env-file", config.DefaultEnvFile, "dotenv file providing BASE_URL, DATA_PATH, ...")
	pf.StringVar(&flags.dataPath, "data-path", "", "cache file (.jsonl, or .db/.sqlite for SQLite)")
	pf.StringVar(&flags.format, "format", "", "output format (block|table)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	f := rootCmd.Flags()
	f.StringVar(&flags.baseURL, "base-url", "", "site root; pages are fetched from <base-url>page/<n>")
	f.IntVar(&flags.maxPages, "max-pages", 0, "stop with an error after this many pages (0 = no limit)")
	f.DurationVar(&flags.timeout, "timeout", 0, "per-request timeout (0 = none)")
	f.StringVar(&flags.userAgent, "user-agent", "", "User-Agent header sent with each request")
}

// loadConfig layers the changed flags of cmd over config.Load and validates
// the result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(config.Options{
		File:    flags.configFile,
		EnvFile: flags.envFile,
	})
	if err != nil {
		return cfg, err
	}

	changed := cmd.Flags().Changed
	if changed("base-url") {
		cfg.BaseURL = flags.baseURL
	}
	if changed("data-path") {
		cfg.DataPath = flags.dataPath
	}
	if changed("max-pages") {
		cfg.MaxPages = flags.maxPages
	}
	if changed("timeout") {
		cfg.Timeout = flags.timeout
	}
	if changed("user-agent") {
		cfg.UserAgent = flags.userAgent
	}
	if changed("format") {
		cfg.Format = flags.format
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	slog.Debug("config", "base_url", cfg.BaseURL, "data_path", cfg.DataPath, "max_pages", cfg.MaxPages, "format", cfg.Format)
	return cfg, nil
}

func initSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

// ExecuteContext runs the CLI and returns the process exit status.
func ExecuteContext(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("quotes-go failed", "err", err)
		return 1
	}
	return 0
}
