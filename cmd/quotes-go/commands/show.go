package commands

import (
	"fmt"
	"log/slog"

	"github.com/GeorgiosLymperis/quotes-cache/internal/cache"
	"github.com/GeorgiosLymperis/quotes-cache/internal/driver"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cached quotes without ever scraping.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		store := cache.Open(cfg.DataPath)
		records, ok, err := store.Load(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no cache at %s", store.Path())
		}
		slog.Debug("cache hit", "path", store.Path(), "records", len(records))
		return driver.Print(cmd.OutOrStdout(), records, cfg.Format)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
