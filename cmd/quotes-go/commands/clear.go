package commands

import (
	"log/slog"

	"github.com/GeorgiosLymperis/quotes-cache/internal/cache"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the cache file so the next run scrapes again.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		store := cache.Open(cfg.DataPath)
		if err := store.Remove(cmd.Context()); err != nil {
			return err
		}
		slog.Info("cache cleared", "path", store.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
