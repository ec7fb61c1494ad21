package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joaoccaldas/coinsnap-collector/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "coinsnap",
	Short: "Personal coin-collection catalogue",
	Long:  "Photograph the front and back of a coin, let an AI vision call identify and appraise it, and keep the result in a local collection you can browse, search, sort, and export.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
