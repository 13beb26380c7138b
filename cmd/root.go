package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pitchforge/pitchforge/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pitchforge",
	Short: "AI business plan generation toolkit",
	Long:  "Turns a one-line startup idea into structured business elements, a plan narrative, a financial model, a validation questionnaire and a competitor analysis.",
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
