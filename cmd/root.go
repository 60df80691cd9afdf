package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/phonefix-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "phonefix",
	Short: "Normalize phone numbers on OpenStreetMap nodes",
	Long:  "Queries an OpenStreetMap area for nodes with phone tags, validates the numbers against a numbering plan and reports the tags that would be rewritten in international format.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
