package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"ltree-renderer/internal/config"
	"ltree-renderer/internal/ctxlog"
	"ltree-renderer/internal/style"
)

var (
	logLevel   string
	logFormat  string
	configFile string

	// cfg is loaded once in PersistentPreRunE; subcommands resolve it
	// against their own flags.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ltree",
	Short: "Grow procedural trees from grammar profiles",
	Long: `ltree runs L-system style tree grammars written in HCL and renders the
resulting skeletons as WebP previews.

Examples:
  ltree inspect profiles/birch.hcl --seed 7
  ltree render profiles/birch.hcl -o birch.webp
  ltree batch profiles --seeds 16`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger := ctxlog.New(logLevel, logFormat, os.Stderr)
		cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))

		if configFile != "" {
			loaded, err := config.Load(configFile)
			if err != nil {
				return err
			}
			cfg = loaded
			logger.Debug("Config loaded.", "path", configFile)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text|json)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a .json or .toml config file")
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", style.ErrorPrefix, err)
		return 1
	}
	return 0
}
