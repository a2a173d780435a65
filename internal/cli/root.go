// Package cli implements the lenient command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/lenient/internal/logger"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lenient",
		Short: "Decode JSON arrays strictly or tolerantly",
		Long: `lenient decodes a JSON array into a typed list or set and reports the
elements that were dropped or substituted along the way.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "YAML config file")
	root.PersistentFlags().String("env-dir", ".", "directory holding an optional .env file")
	root.AddCommand(newDecodeCmd())
	return root
}

// Execute runs the command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
