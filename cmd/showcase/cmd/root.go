// Package cmd holds the showcase command tree
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var logLevel string

// NewRootCmd builds a fresh command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "showcase",
		Short: "Email list browser and formatted input playground",
		Long: `showcase serves a paginated, searchable email list with selection and
favorites over HTTP, and ships the same browser as a terminal UI next to
the chameleon input formatter.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error); overrides SHOWCASE_LOG_LEVEL")

	root.AddCommand(
		newServeCmd(),
		newTUICmd(),
		newFormatCmd(),
		newFormatsCmd(),
		newVersionCmd(),
	)
	return root
}

// ExecuteContext runs the root command with ctx, cancelling long-running
// commands when ctx is done
func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// levelOr returns the --log-level flag when set
func levelOr(fallback string) string {
	if logLevel != "" {
		return logLevel
	}
	return fallback
}
