package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/showcase/internal/app"
	"github.com/MrSnakeDoc/showcase/internal/config"
	"github.com/MrSnakeDoc/showcase/internal/logger"
)

func newServeCmd() *cobra.Command {
	var (
		listen  string
		mailbox string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API backed by Redis. Settings come from SHOWCASE_* and
REDIS_* environment variables; flags override them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if listen != "" {
				cfg.ListenPort = listen
			}
			if mailbox != "" {
				cfg.MailboxFile = mailbox
			}

			log := logger.New(levelOr(cfg.LogLevel), cfg.PrettyLog)
			defer func() { _ = log.Sync() }()

			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return fmt.Errorf("start: %w", err)
			}
			return a.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address, e.g. :8080")
	cmd.Flags().StringVar(&mailbox, "mailbox", "", "path to the mailbox JSON file")
	return cmd
}
