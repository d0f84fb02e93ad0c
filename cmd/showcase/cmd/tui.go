package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/showcase/internal/config"
	"github.com/MrSnakeDoc/showcase/internal/domain"
	"github.com/MrSnakeDoc/showcase/internal/format"
	"github.com/MrSnakeDoc/showcase/internal/inbox"
	"github.com/MrSnakeDoc/showcase/internal/kv"
	"github.com/MrSnakeDoc/showcase/internal/logger"
	"github.com/MrSnakeDoc/showcase/internal/sources/mailbox"
	"github.com/MrSnakeDoc/showcase/internal/store/memory"
	"github.com/MrSnakeDoc/showcase/internal/store/sqlite"
	"github.com/MrSnakeDoc/showcase/internal/tui"
	"github.com/MrSnakeDoc/showcase/internal/utils"
)

func newTUICmd() *cobra.Command {
	var (
		mailboxFile string
		dbPath      string
		ephemeral   bool
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the mailbox in the terminal",
		Long: `Open the terminal UI: the email list on the first carousel page and the
chameleon input on the second. Favorites and selection are kept in a local
SQLite database unless --ephemeral is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadLocal()
			if mailboxFile != "" {
				cfg.MailboxFile = mailboxFile
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}

			if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
				return fmt.Errorf("create log directory: %w", err)
			}
			log := logger.NewFile(levelOr(cfg.LogLevel), cfg.LogFile)
			defer func() { _ = log.Sync() }()

			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			lang, err := cfg.Language()
			if err != nil {
				return err
			}

			records, err := mailbox.NewSource(
				mailbox.NewLoader(cfg.MailboxFile),
				mailbox.NewMapper(loc),
			).Emails()
			if err != nil {
				return err
			}

			var store kv.Store
			if ephemeral {
				store = memory.NewStore()
			} else {
				db, err := sqlite.Open(cfg.DBPath)
				if err != nil {
					return err
				}
				defer utils.CloseLogged(db, "sqlite", log)
				if keys, err := db.Keys(cmd.Context()); err == nil {
					log.Debug("local state opened",
						logger.String("db", cfg.DBPath),
						logger.Int("keys", len(keys)))
				}
				store = db
			}

			box := inbox.New(records, inbox.Options{
				Store:    store,
				Logger:   log,
				Pipeline: domain.NewPipeline(lang),
				PageSize: cfg.PageSize,
			})
			if err := box.Load(cmd.Context()); err != nil {
				log.Warn("could not restore saved state", logger.Error(err))
			}
			log.Info("tui started",
				logger.String("mailbox", cfg.MailboxFile),
				logger.Int("emails", len(records)),
				logger.Bool("ephemeral", ephemeral))

			m := tui.NewAppModel(cmd.Context(), box, format.DefaultCatalog(), tui.Options{
				Logger:   log,
				Location: loc,
			})
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mailboxFile, "mailbox", "", "path to the mailbox JSON file")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file for favorites and selection")
	cmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "keep favorites and selection in memory only")
	return cmd
}
