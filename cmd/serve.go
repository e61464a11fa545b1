package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/manas300/portfolio/internal/logging"
	"github.com/manas300/portfolio/internal/store"
	"github.com/manas300/portfolio/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the portfolio over HTTP",
	Long: `Starts the web server. Page views and link clicks are recorded with
hashed addresses in the SQLite store; contact messages are stored and, when
SMTP credentials are configured, forwarded by mail.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logging.Init(os.Stderr, verbose)

		site, err := loadSite(cfg)
		if err != nil {
			return err
		}

		db, err := store.Open(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer db.Close()
		logging.Info("Database initialized", "path", db.Path())

		var mailer web.Mailer
		if cfg.SMTP.Enabled() {
			mailer = web.NewSMTPMailer(cfg.SMTP)
		} else {
			logging.Warn("SMTP credentials not configured, contact messages will only be stored")
		}

		srv, err := web.New(cfg, site, db, mailer)
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
