package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manas300/portfolio/internal/logging"
	"github.com/manas300/portfolio/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the portfolio in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// Log to a file so output does not tear the screen.
		if err := logging.InitFile(cfg.LogDir, verbose); err != nil {
			return err
		}
		defer logging.Close()

		site, err := loadSite(cfg)
		if err != nil {
			return err
		}

		m, err := tui.New(site, cfg.View.Options(site.SectionIDs(), len(site.Roles)), nil, cfg.View.LineUnit)
		if err != nil {
			return fmt.Errorf("starting tui: %w", err)
		}
		logging.Debug("TUI started", "sections", len(site.Sections))
		return tui.Run(m)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
