package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manas300/portfolio/internal/store"
)

var statsCleanup bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print visitor and contact statistics from the store",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		exitOnError(err)

		db, err := store.Open(cfg.Store.Path)
		exitOnError(err)
		defer db.Close()

		if statsCleanup {
			n, err := db.Cleanup(cfg.Store.Retention)
			exitOnError(err)
			fmt.Printf("Removed %d visitor records older than %s\n\n", n, cfg.Store.Retention)
		}

		stats, err := db.Stats()
		exitOnError(err)

		fmt.Printf("Visitors:        %d total, %d unique\n", stats.TotalVisitors, stats.UniqueVisitors)
		fmt.Printf("Today:           %d\n", stats.VisitorsToday)
		fmt.Printf("This week:       %d\n", stats.VisitorsThisWeek)
		fmt.Printf("Link clicks:     %d\n", stats.TotalClicks)
		fmt.Printf("Messages:        %d\n", stats.TotalMessages)
		if len(stats.TopLinks) > 0 {
			fmt.Println("\nTop links:")
			for _, l := range stats.TopLinks {
				fmt.Printf("  %-12s %5d  %s\n", l.Slug, l.Clicks, l.URL)
			}
		}
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsCleanup, "cleanup", false, "delete visitor records past the retention window first")
	rootCmd.AddCommand(statsCmd)
}
