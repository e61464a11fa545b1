package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/manas300/portfolio/internal/config"
	"github.com/manas300/portfolio/internal/content"
)

var (
	cfgFile     string
	contentFile string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio site and terminal viewer",
	Long: `Portfolio serves a single-page personal site with a contact form,
outbound link tracking and a small admin dashboard. The same content can be
browsed in the terminal with the tui command.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "portfolio.yml", "config file path")
	rootCmd.PersistentFlags().StringVar(&contentFile, "content", "", "content file (defaults to the built-in content)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads and validates the configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadSite picks the --content flag over content_file, falling back to the
// embedded content.
func loadSite(cfg *config.Config) (*content.Site, error) {
	path := contentFile
	if path == "" && cfg != nil {
		path = cfg.ContentFile
	}
	if path == "" {
		return content.Default()
	}
	site, err := content.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}
	return site, nil
}
