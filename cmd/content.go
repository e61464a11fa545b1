package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Inspect site content",
}

var contentValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a content file",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			contentFile = args[0]
		}
		site, err := loadSite(nil)
		exitOnError(err)
		fmt.Printf("Content OK: %d sections, %d roles, %d projects, %d links\n",
			len(site.Sections), len(site.Roles), len(site.Projects), len(site.Links()))
	},
}

var contentDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the effective content as YAML",
	Long:  `Prints the content in use. Redirect it to a file to start a custom content_file.`,
	Run: func(cmd *cobra.Command, args []string) {
		site, err := loadSite(nil)
		exitOnError(err)
		data, err := site.Marshal()
		exitOnError(err)
		os.Stdout.Write(data)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		exitOnError(err)
		data, err := cfg.Marshal()
		exitOnError(err)
		os.Stdout.Write(data)
	},
}

func init() {
	contentCmd.AddCommand(contentValidateCmd, contentDumpCmd)
	rootCmd.AddCommand(contentCmd, configCmd)
}
