// Package cmd implements the command-line interface for the llms.txt
// generator service.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/gocrawl/cmd/httpd"
	"github.com/jonesrussell/gocrawl/cmd/inspect"
	"github.com/jonesrussell/gocrawl/cmd/migrate"
	"github.com/jonesrussell/gocrawl/cmd/worker"
)

// rootCmd represents the root command for the service CLI (spec §6).
var rootCmd = &cobra.Command{
	Use:   "llmstxtgen",
	Short: "llms.txt generator service",
	Long:  `Crawls registered sites and assembles their llms.txt documents.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command with a fresh context.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(os.Stdout, "llmstxtgen version 0.1.0")
		},
	})

	rootCmd.AddCommand(httpd.Command())
	rootCmd.AddCommand(worker.Command())
	rootCmd.AddCommand(migrate.Command())
	rootCmd.AddCommand(inspect.Command())
}
