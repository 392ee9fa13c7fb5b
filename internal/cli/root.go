package cli

import (
	"github.com/spf13/cobra"
)

const version = "1.0.0"

// Execute builds the root command tree and runs the CLI.
func Execute() error {
	rootCmd := &cobra.Command{
		Use:           "cyberguard",
		Short:         "URL threat analysis and traffic-control engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	rootCmd.SetVersionTemplate("cyberguard version {{.Version}}\n")

	rootCmd.AddCommand(
		newServeCmd(),
		newAnalyzeCmd(),
		newPcapCmd(),
	)

	return rootCmd.Execute()
}
