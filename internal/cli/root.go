package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pipscout/pipscout/internal/config"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pipscout",
		Short: "Inspect published Python package metadata",
		Long: `Pipscout queries package index metadata and assesses how hard a
package is to build from source, alongside related lookups.

Commands:
  - classify:        score build complexity from published metadata
  - license:         resolve the declared license for a package
  - inspect:         scan a local sdist or wheel for native-build signals
  - verify:          check a detached PGP signature over an artifact
  - compare-reqs:    diff requirements files between release tags
  - validate-commit: lint commit messages against tracker rules`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: $HOME/.pipscout.yaml)")

	// Add subcommands
	rootCmd.AddCommand(NewClassifyCmd())
	rootCmd.AddCommand(NewLicenseCmd())
	rootCmd.AddCommand(NewInspectCmd())
	rootCmd.AddCommand(NewVerifyCmd())
	rootCmd.AddCommand(NewCompareReqsCmd())
	rootCmd.AddCommand(NewValidateCommitCmd())

	return rootCmd
}

// loadConfig resolves tool configuration honoring the --config flag
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	return config.Load(configFile)
}
