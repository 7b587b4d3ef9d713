package cli

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pipscout/pipscout/internal/license"
	"github.com/pipscout/pipscout/internal/pypi"
	"github.com/pipscout/pipscout/internal/report"
)

// NewLicenseCmd creates the license command
func NewLicenseCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "license <package> [version]",
		Short: "Resolve the declared license for a package",
		Long: `Looks up license information in published metadata: the SPDX
license_expression field first, then the legacy license field, then trove
License classifiers. When nothing usable is declared the source repository
URL is reported for a manual search and the command exits non-zero.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			version := ""
			if len(args) > 1 {
				version = args[1]
			}

			client := pypi.NewClient(
				pypi.WithBaseURL(cfg.IndexURL),
				pypi.WithTimeout(cfg.Timeout),
				pypi.WithAttempts(cfg.RetryAttempts),
			)

			meta, err := client.Fetch(cmd.Context(), args[0], version)
			if err != nil {
				return err
			}

			result := license.Resolve(meta)
			if err := report.NewRenderer(os.Stdout, jsonOutput).License(meta.Name, result); err != nil {
				return err
			}
			if !result.Found() {
				return errors.Errorf("no license found for %s", meta.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the result as JSON")

	return cmd
}
