package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pipscout/pipscout/internal/report"
	"github.com/pipscout/pipscout/internal/sdist"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "inspect <archive>",
		Short: "Scan a local sdist or wheel for native-build signals",
		Long: `Opens a local source distribution (.tar.gz, .tar.xz, .zip) or wheel and
scans its members for build-system signals: native source files, Cargo or
CMake manifests, and extension declarations in setup.py / pyproject.toml.
Scores use the same weights as classify so results stay comparable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			scoring, err := scoringConfig(cfg)
			if err != nil {
				return err
			}

			rep, err := sdist.NewInspector(scoring).Inspect(args[0])
			if err != nil {
				return err
			}

			return report.NewRenderer(os.Stdout, jsonOutput).InspectReport(rep)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the report as JSON")

	return cmd
}
