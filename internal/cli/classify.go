package cli

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pipscout/pipscout/internal/classifier"
	"github.com/pipscout/pipscout/internal/config"
	"github.com/pipscout/pipscout/internal/pypi"
	"github.com/pipscout/pipscout/internal/report"
)

// NewClassifyCmd creates the classify command
func NewClassifyCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "classify <package> [version]",
		Short: "Assess build complexity from published metadata",
		Long: `Fetches the metadata snapshot for a package (latest version unless one
is given) and scores how hard it is to build from source: compiled-language
markers, known heavy packages, artifact coverage and a one-level dependency
scan. The exit code is zero whenever an assessment is produced; retrieval
failures exit non-zero.`,
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

			logrus.Debugf("Classifying %s %s", args[0], version)
			meta, err := client.Fetch(cmd.Context(), args[0], version)
			if err != nil {
				return err
			}

			scoring, err := scoringConfig(cfg)
			if err != nil {
				return err
			}

			assessment, err := classifier.New(scoring).Assess(meta)
			if err != nil {
				return err
			}

			return report.NewRenderer(os.Stdout, jsonOutput).Assessment(assessment)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the assessment as JSON")

	return cmd
}

// scoringConfig resolves the scoring weights, applying the override file
// when one is configured
func scoringConfig(cfg *config.Config) (classifier.Config, error) {
	if cfg.ScoringFile == "" {
		return classifier.DefaultConfig(), nil
	}
	return classifier.LoadConfig(cfg.ScoringFile)
}
