package cli

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pipscout/pipscout/internal/report"
	"github.com/pipscout/pipscout/internal/requirements"
)

// NewCompareReqsCmd creates the compare-reqs command
func NewCompareReqsCmd() *cobra.Command {
	var noPretty bool

	cmd := &cobra.Command{
		Use:   "compare-reqs <tag1> <tag2> <variant-or-file>",
		Short: "Diff requirements files between two release tags",
		Long: `Fetches requirements files (and Dockerfiles) for two vLLM release tags
and compares them. The third argument is either a hardware variant (rocm,
cuda, cpu, tpu, xpu), which expands to its runtime, build and Dockerfile
set, or a single file such as rocm-build.txt or docker/Dockerfile.rocm.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			tag1, tag2 := args[0], args[1]
			target := strings.ToLower(args[2])

			var files []string
			if variant, ok := requirements.Variants[target]; ok {
				files = append(files, variant.Requirements...)
				files = append(files, variant.Dockerfiles...)
				logrus.Infof("Comparing %s variant (runtime + build + Dockerfiles): %s -> %s", target, tag1, tag2)
			} else {
				files = []string{args[2]}
				logrus.Infof("Comparing %s: %s -> %s", args[2], tag1, tag2)
			}

			fetcher := requirements.NewFetcherWithBaseURL(cfg.RawBaseURL)
			renderer := report.NewRenderer(os.Stdout, false)
			pretty := !noPretty

			type fileChanges struct {
				name    string
				changes requirements.Changes
			}
			var results []fileChanges
			var rows []requirements.Row

			for _, file := range files {
				oldLines, err := fetcher.FetchFile(cmd.Context(), tag1, file)
				if err != nil {
					logrus.Warnf("Could not fetch %s for %s: %v", file, tag1, err)
					continue
				}
				newLines, err := fetcher.FetchFile(cmd.Context(), tag2, file)
				if err != nil {
					logrus.Warnf("Could not fetch %s for %s: %v", file, tag2, err)
					continue
				}

				var changes requirements.Changes
				if requirements.IsDockerfile(file) {
					changes = requirements.CompareDockerfiles(oldLines, newLines)
				} else {
					changes = requirements.Compare(oldLines, newLines)
				}

				results = append(results, fileChanges{name: file, changes: changes})
				rows = append(rows, requirements.SummaryRows(file, changes, requirements.IsDockerfile(file))...)
			}

			if len(results) == 0 {
				return errors.New("could not fetch any requirements files")
			}

			if pretty {
				renderer.SummaryTable(rows)
			}
			for _, result := range results {
				renderer.FileChanges(result.name, result.changes, pretty)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&noPretty, "no-pretty", false, "Show plain diff output")

	return cmd
}
