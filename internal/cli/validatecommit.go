package cli

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pipscout/pipscout/internal/commitcheck"
)

// NewValidateCommitCmd creates the validate-commit command
func NewValidateCommitCmd() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "validate-commit [ref|range]",
		Short: "Lint commit messages against tracker rules",
		Long: `Validates commit messages: the subject must start with a ticket from
the configured project list, the commit must have a body, and it must carry
a Signed-off-by trailer. With no argument HEAD is checked; a range such as
origin/main..HEAD expands to every commit it contains.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			validator := commitcheck.NewValidator(repoDir, cfg.Projects)

			var commits []string
			switch {
			case len(args) == 0:
				commits = []string{"HEAD"}
			case strings.Contains(args[0], ".."):
				commits, err = validator.ExpandRange(cmd.Context(), args[0])
				if err != nil {
					return err
				}
			default:
				commits = []string{args[0]}
			}

			if len(commits) == 0 {
				fmt.Println("No commits to validate")
				return nil
			}

			var all []commitcheck.Violation
			for _, commit := range commits {
				violations, err := validator.Validate(cmd.Context(), commit)
				if err != nil {
					return err
				}
				all = append(all, violations...)
			}

			if len(all) == 0 {
				fmt.Printf("All %d commit(s) pass validation\n", len(commits))
				return nil
			}

			fmt.Println("Commit validation failed:")
			for _, violation := range all {
				fmt.Printf("  %s\n", violation)
			}
			return errors.Errorf("%d violation(s) found", len(all))
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", "", "Git repository to validate (default: current directory)")

	return cmd
}
