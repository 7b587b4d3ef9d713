// Package commitcheck validates commit messages against the tracker-linter
// rules: ticket-prefixed subject, non-empty body, Signed-off-by trailer.
package commitcheck

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// DefaultProjects are the ticket prefixes accepted out of the box
var DefaultProjects = []string{"RHELAI", "RHOAIENG", "AIPCC", "INFERENG", "RHAIENG"}

var signedOffPattern = regexp.MustCompile(`Signed-off-by: .+ <.+@.+>`)

// Validator checks commits in a git working tree
type Validator struct {
	dir           string
	subjectRegexp *regexp.Regexp
	projects      []string
}

// NewValidator creates a Validator accepting the given ticket prefixes.
// An empty list falls back to DefaultProjects. dir is the repository to
// operate in; empty means the current directory.
func NewValidator(dir string, projects []string) *Validator {
	if len(projects) == 0 {
		projects = DefaultProjects
	}
	escaped := make([]string, len(projects))
	for i, p := range projects {
		escaped[i] = regexp.QuoteMeta(p)
	}
	return &Validator{
		dir:           dir,
		projects:      projects,
		subjectRegexp: regexp.MustCompile(`^(` + strings.Join(escaped, "|") + `)-\d+:`),
	}
}

// Violation is one failed rule on one commit
type Violation struct {
	Commit  string // short SHA
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s", v.Commit, v.Message)
}

// ExpandRange resolves "a..b" into individual commit SHAs via rev-list
func (v *Validator) ExpandRange(ctx context.Context, rangeSpec string) ([]string, error) {
	out, err := v.git(ctx, "rev-list", rangeSpec)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list commits in %s", rangeSpec)
	}
	var commits []string
	for _, sha := range strings.Split(strings.TrimSpace(out), "\n") {
		if sha != "" {
			commits = append(commits, sha)
		}
	}
	return commits, nil
}

// Validate checks one commit and returns the violated rules
func (v *Validator) Validate(ctx context.Context, ref string) ([]Violation, error) {
	subject, err := v.git(ctx, "log", "-1", "--format=%s", ref)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read commit %s", ref)
	}
	body, err := v.git(ctx, "log", "-1", "--format=%b", ref)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read commit %s", ref)
	}
	shortSHA, err := v.git(ctx, "rev-parse", "--short", ref)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve commit %s", ref)
	}

	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)
	shortSHA = strings.TrimSpace(shortSHA)

	var violations []Violation

	if !v.subjectRegexp.MatchString(subject) {
		got := subject
		if len(got) > 60 {
			got = got[:60] + "..."
		}
		violations = append(violations, Violation{
			Commit: shortSHA,
			Message: fmt.Sprintf("subject must start with a ticket (%s)-XXXX:, got: %s",
				strings.Join(v.projects, "|"), got),
		})
	}

	if body == "" {
		violations = append(violations, Violation{
			Commit:  shortSHA,
			Message: "commit must have a body (description after blank line)",
		})
	}

	if !signedOffPattern.MatchString(subject + "\n\n" + body) {
		violations = append(violations, Violation{
			Commit:  shortSHA,
			Message: "commit must include 'Signed-off-by: Name <email@domain>' (use git commit --signoff)",
		})
	}

	return violations, nil
}

func (v *Validator) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if v.dir != "" {
		cmd.Dir = v.dir
	}
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", errors.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}

// CheckSubject validates a raw commit message without touching git. Used
// when the message text is already at hand (hooks, tests).
func (v *Validator) CheckSubject(subject string) bool {
	return v.subjectRegexp.MatchString(strings.TrimSpace(subject))
}
