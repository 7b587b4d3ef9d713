// Package report renders assessments, license lookups and requirement diffs
// for terminal or JSON consumption.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/pipscout/pipscout/internal/license"
	"github.com/pipscout/pipscout/internal/models"
	"github.com/pipscout/pipscout/internal/requirements"
	"github.com/pipscout/pipscout/internal/sdist"
)

// Renderer writes human- or machine-readable output
type Renderer struct {
	out  io.Writer
	json bool
}

// NewRenderer creates a Renderer. jsonMode switches every render method to
// emit a single JSON document instead of formatted text.
func NewRenderer(out io.Writer, jsonMode bool) *Renderer {
	return &Renderer{out: out, json: jsonMode}
}

var (
	headerColor  = color.New(color.Bold)
	lowColor     = color.New(color.FgGreen)
	mediumColor  = color.New(color.FgYellow)
	highColor    = color.New(color.FgRed)
	addedColor   = color.New(color.FgGreen)
	removedColor = color.New(color.FgRed)
	changedColor = color.New(color.FgYellow)
	specialColor = color.New(color.FgBlue)
)

// Assessment renders a complexity assessment
func (r *Renderer) Assessment(a *models.ComplexityAssessment) error {
	if r.json {
		return r.encode(a)
	}

	target := a.Package
	if a.Version != "" {
		target += " " + a.Version
	}
	headerColor.Fprintf(r.out, "%s\n", target)

	classColor := lowColor
	switch a.Classification {
	case models.ClassMedium:
		classColor = mediumColor
	case models.ClassHigh:
		classColor = highColor
	}

	fmt.Fprintf(r.out, "  score:          %d\n", a.Score)
	fmt.Fprintf(r.out, "  classification: %s\n", classColor.Sprint(a.Classification))
	fmt.Fprintf(r.out, "  strategy:       %s\n", a.Strategy)

	if len(a.Indicators) > 0 {
		fmt.Fprintln(r.out, "  indicators:")
		for _, ind := range a.Indicators {
			fmt.Fprintf(r.out, "    - %s\n", ind)
		}
	}
	return nil
}

// License renders a license lookup result
func (r *Renderer) License(pkg string, res license.Result) error {
	if r.json {
		return r.encode(struct {
			Package string `json:"package"`
			license.Result
		}{Package: pkg, Result: res})
	}

	if res.Found() {
		fmt.Fprintf(r.out, "LICENSE FOUND: %s (from %s)\n", res.License, res.Source)
		return nil
	}

	fmt.Fprintln(r.out, "No license found in package metadata")
	if res.RepositoryURL != "" {
		fmt.Fprintf(r.out, "SOURCE REPOSITORY: %s\n", res.RepositoryURL)
		fmt.Fprintln(r.out, "Search the repository for LICENSE files")
	} else {
		fmt.Fprintln(r.out, "No source repository URL found")
	}
	return nil
}

// InspectReport renders an sdist inspection report
func (r *Renderer) InspectReport(rep *sdist.Report) error {
	if r.json {
		return r.encode(rep)
	}

	headerColor.Fprintf(r.out, "%s (%s, %d members)\n", rep.Archive, rep.Kind, rep.Members)
	fmt.Fprintf(r.out, "  score: %d\n", rep.Score)
	if len(rep.Indicators) == 0 {
		fmt.Fprintln(r.out, "  no native-build signals found")
		return nil
	}
	fmt.Fprintln(r.out, "  indicators:")
	for _, ind := range rep.Indicators {
		fmt.Fprintf(r.out, "    - %s\n", ind)
	}
	return nil
}

// FileChanges renders the diff of one requirements file or Dockerfile
func (r *Renderer) FileChanges(file string, changes requirements.Changes, pretty bool) {
	if !pretty {
		fmt.Fprintf(r.out, "\n=== %s ===\n\n", file)
		for _, line := range changes.Removed {
			fmt.Fprintf(r.out, "- %s\n", line)
		}
		for _, line := range changes.Added {
			fmt.Fprintf(r.out, "+ %s\n", line)
		}
		for _, line := range changes.Changed {
			fmt.Fprintf(r.out, "~ %s\n", line)
		}
		if changes.Empty() {
			fmt.Fprintln(r.out, "No changes detected")
		}
		return
	}

	headerColor.Fprintf(r.out, "\n%s\n%s\n\n", file, strings.Repeat("-", len(file)))

	if changes.Empty() {
		fmt.Fprintln(r.out, "No changes detected between versions.")
		return
	}

	section := func(c *color.Color, title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		c.Fprintf(r.out, "%s:\n", title)
		for _, line := range lines {
			fmt.Fprintf(r.out, "  %s\n", line)
		}
		fmt.Fprintln(r.out)
	}

	section(changedColor, "Changed", changes.Changed)
	section(addedColor, "Added", changes.Added)
	section(removedColor, "Removed", changes.Removed)
	section(specialColor, "Infrastructure/Special", changes.Special)
}

// SummaryTable renders the aggregated change table across files
func (r *Renderer) SummaryTable(rows []requirements.Row) {
	if len(rows) == 0 {
		return
	}

	headerColor.Fprintln(r.out, "\nChange summary:")
	fmt.Fprintf(r.out, "\n%-20s %-35s %-25s %-25s %s\n", "File", "Package", "Old Version", "New Version", "Type")
	fmt.Fprintln(r.out, strings.Repeat("-", 116))

	for _, row := range rows {
		kindColor := changedColor
		switch row.Kind {
		case "Added":
			kindColor = addedColor
		case "Removed":
			kindColor = removedColor
		}
		fmt.Fprintf(r.out, "%-20s %-35s %-25s %-25s %s\n",
			truncate(row.File, 20), truncate(row.Package, 35),
			truncate(row.OldVersion, 25), truncate(row.NewVersion, 25),
			kindColor.Sprint(row.Kind))
	}
	fmt.Fprintln(r.out)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func (r *Renderer) encode(v interface{}) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
