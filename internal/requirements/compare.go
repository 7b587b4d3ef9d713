package requirements

import (
	"fmt"
	"strings"
)

// Changes buckets the differences between two versions of one file
type Changes struct {
	Changed []string // "old -> new"
	Added   []string
	Removed []string
	Special []string // directive lines (-r, --extra-index-url, ...)
}

// Empty reports whether no differences were found
func (c Changes) Empty() bool {
	return len(c.Changed) == 0 && len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Special) == 0
}

// Arrow joins the old and new form of a changed entry
const Arrow = " -> "

// Compare diffs two requirements files line-set-wise, keyed by package name.
// Buckets keep the encounter order of the input files, so the output is
// stable across runs.
func Compare(oldLines, newLines []string) Changes {
	oldNames, oldPkgs, oldSpecial := index(oldLines)
	newNames, newPkgs, newSpecial := index(newLines)

	var changes Changes

	for _, name := range oldNames {
		oldLine := oldPkgs[name]
		if newLine, ok := newPkgs[name]; ok {
			if oldLine != newLine {
				changes.Changed = append(changes.Changed, oldLine+Arrow+newLine)
			}
		} else {
			changes.Removed = append(changes.Removed, oldLine)
		}
	}
	for _, name := range newNames {
		if _, ok := oldPkgs[name]; !ok {
			changes.Added = append(changes.Added, newPkgs[name])
		}
	}

	for _, line := range oldSpecial {
		if !contains(newSpecial, line) {
			changes.Special = append(changes.Special, "- "+line)
		}
	}
	for _, line := range newSpecial {
		if !contains(oldSpecial, line) {
			changes.Special = append(changes.Special, "+ "+line)
		}
	}

	return changes
}

func index(lines []string) ([]string, map[string]string, []string) {
	var names []string
	packages := make(map[string]string)
	var special []string
	for _, line := range lines {
		name, full := ParseLine(line)
		if name == "" {
			if full != "" {
				special = append(special, full)
			}
			continue
		}
		if _, seen := packages[name]; !seen {
			names = append(names, name)
		}
		packages[name] = full
	}
	return names, packages, special
}

func contains(lines []string, target string) bool {
	for _, line := range lines {
		if line == target {
			return true
		}
	}
	return false
}

// Row is one entry of the change summary table
type Row struct {
	File       string
	Package    string
	OldVersion string
	NewVersion string
	Kind       string // Changed, Added, Removed
}

// SummaryRows flattens per-file changes into table rows. Dockerfile entries
// split on "=" (ARG NAME=value); requirements entries split on specifiers.
func SummaryRows(file string, changes Changes, dockerfile bool) []Row {
	var rows []Row

	split := func(line string) (string, string) {
		if dockerfile {
			if name, value, ok := splitArg(line); ok {
				return name, value
			}
			return line, ""
		}
		return PackageName(line), VersionPart(line)
	}

	for _, change := range changes.Changed {
		oldPart, newPart, ok := splitArrow(change)
		if !ok {
			continue
		}
		name, oldVer := split(oldPart)
		_, newVer := split(newPart)
		rows = append(rows, Row{File: file, Package: name, OldVersion: oldVer, NewVersion: newVer, Kind: "Changed"})
	}
	for _, line := range changes.Added {
		name, version := split(line)
		rows = append(rows, Row{File: file, Package: name, OldVersion: "-", NewVersion: version, Kind: "Added"})
	}
	for _, line := range changes.Removed {
		name, version := split(line)
		rows = append(rows, Row{File: file, Package: name, OldVersion: version, NewVersion: "-", Kind: "Removed"})
	}

	return rows
}

func splitArrow(change string) (string, string, bool) {
	idx := strings.Index(change, Arrow)
	if idx < 0 {
		return "", "", false
	}
	return change[:idx], change[idx+len(Arrow):], true
}

// String implements a compact form for logging
func (r Row) String() string {
	return fmt.Sprintf("%s %s %s %s %s", r.File, r.Package, r.OldVersion, r.NewVersion, r.Kind)
}
