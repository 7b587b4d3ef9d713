// Package requirements parses and compares pip requirements files and the
// Dockerfile build arguments that accompany them across release tags.
package requirements

import (
	"strings"
)

// Specifier separators, checked in order so "==" wins over "="
var specifiers = []string{"==", ">=", "<=", "~=", "!=", ">", "<", ";"}

// ParseLine splits a requirements line into (package name, full line).
// Comments and empty lines return ("", ""); special directives such as
// "-r other.txt" or "--extra-index-url" return ("", line) so callers can
// bucket them separately.
func ParseLine(line string) (name, full string) {
	line = strings.TrimSpace(line)

	if line == "" || strings.HasPrefix(line, "#") {
		return "", ""
	}
	if strings.HasPrefix(line, "-") {
		return "", line
	}

	for _, sep := range specifiers {
		if idx := strings.Index(line, sep); idx >= 0 {
			return strings.TrimSpace(line[:idx]), line
		}
	}
	return line, line
}

// PackageName strips the specifier, marker and comment portions of a line,
// leaving just the distribution name.
func PackageName(line string) string {
	name := line
	for _, sep := range []string{"==", ">=", "<=", ">", "<", ";", "#"} {
		if idx := strings.Index(name, sep); idx >= 0 {
			name = name[:idx]
		}
	}
	return strings.TrimSpace(name)
}

// VersionPart returns everything after the package name, without comments
func VersionPart(line string) string {
	rest := strings.TrimPrefix(line, PackageName(line))
	if idx := strings.Index(rest, "#"); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimSpace(rest)
}
