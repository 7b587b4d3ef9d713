// Package license resolves license information from package metadata.
package license

import (
	"strings"

	"github.com/pipscout/pipscout/internal/models"
)

// Result is the outcome of a license lookup
type Result struct {
	License string `json:"license,omitempty"`
	// Source names the metadata field the license came from
	Source string `json:"source,omitempty"`
	// RepositoryURL is offered as a fallback search target when no
	// license field is usable
	RepositoryURL string `json:"repository_url,omitempty"`
}

// Found reports whether a usable license was resolved
func (r Result) Found() bool {
	return r.License != ""
}

// Placeholder values that count as "no license declared"
var placeholders = map[string]bool{
	"":        true,
	"unknown": true,
	"none":    true,
	"null":    true,
}

// Project URL keys checked for a source repository, in order
var repositoryKeys = []string{"Source", "Repository", "Source Code"}

// Forge hosts accepted when falling back to the home page
var forgeHosts = []string{"github.com", "gitlab.com", "bitbucket.org"}

const troveLicensePrefix = "License :: "

// Resolve finds the license for a snapshot. Precedence: the SPDX
// license_expression field, then the legacy license field, then trove
// License classifiers. When all are missing it reports the source
// repository URL, if any, for a manual search.
func Resolve(meta *models.PackageMetadata) Result {
	if expr := clean(meta.LicenseExpression); expr != "" {
		return Result{License: expr, Source: "license_expression"}
	}
	if lic := clean(meta.License); lic != "" {
		return Result{License: lic, Source: "license"}
	}
	if lic := fromClassifiers(meta.Classifiers); lic != "" {
		return Result{License: lic, Source: "classifiers"}
	}
	return Result{RepositoryURL: repositoryURL(meta)}
}

func clean(value string) string {
	value = strings.TrimSpace(value)
	if placeholders[strings.ToLower(value)] {
		return ""
	}
	return value
}

// fromClassifiers extracts the most specific License trove entry
func fromClassifiers(classifiers []string) string {
	for _, cl := range classifiers {
		if !strings.HasPrefix(cl, troveLicensePrefix) {
			continue
		}
		// Last segment is the concrete license name
		parts := strings.Split(cl, " :: ")
		name := strings.TrimSpace(parts[len(parts)-1])
		if name != "" && !strings.EqualFold(name, "OSI Approved") {
			return name
		}
	}
	return ""
}

// repositoryURL extracts a source repository URL from project metadata
func repositoryURL(meta *models.PackageMetadata) string {
	for _, key := range repositoryKeys {
		if url, ok := meta.ProjectURLs[key]; ok && url != "" {
			return url
		}
	}
	for _, host := range forgeHosts {
		if strings.Contains(meta.HomePage, host) {
			return meta.HomePage
		}
	}
	return ""
}
