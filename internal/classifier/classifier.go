// Package classifier maps a published package metadata snapshot to a
// build-complexity assessment. The scoring is a heuristic: compiled-language
// markers in classifiers and keywords, a hand-maintained heavy-package table,
// artifact coverage, and a one-level scan of declared dependencies. It is a
// pure function of its input; metadata retrieval failures are the caller's
// problem and are never converted into a low-complexity result.
package classifier

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pipscout/pipscout/internal/models"
)

// Classifier scores PackageMetadata snapshots against a fixed Config
type Classifier struct {
	cfg Config
}

// New creates a Classifier with the given scoring configuration
func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// NewDefault creates a Classifier with the built-in configuration
func NewDefault() *Classifier {
	return New(DefaultConfig())
}

// Assess computes a ComplexityAssessment for the snapshot. It fails only on
// structurally invalid input; every well-formed snapshot yields a complete
// assessment.
func (c *Classifier) Assess(meta *models.PackageMetadata) (*models.ComplexityAssessment, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	score := 0
	indicators := []string{}

	// Language markers over classifiers, keywords and the summary.
	// Each category counts once no matter how many tokens match.
	haystack := markerHaystack(meta)
	for _, marker := range c.cfg.Markers {
		if token, ok := matchMarker(marker, haystack); ok {
			score += c.cfg.LanguageWeight
			indicators = append(indicators,
				fmt.Sprintf("%s signals in metadata (matched %q): +%d", marker.Category, token, c.cfg.LanguageWeight))
		}
	}

	// Known heavy packages, matched by normalized name
	if bonus, ok := c.cfg.HeavyPackages[NormalizeName(meta.Name)]; ok {
		score += bonus
		indicators = append(indicators,
			fmt.Sprintf("known heavy package %q: +%d", meta.Name, bonus))
	}

	// Artifact coverage. A missing sdist only matters when no universal
	// wheel can stand in for a source build.
	if !meta.HasSdist() && !meta.HasUniversalArtifact() {
		score += c.cfg.NoSdistWeight
		indicators = append(indicators,
			fmt.Sprintf("no source distribution published: +%d", c.cfg.NoSdistWeight))
	}
	if !meta.HasUniversalArtifact() && hasPlatformWheel(meta) {
		score += c.cfg.PlatformOnlyWeight
		indicators = append(indicators,
			fmt.Sprintf("only platform-specific wheels published: +%d", c.cfg.PlatformOnlyWeight))
	}

	// One-level dependency scan against the same marker table, capped
	depScore := 0
	var flagged []string
	for _, dep := range meta.Dependencies {
		name := strings.ToLower(dep.Name)
		if name == "" {
			continue
		}
		for _, marker := range c.cfg.Markers {
			if _, ok := matchMarker(marker, []string{name}); ok {
				depScore += c.cfg.DependencyWeight
				flagged = append(flagged, dep.Name)
				break
			}
		}
	}
	if depScore > c.cfg.DependencyCap {
		depScore = c.cfg.DependencyCap
	}
	if depScore > 0 {
		sort.Strings(flagged)
		score += depScore
		indicators = append(indicators,
			fmt.Sprintf("native-looking dependencies (%s): +%d", strings.Join(flagged, ", "), depScore))
	}

	assessment := &models.ComplexityAssessment{
		Package:        meta.Name,
		Version:        meta.Version,
		Score:          score,
		Indicators:     indicators,
		Classification: c.classify(score),
		Strategy:       c.strategy(score, meta),
	}

	return assessment, nil
}

// classify buckets a score; exact thresholds resolve downward (a score equal
// to LowMax is still low).
func (c *Classifier) classify(score int) models.Classification {
	switch {
	case score <= c.cfg.LowMax:
		return models.ClassLow
	case score <= c.cfg.MediumMax:
		return models.ClassMedium
	default:
		return models.ClassHigh
	}
}

func (c *Classifier) strategy(score int, meta *models.PackageMetadata) models.Strategy {
	// Nothing published at all: nothing to recommend
	if !meta.HasSdist() && !meta.HasBuiltArtifact() {
		return models.StrategyNeedsInvestigation
	}

	if c.classify(score) == models.ClassLow {
		if meta.HasBuiltArtifact() {
			return models.StrategyUseExisting
		}
		return models.StrategyBuildFromSource
	}

	// Medium/High: build it, unless building is impossible and a
	// pre-built artifact can stand in.
	if !meta.HasSdist() && meta.HasBuiltArtifact() {
		return models.StrategyUseExisting
	}
	return models.StrategyBuildFromSource
}

// markerHaystack collects the lowercased searchable fields of a snapshot
func markerHaystack(meta *models.PackageMetadata) []string {
	fields := make([]string, 0, len(meta.Classifiers)+len(meta.Keywords)+1)
	for _, cl := range meta.Classifiers {
		fields = append(fields, strings.ToLower(cl))
	}
	for _, kw := range meta.Keywords {
		fields = append(fields, strings.ToLower(kw))
	}
	if meta.Summary != "" {
		fields = append(fields, strings.ToLower(meta.Summary))
	}
	return fields
}

// matchMarker returns the first token of the marker found in any field.
// Trove-style tokens (containing "::") must match the whole classifier, so
// "programming language :: c" does not also fire on C++ or Cython entries;
// plain tokens match as substrings.
func matchMarker(marker LanguageMarker, fields []string) (string, bool) {
	for _, token := range marker.Tokens {
		trove := strings.Contains(token, "::")
		for _, field := range fields {
			if trove {
				if strings.TrimSpace(field) == token {
					return token, true
				}
				continue
			}
			if strings.Contains(field, token) {
				return token, true
			}
		}
	}
	return "", false
}

func hasPlatformWheel(meta *models.PackageMetadata) bool {
	for _, a := range meta.Artifacts {
		if a.PlatformSpecific() {
			return true
		}
	}
	return false
}

// NormalizeName canonicalizes a package name per the index convention:
// lowercase, runs of -, _ and . collapse to a single dash.
func NormalizeName(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(name) {
		if r == '-' || r == '_' || r == '.' {
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
			continue
		}
		lastDash = false
		b.WriteRune(r)
	}
	return b.String()
}
