package models

// ArtifactKind distinguishes source distributions from built wheels
type ArtifactKind int

const (
	KindUnknown ArtifactKind = iota
	KindSdist
	KindWheel
)

// String returns the string representation of ArtifactKind
func (k ArtifactKind) String() string {
	switch k {
	case KindSdist:
		return "sdist"
	case KindWheel:
		return "wheel"
	default:
		return "unknown"
	}
}

// Artifact represents one distribution file published for a package version
type Artifact struct {
	Filename    string
	Kind        ArtifactKind
	PlatformTag string // e.g. "any", "manylinux_2_17_x86_64"; empty when unparseable
	Size        int64
	SHA256Sum   string
	URL         string
}

// Universal reports whether the artifact is a pre-built wheel usable on any
// platform. Artifacts with unparseable platform tags count as neither
// universal nor platform-specific.
func (a Artifact) Universal() bool {
	return a.Kind == KindWheel && a.PlatformTag == "any"
}

// PlatformSpecific reports whether the artifact is a wheel built for a
// concrete platform.
func (a Artifact) PlatformSpecific() bool {
	return a.Kind == KindWheel && a.PlatformTag != "" && a.PlatformTag != "any"
}

// Dependency is a single declared requirement (one level, no resolution)
type Dependency struct {
	Name       string
	Constraint string // raw specifier remainder, e.g. ">=1.21,<2"
}

// PackageMetadata is an immutable snapshot of one published (name, version)
// record. When the caller omits the version, the index resolves it to the
// latest release before the snapshot is constructed.
type PackageMetadata struct {
	Name        string
	Version     string
	Summary     string
	Keywords    []string
	Classifiers []string

	// License fields: PEP 639 expression and the legacy free-text field
	LicenseExpression string
	License           string

	ProjectURLs map[string]string
	HomePage    string

	Dependencies []Dependency
	Artifacts    []Artifact
}

// HasSdist reports whether any source distribution was published
func (m *PackageMetadata) HasSdist() bool {
	for _, a := range m.Artifacts {
		if a.Kind == KindSdist {
			return true
		}
	}
	return false
}

// HasBuiltArtifact reports whether any wheel (universal or platform) exists
func (m *PackageMetadata) HasBuiltArtifact() bool {
	for _, a := range m.Artifacts {
		if a.Kind == KindWheel {
			return true
		}
	}
	return false
}

// HasUniversalArtifact reports whether a none-any wheel exists
func (m *PackageMetadata) HasUniversalArtifact() bool {
	for _, a := range m.Artifacts {
		if a.Universal() {
			return true
		}
	}
	return false
}

// Validate rejects structurally invalid snapshots before classification
func (m *PackageMetadata) Validate() error {
	if m == nil || m.Name == "" {
		return &PipscoutError{
			Type: ErrMalformedMetadata,
			Err:  ErrMissingName,
		}
	}
	return nil
}
