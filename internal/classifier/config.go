package classifier

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LanguageMarker is one compiled-language category matched against
// classifiers, keywords and dependency names. Matching is a fixed enumerated
// table rather than free-form sniffing so results stay deterministic.
type LanguageMarker struct {
	Category string   `yaml:"category"`
	Tokens   []string `yaml:"tokens"`
}

// Config holds the scoring weights and tables. The exact increments are a
// convention, not a contract; only the relative ordering of the resulting
// classifications is load-bearing, so everything here is adjustable.
type Config struct {
	// Points added once per matched language category
	LanguageWeight int `yaml:"language_weight"`
	// Points added per flagged dependency, and the cap on the total
	DependencyWeight int `yaml:"dependency_weight"`
	DependencyCap    int `yaml:"dependency_cap"`
	// Penalty when no source distribution exists
	NoSdistWeight int `yaml:"no_sdist_weight"`
	// Penalty when only platform-specific wheels exist
	PlatformOnlyWeight int `yaml:"platform_only_weight"`

	// Classification thresholds: score <= LowMax is low,
	// score <= MediumMax is medium, above is high.
	LowMax    int `yaml:"low_max"`
	MediumMax int `yaml:"medium_max"`

	// Known heavy packages, name -> bonus score. A pragmatic shortcut
	// maintained by hand, kept out of the algorithm itself.
	HeavyPackages map[string]int `yaml:"heavy_packages"`

	Markers []LanguageMarker `yaml:"markers"`
}

// DefaultConfig returns the built-in scoring configuration
func DefaultConfig() Config {
	return Config{
		LanguageWeight:     2,
		DependencyWeight:   1,
		DependencyCap:      3,
		NoSdistWeight:      2,
		PlatformOnlyWeight: 1,
		LowMax:             1,
		MediumMax:          4,
		HeavyPackages: map[string]int{
			"torch":         3,
			"tensorflow":    3,
			"scipy":         3,
			"numpy":         3,
			"pandas":        3,
			"opencv-python": 3,
			"pyarrow":       3,
			"grpcio":        3,
			"cryptography":  3,
			"pillow":        3,
			"lxml":          3,
			"vllm":          3,
		},
		Markers: []LanguageMarker{
			{Category: "C", Tokens: []string{"programming language :: c", "c extension", "cffi"}},
			{Category: "C++", Tokens: []string{"programming language :: c++", "c++", "cpp", "pybind11"}},
			{Category: "Rust", Tokens: []string{"programming language :: rust", "rust", "maturin", "pyo3"}},
			{Category: "Fortran", Tokens: []string{"programming language :: fortran", "fortran", "f2py"}},
			{Category: "Cython", Tokens: []string{"programming language :: cython", "cython"}},
			{Category: "CUDA/GPU", Tokens: []string{"cuda", "gpu", "nvidia", "rocm"}},
		},
	}
}

// LoadConfig reads a scoring override file and merges it over the defaults.
// Only the fields present in the file replace the built-in values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "failed to read scoring config")
	}

	var override struct {
		LanguageWeight     *int             `yaml:"language_weight"`
		DependencyWeight   *int             `yaml:"dependency_weight"`
		DependencyCap      *int             `yaml:"dependency_cap"`
		NoSdistWeight      *int             `yaml:"no_sdist_weight"`
		PlatformOnlyWeight *int             `yaml:"platform_only_weight"`
		LowMax             *int             `yaml:"low_max"`
		MediumMax          *int             `yaml:"medium_max"`
		HeavyPackages      map[string]int   `yaml:"heavy_packages"`
		Markers            []LanguageMarker `yaml:"markers"`
	}
	if err := yaml.Unmarshal(data, &override); err != nil {
		return cfg, errors.Wrap(err, "failed to parse scoring config")
	}

	if override.LanguageWeight != nil {
		cfg.LanguageWeight = *override.LanguageWeight
	}
	if override.DependencyWeight != nil {
		cfg.DependencyWeight = *override.DependencyWeight
	}
	if override.DependencyCap != nil {
		cfg.DependencyCap = *override.DependencyCap
	}
	if override.NoSdistWeight != nil {
		cfg.NoSdistWeight = *override.NoSdistWeight
	}
	if override.PlatformOnlyWeight != nil {
		cfg.PlatformOnlyWeight = *override.PlatformOnlyWeight
	}
	if override.LowMax != nil {
		cfg.LowMax = *override.LowMax
	}
	if override.MediumMax != nil {
		cfg.MediumMax = *override.MediumMax
	}
	// Extra heavy packages merge over the defaults instead of replacing them
	for name, bonus := range override.HeavyPackages {
		cfg.HeavyPackages[name] = bonus
	}
	if len(override.Markers) > 0 {
		cfg.Markers = override.Markers
	}

	if cfg.LowMax >= cfg.MediumMax {
		return cfg, errors.Errorf("scoring thresholds out of order: low_max %d >= medium_max %d", cfg.LowMax, cfg.MediumMax)
	}

	return cfg, nil
}
