package classifier

import (
	"os"
	"path/filepath"
	"testing"
)

func writeScoringFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("Failed to write scoring file: %v", err)
	}
	return path
}

func TestLoadConfigOverridesWeights(t *testing.T) {
	path := writeScoringFile(t, `
language_weight: 5
medium_max: 9
heavy_packages:
  in-house-sim: 4
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.LanguageWeight != 5 {
		t.Errorf("Expected language_weight 5, got %d", cfg.LanguageWeight)
	}
	if cfg.MediumMax != 9 {
		t.Errorf("Expected medium_max 9, got %d", cfg.MediumMax)
	}
	// Untouched fields keep defaults
	if cfg.DependencyCap != DefaultConfig().DependencyCap {
		t.Errorf("dependency_cap should keep its default, got %d", cfg.DependencyCap)
	}
	// Heavy packages merge over the built-in table
	if cfg.HeavyPackages["in-house-sim"] != 4 {
		t.Errorf("Expected in-house-sim bonus 4, got %d", cfg.HeavyPackages["in-house-sim"])
	}
	if cfg.HeavyPackages["torch"] == 0 {
		t.Error("Built-in heavy packages should survive a merge")
	}
}

func TestLoadConfigRejectsBadThresholds(t *testing.T) {
	path := writeScoringFile(t, "low_max: 6\nmedium_max: 4\n")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("Expected error for out-of-order thresholds")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Expected error for missing scoring file")
	}
}

func TestLoadConfigZeroWeightIsRespected(t *testing.T) {
	// An explicit zero differs from an omitted field
	path := writeScoringFile(t, "no_sdist_weight: 0\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.NoSdistWeight != 0 {
		t.Errorf("Expected no_sdist_weight 0, got %d", cfg.NoSdistWeight)
	}
}
