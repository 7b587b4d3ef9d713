package sdist

import (
	"archive/tar"
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/pipscout/pipscout/internal/classifier"
)

// writeTarGz builds a .tar.gz sdist fixture from name -> contents
func writeTarGz(t *testing.T, path string, files map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create fixture: %v", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	for name, contents := range files {
		hdr := &tar.Header{
			Name: name,
			Mode: 0644,
			Size: int64(len(contents)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("Failed to write header: %v", err)
		}
		if _, err := tw.Write([]byte(contents)); err != nil {
			t.Fatalf("Failed to write contents: %v", err)
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatalf("Failed to close tar: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("Failed to close gzip: %v", err)
	}
}

// writeZip builds a wheel/zip fixture from name -> contents
func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create fixture: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, contents := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to add member: %v", err)
		}
		if _, err := w.Write([]byte(contents)); err != nil {
			t.Fatalf("Failed to write member: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
}

func TestInspectPurePythonSdist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pure-1.0.tar.gz")
	writeTarGz(t, path, map[string]string{
		"pure-1.0/setup.py":         "from setuptools import setup\nsetup(name='pure')\n",
		"pure-1.0/pure/__init__.py": "",
		"pure-1.0/README.md":        "hello",
	})

	report, err := NewInspector(classifier.DefaultConfig()).Inspect(path)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	if report.Score != 0 {
		t.Errorf("Expected score 0 for pure package, got %d (%v)", report.Score, report.Indicators)
	}
	if report.Kind != "tar.gz" {
		t.Errorf("Expected tar.gz kind, got %s", report.Kind)
	}
	if report.Members != 3 {
		t.Errorf("Expected 3 members, got %d", report.Members)
	}
}

func TestInspectNativeSdist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "native-2.0.tar.gz")
	writeTarGz(t, path, map[string]string{
		"native-2.0/setup.py":        "from setuptools import setup, Extension\nsetup(ext_modules=[Extension('x', ['x.c'])])\n",
		"native-2.0/src/x.c":         "int main() { return 0; }",
		"native-2.0/src/fast.pyx":    "def fast(): pass",
		"native-2.0/rust/Cargo.toml": "[package]\nname = \"native\"",
		"native-2.0/CMakeLists.txt":  "project(native)",
	})

	cfg := classifier.DefaultConfig()
	report, err := NewInspector(cfg).Inspect(path)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	// C sources, Cython sources, Cargo.toml, CMakeLists.txt plus the
	// extension declaration in setup.py
	if report.Score < 4*cfg.LanguageWeight {
		t.Errorf("Expected a heavily native score, got %d (%v)", report.Score, report.Indicators)
	}

	found := false
	for _, ind := range report.Indicators {
		if strings.Contains(ind, "native extension modules") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a setup.py extension indicator, got %v", report.Indicators)
	}
}

func TestInspectWheel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkg-1.0-py3-none-any.whl")
	writeZip(t, path, map[string]string{
		"pkg/__init__.py":            "",
		"pkg-1.0.dist-info/METADATA": "Name: pkg",
	})

	report, err := NewInspector(classifier.DefaultConfig()).Inspect(path)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if report.Kind != "zip" {
		t.Errorf("Expected zip kind, got %s", report.Kind)
	}
	if report.Score != 0 {
		t.Errorf("Expected score 0, got %d (%v)", report.Score, report.Indicators)
	}
}

func TestInspectUnknownArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mystery.bin")
	if err := os.WriteFile(path, []byte("not an archive"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewInspector(classifier.DefaultConfig()).Inspect(path); err == nil {
		t.Fatal("Expected error for unknown archive format")
	}
}

func TestDetectArchiveKind(t *testing.T) {
	dir := t.TempDir()

	tarGz := filepath.Join(dir, "a.tar.gz")
	writeTarGz(t, tarGz, map[string]string{"a/setup.py": ""})

	zipFile := filepath.Join(dir, "b.whl")
	writeZip(t, zipFile, map[string]string{"b/__init__.py": ""})

	cases := map[string]ArchiveKind{
		tarGz:   ArchiveTarGz,
		zipFile: ArchiveZip,
	}
	for path, expected := range cases {
		kind, err := DetectArchiveKind(path)
		if err != nil {
			t.Fatalf("DetectArchiveKind(%s) failed: %v", path, err)
		}
		if kind != expected {
			t.Errorf("DetectArchiveKind(%s) = %s, expected %s", path, kind, expected)
		}
	}
}
