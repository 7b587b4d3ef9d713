// Package sdist inspects local source distributions and wheels for
// build-system signals, refining a complexity assessment without touching
// the network.
package sdist

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz"

	"github.com/pipscout/pipscout/internal/classifier"
)

// Member files whose contents are scanned for build-backend tokens
var buildFiles = map[string]bool{
	"setup.py":       true,
	"pyproject.toml": true,
	"setup.cfg":      true,
}

// Member-content size limit; build files beyond this are name-matched only
const maxBuildFileSize = 1 << 20

// signalPattern maps a file-name signal to a marker category
type signalPattern struct {
	Category string
	Suffixes []string
	Names    []string
}

var signalPatterns = []signalPattern{
	{Category: "C", Suffixes: []string{".c", ".h"}},
	{Category: "C++", Suffixes: []string{".cc", ".cpp", ".cxx", ".hpp"}},
	{Category: "Rust", Names: []string{"Cargo.toml"}},
	{Category: "Fortran", Suffixes: []string{".f", ".f77", ".f90", ".f03"}},
	{Category: "Cython", Suffixes: []string{".pyx", ".pxd"}},
	{Category: "CMake", Names: []string{"CMakeLists.txt"}},
}

// Build-backend tokens searched in setup.py / pyproject.toml contents
var backendTokens = map[string]string{
	"ext_modules":     "native extension modules",
	"Extension(":      "native extension modules",
	"cffi":            "cffi bindings",
	"cython":          "Cython build step",
	"maturin":         "Rust (maturin) backend",
	"setuptools-rust": "Rust (setuptools-rust) backend",
	"setuptools_rust": "Rust (setuptools-rust) backend",
	"scikit-build":    "CMake (scikit-build) backend",
	"cmake":           "CMake driven build",
}

// Report is the result of inspecting one local archive
type Report struct {
	Archive    string   `json:"archive"`
	Kind       string   `json:"kind"`
	Members    int      `json:"members"`
	Score      int      `json:"score"`
	Indicators []string `json:"indicators"`
}

// Inspector scans archives using the same weights as the classifier so
// offline findings stay comparable with index-derived scores.
type Inspector struct {
	cfg classifier.Config
}

// NewInspector creates an Inspector with the given scoring configuration
func NewInspector(cfg classifier.Config) *Inspector {
	return &Inspector{cfg: cfg}
}

// Inspect opens a local sdist or wheel and scans member names and build
// files for native-build signals.
func (in *Inspector) Inspect(archivePath string) (*Report, error) {
	kind, err := DetectArchiveKind(archivePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", archivePath)
	}
	if kind == ArchiveUnknown {
		return nil, errors.Errorf("unrecognized archive format: %s", archivePath)
	}

	var members []member
	switch kind {
	case ArchiveZip:
		members, err = readZipMembers(archivePath)
	default:
		members, err = readTarMembers(archivePath, kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", archivePath)
	}

	logrus.Debugf("Scanned %d members in %s", len(members), archivePath)

	categories := map[string][]string{}
	for _, m := range members {
		base := path.Base(m.name)
		for _, pattern := range signalPatterns {
			if pattern.matches(base) {
				categories[pattern.Category] = append(categories[pattern.Category], base)
			}
		}
	}

	backendHits := map[string]bool{}
	for _, m := range members {
		if !buildFiles[path.Base(m.name)] || len(m.contents) == 0 {
			continue
		}
		contents := strings.ToLower(string(m.contents))
		for token, description := range backendTokens {
			if strings.Contains(contents, strings.ToLower(token)) {
				backendHits[description] = true
			}
		}
	}

	report := &Report{
		Archive:    archivePath,
		Kind:       kind.String(),
		Members:    len(members),
		Indicators: []string{},
	}

	for _, category := range sortedKeys(categories) {
		files := categories[category]
		report.Score += in.cfg.LanguageWeight
		report.Indicators = append(report.Indicators,
			fmt.Sprintf("%s sources (%d files, e.g. %s): +%d",
				category, len(files), files[0], in.cfg.LanguageWeight))
	}
	for _, description := range sortedBoolKeys(backendHits) {
		report.Score += in.cfg.LanguageWeight
		report.Indicators = append(report.Indicators,
			fmt.Sprintf("build configuration declares %s: +%d", description, in.cfg.LanguageWeight))
	}

	return report, nil
}

func (p signalPattern) matches(base string) bool {
	for _, name := range p.Names {
		if base == name {
			return true
		}
	}
	lower := strings.ToLower(base)
	for _, suffix := range p.Suffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

type member struct {
	name     string
	contents []byte // only populated for build files
}

func readTarMembers(archivePath string, kind ArchiveKind) ([]member, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reader io.Reader
	switch kind {
	case ArchiveTarGz:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	case ArchiveTarXz:
		xzr, err := xz.NewReader(f)
		if err != nil {
			return nil, err
		}
		reader = xzr
	default:
		return nil, errors.Errorf("not a tar archive: %s", kind)
	}

	var members []member
	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		m := member{name: hdr.Name}
		if buildFiles[path.Base(hdr.Name)] && hdr.Size <= maxBuildFileSize {
			contents, err := io.ReadAll(tr)
			if err != nil {
				return nil, err
			}
			m.contents = contents
		}
		members = append(members, m)
	}
	return members, nil
}

func readZipMembers(archivePath string) ([]member, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var members []member
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		m := member{name: zf.Name}
		if buildFiles[path.Base(zf.Name)] && zf.UncompressedSize64 <= maxBuildFileSize {
			rc, err := zf.Open()
			if err != nil {
				return nil, err
			}
			contents, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, err
			}
			m.contents = contents
		}
		members = append(members, m)
	}
	return members, nil
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedBoolKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
