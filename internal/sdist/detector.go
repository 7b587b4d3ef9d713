package sdist

import (
	"bytes"
	"os"
	"strings"
)

// ArchiveKind is the container format of a distribution file
type ArchiveKind int

const (
	ArchiveUnknown ArchiveKind = iota
	ArchiveTarGz
	ArchiveTarXz
	ArchiveZip
)

// String returns the string representation of ArchiveKind
func (k ArchiveKind) String() string {
	switch k {
	case ArchiveTarGz:
		return "tar.gz"
	case ArchiveTarXz:
		return "tar.xz"
	case ArchiveZip:
		return "zip"
	default:
		return "unknown"
	}
}

// Magic bytes for archive detection
var (
	// Gzip magic bytes (.tar.gz sdists)
	gzipMagic = []byte{0x1F, 0x8B}

	// XZ magic bytes (.tar.xz sdists)
	xzMagic = []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}

	// Zip magic bytes (wheels and .zip sdists)
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}
)

// DetectArchiveKind determines the container format based on magic bytes
// and file extension
func DetectArchiveKind(path string) (ArchiveKind, error) {
	f, err := os.Open(path)
	if err != nil {
		return ArchiveUnknown, err
	}
	defer f.Close()

	header := make([]byte, 8)
	n, err := f.Read(header)
	if err != nil && n == 0 {
		return ArchiveUnknown, err
	}
	header = header[:n]

	name := strings.ToLower(path)

	if bytes.HasPrefix(header, gzipMagic) || strings.HasSuffix(name, ".tar.gz") || strings.HasSuffix(name, ".tgz") {
		return ArchiveTarGz, nil
	}
	if bytes.HasPrefix(header, xzMagic) || strings.HasSuffix(name, ".tar.xz") {
		return ArchiveTarXz, nil
	}
	if bytes.HasPrefix(header, zipMagic) || strings.HasSuffix(name, ".whl") || strings.HasSuffix(name, ".zip") {
		return ArchiveZip, nil
	}

	return ArchiveUnknown, nil
}
