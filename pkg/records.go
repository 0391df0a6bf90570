package pkg

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// MediaRecord is one image file considered by the pipeline.
type MediaRecord struct {
	// Identifier is the file name within the scanned folder, unique per run.
	Identifier string
	// Path is the full path to the source file.
	Path string
	// CapturedAt is the capture timestamp parsed from the canonical file name.
	CapturedAt time.Time
	// Location is the GPS position from EXIF, or nil when unknown.
	Location *Coordinate
	// PlaceName is filled in lazily, once per trip, by the geocoder.
	PlaceName string
	// SizeBytes is the file size, or -1 when it could not be determined.
	SizeBytes int64
	// NamingPrefix is the capture-date portion of the file name shared by all
	// sequence-numbered shots of the same capture event, e.g. "img_20240601_120000".
	NamingPrefix string
}

// Coordinate is a GPS position in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// canonicalNamePattern matches the naming convention produced by photorename:
// img_YYYYMMDD_HHMMSS_N.ext, where N disambiguates same-second captures.
var canonicalNamePattern = regexp.MustCompile(`^img_(\d{8}_\d{6})_(\d+)\.(\w+)$`)

// CaptureStampLayout is the timestamp layout embedded in canonical file names.
const CaptureStampLayout = "20060102_150405"

// imageExtensions maps image file extensions handled by photorename to true.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".heic": true,
}

// IsImageExtension checks if the given filePath has a known image extension
// by comparing its lowercased extension against the imageExtensions map.
func IsImageExtension(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	return imageExtensions[ext]
}

// ParseCanonicalName parses a canonical file name into its capture timestamp and
// naming prefix. ok is false for names that do not follow the convention; such
// files are simply not candidates for the pipeline.
func ParseCanonicalName(name string) (capturedAt time.Time, prefix string, ok bool) {
	m := canonicalNamePattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, "", false
	}
	t, err := time.ParseInLocation(CaptureStampLayout, m[1], time.Local)
	if err != nil {
		return time.Time{}, "", false
	}
	return t, "img_" + m[1], true
}

// ScanCandidates lists the files in folder that follow the canonical naming
// convention and builds a MediaRecord for each. Non-matching entries are ignored.
// A file whose size cannot be determined still yields a record, with SizeBytes
// set to -1 and a logged warning.
//
// The returned slice is ordered by file name ascending (os.ReadDir guarantees
// sorted output), which makes duplicate tie-breaking deterministic across
// platforms.
func ScanCandidates(folder string) ([]MediaRecord, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder %s: %w", folder, err)
	}

	records := make([]MediaRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		capturedAt, prefix, ok := ParseCanonicalName(name)
		if !ok {
			continue
		}

		size := int64(-1)
		if info, err := entry.Info(); err != nil {
			log.Printf("Warning: could not stat %s: %v. Size unknown.", name, err)
		} else {
			size = info.Size()
		}

		records = append(records, MediaRecord{
			Identifier:   name,
			Path:         filepath.Join(folder, name),
			CapturedAt:   capturedAt,
			SizeBytes:    size,
			NamingPrefix: prefix,
		})
	}
	return records, nil
}
