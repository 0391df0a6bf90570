package pkg

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
	"time"

	_ "github.com/vegidio/heif-go" // Register HEIF/HEVC decoder

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// ErrNoExifDate is returned when EXIF data is found but no suitable date tag is present.
var ErrNoExifDate = fmt.Errorf("no EXIF date tag found")

// ExtractCaptureDate extracts the capture date from a photo's EXIF data.
// It prioritizes DateTimeOriginal and falls back to DateTimeDigitized.
// Returns ErrNoExifDate if no suitable date tag is found.
func ExtractCaptureDate(photoPath string) (time.Time, error) {
	file, err := os.Open(photoPath)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to open file %s: %w", photoPath, err)
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to decode EXIF data from %s: %w", photoPath, err)
	}

	dateTag, err := x.Get(exif.DateTimeOriginal)
	if err == nil {
		return parseExifDateTime(dateTag)
	}

	dateTag, err = x.Get(exif.DateTimeDigitized)
	if err == nil {
		return parseExifDateTime(dateTag)
	}

	return time.Time{}, ErrNoExifDate
}

// parseExifDateTime is a helper to parse EXIF datetime strings.
// Handles "YYYY:MM:DD HH:MM:SS" and fallback "YYYY:MM:DD".
func parseExifDateTime(tag *tiff.Tag) (time.Time, error) {
	if tag == nil {
		return time.Time{}, fmt.Errorf("tag is nil")
	}
	dateStr, err := tag.StringVal() // Handles potential null terminators.
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get string value from EXIF date tag: %w", err)
	}

	layout := "2006:01:02 15:04:05" // Common EXIF datetime format
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		layoutDateOnly := "2006:01:02"
		t, errDateOnly := time.Parse(layoutDateOnly, dateStr)
		if errDateOnly != nil {
			return time.Time{}, fmt.Errorf("failed to parse EXIF date string '%s' with layout '%s' or '%s': %w", dateStr, layout, layoutDateOnly, err)
		}
		return t, nil
	}
	return t, nil
}

// ExtractLocation reads the GPS position from a photo's EXIF data.
// Any failure (unreadable file, no EXIF block, no GPS tags) is returned as an
// error; callers treat it as "location unknown" rather than aborting.
func ExtractLocation(photoPath string) (*Coordinate, error) {
	file, err := os.Open(photoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", photoPath, err)
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode EXIF data from %s: %w", photoPath, err)
	}

	lat, lon, err := x.LatLong()
	if err != nil {
		return nil, fmt.Errorf("no GPS position in %s: %w", photoPath, err)
	}
	return &Coordinate{Lat: lat, Lon: lon}, nil
}

// FileDate determines the best available date for an image file: the EXIF
// capture date when present, otherwise the file modification time.
// The returned source is "EXIF" or "FileModTime".
func FileDate(photoPath string) (date time.Time, source string, err error) {
	exifDate, exifErr := ExtractCaptureDate(photoPath)
	if exifErr == nil {
		return exifDate, "EXIF", nil
	}

	info, statErr := os.Stat(photoPath)
	if statErr != nil {
		return time.Time{}, "", fmt.Errorf("failed to stat %s: %w", photoPath, statErr)
	}
	return info.ModTime(), "FileModTime", nil
}

// ProbeResolution decodes the image configuration to get its width and height.
// Supports JPEG, PNG, GIF and HEIC via the registered decoders.
func ProbeResolution(filePath string) (width int, height int, err error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open image file %s for resolution: %w", filePath, err)
	}
	defer file.Close()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		// Unrecognized format or corrupted image data.
		return 0, 0, fmt.Errorf("failed to decode image config for %s: %w", filePath, err)
	}

	return config.Width, config.Height, nil
}
