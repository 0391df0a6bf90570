package pkg_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/user/photo-trips/pkg"
)

func TestParseCanonicalName(t *testing.T) {
	tests := []struct {
		name       string
		fileName   string
		wantOK     bool
		wantPrefix string
		wantTime   time.Time
	}{
		{
			name:       "valid canonical name",
			fileName:   "img_20240601_120000_0.jpg",
			wantOK:     true,
			wantPrefix: "img_20240601_120000",
			wantTime:   time.Date(2024, time.June, 1, 12, 0, 0, 0, time.Local),
		},
		{
			name:       "higher sequence number",
			fileName:   "img_20231224_083015_12.png",
			wantOK:     true,
			wantPrefix: "img_20231224_083015",
			wantTime:   time.Date(2023, time.December, 24, 8, 30, 15, 0, time.Local),
		},
		{name: "missing sequence number", fileName: "img_20240601_120000.jpg", wantOK: false},
		{name: "wrong prefix", fileName: "IMG_20240601_120000_0.jpg", wantOK: false},
		{name: "short date", fileName: "img_2024_120000_0.jpg", wantOK: false},
		{name: "impossible date", fileName: "img_20241345_250000_0.jpg", wantOK: false},
		{name: "plain photo name", fileName: "holiday.jpg", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capturedAt, prefix, ok := pkg.ParseCanonicalName(tt.fileName)
			if ok != tt.wantOK {
				t.Fatalf("ParseCanonicalName(%q) ok = %v, want %v", tt.fileName, ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if prefix != tt.wantPrefix {
				t.Errorf("prefix = %q, want %q", prefix, tt.wantPrefix)
			}
			if !capturedAt.Equal(tt.wantTime) {
				t.Errorf("capturedAt = %v, want %v", capturedAt, tt.wantTime)
			}
		})
	}
}

func TestScanCandidates(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name string, size int) {
		if err := os.WriteFile(filepath.Join(tmpDir, name), make([]byte, size), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	write("img_20240601_120000_0.jpg", 100)
	write("img_20240601_120000_1.jpg", 100)
	write("img_20240602_090000_0.jpg", 250)
	write("holiday.jpg", 50)        // not canonical, ignored
	write("img_notadate_0.jpg", 50) // not canonical, ignored
	if err := os.Mkdir(filepath.Join(tmpDir, "img_20240601_120000_9.jpg"), 0755); err != nil {
		t.Fatalf("Failed to create decoy directory: %v", err)
	}

	records, err := pkg.ScanCandidates(tmpDir)
	if err != nil {
		t.Fatalf("ScanCandidates() error: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("ScanCandidates() returned %d records, want 3", len(records))
	}

	wantOrder := []string{
		"img_20240601_120000_0.jpg",
		"img_20240601_120000_1.jpg",
		"img_20240602_090000_0.jpg",
	}
	for i, rec := range records {
		if rec.Identifier != wantOrder[i] {
			t.Errorf("records[%d] = %s, want %s (scan must be name-sorted)", i, rec.Identifier, wantOrder[i])
		}
	}

	first := records[0]
	if first.NamingPrefix != "img_20240601_120000" {
		t.Errorf("NamingPrefix = %q, want img_20240601_120000", first.NamingPrefix)
	}
	if first.SizeBytes != 100 {
		t.Errorf("SizeBytes = %d, want 100", first.SizeBytes)
	}
	if records[2].SizeBytes != 250 {
		t.Errorf("SizeBytes = %d, want 250", records[2].SizeBytes)
	}
	if first.Location != nil {
		t.Errorf("scan must not populate locations, got %v", first.Location)
	}
}

func TestScanCandidatesMissingFolder(t *testing.T) {
	if _, err := pkg.ScanCandidates(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Errorf("ScanCandidates on a missing folder: expected error, got nil")
	}
}
