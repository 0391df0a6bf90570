// photorename renames image files to the canonical img_YYYYMMDD_HHMMSS_N.ext
// form consumed by photodedupe and phototrips.
//
// The timestamp comes from the EXIF capture date when available, falling back
// to the file modification time. N is the smallest sequence number that does
// not collide with an existing file. Files that already follow the convention
// are left alone.
//
// Usage:
//
//	photorename [--dry-run] <folder>
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/user/photo-trips/pkg"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Report intended renames without modifying the file system")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: photorename [--dry-run] <folder>")
		os.Exit(2)
	}
	folder := flag.Arg(0)

	info, err := os.Stat(folder)
	if err != nil {
		if os.IsNotExist(err) {
			log.Fatalf("Error: Folder '%s' does not exist.", folder)
		}
		log.Fatalf("Error: Could not stat folder '%s': %v", folder, err)
	}
	if !info.IsDir() {
		log.Fatalf("Error: Path '%s' is not a directory.", folder)
	}

	renamed, skipped := renameFolder(folder, *dryRun)
	if *dryRun {
		fmt.Printf("\nDry run complete: would rename %d file(s), %d skipped.\n", renamed, skipped)
		return
	}
	fmt.Printf("\nDone: renamed %d file(s), %d skipped.\n", renamed, skipped)
}

// renameFolder walks the folder's direct entries and renames every image file
// that does not yet follow the canonical convention. Per-file failures are
// logged and counted as skipped; they never abort the batch.
func renameFolder(folder string, dryRun bool) (renamed, skipped int) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		log.Fatalf("Error: Could not read folder '%s': %v", folder, err)
	}

	// Names already taken, including renames planned earlier in this run so a
	// dry run reports the same sequence numbers a live run would assign.
	taken := make(map[string]bool, len(entries))
	for _, entry := range entries {
		taken[entry.Name()] = true
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !pkg.IsImageExtension(name) {
			continue
		}
		if _, _, ok := pkg.ParseCanonicalName(name); ok {
			continue
		}

		path := filepath.Join(folder, name)
		date, source, err := pkg.FileDate(path)
		if err != nil {
			log.Printf("Warning: could not determine date for %s: %v. Skipping.", name, err)
			skipped++
			continue
		}

		stamp := date.Format(pkg.CaptureStampLayout)
		ext := filepath.Ext(name)
		newName := ""
		for seq := 0; ; seq++ {
			candidate := fmt.Sprintf("img_%s_%d%s", stamp, seq, ext)
			if !taken[candidate] {
				newName = candidate
				break
			}
		}
		taken[newName] = true

		if dryRun {
			fmt.Printf("Would rename %s to %s (date from %s)\n", name, newName, source)
			renamed++
			continue
		}

		if err := os.Rename(path, filepath.Join(folder, newName)); err != nil {
			log.Printf("Error renaming %s to %s: %v. Skipping.", name, newName, err)
			skipped++
			continue
		}
		fmt.Printf("Renamed %s to %s (date from %s)\n", name, newName, source)
		renamed++
	}
	return renamed, skipped
}
