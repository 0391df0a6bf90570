// photodedupe removes duplicate images among canonically named files.
//
// Files are grouped by their capture prefix (img_YYYYMMDD_HHMMSS) and byte
// size; within each group the first file is kept and the rest are flagged.
// Before deleting anything in live mode, each flagged file is verified to be
// byte-identical to its retained representative; mismatches are kept.
//
// Usage:
//
//	photodedupe [--dry-run] <folder>
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/user/photo-trips/pkg"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Report duplicates without deleting anything")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: photodedupe [--dry-run] <folder>")
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

	records, err := pkg.ScanCandidates(folder)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	fmt.Printf("Found %d matching image file(s) in %s.\n", len(records), folder)

	resolution := pkg.ResolveDuplicates(records)
	for _, warning := range resolution.Warnings {
		log.Printf("Warning: %s", warning)
	}

	if len(resolution.Groups) == 0 {
		fmt.Println("No duplicates found.")
		return
	}

	byID := make(map[string]pkg.MediaRecord, len(records))
	for _, rec := range records {
		byID[rec.Identifier] = rec
	}

	plan := &pkg.Plan{}
	for _, group := range resolution.Groups {
		kept := byID[group.Retained()]
		fmt.Printf("\nGroup %s (%d bytes): keeping %s%s\n",
			group.Prefix, group.SizeBytes, kept.Identifier, describeResolution(kept.Path))
		for _, id := range group.Identifiers[1:] {
			dup := byID[id]
			fmt.Printf("  - Duplicate: %s\n", dup.Identifier)
			plan.Removals = append(plan.Removals, pkg.Removal{
				Path:      dup.Path,
				SizeBytes: dup.SizeBytes,
				KeptPath:  kept.Path,
			})
		}
	}

	if *dryRun {
		fmt.Printf("\nDry run complete: would remove %d duplicate(s), freeing %d bytes.\n",
			len(plan.Removals), plan.BytesFreed())
		return
	}

	result := plan.Apply()
	fmt.Printf("\nDone: removed %d duplicate(s), freed %d bytes.\n", result.FilesRemoved, result.BytesFreed)
	if result.Failures > 0 {
		fmt.Printf("Completed partially: %d file(s) were kept after errors or content mismatches.\n", result.Failures)
	}
}

// describeResolution renders the image dimensions of a retained file for the
// report, or nothing when the image cannot be decoded.
func describeResolution(path string) string {
	width, height, err := pkg.ProbeResolution(path)
	if err != nil {
		return ""
	}
	return fmt.Sprintf(" (%dx%d)", width, height)
}
