// phototrips groups canonically named images into dated, located trip folders.
//
// It scans a folder for files named img_YYYYMMDD_HHMMSS_N.ext, removes
// byte-identical duplicates, clusters the remaining shots into trips by
// temporal adjacency and GPS proximity, resolves one place name per trip via
// reverse geocoding, and moves each trip into <folder>/<year>/<YYYY_MM_PLACE>.
//
// Usage:
//
//	phototrips [--dry-run] <folder>
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/user/photo-trips/pkg"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Report intended actions without modifying the file system")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: phototrips [--dry-run] <folder>")
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

	plan, err := buildPlan(context.Background(), folder, pkg.NewNominatimGeocoder())
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	if *dryRun {
		if err := plan.Render(os.Stdout); err != nil {
			log.Fatalf("Error writing report: %v", err)
		}
		fmt.Printf("\nDry run complete: would create %d folders, move %d files and remove %d duplicates.\n",
			len(plan.Folders), len(plan.Moves), len(plan.Removals))
		return
	}

	result := plan.Apply()
	fmt.Printf("\nDone: created %d folders, moved %d files, removed %d duplicates (%d bytes freed).\n",
		result.FoldersCreated, result.FilesMoved, result.FilesRemoved, result.BytesFreed)
	if result.Failures > 0 {
		fmt.Printf("Completed partially: %d actions failed and were skipped, see log above.\n", result.Failures)
	}
}

// buildPlan runs the whole in-memory pipeline: scan, metadata extraction,
// duplicate resolution, per-year trip clustering, geocoding and folder naming.
// It performs no filesystem mutation.
func buildPlan(ctx context.Context, folder string, geocoder pkg.Geocoder) (*pkg.Plan, error) {
	records, err := pkg.ScanCandidates(folder)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Found %d matching image file(s) in %s.\n", len(records), folder)

	for i := range records {
		loc, err := pkg.ExtractLocation(records[i].Path)
		if err != nil {
			log.Printf("Warning: %v. Treating location as unknown.", err)
			continue
		}
		records[i].Location = loc
	}

	resolution := pkg.ResolveDuplicates(records)
	for _, warning := range resolution.Warnings {
		log.Printf("Warning: %s", warning)
	}

	byID := make(map[string]pkg.MediaRecord, len(records))
	for _, rec := range records {
		byID[rec.Identifier] = rec
	}

	plan := &pkg.Plan{}
	for _, group := range resolution.Groups {
		kept := byID[group.Retained()]
		for _, id := range group.Identifiers[1:] {
			dup := byID[id]
			plan.Removals = append(plan.Removals, pkg.Removal{
				Path:      dup.Path,
				SizeBytes: dup.SizeBytes,
				KeptPath:  kept.Path,
			})
		}
	}

	kept := make([]pkg.MediaRecord, 0, len(records))
	for _, rec := range records {
		if !resolution.ToRemove[rec.Identifier] {
			kept = append(kept, rec)
		}
	}

	byYear := pkg.GroupByYear(kept)
	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	for _, year := range years {
		trips := pkg.ClusterTrips(byYear[year])

		// One lookup per trip, not per record.
		locations := make([]string, len(trips))
		for i := range trips {
			locations[i] = pkg.TripLocation(ctx, geocoder, trips[i])
			trips[i].Records[0].PlaceName = locations[i]
		}

		counters := make(map[string]int)
		for _, a := range pkg.AssignFolders(trips, year, locations, counters) {
			destDir := filepath.Join(folder, strconv.Itoa(year), a.FolderName)
			plan.AddTrip(destDir, a.Trip)
		}
	}

	return plan, nil
}
