package pkg

import (
	"fmt"
	"strings"
)

// FolderAssignment maps a trip to its destination folder name within the
// year's directory.
type FolderAssignment struct {
	Trip       Trip
	Location   string
	FolderName string
}

// SanitizeLocation makes a resolved place name safe for use in a folder name:
// every rune that is not ASCII-alphanumeric, '_' or '-' becomes '_'.
func SanitizeLocation(location string) string {
	var b strings.Builder
	b.Grow(len(location))
	for _, r := range location {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// AssignFolders produces a collision-free folder name for each trip of one
// processing year. locations must hold the resolved place name for the trip at
// the same index.
//
// The base name is YYYY_MM_LOCATION, taken from the trip's first record. The
// counters map tracks collisions per base name: the first trip with a base
// name gets the bare name, the next gets base_0, then base_1, and so on, in
// trip order. Callers pass a fresh map per year, which keeps the assignment a
// pure function of its inputs.
func AssignFolders(trips []Trip, year int, locations []string, counters map[string]int) []FolderAssignment {
	assignments := make([]FolderAssignment, 0, len(trips))
	for i, trip := range trips {
		location := locations[i]
		base := fmt.Sprintf("%d_%02d_%s", year, int(trip.Start().Month()), SanitizeLocation(location))

		var name string
		if n, seen := counters[base]; !seen {
			name = base
			counters[base] = 0
		} else {
			name = fmt.Sprintf("%s_%d", base, n)
			counters[base] = n + 1
		}

		assignments = append(assignments, FolderAssignment{
			Trip:       trip,
			Location:   location,
			FolderName: name,
		})
	}
	return assignments
}
