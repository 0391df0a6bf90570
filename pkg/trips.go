package pkg

import (
	"sort"
	"time"
)

// sameLocationThresholdKm is the haversine distance below which two
// consecutive records count as taken at the same place.
const sameLocationThresholdKm = 50.0

// Trip is a maximal contiguous run of date-sorted records where every
// consecutive pair is at most one calendar day apart and passes the
// same-location check.
type Trip struct {
	Records []MediaRecord
}

// Start returns the capture time of the trip's first record.
func (t Trip) Start() time.Time {
	return t.Records[0].CapturedAt
}

// FirstLocation returns the coordinate of the trip's first record, or nil.
// The geocoder resolves a place name from this single coordinate, so external
// lookups stay bounded by the number of trips rather than the number of files.
func (t Trip) FirstLocation() *Coordinate {
	return t.Records[0].Location
}

// GroupByYear splits records into per-year buckets, each sorted ascending by
// capture time (ties broken by identifier so the order is reproducible).
func GroupByYear(records []MediaRecord) map[int][]MediaRecord {
	byYear := make(map[int][]MediaRecord)
	for _, rec := range records {
		year := rec.CapturedAt.Year()
		byYear[year] = append(byYear[year], rec)
	}
	for _, recs := range byYear {
		sort.Slice(recs, func(i, j int) bool {
			if !recs[i].CapturedAt.Equal(recs[j].CapturedAt) {
				return recs[i].CapturedAt.Before(recs[j].CapturedAt)
			}
			return recs[i].Identifier < recs[j].Identifier
		})
	}
	return byYear
}

// ClusterTrips partitions records, already restricted to one calendar year and
// sorted ascending by capture time, into trips.
//
// The scan is greedy with a one-record lookback: each record is compared only
// to its immediate predecessor, never to the trip's first record. A trip can
// therefore drift gradually: its first and last record may end up more than
// the distance threshold apart or span many days. That is intentional: the
// boundary condition is consecutive-pair similarity, not proximity to a trip
// anchor.
func ClusterTrips(records []MediaRecord) []Trip {
	if len(records) == 0 {
		return nil
	}

	trips := make([]Trip, 0, 4)
	current := Trip{Records: []MediaRecord{records[0]}}
	for i := 1; i < len(records); i++ {
		prev := records[i-1]
		curr := records[i]

		dateDiff := calendarDaysApart(prev.CapturedAt, curr.CapturedAt)
		if (dateDiff == 0 || dateDiff == 1) && sameLocation(prev, curr) {
			current.Records = append(current.Records, curr)
			continue
		}
		trips = append(trips, current)
		current = Trip{Records: []MediaRecord{curr}}
	}
	return append(trips, current)
}

// sameLocation reports whether two records count as taken at the same place:
// both coordinates present and within the distance threshold, or both absent.
func sameLocation(prev, curr MediaRecord) bool {
	if prev.Location == nil && curr.Location == nil {
		return true
	}
	if prev.Location == nil || curr.Location == nil {
		return false
	}
	dist := Haversine(prev.Location.Lat, prev.Location.Lon, curr.Location.Lat, curr.Location.Lon)
	return dist < sameLocationThresholdKm
}

// calendarDaysApart returns the number of calendar days between the dates of
// two timestamps, ignoring the time of day. Two shots at 23:59 and 00:01 are
// one day apart.
func calendarDaysApart(a, b time.Time) int {
	dayA := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	dayB := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(dayB.Sub(dayA).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}
