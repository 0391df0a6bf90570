package pkg_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/photo-trips/pkg"
)

var (
	parisCoord  = &pkg.Coordinate{Lat: 48.8566, Lon: 2.3522}
	londonCoord = &pkg.Coordinate{Lat: 51.5074, Lon: -0.1278}
)

func record(id string, capturedAt time.Time, loc *pkg.Coordinate) pkg.MediaRecord {
	return pkg.MediaRecord{
		Identifier:   id,
		CapturedAt:   capturedAt,
		Location:     loc,
		SizeBytes:    1,
		NamingPrefix: "img_" + capturedAt.Format(pkg.CaptureStampLayout),
	}
}

func day(d int, hour int) time.Time {
	return time.Date(2024, time.June, d, hour, 0, 0, 0, time.UTC)
}

func TestClusterTripsEmptyInput(t *testing.T) {
	assert.Empty(t, pkg.ClusterTrips(nil))
}

func TestClusterTripsSingleRecord(t *testing.T) {
	trips := pkg.ClusterTrips([]pkg.MediaRecord{record("a", day(1, 12), nil)})
	require.Len(t, trips, 1)
	assert.Len(t, trips[0].Records, 1)
	assert.Equal(t, "a", trips[0].Records[0].Identifier)
}

func TestClusterTripsDateGapSplits(t *testing.T) {
	records := []pkg.MediaRecord{
		record("day1", day(1, 10), parisCoord),
		record("day2", day(2, 10), parisCoord),
		record("day10", day(10, 10), parisCoord),
	}

	trips := pkg.ClusterTrips(records)

	require.Len(t, trips, 2)
	assert.Len(t, trips[0].Records, 2)
	assert.Len(t, trips[1].Records, 1)
	assert.Equal(t, "day10", trips[1].Records[0].Identifier)
}

func TestClusterTripsDistanceSplits(t *testing.T) {
	records := []pkg.MediaRecord{
		record("paris", day(1, 10), parisCoord),
		record("london", day(1, 15), londonCoord),
	}

	trips := pkg.ClusterTrips(records)

	require.Len(t, trips, 2)
}

func TestClusterTripsMissingLocations(t *testing.T) {
	t.Run("both absent counts as same location", func(t *testing.T) {
		records := []pkg.MediaRecord{
			record("a", day(1, 10), nil),
			record("b", day(1, 11), nil),
		}
		trips := pkg.ClusterTrips(records)
		require.Len(t, trips, 1)
		assert.Len(t, trips[0].Records, 2)
	})

	t.Run("present next to absent splits", func(t *testing.T) {
		records := []pkg.MediaRecord{
			record("a", day(1, 10), parisCoord),
			record("b", day(1, 11), nil),
		}
		trips := pkg.ClusterTrips(records)
		require.Len(t, trips, 2)
	})
}

// A trip is allowed to drift: each record is compared only to its immediate
// predecessor, so a chain of sub-threshold hops can end far from where it
// started. This is a guard against "compare to trip start" rewrites.
func TestClusterTripsAllowsGradualDrift(t *testing.T) {
	hop := func(lon float64) *pkg.Coordinate { return &pkg.Coordinate{Lat: 0, Lon: lon} }
	records := []pkg.MediaRecord{
		record("a", day(1, 10), hop(0)),
		record("b", day(1, 12), hop(0.35)),
		record("c", day(2, 10), hop(0.70)),
	}

	// Consecutive hops are below the 50 km threshold, the endpoints are not.
	require.Less(t, pkg.Haversine(0, 0, 0, 0.35), 50.0)
	require.Greater(t, pkg.Haversine(0, 0, 0, 0.70), 50.0)

	trips := pkg.ClusterTrips(records)

	require.Len(t, trips, 1)
	assert.Len(t, trips[0].Records, 3)
}

// The trips of a clustering run, concatenated in order, must equal the input
// exactly; every trip must be internally date-sorted; every boundary pair must
// violate the adjacency predicate.
func TestClusterTripsPartitionInvariants(t *testing.T) {
	records := []pkg.MediaRecord{
		record("a", day(1, 9), parisCoord),
		record("b", day(1, 18), parisCoord),
		record("c", day(2, 10), nil),
		record("d", day(3, 10), nil),
		record("e", day(3, 12), londonCoord),
		record("f", day(20, 10), londonCoord),
	}

	trips := pkg.ClusterTrips(records)
	require.NotEmpty(t, trips)

	var flattened []string
	for _, trip := range trips {
		require.NotEmpty(t, trip.Records)
		for i := 1; i < len(trip.Records); i++ {
			assert.False(t, trip.Records[i].CapturedAt.Before(trip.Records[i-1].CapturedAt),
				"records within a trip must be sorted ascending")
		}
		for _, rec := range trip.Records {
			flattened = append(flattened, rec.Identifier)
		}
	}

	want := make([]string, 0, len(records))
	for _, rec := range records {
		want = append(want, rec.Identifier)
	}
	assert.Equal(t, want, flattened, "trips must partition the input with nothing dropped or duplicated")

	for i := 1; i < len(trips); i++ {
		last := trips[i-1].Records[len(trips[i-1].Records)-1]
		first := trips[i].Records[0]
		assert.False(t, adjacent(last, first),
			"boundary between trip %d and %d must violate the adjacency predicate", i-1, i)
	}
}

// adjacent mirrors the clustering predicate for boundary assertions: at most
// one calendar day apart and same location (both coordinates within 50 km, or
// both absent).
func adjacent(prev, curr pkg.MediaRecord) bool {
	prevDay := prev.CapturedAt.Truncate(24 * time.Hour)
	currDay := curr.CapturedAt.Truncate(24 * time.Hour)
	days := int(currDay.Sub(prevDay).Hours() / 24)
	if days < 0 || days > 1 {
		return false
	}
	if prev.Location == nil && curr.Location == nil {
		return true
	}
	if prev.Location == nil || curr.Location == nil {
		return false
	}
	return pkg.Haversine(prev.Location.Lat, prev.Location.Lon, curr.Location.Lat, curr.Location.Lon) < 50
}

func TestGroupByYear(t *testing.T) {
	records := []pkg.MediaRecord{
		record("late23", time.Date(2023, time.December, 31, 23, 0, 0, 0, time.UTC), nil),
		record("b24", day(2, 8), nil),
		record("a24", day(1, 8), nil),
	}

	byYear := pkg.GroupByYear(records)

	require.Len(t, byYear, 2)
	require.Len(t, byYear[2023], 1)
	require.Len(t, byYear[2024], 2)
	assert.Equal(t, "a24", byYear[2024][0].Identifier, "each year must be sorted by capture time")
	assert.Equal(t, "b24", byYear[2024][1].Identifier)
}
