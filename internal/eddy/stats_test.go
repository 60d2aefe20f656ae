package eddy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceandata/eddytrack/internal/geo"
)

func TestStats(t *testing.T) {
	// Two equatorial tracks with one-degree steps, so every step distance
	// is exactly one degree of arc.
	set := NewObservationSet(5)
	copy(set.Track, []uint32{1, 1, 1, 2, 2})
	copy(set.Time, []int64{0, 1, 2, 0, 1})
	copy(set.Lon, []float64{0, 1, 2, 10, 12})
	set.Virtual[1] = true

	st := set.Stats()

	degKm := geo.EarthRadiusMeters * math.Pi / 180 / 1000

	assert.Equal(t, 2, st.NumTracks)
	assert.Equal(t, 5, st.NumObservations)
	assert.Equal(t, 1, st.NumVirtual)
	assert.InDelta(t, 2.5, st.ObsPerTrackMean, 1e-12)
	assert.Equal(t, int64(2), st.ShortestObs)
	assert.Equal(t, int64(3), st.LongestObs)

	// Both lifetimes land in the first bin.
	assert.Len(t, st.PctTracksPerLifetime, len(LifetimeBins)-1)
	assert.InDelta(t, 100, st.PctTracksPerLifetime[0], 1e-12)
	assert.InDelta(t, 100, st.PctObsPerLifetime[0], 1e-12)
	assert.InDelta(t, 0, st.PctTracksPerLifetime[1], 1e-12)

	// Steps are 1, 1 and 2 degrees; track totals are 2 degrees each.
	assert.InDelta(t, 4.0/3*degKm, st.DistancePerDayMean, 1e-6)
	assert.InDelta(t, degKm, st.DistancePerDayMedian, 1e-6)
	assert.InDelta(t, 2*degKm, st.DistancePerTrackMean, 1e-6)
	assert.InDelta(t, 2*degKm, st.DistancePerTrackMedian, 1e-6)
}

func TestStatsVeryLongTrack(t *testing.T) {
	// A lifetime at the last bin edge falls outside the histogram but must
	// not break the rest of the summary.
	n := int(LifetimeBins[len(LifetimeBins)-1])
	set := NewObservationSet(n)
	for i := 0; i < n; i++ {
		set.Track[i] = 1
		set.Time[i] = int64(i)
	}

	var st TrackStats
	assert.NotPanics(t, func() { st = set.Stats() })

	assert.Equal(t, 1, st.NumTracks)
	assert.Equal(t, int64(n), st.LongestObs)
	require.Len(t, st.PctTracksPerLifetime, len(LifetimeBins)-1)
	for _, pct := range st.PctTracksPerLifetime {
		assert.Zero(t, pct)
	}
}

func TestStatsEmpty(t *testing.T) {
	st := NewObservationSet(0).Stats()
	assert.Equal(t, 0, st.NumTracks)
	assert.Equal(t, 0, st.NumObservations)
	assert.Zero(t, st.DistancePerDayMean)
}
