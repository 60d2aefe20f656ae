package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceandata/eddytrack/internal/db"
	"github.com/oceandata/eddytrack/internal/eddy"
)

func testServer(t *testing.T) (*httptest.Server, *db.DB) {
	t.Helper()
	d, err := db.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	ts := httptest.NewServer(NewServer(d).ServeMux())
	t.Cleanup(ts.Close)
	return ts, d
}

func saveTestRun(t *testing.T, d *db.DB) string {
	t.Helper()
	set := eddy.NewObservationSet(5)
	copy(set.Lon, []float64{10, 10.5, 11, 40, 41})
	copy(set.Lat, []float64{-30, -30.2, -30.4, 5, 5.1})
	copy(set.Time, []int64{0, 1, 2, 0, 1})
	copy(set.Group, []uint32{1, 1, 1, 2, 2})
	copy(set.Track, []uint32{1, 1, 1, 1, 1})
	runID, err := d.SaveRun(set, eddy.DefaultSplitConfig(), "api test")
	require.NoError(t, err)
	return runID
}

func TestHomeHandler(t *testing.T) {
	ts, _ := testServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListRunsEndpoint(t *testing.T) {
	ts, d := testServer(t)

	t.Run("empty", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/runs")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var runs []db.RunMeta
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&runs))
		assert.Empty(t, runs)
	})

	runID := saveTestRun(t, d)

	t.Run("one run", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/runs")
		require.NoError(t, err)
		defer resp.Body.Close()

		var runs []db.RunMeta
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&runs))
		require.Len(t, runs, 1)
		assert.Equal(t, runID, runs[0].RunID)
		assert.Equal(t, "api test", runs[0].Label)
		assert.Equal(t, int64(5), runs[0].NumObservations)
	})
}

func TestListTracksEndpoint(t *testing.T) {
	ts, d := testServer(t)
	runID := saveTestRun(t, d)

	resp, err := http.Get(ts.URL + "/api/runs/" + runID + "/tracks")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tracks []db.TrackSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tracks))
	require.Len(t, tracks, 2)
	assert.Equal(t, uint32(1), tracks[0].Group)
	assert.Equal(t, int64(3), tracks[0].NumObs)
	assert.Equal(t, uint32(2), tracks[1].Group)
	assert.Equal(t, int64(2), tracks[1].NumObs)
}

func TestPlotEndpoint(t *testing.T) {
	ts, d := testServer(t)
	runID := saveTestRun(t, d)

	resp, err := http.Get(ts.URL + "/api/runs/" + runID + "/plot")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
}

func TestPlotEndpointCombined(t *testing.T) {
	ts, d := testServer(t)
	runID := saveTestRun(t, d)

	resp, err := http.Get(ts.URL + "/api/runs/" + runID + "/plot?style=combined")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCombinedPath(t *testing.T) {
	set := eddy.NewObservationSet(5)
	copy(set.Group, []uint32{1, 1, 1, 1, 1})
	copy(set.Track, []uint32{1, 1, 2, 2, 0})
	copy(set.Lon, []float64{0, 1, 5, 6, 99})

	p := combinedPath(set)
	// Two tracks, one gap marker, track-0 row dropped.
	require.Len(t, p.lon, 5)
	assert.Equal(t, 1.0, p.lon[1])
	assert.True(t, math.IsNaN(p.lon[2]))
	assert.Equal(t, 5.0, p.lon[3])
}

func TestPlotEndpointBadParams(t *testing.T) {
	ts, d := testServer(t)
	runID := saveTestRun(t, d)

	for _, q := range []string{"min_length=0", "min_length=x", "max_tracks=0", "max_tracks=9999"} {
		resp, err := http.Get(ts.URL + "/api/runs/" + runID + "/plot?" + q)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestPlotEndpointUnknownRun(t *testing.T) {
	ts, _ := testServer(t)

	resp, err := http.Get(ts.URL + "/api/runs/nope/plot")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTrackPathsFiltering(t *testing.T) {
	set := eddy.NewObservationSet(6)
	copy(set.Group, []uint32{1, 1, 1, 1, 2, 2})
	copy(set.Track, []uint32{1, 1, 2, 0, 1, 1})
	copy(set.Time, []int64{1, 0, 0, 0, 0, 1})
	copy(set.Lon, []float64{1, 0, 5, 9, 20, 21})

	paths := trackPaths(set, 2, 10)
	// Track (1,2) is too short and track 0 is unassigned.
	require.Len(t, paths, 2)
	assert.Equal(t, "g1/t1", paths[0].name)
	assert.Equal(t, []float64{0, 1}, paths[0].lon, "rows are time-ordered")
	assert.Equal(t, "g2/t1", paths[1].name)

	assert.Len(t, trackPaths(set, 1, 1), 1, "max_tracks caps the series count")
}
