package eddy

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/ctessum/geom"

	"github.com/oceandata/eddytrack/internal/geo"
	"github.com/oceandata/eddytrack/internal/monitoring"
)

// SplitConfig holds configuration parameters for the network splitter.
type SplitConfig struct {
	Window  int64 // max time-step gap bridged when searching for a continuation (days)
	Intern  bool  // score overlap on the speed (inner) contour instead of the effective one
	Workers int   // concurrent groups; <= 0 means GOMAXPROCS
}

// DefaultSplitConfig returns default splitter configuration.
func DefaultSplitConfig() SplitConfig {
	return SplitConfig{
		Window:  5,
		Intern:  true,
		Workers: 0,
	}
}

// SplitNetwork divides every detection group of the set into tracks and
// returns per-observation track ids plus link bookkeeping, in the original
// row order. Rows must be sorted by (group, time); group 0 and single-row
// bucket gaps are skipped. Groups share no state, so they are processed by
// a pool of workers, each writing only its own slice of the result.
func SplitNetwork(set *ObservationSet, cfg SplitConfig) (*LinkResult, error) {
	if cfg.Window < 1 {
		return nil, fmt.Errorf("split: window must be >= 1, got %d", cfg.Window)
	}
	n := set.Len()
	result := NewLinkResult(n)
	copy(result.Group, set.Group)
	copy(result.Time, set.Time)
	if n == 0 {
		return result, nil
	}

	groups := make([]int64, n)
	for i, gid := range set.Group {
		groups[i] = int64(gid)
	}
	groupStart, groupEnd, groupRef := BuildBucketIndex(groups)

	contourLon, contourLat := set.ContourCoords(cfg.Intern)

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	numGroups := 0
	for b := range groupStart {
		i0, i1 := groupStart[b], groupEnd[b]
		if i0 == i1 || groupRef+int64(b) == int64(NoGroup) {
			continue
		}
		numGroups++
		wg.Add(1)
		sem <- struct{}{}
		go func(i0, i1 int64) {
			defer wg.Done()
			defer func() { <-sem }()
			splitGroup(set.Time[i0:i1], contourLon[i0:i1], contourLat[i0:i1],
				result.window(i0, i1), cfg.Window)
			stitchIndices(result.PreviousObs[i0:i1], int32(i0))
			stitchIndices(result.NextObs[i0:i1], int32(i0))
		}(i0, i1)
	}
	wg.Wait()

	var assigned int
	for _, id := range result.Track {
		if id != 0 {
			assigned++
		}
	}
	monitoring.Logf("split: %d observations assigned across %d groups (window %d)",
		assigned, numGroups, cfg.Window)
	return result, nil
}

// splitGroup assembles one group: build the observation polygons, then run
// greedy forward chaining over the group's time buckets.
func splitGroup(times []int64, contourLon, contourLat [][]float64, ids linkWindow, window int64) {
	polygons := make([]geom.Polygon, len(times))
	for i := range times {
		polygons[i] = geo.ContourPolygon(contourLon[i], contourLat[i])
	}
	newGroupAssembler(times, polygons, window, ids).assemble()
}

// stitchIndices rebases group-local observation indices onto global row
// numbers. -1 stays -1: it means "no link", never an offset.
func stitchIndices(obs []int32, offset int32) {
	for i, v := range obs {
		if v != -1 {
			obs[i] = v + offset
		}
	}
}

// ApplyLinks copies an assembly result back onto the observation set's link
// columns and invalidates the cached track index.
func (s *ObservationSet) ApplyLinks(r *LinkResult) {
	copy(s.PreviousCost, r.PreviousCost)
	copy(s.NextCost, r.NextCost)
	copy(s.PreviousObs, r.PreviousObs)
	copy(s.NextObs, r.NextObs)
	s.SetTrackColumn(append([]uint32(nil), r.Track...))
}
