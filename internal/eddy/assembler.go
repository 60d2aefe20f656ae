package eddy

import (
	"github.com/ctessum/geom"

	"github.com/oceandata/eddytrack/internal/geo"
)

// overlapMinimum is the fixed floor below which a candidate overlap is
// treated as no overlap at all during continuation search.
const overlapMinimum = 0.1

// LinkResult carries the per-observation output of track assembly, parallel
// to the observation set it was computed from. Track 0 means unassigned;
// observation indices are -1 when there is no link.
type LinkResult struct {
	Group []uint32
	Time  []int64

	Track        []uint32
	PreviousCost []float32
	NextCost     []float32
	PreviousObs  []int32
	NextObs      []int32
}

// NewLinkResult allocates a result for n observations with all fields at
// their pre-assembly defaults.
func NewLinkResult(n int) *LinkResult {
	r := &LinkResult{
		Group:        make([]uint32, n),
		Time:         make([]int64, n),
		Track:        make([]uint32, n),
		PreviousCost: make([]float32, n),
		NextCost:     make([]float32, n),
		PreviousObs:  make([]int32, n),
		NextObs:      make([]int32, n),
	}
	for i := range r.PreviousObs {
		r.PreviousObs[i] = -1
		r.NextObs[i] = -1
	}
	return r
}

// linkWindow is one group's view of a LinkResult, indexed locally from 0.
type linkWindow struct {
	track        []uint32
	previousCost []float32
	nextCost     []float32
	previousObs  []int32
	nextObs      []int32
}

func (r *LinkResult) window(i0, i1 int64) linkWindow {
	return linkWindow{
		track:        r.Track[i0:i1],
		previousCost: r.PreviousCost[i0:i1],
		nextCost:     r.NextCost[i0:i1],
		previousObs:  r.PreviousObs[i0:i1],
		nextObs:      r.NextObs[i0:i1],
	}
}

// groupAssembler splits one group into tracks by greedy forward chaining.
// It owns nothing global: track ids restart at 1 per group (ids are unique
// within a group only) and indices are local to the group slice until the
// splitter stitches them back.
type groupAssembler struct {
	times    []int64
	polygons []geom.Polygon
	window   int64

	// time bucket index over times
	bucketStart []int64
	bucketEnd   []int64
	timeRef     int64

	ids  linkWindow
	used []bool
}

func newGroupAssembler(times []int64, polygons []geom.Polygon, window int64, ids linkWindow) *groupAssembler {
	start, end, ref := BuildBucketIndex(times)
	return &groupAssembler{
		times:       times,
		polygons:    polygons,
		window:      window,
		bucketStart: start,
		bucketEnd:   end,
		timeRef:     ref,
		ids:         ids,
		used:        make([]bool, len(times)),
	}
}

// assemble runs the outer loop: every still-unused observation seeds a new
// chain with the next track id.
func (g *groupAssembler) assemble() {
	trackID := uint32(1)
	for i := range g.used {
		if g.used[i] {
			continue
		}
		g.follow(int32(i), trackID)
		trackID++
	}
}

// follow walks a chain forward from observation i. A chain ends when no
// continuation is found, or when it converges on an observation another
// chain already claimed; in the latter case the existing chain is merged
// into this one only when the recorded incoming cost at the target exactly
// equals this chain's cost (same candidate discovered along two paths).
func (g *groupAssembler) follow(i int32, trackID uint32) {
	for i != -1 {
		g.used[i] = true
		g.ids.track[i] = trackID
		next := g.searchNext(i)
		if next == -1 {
			break
		}
		g.ids.nextObs[i] = next
		if g.used[next] {
			if g.ids.nextCost[i] == g.ids.previousCost[next] {
				old := g.ids.track[next]
				for j := int(next); j < len(g.ids.track); j++ {
					if g.ids.track[j] == old {
						g.ids.track[j] = trackID
					}
				}
				g.ids.previousObs[next] = i
			}
			break
		}
		g.ids.previousObs[next] = i
		i = next
	}
}

// searchNext finds the continuation of observation i: scan time buckets
// nearest-first up to the look-ahead window, and inside the first bucket
// holding a qualifying candidate take the one with maximal overlap. Buckets
// further out are never consulted once a bucket qualifies.
func (g *groupAssembler) searchNext(i int32) int32 {
	bucketMax := int64(len(g.bucketStart)) - 1
	t := g.times[i] - g.timeRef
	t0 := t + 1
	if t0 > bucketMax {
		return -1
	}
	t1 := t + g.window
	if t1 > bucketMax {
		t1 = bucketMax
	}
	for ts := t0; ts <= t1; ts++ {
		i0, i1 := g.bucketStart[ts], g.bucketEnd[ts]
		if i0 == i1 {
			continue
		}
		costs := geo.OverlapRatios(g.polygons[i], g.polygons[i0:i1])
		best := -1
		bestCost := 0.0
		for k, c := range costs {
			if c < overlapMinimum {
				continue
			}
			if c > bestCost {
				bestCost = c
				best = k
			}
		}
		if best < 0 {
			continue
		}
		target := int32(i0) + int32(best)
		cost := float32(bestCost)
		// Keep the best incoming cost seen so far at the target; the
		// collision rule in follow compares against it.
		if prev := g.ids.previousCost[target]; prev == 0 || prev < cost {
			g.ids.previousCost[target] = cost
		}
		g.ids.nextCost[i] = cost
		return target
	}
	return -1
}
