package eddy

import "math"

// NoGroup marks observations that belong to no detection group. Group 0 is
// skipped entirely by the network splitter.
const NoGroup uint32 = 0

// ObservationSet holds eddy detections as parallel columnar arrays, one row
// per observation. Rows are insertion-ordered; the network splitter expects
// rows sorted by (group, time) and the track index expects rows sorted by
// track id. Sortedness is a caller responsibility and is never checked.
type ObservationSet struct {
	Lon  []float64
	Lat  []float64
	Time []int64 // days since epoch

	Group   []uint32
	Track   []uint32 // 0 = unassigned
	Virtual []bool   // true for interpolation-filled rows

	// Closed contour rings, one per observation. The speed contour is the
	// inner ("intern") ring, the effective contour the outer ("extern") one.
	SpeedContourLon     [][]float64
	SpeedContourLat     [][]float64
	EffectiveContourLon [][]float64
	EffectiveContourLat [][]float64

	// Link bookkeeping produced by track assembly.
	PreviousCost []float32
	NextCost     []float32
	PreviousObs  []int32 // row index or -1
	NextObs      []int32 // row index or -1

	// Lazily computed track index over the Track column. Valid only while
	// the column identity is unchanged; see invalidateIndex.
	firstIndexOfTrack []int64
	obsByTrack        []int64
	numTracks         int
}

// NewObservationSet allocates a set of n rows with link fields at their
// documented defaults (track 0, costs 0, previous/next observation -1).
func NewObservationSet(n int) *ObservationSet {
	s := &ObservationSet{
		Lon:     make([]float64, n),
		Lat:     make([]float64, n),
		Time:    make([]int64, n),
		Group:   make([]uint32, n),
		Track:   make([]uint32, n),
		Virtual: make([]bool, n),

		SpeedContourLon:     make([][]float64, n),
		SpeedContourLat:     make([][]float64, n),
		EffectiveContourLon: make([][]float64, n),
		EffectiveContourLat: make([][]float64, n),

		PreviousCost: make([]float32, n),
		NextCost:     make([]float32, n),
		PreviousObs:  make([]int32, n),
		NextObs:      make([]int32, n),

		numTracks: -1,
	}
	for i := range s.PreviousObs {
		s.PreviousObs[i] = -1
		s.NextObs[i] = -1
	}
	return s
}

// Len returns the number of observations.
func (s *ObservationSet) Len() int { return len(s.Time) }

// SetTrackColumn replaces the track column and drops any cached index built
// over the previous column.
func (s *ObservationSet) SetTrackColumn(track []uint32) {
	s.Track = track
	s.invalidateIndex()
}

func (s *ObservationSet) invalidateIndex() {
	s.firstIndexOfTrack = nil
	s.obsByTrack = nil
	s.numTracks = -1
}

// computeIndex builds the cached track index on first use. The result is
// only meaningful when rows are sorted by track id ascending.
func (s *ObservationSet) computeIndex() {
	if s.firstIndexOfTrack != nil {
		return
	}
	s.firstIndexOfTrack, s.obsByTrack = ComputeTrackIndex(s.Track)
}

// FirstIndexOfTrack returns, per track id, the row of its first occurrence
// (-1 when the id never occurs). Cached until the track column changes.
func (s *ObservationSet) FirstIndexOfTrack() []int64 {
	s.computeIndex()
	return s.firstIndexOfTrack
}

// ObsByTrack returns the observation count per track id. Cached until the
// track column changes.
func (s *ObservationSet) ObsByTrack() []int64 {
	s.computeIndex()
	return s.obsByTrack
}

// NumTracks counts track ids with at least one observation, ignoring the
// unassigned id 0.
func (s *ObservationSet) NumTracks() int {
	if s.numTracks < 0 {
		s.numTracks = 0
		for id, n := range s.ObsByTrack() {
			if id != 0 && n > 0 {
				s.numTracks++
			}
		}
	}
	return s.numTracks
}

// Period returns the min and max time value of the set, or (0, 0) when
// empty.
func (s *ObservationSet) Period() (int64, int64) {
	if s.Len() == 0 {
		return 0, 0
	}
	t0, t1 := s.Time[0], s.Time[0]
	for _, t := range s.Time[1:] {
		if t < t0 {
			t0 = t
		}
		if t > t1 {
			t1 = t
		}
	}
	return t0, t1
}

// ContourCoords selects the coordinate arrays feeding the overlap scorer:
// the speed (inner) contour when intern is true, the effective (outer)
// contour otherwise.
func (s *ObservationSet) ContourCoords(intern bool) ([][]float64, [][]float64) {
	if intern {
		return s.SpeedContourLon, s.SpeedContourLat
	}
	return s.EffectiveContourLon, s.EffectiveContourLat
}

// TimeFloat returns the time column as float64, the x axis for the
// smoothing filters.
func (s *ObservationSet) TimeFloat() []float64 {
	x := make([]float64, len(s.Time))
	for i, t := range s.Time {
		x[i] = float64(t)
	}
	return x
}

// boxFloor snaps v down to a multiple of res, mirroring v - v%res for
// positive res.
func boxFloor(v, res float64) float64 {
	return v - math.Mod(v, res)
}
