package eddy

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"

	"github.com/oceandata/eddytrack/internal/geo"
)

// ExtractOptions controls ExtractWithMask.
type ExtractOptions struct {
	// FullPath grows the selection to whole tracks when only part of a
	// track is selected.
	FullPath bool
	// RemoveIncomplete drops tracks that are not fully selected. Ignored
	// when FullPath is set.
	RemoveIncomplete bool
	// CompressID renumbers surviving track ids densely from 1.
	CompressID bool
	// RejectVirtual excludes interpolation-filled rows before growing a
	// full-path selection.
	RejectVirtual bool
}

// ExtractWithMask returns a new set holding the selected rows. The set must
// be sorted by track id for the FullPath and RemoveIncomplete options, which
// lean on the track index. Link costs are carried over but PreviousObs and
// NextObs reset to -1: they index rows of the source set and would dangle
// after extraction.
func (s *ObservationSet) ExtractWithMask(mask []bool, opts ExtractOptions) *ObservationSet {
	n := s.Len()
	if opts.FullPath {
		if opts.RejectVirtual {
			combined := make([]bool, n)
			for i := range combined {
				combined[i] = mask[i] && !s.Virtual[i]
			}
			mask = combined
		}
		mask = MaskFromIDs(s.selectedTracks(mask, true), s.FirstIndexOfTrack(), s.ObsByTrack(), n)
	} else if opts.RemoveIncomplete {
		inverted := make([]bool, n)
		for i := range inverted {
			inverted[i] = !mask[i]
		}
		partial := MaskFromIDs(s.selectedTracks(inverted, true), s.FirstIndexOfTrack(), s.ObsByTrack(), n)
		full := make([]bool, n)
		for i := range full {
			full[i] = mask[i] && !partial[i]
		}
		mask = full
	}

	out := s.copyRows(mask)
	if opts.CompressID {
		out.compressTrackIDs()
	}
	return out
}

// selectedTracks returns the distinct track ids of rows where mask holds.
func (s *ObservationSet) selectedTracks(mask []bool, sorted bool) []uint32 {
	seen := make(map[uint32]struct{})
	var ids []uint32
	for i, ok := range mask {
		if !ok {
			continue
		}
		if _, dup := seen[s.Track[i]]; dup {
			continue
		}
		seen[s.Track[i]] = struct{}{}
		ids = append(ids, s.Track[i])
	}
	if sorted {
		sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	}
	return ids
}

func (s *ObservationSet) copyRows(mask []bool) *ObservationSet {
	var kept int
	for _, ok := range mask {
		if ok {
			kept++
		}
	}
	out := NewObservationSet(kept)
	j := 0
	for i, ok := range mask {
		if !ok {
			continue
		}
		out.Lon[j] = s.Lon[i]
		out.Lat[j] = s.Lat[i]
		out.Time[j] = s.Time[i]
		out.Group[j] = s.Group[i]
		out.Track[j] = s.Track[i]
		out.Virtual[j] = s.Virtual[i]
		out.SpeedContourLon[j] = s.SpeedContourLon[i]
		out.SpeedContourLat[j] = s.SpeedContourLat[i]
		out.EffectiveContourLon[j] = s.EffectiveContourLon[i]
		out.EffectiveContourLat[j] = s.EffectiveContourLat[i]
		out.PreviousCost[j] = s.PreviousCost[i]
		out.NextCost[j] = s.NextCost[i]
		j++
	}
	return out
}

// compressTrackIDs renumbers the distinct track ids to 1..k keeping their
// relative order.
func (s *ObservationSet) compressTrackIDs() {
	ids := make([]uint32, 0)
	seen := make(map[uint32]struct{})
	for _, t := range s.Track {
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			ids = append(ids, t)
		}
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	translate := make(map[uint32]uint32, len(ids))
	for i, id := range ids {
		translate[id] = uint32(i) + 1
	}
	for i, t := range s.Track {
		s.Track[i] = translate[t]
	}
	s.invalidateIndex()
}

// ExtractIDs returns the observations of the requested tracks.
func (s *ObservationSet) ExtractIDs(ids []uint32) *ObservationSet {
	mask := MaskFromIDs(ids, s.FirstIndexOfTrack(), s.ObsByTrack(), s.Len())
	return s.ExtractWithMask(mask, ExtractOptions{})
}

// ExtractWithLength keeps tracks whose observation count lies in [minObs,
// maxObs]. A bound of -1 disables that bound; disabling both is a
// configuration error.
func (s *ObservationSet) ExtractWithLength(minObs, maxObs int64) (*ObservationSet, error) {
	if s.Len() == 0 {
		return NewObservationSet(0), nil
	}
	count := s.ObsByTrack()
	keep := func(n int64) bool { return false }
	switch {
	case minObs >= 0 && maxObs != -1:
		keep = func(n int64) bool { return n >= minObs && n <= maxObs }
	case minObs == -1 && maxObs >= 0:
		keep = func(n int64) bool { return n <= maxObs }
	case minObs >= 0 && maxObs == -1:
		keep = func(n int64) bool { return n >= minObs }
	default:
		return nil, fmt.Errorf("extract: at least one length bound must be positive (got %d, %d)", minObs, maxObs)
	}
	mask := make([]bool, s.Len())
	for i, t := range s.Track {
		mask[i] = keep(count[t])
	}
	return s.ExtractWithMask(mask, ExtractOptions{}), nil
}

// ExtractWithPeriod keeps observations whose time lies in the requested
// period. A non-positive bound is interpreted relative to the dataset
// period: pMin < 0 starts that many days after the dataset start, pMax < 0
// ends that many days before the dataset end, 0 leaves the bound open.
func (s *ObservationSet) ExtractWithPeriod(pMin, pMax int64, opts ExtractOptions) *ObservationSet {
	d0, d1 := s.Period()
	mask := make([]bool, s.Len())
	for i, t := range s.Time {
		ok := true
		switch {
		case pMin > 0:
			ok = t >= pMin
		case pMin < 0:
			ok = t >= d0-pMin
		}
		if ok {
			switch {
			case pMax > 0:
				ok = t <= pMax
			case pMax < 0:
				ok = t <= d1+pMax
			}
		}
		mask[i] = ok
	}
	return s.ExtractWithMask(mask, opts)
}

// ExtractInDirection keeps tracks whose net displacement points in the
// given compass direction ('N', 'S', 'E', 'W') with magnitude above value
// (degrees). Longitude displacement is unwrapped around the start position.
func (s *ObservationSet) ExtractInDirection(direction byte, value float64) (*ObservationSet, error) {
	first, count := s.FirstIndexOfTrack(), s.ObsByTrack()
	keepTrack := make([]bool, len(first))
	for id := range first {
		if first[id] < 0 || count[id] == 0 {
			continue
		}
		i0 := first[id]
		i1 := i0 + count[id] - 1
		switch direction {
		case 'N', 'S':
			dLat := s.Lat[i1] - s.Lat[i0]
			if direction == 'S' {
				keepTrack[id] = dLat < 0 && -dLat > value
			} else {
				keepTrack[id] = dLat > 0 && dLat > value
			}
		case 'E', 'W':
			lonStart := s.Lon[i0]
			lonEnd := math.Mod(s.Lon[i1]-(lonStart-180), 360) + lonStart - 180
			dLon := lonEnd - lonStart
			if direction == 'W' {
				keepTrack[id] = dLon < 0 && -dLon > value
			} else {
				keepTrack[id] = dLon > 0 && dLon > value
			}
		default:
			return nil, fmt.Errorf("extract: unknown direction %q", string(direction))
		}
	}
	mask := make([]bool, s.Len())
	for i, t := range s.Track {
		mask[i] = keepTrack[t]
	}
	return s.ExtractWithMask(mask, ExtractOptions{}), nil
}

// ExtractTowardDirection keeps tracks drifting westward (or eastward when
// west is false), optionally requiring more than deltaLon degrees of
// longitude span. deltaLon <= 0 disables the span requirement.
func (s *ObservationSet) ExtractTowardDirection(west bool, deltaLon float64) *ObservationSet {
	first, count := s.FirstIndexOfTrack(), s.ObsByTrack()
	keepTrack := make([]bool, len(first))
	for id := range first {
		if first[id] < 0 || count[id] == 0 {
			continue
		}
		i0 := first[id]
		i1 := i0 + count[id] - 1
		dLon := s.Lon[i1] - s.Lon[i0]
		if west {
			keepTrack[id] = dLon < 0
		} else {
			keepTrack[id] = dLon > 0
		}
		if keepTrack[id] && deltaLon > 0 {
			keepTrack[id] = math.Abs(dLon) > deltaLon
		}
	}
	mask := make([]bool, s.Len())
	for i, t := range s.Track {
		mask[i] = keepTrack[t]
	}
	return s.ExtractWithMask(mask, ExtractOptions{})
}

// ExtractFirstObsInBox keeps, per track, the first observation falling in
// each res-degree longitude/latitude box, deduplicating stationary tracks
// for sparse display.
func (s *ObservationSet) ExtractFirstObsInBox(res float64) *ObservationSet {
	type boxKey struct {
		lon, lat float64
		track    uint32
	}
	seen := make(map[boxKey]struct{})
	mask := make([]bool, s.Len())
	for i := range s.Lon {
		key := boxKey{boxFloor(s.Lon[i], res), boxFloor(s.Lat[i], res), s.Track[i]}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		mask[i] = true
	}
	return s.ExtractWithMask(mask, ExtractOptions{})
}

// DistanceToNext returns the distance in metres between each observation
// and the next one of the same track, 0 for the last observation of each
// track.
func (s *ObservationSet) DistanceToNext() []float64 {
	n := s.Len()
	d := make([]float64, n)
	for i := 0; i+1 < n; i++ {
		if s.Track[i] != s.Track[i+1] {
			continue
		}
		d[i] = geo.Distance(s.Lon[i], s.Lat[i], s.Lon[i+1], s.Lat[i+1])
	}
	return d
}

// FilledByInterpolation fills the flagged rows of the position and time
// columns by linear interpolation over the row index, marking them virtual.
// Longitude is unwrapped per contiguous track segment around the segment's
// first observation before interpolating, so tracks crossing the
// antimeridian interpolate smoothly.
func (s *ObservationSet) FilledByInterpolation(mask []bool) error {
	n := s.Len()
	if n == 0 {
		return nil
	}
	s.unwrapLongitudeBySegment()

	index := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if !mask[i] {
			index = append(index, float64(i))
		}
	}
	if len(index) < 2 {
		return fmt.Errorf("interpolation: need at least 2 observed rows, got %d", len(index))
	}

	fill := func(col []float64) error {
		known := make([]float64, 0, len(index))
		for i := 0; i < n; i++ {
			if !mask[i] {
				known = append(known, col[i])
			}
		}
		var pl interp.PiecewiseLinear
		if err := pl.Fit(index, known); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if mask[i] {
				col[i] = pl.Predict(clamp(float64(i), index[0], index[len(index)-1]))
			}
		}
		return nil
	}

	if err := fill(s.Lon); err != nil {
		return err
	}
	if err := fill(s.Lat); err != nil {
		return err
	}
	times := s.TimeFloat()
	if err := fill(times); err != nil {
		return err
	}
	for i := range s.Time {
		if mask[i] {
			s.Time[i] = int64(math.Round(times[i]))
			s.Virtual[i] = true
		}
	}
	return nil
}

// unwrapLongitudeBySegment rewrites longitudes so each contiguous track
// segment stays within 360 degrees of its first observation.
func (s *ObservationSet) unwrapLongitudeBySegment() {
	n := s.Len()
	for i0 := 0; i0 < n; {
		i1 := i0 + 1
		for i1 < n && s.Track[i1] == s.Track[i0] {
			i1++
		}
		lon0 := s.Lon[i0] - 180
		for i := i0; i < i1; i++ {
			s.Lon[i] = math.Mod(s.Lon[i]-lon0, 360)
			if s.Lon[i] < 0 {
				s.Lon[i] += 360
			}
			s.Lon[i] += lon0
		}
		i0 = i1
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
