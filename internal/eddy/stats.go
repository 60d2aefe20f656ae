package eddy

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LifetimeBins are the standard lifetime bin edges (in observations per
// track, one observation per day) used for the track population summary.
var LifetimeBins = []float64{1, 30, 90, 180, 270, 365, 1000, 10000}

// TrackStats summarises an assembled, track-sorted observation set.
type TrackStats struct {
	NumTracks       int
	NumObservations int
	NumVirtual      int
	ObsPerTrackMean float64
	ShortestObs     int64
	LongestObs      int64

	// Histograms over LifetimeBins, as percentages.
	PctTracksPerLifetime []float64
	PctObsPerLifetime    []float64

	// Step distances, km per day, over non-terminal observations.
	DistancePerDayMean   float64
	DistancePerDayMedian float64
	// Cumulative distances, km per track, measured at track ends.
	DistancePerTrackMean   float64
	DistancePerTrackMedian float64
}

// Stats computes the track population summary. The set must be sorted by
// track then time.
func (s *ObservationSet) Stats() TrackStats {
	st := TrackStats{
		NumTracks:       s.NumTracks(),
		NumObservations: s.Len(),
	}
	for _, v := range s.Virtual {
		if v {
			st.NumVirtual++
		}
	}
	if st.NumTracks == 0 {
		return st
	}

	count := s.ObsByTrack()
	lifetimes := make([]float64, 0, st.NumTracks)
	for id, n := range count {
		if id == 0 || n == 0 {
			continue
		}
		lifetimes = append(lifetimes, float64(n))
		if st.ShortestObs == 0 || n < st.ShortestObs {
			st.ShortestObs = n
		}
		if n > st.LongestObs {
			st.LongestObs = n
		}
	}
	st.ObsPerTrackMean = floats.Sum(lifetimes) / float64(st.NumTracks)

	// stat.Histogram rejects values at or beyond the last edge, so tracks
	// outliving the last bin are left out of the binning.
	dividers := LifetimeBins
	binned := make([]float64, 0, len(lifetimes))
	for _, v := range lifetimes {
		if v < dividers[len(dividers)-1] {
			binned = append(binned, v)
		}
	}
	st.PctTracksPerLifetime = make([]float64, len(dividers)-1)
	st.PctObsPerLifetime = make([]float64, len(dividers)-1)
	if len(binned) > 0 {
		sorted := sortedCopy(binned)
		st.PctTracksPerLifetime = toPercent(stat.Histogram(nil, dividers, sorted, nil))
		st.PctObsPerLifetime = toPercent(stat.Histogram(nil, dividers, sorted, sorted))
	}

	// Step distances in km; the last observation of each track carries 0
	// and is excluded from the per-day statistics.
	d := s.DistanceToNext()
	floats.Scale(1.0/1000, d)
	cum := CumSumByTrack(d, s.Track)
	var steps, ends []float64
	for i := range d {
		lastOfTrack := i+1 == len(d) || s.Track[i+1] != s.Track[i]
		if lastOfTrack {
			ends = append(ends, cum[i])
		} else {
			steps = append(steps, d[i])
		}
	}
	if len(steps) > 0 {
		st.DistancePerDayMean = stat.Mean(steps, nil)
		st.DistancePerDayMedian = median(steps, nil)
	}
	if len(ends) > 0 {
		st.DistancePerTrackMean = stat.Mean(ends, nil)
		st.DistancePerTrackMedian = median(ends, nil)
	}
	return st
}

// CumSumByTrack accumulates v along rows, restarting at 0 whenever the
// track id changes.
func CumSumByTrack(v []float64, track []uint32) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		if i > 0 && track[i] == track[i-1] {
			out[i] = out[i-1] + v[i]
		} else {
			out[i] = v[i]
		}
	}
	return out
}

func sortedCopy(v []float64) []float64 {
	c := append([]float64(nil), v...)
	floats.Argsort(c, intRange(len(c)))
	return c
}

func intRange(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func toPercent(hist []float64) []float64 {
	total := floats.Sum(hist)
	out := make([]float64, len(hist))
	if total == 0 {
		return out
	}
	for i, v := range hist {
		out[i] = v / total * 100
	}
	return out
}
