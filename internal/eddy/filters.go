package eddy

import "sort"

// LoessFilter smooths y with a tricube-weighted local average along x,
// never mixing values across track boundaries. x must be non-decreasing
// within each contiguous track segment (irregular spacing is fine); this is
// a caller precondition and is not checked. The window expands outward from
// each element in both directions while the x distance stays below
// halfWindow, stopping at array bounds and track changes.
func LoessFilter(halfWindow float64, x, y []float64, track []uint32) []float64 {
	nb := len(y)
	out := make([]float64, nb)
	if nb == 0 {
		return out
	}
	last := nb - 1
	for i := range y {
		curTrack := track[i]
		ySum := y[i]
		wSum := 1.0
		if i != 0 {
			iPrev := i - 1
			dx := x[i] - x[iPrev]
			for dx < halfWindow && iPrev != 0 && curTrack == track[iPrev] {
				w := tricube(dx / halfWindow)
				ySum += y[iPrev] * w
				wSum += w
				iPrev--
				dx = x[i] - x[iPrev]
			}
		}
		if i != last {
			iNext := i + 1
			dx := x[iNext] - x[i]
			for dx < halfWindow && iNext != last && curTrack == track[iNext] {
				w := tricube(dx / halfWindow)
				ySum += y[iNext] * w
				wSum += w
				iNext++
				dx = x[iNext] - x[i]
			}
		}
		out[i] = ySum / wSum
	}
	return out
}

func tricube(u float64) float64 {
	v := 1 - u*u*u
	return v * v * v
}

// MedianFilter smooths y with a sliding median along x, windowed to
// |x[i]-x[j]| <= halfWindow within the same track. Both window bounds only
// ever advance, so a full pass over an array sorted by track then x is
// amortized linear in the number of rows. The same sortedness precondition
// as LoessFilter applies.
func MedianFilter(halfWindow float64, x, y []float64, track []uint32) []float64 {
	nb := len(y)
	out := make([]float64, nb)
	scratch := make([]float64, 0, 32)
	iPrev, iNext := 0, 0
	for i := range y {
		curTrack := track[i]
		for x[i]-x[iPrev] > halfWindow || curTrack != track[iPrev] {
			iPrev++
		}
		for iNext < nb && x[iNext]-x[i] <= halfWindow && curTrack == track[iNext] {
			iNext++
		}
		out[i] = median(y[iPrev:iNext], scratch)
	}
	return out
}

// median of window, averaging the two middle values for even lengths.
func median(window, scratch []float64) float64 {
	scratch = append(scratch[:0], window...)
	sort.Float64s(scratch)
	n := len(scratch)
	if n%2 == 1 {
		return scratch[n/2]
	}
	return (scratch[n/2-1] + scratch[n/2]) / 2
}

// PositionFilter smooths longitude and latitude along time with a median
// pass followed by a loess pass, in place. Rows must be sorted by track
// then time.
func (s *ObservationSet) PositionFilter(medianHalfWindow, loessHalfWindow float64) {
	x := s.TimeFloat()
	s.Lon = MedianFilter(medianHalfWindow, x, s.Lon, s.Track)
	s.Lon = LoessFilter(loessHalfWindow, x, s.Lon, s.Track)
	s.Lat = MedianFilter(medianHalfWindow, x, s.Lat, s.Track)
	s.Lat = LoessFilter(loessHalfWindow, x, s.Lat, s.Track)
}
