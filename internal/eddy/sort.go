package eddy

import "sort"

// Reorder permutes all columns so row i of the result is row perm[i] of the
// current set. Link indices are remapped through the inverse permutation;
// -1 stays -1. The cached track index is dropped.
func (s *ObservationSet) Reorder(perm []int) {
	n := s.Len()
	reverse := make([]int32, n)
	for newIdx, oldIdx := range perm {
		reverse[oldIdx] = int32(newIdx)
	}

	lon := make([]float64, n)
	lat := make([]float64, n)
	times := make([]int64, n)
	group := make([]uint32, n)
	track := make([]uint32, n)
	virtual := make([]bool, n)
	speedLon := make([][]float64, n)
	speedLat := make([][]float64, n)
	effLon := make([][]float64, n)
	effLat := make([][]float64, n)
	prevCost := make([]float32, n)
	nextCost := make([]float32, n)
	prevObs := make([]int32, n)
	nextObs := make([]int32, n)

	for newIdx, oldIdx := range perm {
		lon[newIdx] = s.Lon[oldIdx]
		lat[newIdx] = s.Lat[oldIdx]
		times[newIdx] = s.Time[oldIdx]
		group[newIdx] = s.Group[oldIdx]
		track[newIdx] = s.Track[oldIdx]
		virtual[newIdx] = s.Virtual[oldIdx]
		speedLon[newIdx] = s.SpeedContourLon[oldIdx]
		speedLat[newIdx] = s.SpeedContourLat[oldIdx]
		effLon[newIdx] = s.EffectiveContourLon[oldIdx]
		effLat[newIdx] = s.EffectiveContourLat[oldIdx]
		prevCost[newIdx] = s.PreviousCost[oldIdx]
		nextCost[newIdx] = s.NextCost[oldIdx]
		if v := s.PreviousObs[oldIdx]; v != -1 {
			prevObs[newIdx] = reverse[v]
		} else {
			prevObs[newIdx] = -1
		}
		if v := s.NextObs[oldIdx]; v != -1 {
			nextObs[newIdx] = reverse[v]
		} else {
			nextObs[newIdx] = -1
		}
	}

	s.Lon, s.Lat, s.Time = lon, lat, times
	s.Group, s.Virtual = group, virtual
	s.SpeedContourLon, s.SpeedContourLat = speedLon, speedLat
	s.EffectiveContourLon, s.EffectiveContourLat = effLon, effLat
	s.PreviousCost, s.NextCost = prevCost, nextCost
	s.PreviousObs, s.NextObs = prevObs, nextObs
	s.SetTrackColumn(track)
}

// GlobalizeTrackIDs renumbers (group, track) pairs to ids unique across the
// whole set, in first-encounter order. Track ids out of the splitter are
// unique within their group only; the track index and the extraction
// helpers need set-wide ids. Unassigned rows (track 0) stay 0.
func (s *ObservationSet) GlobalizeTrackIDs() {
	type key struct {
		group, track uint32
	}
	translate := make(map[key]uint32)
	next := uint32(1)
	track := make([]uint32, s.Len())
	for i, t := range s.Track {
		if t == 0 {
			continue
		}
		k := key{s.Group[i], t}
		id, ok := translate[k]
		if !ok {
			id = next
			translate[k] = id
			next++
		}
		track[i] = id
	}
	s.SetTrackColumn(track)
}

// SortByGroupTime orders rows by (group, time), the layout the network
// splitter expects.
func (s *ObservationSet) SortByGroupTime() {
	perm := make([]int, s.Len())
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		ia, ib := perm[a], perm[b]
		if s.Group[ia] != s.Group[ib] {
			return s.Group[ia] < s.Group[ib]
		}
		return s.Time[ia] < s.Time[ib]
	})
	s.Reorder(perm)
}

// SortByTrackTime orders rows by (group, track, time), the layout the track
// index, smoothing filters and statistics expect.
func (s *ObservationSet) SortByTrackTime() {
	perm := make([]int, s.Len())
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		ia, ib := perm[a], perm[b]
		if s.Group[ia] != s.Group[ib] {
			return s.Group[ia] < s.Group[ib]
		}
		if s.Track[ia] != s.Track[ib] {
			return s.Track[ia] < s.Track[ib]
		}
		return s.Time[ia] < s.Time[ib]
	})
	s.Reorder(perm)
}
