package eddy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReorderRemapsLinks(t *testing.T) {
	set := NewObservationSet(3)
	copy(set.Track, []uint32{1, 1, 1})
	copy(set.Time, []int64{0, 1, 2})
	copy(set.Lon, []float64{0, 1, 2})
	set.NextObs[0], set.NextObs[1] = 1, 2
	set.PreviousObs[1], set.PreviousObs[2] = 0, 1

	// Reverse the rows.
	set.Reorder([]int{2, 1, 0})

	assert.Equal(t, []float64{2, 1, 0}, set.Lon)
	assert.Equal(t, []int64{2, 1, 0}, set.Time)
	assert.Equal(t, []int32{-1, 0, 1}, set.NextObs)
	assert.Equal(t, []int32{1, 2, -1}, set.PreviousObs)
}

func TestSortByTrackTime(t *testing.T) {
	set := NewObservationSet(4)
	copy(set.Group, []uint32{1, 1, 1, 1})
	copy(set.Track, []uint32{2, 1, 2, 1})
	copy(set.Time, []int64{5, 1, 4, 0})
	copy(set.Lon, []float64{25, 11, 24, 10})

	set.SortByTrackTime()

	assert.Equal(t, []uint32{1, 1, 2, 2}, set.Track)
	assert.Equal(t, []int64{0, 1, 4, 5}, set.Time)
	assert.Equal(t, []float64{10, 11, 24, 25}, set.Lon)
	// Sorted layout makes the track index valid.
	assert.Equal(t, []int64{-1, 0, 2}, set.FirstIndexOfTrack())
}

func TestSortByGroupTime(t *testing.T) {
	set := NewObservationSet(4)
	copy(set.Group, []uint32{2, 1, 1, 2})
	copy(set.Time, []int64{3, 7, 2, 1})
	copy(set.Lon, []float64{23, 17, 12, 21})

	set.SortByGroupTime()

	assert.Equal(t, []uint32{1, 1, 2, 2}, set.Group)
	assert.Equal(t, []int64{2, 7, 1, 3}, set.Time)
	assert.Equal(t, []float64{12, 17, 21, 23}, set.Lon)
}

func TestGlobalizeTrackIDs(t *testing.T) {
	set := NewObservationSet(5)
	copy(set.Group, []uint32{1, 1, 2, 2, 2})
	copy(set.Track, []uint32{1, 1, 1, 2, 0})

	set.GlobalizeTrackIDs()

	assert.Equal(t, []uint32{1, 1, 2, 3, 0}, set.Track)
}
