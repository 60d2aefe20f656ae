package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceOneDegreeAtEquator(t *testing.T) {
	// One degree of longitude at the equator is R * pi/180.
	want := EarthRadiusMeters * math.Pi / 180
	assert.InDelta(t, want, Distance(0, 0, 1, 0), 1)
}

func TestDistanceZero(t *testing.T) {
	assert.Equal(t, 0.0, Distance(12.5, -30, 12.5, -30))
}

func TestDistanceSymmetric(t *testing.T) {
	d1 := Distance(-40, 10, -39, 11)
	d2 := Distance(-39, 11, -40, 10)
	assert.InDelta(t, d1, d2, 1e-6)
}

func TestWrapLongitude(t *testing.T) {
	x := []float64{-190, 0, 170, 370}
	y := []float64{1, 2, 3, 4}
	wx, wy := WrapLongitude(x, y, -180)
	assert.Equal(t, []float64{170, 0, 170, 10}, wx)
	assert.Equal(t, y, wy)
}

func TestSplitLine(t *testing.T) {
	x := []float64{0, 1, 2, 10, 11}
	y := []float64{5, 6, 7, 8, 9}
	track := []uint32{1, 1, 1, 2, 2}
	sx, sy := SplitLine(x, y, track)
	require.Len(t, sx, 6)
	require.Len(t, sy, 6)
	assert.Equal(t, []float64{0, 1, 2}, sx[:3])
	assert.True(t, math.IsNaN(sx[3]))
	assert.True(t, math.IsNaN(sy[3]))
	assert.Equal(t, []float64{10, 11}, sx[4:])
}

func TestSplitLineEmpty(t *testing.T) {
	sx, sy := SplitLine(nil, nil, nil)
	assert.Nil(t, sx)
	assert.Nil(t, sy)
}
