package geo

import "math"

// EarthRadiusMeters is the mean authalic earth radius used for all
// great-circle distance computations.
const EarthRadiusMeters = 6370997.0

const deg2rad = math.Pi / 180

// Distance returns the great-circle distance in metres between two
// longitude/latitude positions given in degrees.
func Distance(lon0, lat0, lon1, lat1 float64) float64 {
	dLon := (lon1 - lon0) * deg2rad
	dLat := (lat1 - lat0) * deg2rad
	sinDLat := math.Sin(dLat * 0.5)
	sinDLon := math.Sin(dLon * 0.5)
	a := sinDLon*sinDLon*math.Cos(lat0*deg2rad)*math.Cos(lat1*deg2rad) + sinDLat*sinDLat
	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// WrapLongitude shifts longitudes into [ref, ref+360). Latitudes pass
// through untouched; the two slices are returned as fresh copies.
func WrapLongitude(x, y []float64, ref float64) ([]float64, []float64) {
	wx := make([]float64, len(x))
	wy := make([]float64, len(y))
	copy(wy, y)
	for i, v := range x {
		wx[i] = math.Mod(v-ref, 360)
		if wx[i] < 0 {
			wx[i] += 360
		}
		wx[i] += ref
	}
	return wx, wy
}

// SplitLine concatenates per-track polylines into single x/y arrays with a
// NaN separator wherever the track id changes, so a plotting layer can draw
// all tracks with one line series without bridging track boundaries.
func SplitLine(x, y []float64, track []uint32) ([]float64, []float64) {
	if len(x) == 0 {
		return nil, nil
	}
	sx := make([]float64, 0, len(x)+len(x)/4)
	sy := make([]float64, 0, len(y)+len(y)/4)
	for i := range x {
		if i > 0 && track[i] != track[i-1] {
			sx = append(sx, math.NaN())
			sy = append(sy, math.NaN())
		}
		sx = append(sx, x[i])
		sy = append(sy, y[i])
	}
	return sx, sy
}
