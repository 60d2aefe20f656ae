package main

import (
	"math"

	"github.com/oceandata/eddytrack/internal/eddy"
)

// demoSet synthesizes detection groups of westward-drifting eddies, sorted
// by (group, time) as the splitter expects. Every eleventh day of a group
// is dropped to exercise the look-ahead window, and every seventeenth day a
// second offset detection appears so chains can collide and merge.
func demoSet(groups, days int) *eddy.ObservationSet {
	type row struct {
		group    uint32
		day      int64
		lon, lat float64
		radius   float64
	}
	var rows []row
	for g := 1; g <= groups; g++ {
		lon0 := -40.0 + 2.5*float64(g)
		lat0 := 8.0 + 1.5*float64(g)
		for d := 0; d < days; d++ {
			if d > 0 && (g*7+d)%11 == 0 {
				continue // missed detection
			}
			lon := lon0 - 0.04*float64(d)
			lat := lat0 + 0.3*math.Sin(float64(d)/20)
			radius := 0.8 + 0.1*math.Sin(float64(g*d)/9)
			rows = append(rows, row{uint32(g), int64(d), lon, lat, radius})
			if d > 0 && (g+d)%17 == 0 {
				rows = append(rows, row{uint32(g), int64(d), lon + 0.5, lat + 0.4, radius * 0.7})
			}
		}
	}

	set := eddy.NewObservationSet(len(rows))
	for i, r := range rows {
		set.Group[i] = r.group
		set.Time[i] = r.day
		set.Lon[i] = r.lon
		set.Lat[i] = r.lat
		set.SpeedContourLon[i], set.SpeedContourLat[i] = circleRing(r.lon, r.lat, r.radius)
		set.EffectiveContourLon[i], set.EffectiveContourLat[i] = circleRing(r.lon, r.lat, r.radius*1.4)
	}
	return set
}

// circleRing returns a closed 16-gon approximating a circle in degrees.
func circleRing(lon, lat, radius float64) ([]float64, []float64) {
	const sides = 16
	x := make([]float64, sides+1)
	y := make([]float64, sides+1)
	for i := 0; i <= sides; i++ {
		a := 2 * math.Pi * float64(i) / sides
		x[i] = lon + radius*math.Cos(a)
		y[i] = lat + radius*math.Sin(a)
	}
	return x, y
}
