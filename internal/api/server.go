// Package api exposes stored track-assembly runs over HTTP: run listings,
// per-track summaries as JSON, and a go-echarts plot of track paths.
package api

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/oceandata/eddytrack/internal/db"
	"github.com/oceandata/eddytrack/internal/eddy"
	"github.com/oceandata/eddytrack/internal/geo"
	"github.com/oceandata/eddytrack/internal/httputil"
)

type Server struct {
	db *db.DB
}

func NewServer(db *db.DB) *Server {
	return &Server{db: db}
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Welcome to the Eddy Track Server!"))
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/runs", s.listRuns)
	mux.HandleFunc("GET /api/runs/{id}/tracks", s.listTracks)
	mux.HandleFunc("GET /api/runs/{id}/plot", s.plotTracks)
	mux.HandleFunc("/", s.homeHandler)
	return mux
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.db.ListRuns()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list runs: %v", err))
		return
	}
	if runs == nil {
		runs = []db.RunMeta{}
	}
	httputil.WriteJSONOK(w, runs)
}

func (s *Server) listTracks(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.db.TrackSummaries(r.PathValue("id"))
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to summarise tracks: %v", err))
		return
	}
	if summaries == nil {
		summaries = []db.TrackSummary{}
	}
	httputil.WriteJSONOK(w, summaries)
}

// plotTracks renders the track paths of a run as an HTML line chart. Query
// params: min_length (default 2) to hide single-observation tracks,
// max_tracks (default 200) to bound payload size, style=combined to draw
// every track in one gap-separated series instead of a series per track.
func (s *Server) plotTracks(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	set, err := s.db.LoadRun(runID)
	if err != nil {
		httputil.NotFound(w, fmt.Sprintf("failed to load run: %v", err))
		return
	}

	minLength := 2
	if v := r.URL.Query().Get("min_length"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httputil.BadRequest(w, "min_length must be a positive integer")
			return
		}
		minLength = n
	}
	maxTracks := 200
	if v := r.URL.Query().Get("max_tracks"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 5000 {
			httputil.BadRequest(w, "max_tracks must be between 1 and 5000")
			return
		}
		maxTracks = n
	}

	combined := r.URL.Query().Get("style") == "combined"

	var paths []trackPath
	if combined {
		paths = []trackPath{combinedPath(set)}
	} else {
		paths = trackPaths(set, minLength, maxTracks)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Eddy Tracks", Width: "1200px", Height: "800px"}),
		charts.WithTitleOpts(opts.Title{Title: "Eddy Tracks", Subtitle: fmt.Sprintf("run=%s tracks=%d", runID, len(paths))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Longitude"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Latitude"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)
	for _, p := range paths {
		data := make([]opts.LineData, len(p.lon))
		for i := range p.lon {
			if math.IsNaN(p.lon[i]) {
				// echarts treats "-" as a gap in the polyline.
				data[i] = opts.LineData{Value: []interface{}{"-", "-"}}
			} else {
				data[i] = opts.LineData{Value: []interface{}{p.lon[i], p.lat[i]}}
			}
		}
		line.AddSeries(p.name, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

type trackPath struct {
	name     string
	lon, lat []float64
}

// trackPaths groups a run's observations into time-ordered per-track
// polylines, keyed by (group, track) since ids are unique per group only.
func trackPaths(set *eddy.ObservationSet, minLength, maxTracks int) []trackPath {
	type key struct {
		group, track uint32
	}
	byTrack := make(map[key][]int)
	for i := 0; i < set.Len(); i++ {
		if set.Track[i] == 0 {
			continue
		}
		k := key{set.Group[i], set.Track[i]}
		byTrack[k] = append(byTrack[k], i)
	}
	keys := make([]key, 0, len(byTrack))
	for k := range byTrack {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].group != keys[b].group {
			return keys[a].group < keys[b].group
		}
		return keys[a].track < keys[b].track
	})

	var paths []trackPath
	for _, k := range keys {
		rows := byTrack[k]
		if len(rows) < minLength {
			continue
		}
		if len(paths) >= maxTracks {
			break
		}
		sort.Slice(rows, func(a, b int) bool { return set.Time[rows[a]] < set.Time[rows[b]] })
		p := trackPath{name: fmt.Sprintf("g%d/t%d", k.group, k.track)}
		for _, i := range rows {
			p.lon = append(p.lon, set.Lon[i])
			p.lat = append(p.lat, set.Lat[i])
		}
		// Wrap around the track start so antimeridian crossers draw as one
		// continuous curve.
		p.lon, p.lat = geo.WrapLongitude(p.lon, p.lat, p.lon[0]-180)
		paths = append(paths, p)
	}
	return paths
}

// combinedPath flattens every assigned track into a single polyline with a
// gap marker at each track change. Rows must be sorted by track then time,
// the order runs are stored in.
func combinedPath(set *eddy.ObservationSet) trackPath {
	var lon, lat []float64
	var track []uint32
	for i := 0; i < set.Len(); i++ {
		if set.Track[i] == 0 {
			continue
		}
		lon = append(lon, set.Lon[i])
		lat = append(lat, set.Lat[i])
		track = append(track, set.Track[i])
	}
	p := trackPath{name: "tracks"}
	p.lon, p.lat = geo.SplitLine(lon, lat, track)
	return p
}
