// Command eddytrack assembles eddy detection groups into tracks and serves
// stored runs over HTTP.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/oceandata/eddytrack/internal/api"
	"github.com/oceandata/eddytrack/internal/db"
	"github.com/oceandata/eddytrack/internal/eddy"
	"github.com/oceandata/eddytrack/internal/units"
	"github.com/oceandata/eddytrack/internal/version"
)

var (
	dbPath = flag.String("db", "eddytrack.db", "Path to the sqlite database")

	demo       = flag.Bool("demo", false, "Generate a synthetic dataset, assemble tracks and store the run")
	resplit    = flag.String("resplit", "", "Re-assemble a stored run id with the current window settings")
	demoGroups = flag.Int("demo-groups", 8, "Number of detection groups in the demo dataset")
	demoDays   = flag.Int("demo-days", 120, "Number of days in the demo dataset")

	window  = flag.Int64("window", 5, "Max day gap bridged when searching for a track continuation")
	extern  = flag.Bool("extern", false, "Score overlap on the effective (outer) contour instead of the speed contour")
	workers = flag.Int("workers", 0, "Concurrent groups during assembly (0 = GOMAXPROCS)")

	medianHW = flag.Float64("median", 0, "Median position filter half window in days (0 disables)")
	loessHW  = flag.Float64("loess", 0, "Loess position filter half window in days (0 disables)")

	serve  = flag.Bool("serve", false, "Serve the HTTP API")
	listen = flag.String("listen", ":8080", "Listen address")
	label  = flag.String("label", "", "Label stored with the run")

	distUnits   = flag.String("units", units.KM, "Distance units for reported statistics ("+units.GetValidUnitsString()+")")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("eddytrack %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}
	if !units.IsValid(*distUnits) {
		log.Fatalf("invalid units %q, want one of %s", *distUnits, units.GetValidUnitsString())
	}

	if !*demo && *resplit == "" && !*serve {
		flag.Usage()
		return
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if *demo {
		runDemo(database)
	}

	if *resplit != "" {
		runResplit(database, *resplit)
	}

	if *serve {
		server := api.NewServer(database)
		log.Printf("listening on %s", *listen)
		log.Fatal(http.ListenAndServe(*listen, server.ServeMux()))
	}
}

func runDemo(database *db.DB) {
	set := demoSet(*demoGroups, *demoDays)
	log.Printf("generated %d observations in %d groups over %d days", set.Len(), *demoGroups, *demoDays)
	assembleAndStore(database, set)
}

func runResplit(database *db.DB, sourceID string) {
	set, err := database.LoadRun(sourceID)
	if err != nil {
		log.Fatalf("failed to load run %s: %v", sourceID, err)
	}
	log.Printf("loaded %d observations from run %s", set.Len(), sourceID)
	set.SortByGroupTime()
	assembleAndStore(database, set)
}

func assembleAndStore(database *db.DB, set *eddy.ObservationSet) {
	cfg := eddy.SplitConfig{Window: *window, Intern: !*extern, Workers: *workers}
	links, err := eddy.SplitNetwork(set, cfg)
	if err != nil {
		log.Fatalf("failed to split network: %v", err)
	}
	set.ApplyLinks(links)
	set.GlobalizeTrackIDs()
	set.SortByTrackTime()

	if *medianHW > 0 {
		x := set.TimeFloat()
		set.Lon = eddy.MedianFilter(*medianHW, x, set.Lon, set.Track)
		set.Lat = eddy.MedianFilter(*medianHW, x, set.Lat, set.Track)
	}
	if *loessHW > 0 {
		x := set.TimeFloat()
		set.Lon = eddy.LoessFilter(*loessHW, x, set.Lon, set.Track)
		set.Lat = eddy.LoessFilter(*loessHW, x, set.Lat, set.Track)
	}

	runID, err := database.SaveRun(set, cfg, *label)
	if err != nil {
		log.Fatalf("failed to save run: %v", err)
	}

	st := set.Stats()
	log.Printf("run %s: %d tracks over %d observations (%.2f obs/track, shortest %d, longest %d)",
		runID, st.NumTracks, st.NumObservations, st.ObsPerTrackMean, st.ShortestObs, st.LongestObs)
	log.Printf("distance per day: mean %.2f %s, median %.2f %s",
		units.ConvertDistance(st.DistancePerDayMean, *distUnits), *distUnits,
		units.ConvertDistance(st.DistancePerDayMedian, *distUnits), *distUnits)
}
