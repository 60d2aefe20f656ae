// Package db persists observation sets and track-assembly runs to sqlite.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/oceandata/eddytrack/internal/eddy"
)

type DB struct {
	*sql.DB
}

func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			label             TEXT,
			window            BIGINT,
			intern            BOOLEAN,
			num_observations  BIGINT,
			created           TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS observations (
			run_id            TEXT,
			obs               BIGINT,
			lon               DOUBLE,
			lat               DOUBLE,
			time              BIGINT,
			group_id          BIGINT,
			track             BIGINT,
			virtual           BOOLEAN,
			previous_cost     DOUBLE,
			next_cost         DOUBLE,
			previous_obs      BIGINT,
			next_obs          BIGINT,
			speed_contour     TEXT,
			effective_contour TEXT,
			PRIMARY KEY (run_id, obs),
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// RunMeta describes one stored track-assembly run.
type RunMeta struct {
	RunID           string    `json:"run_id"`
	Label           string    `json:"label"`
	Window          int64     `json:"window"`
	Intern          bool      `json:"intern"`
	NumObservations int64     `json:"num_observations"`
	Created         time.Time `json:"created"`
}

// contour is the JSON shape contour rings are stored as.
type contour struct {
	Lon []float64 `json:"lon"`
	Lat []float64 `json:"lat"`
}

// SaveRun stores an observation set, including its assembled link columns,
// under a fresh run id and returns the id.
func (db *DB) SaveRun(set *eddy.ObservationSet, cfg eddy.SplitConfig, label string) (string, error) {
	runID := uuid.NewString()

	tx, err := db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (run_id, label, window, intern, num_observations) VALUES (?, ?, ?, ?, ?)`,
		runID, label, cfg.Window, cfg.Intern, set.Len(),
	); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO observations
		(run_id, obs, lon, lat, time, group_id, track, virtual,
		 previous_cost, next_cost, previous_obs, next_obs,
		 speed_contour, effective_contour)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i := 0; i < set.Len(); i++ {
		speed, err := json.Marshal(contour{Lon: set.SpeedContourLon[i], Lat: set.SpeedContourLat[i]})
		if err != nil {
			return "", err
		}
		effective, err := json.Marshal(contour{Lon: set.EffectiveContourLon[i], Lat: set.EffectiveContourLat[i]})
		if err != nil {
			return "", err
		}
		if _, err := stmt.Exec(
			runID, i, set.Lon[i], set.Lat[i], set.Time[i], set.Group[i],
			set.Track[i], set.Virtual[i],
			set.PreviousCost[i], set.NextCost[i],
			set.PreviousObs[i], set.NextObs[i],
			string(speed), string(effective),
		); err != nil {
			return "", fmt.Errorf("failed to insert observation %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// LoadRun reads back a stored run in observation order.
func (db *DB) LoadRun(runID string) (*eddy.ObservationSet, error) {
	var n int
	err := db.QueryRow(`SELECT num_observations FROM runs WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}

	rows, err := db.Query(`SELECT obs, lon, lat, time, group_id, track, virtual,
		previous_cost, next_cost, previous_obs, next_obs, speed_contour, effective_contour
		FROM observations WHERE run_id = ? ORDER BY obs`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := eddy.NewObservationSet(n)
	for rows.Next() {
		var (
			i                int
			speed, effective string
		)
		if err := rows.Scan(&i, &set.Lon[i], &set.Lat[i], &set.Time[i],
			&set.Group[i], &set.Track[i], &set.Virtual[i],
			&set.PreviousCost[i], &set.NextCost[i],
			&set.PreviousObs[i], &set.NextObs[i],
			&speed, &effective); err != nil {
			return nil, err
		}
		var c contour
		if err := json.Unmarshal([]byte(speed), &c); err != nil {
			return nil, fmt.Errorf("bad speed contour at obs %d: %w", i, err)
		}
		set.SpeedContourLon[i], set.SpeedContourLat[i] = c.Lon, c.Lat
		if err := json.Unmarshal([]byte(effective), &c); err != nil {
			return nil, fmt.Errorf("bad effective contour at obs %d: %w", i, err)
		}
		set.EffectiveContourLon[i], set.EffectiveContourLat[i] = c.Lon, c.Lat
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	set.SetTrackColumn(set.Track)
	return set, nil
}

// ListRuns returns stored runs newest first.
func (db *DB) ListRuns() ([]RunMeta, error) {
	rows, err := db.Query(`SELECT run_id, label, window, intern, num_observations, created
		FROM runs ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunMeta
	for rows.Next() {
		var r RunMeta
		if err := rows.Scan(&r.RunID, &r.Label, &r.Window, &r.Intern, &r.NumObservations, &r.Created); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// TrackSummary aggregates one assembled track of a run.
type TrackSummary struct {
	Group     uint32  `json:"group"`
	Track     uint32  `json:"track"`
	NumObs    int64   `json:"num_obs"`
	StartTime int64   `json:"start_time"`
	EndTime   int64   `json:"end_time"`
	StartLon  float64 `json:"start_lon"`
	StartLat  float64 `json:"start_lat"`
	EndLon    float64 `json:"end_lon"`
	EndLat    float64 `json:"end_lat"`
}

// TrackSummaries aggregates the tracks of a run. Track ids are unique per
// group only, so summaries are keyed by (group, track).
func (db *DB) TrackSummaries(runID string) ([]TrackSummary, error) {
	rows, err := db.Query(`SELECT group_id, track, COUNT(*), MIN(time), MAX(time)
		FROM observations
		WHERE run_id = ? AND track != 0
		GROUP BY group_id, track
		ORDER BY group_id, track`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []TrackSummary
	for rows.Next() {
		var s TrackSummary
		if err := rows.Scan(&s.Group, &s.Track, &s.NumObs, &s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range summaries {
		s := &summaries[i]
		err := db.QueryRow(`SELECT lon, lat FROM observations
			WHERE run_id = ? AND group_id = ? AND track = ? ORDER BY time, obs LIMIT 1`,
			runID, s.Group, s.Track).Scan(&s.StartLon, &s.StartLat)
		if err != nil {
			return nil, err
		}
		err = db.QueryRow(`SELECT lon, lat FROM observations
			WHERE run_id = ? AND group_id = ? AND track = ? ORDER BY time DESC, obs DESC LIMIT 1`,
			runID, s.Group, s.Track).Scan(&s.EndLon, &s.EndLat)
		if err != nil {
			return nil, err
		}
	}
	return summaries, nil
}
