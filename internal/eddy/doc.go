// Package eddy owns the track-assembly engine for mesoscale eddy
// observations.
//
// Responsibilities: columnar observation storage, track and time bucket
// indices, greedy forward-chaining track assembly per detection group,
// track-boundary-aware smoothing filters, and track-level extraction and
// statistics helpers.
//
// Geometry scoring lives in internal/geo; persistence and HTTP surfaces
// live in internal/db and internal/api and must not be imported here.
package eddy
