package router

import "errors"

var (
	// ErrCapabilityDenied is returned by RouteStream when the AccessGate
	// refuses the "stream" capability.
	ErrCapabilityDenied = errors.New("router: capability denied")
	// ErrIngestUnavailable is returned by RouteStream when no
	// IngestSpawner collaborator is configured.
	ErrIngestUnavailable = errors.New("router: no ingest spawner configured")
)
