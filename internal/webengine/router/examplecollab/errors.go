package examplecollab

import "errors"

// ErrIngestUnavailable is returned by NoopIngestSpawner.Spawn.
var ErrIngestUnavailable = errors.New("examplecollab: streaming ingest not wired")
