package conn

import "time"

// Record is one access-log entry, handed to the AccessLogger collaborator
// after each request completes (component J, spec.md §4.J).
type Record struct {
	RemoteAddr string
	Method     string
	Path       string
	Status     int
	BytesSent  int64
	Duration   time.Duration
	KeepAlive  bool
	Gzipped    bool
}

// AccessLogger receives a Record for every completed request. The
// concrete sinks (structured JSON, Prometheus) live in the accesslog
// package; conn depends only on this interface to avoid an import cycle.
type AccessLogger interface {
	LogRequest(Record)
}

// NopLogger discards every record.
type NopLogger struct{}

// LogRequest implements AccessLogger.
func (NopLogger) LogRequest(Record) {}
