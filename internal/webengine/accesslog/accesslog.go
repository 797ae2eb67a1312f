// Package accesslog records one structured entry per completed request.
// The default JSON sink always compiles in; a Prometheus sink is
// available behind the "prometheus" build tag for deployments that want
// counters/histograms instead of, or alongside, the log lines.
package accesslog

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/yourusername/agentweb/internal/webengine/conn"
)

// Entry is the on-the-wire JSON shape of one access-log line.
type Entry struct {
	Time       string `json:"time"`
	RemoteAddr string `json:"remote_addr"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	Status     int    `json:"status"`
	BytesSent  int64  `json:"bytes_sent"`
	DurationMS int64  `json:"duration_ms"`
	KeepAlive  bool   `json:"keep_alive"`
	Gzipped    bool   `json:"gzipped"`
}

// JSONSink writes one JSON-encoded Entry per line to an io.Writer.
type JSONSink struct {
	mu sync.Mutex
	w  io.Writer
	enc *json.Encoder
}

// NewJSONSink wraps w for structured access logging.
func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{w: w, enc: json.NewEncoder(w)}
}

// LogRequest implements conn.AccessLogger.
func (s *JSONSink) LogRequest(r conn.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.enc.Encode(Entry{
		Time:       time.Now().UTC().Format(time.RFC3339),
		RemoteAddr: r.RemoteAddr,
		Method:     r.Method,
		Path:       r.Path,
		Status:     r.Status,
		BytesSent:  r.BytesSent,
		DurationMS: r.Duration.Milliseconds(),
		KeepAlive:  r.KeepAlive,
		Gzipped:    r.Gzipped,
	})
}

// MultiSink fans a single Record out to every sink in order.
type MultiSink []conn.AccessLogger

// LogRequest implements conn.AccessLogger.
func (m MultiSink) LogRequest(r conn.Record) {
	for _, sink := range m {
		sink.LogRequest(r)
	}
}
