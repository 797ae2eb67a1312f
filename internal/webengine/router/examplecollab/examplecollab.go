// Package examplecollab provides trivial, in-memory implementations of
// the router package's collaborator interfaces. They exist for tests
// and for cmd/agentweb's demo wiring; they are not part of the engine's
// contract and a real deployment replaces every one of them.
package examplecollab

import (
	"context"
	"strings"
	"sync"

	"github.com/yourusername/agentweb/internal/webengine/buffer"
	"github.com/yourusername/agentweb/internal/webengine/urlpath"
)

// StaticHostResolver resolves node identifiers from a fixed in-memory
// map, case-sensitively.
type StaticHostResolver struct {
	mu    sync.RWMutex
	hosts map[string]string
}

// NewStaticHostResolver builds a resolver from an id→canonical map.
func NewStaticHostResolver(hosts map[string]string) *StaticHostResolver {
	cp := make(map[string]string, len(hosts))
	for k, v := range hosts {
		cp[k] = v
	}
	return &StaticHostResolver{hosts: cp}
}

// Resolve implements router.HostResolver.
func (s *StaticHostResolver) Resolve(_ context.Context, id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	canonical, ok := s.hosts[id]
	return canonical, ok
}

// AllowAllGate grants every capability; useful for local/dev wiring
// where no ACL has been configured.
type AllowAllGate struct{}

// Allowed implements router.AccessGate.
func (AllowAllGate) Allowed(context.Context, string, string) bool { return true }

// EchoAPIHandler writes a minimal JSON body describing the decoded
// request; it stands in for the real v1/v2 API handlers this module
// does not implement.
type EchoAPIHandler struct{}

// ServeAPI implements router.APIHandler.
func (EchoAPIHandler) ServeAPI(_ context.Context, d urlpath.Decoded, out *buffer.Buffer) (int, string) {
	out.Strcat(`{"path":"`, escapeJSON(d.Path), `"}`)
	return 200, "application/json; charset=utf-8"
}

func escapeJSON(s string) string {
	return strings.NewReplacer(`"`, `\"`, `\`, `\\`).Replace(s)
}

// NoopIngestSpawner rejects every STREAM request; a real deployment
// wires this to the streaming-ingest worker pool.
type NoopIngestSpawner struct{}

// Spawn implements router.IngestSpawner.
func (NoopIngestSpawner) Spawn(context.Context, string) error { return ErrIngestUnavailable }
