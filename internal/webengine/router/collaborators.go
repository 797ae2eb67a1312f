// Package router implements component E: dispatching a decoded request
// path to the right handler — API, host-switch, dashboard version
// prefix, the netdata.conf dump, or the static file fallback — without
// owning any of the concrete behavior behind those routes. The four
// external collaborator interfaces below are the engine's entire
// contract with the rest of the telemetry agent; concrete
// implementations (a real metrics database host lookup, an access
// control list, the actual API handlers, the ingest worker pool) live
// outside this module.
package router

import (
	"context"

	"github.com/yourusername/agentweb/internal/webengine/buffer"
	"github.com/yourusername/agentweb/internal/webengine/urlpath"
)

// HostResolver looks up a node identifier (node id, hostname, or GUID)
// and reports whether this instance can answer for it directly, or
// should proxy/recurse to a different backend. Implementations back
// this with the metrics database's host table, out of scope here.
type HostResolver interface {
	// Resolve returns the canonical host path segment to substitute for
	// id, and ok=false if id names no known host.
	Resolve(ctx context.Context, id string) (canonical string, ok bool)
}

// AccessGate answers capability questions the router needs before
// dispatching a gated route (static files, the host switch, the
// netdata.conf dump, STREAM); /api/* requests are not gated.
// Implementations back this with the agent's ACL/claims configuration.
type AccessGate interface {
	// Allowed reports whether the given capability is granted for this
	// request ("dashboard", "registry", "config-dump" or "stream").
	Allowed(ctx context.Context, capability string, origin string) bool
}

// APIHandler serves a request already identified as targeting /api/*.
// Concrete v1/v2 handlers, and the metrics query engine behind them,
// are out of scope for this module.
type APIHandler interface {
	ServeAPI(ctx context.Context, path urlpath.Decoded, out *buffer.Buffer) (status int, contentType string)
}

// IngestSpawner is invoked for the STREAM pseudo-method: it hands the
// connection off to the streaming-ingest worker pool, which is out of
// scope here (spec.md §1's "Out of scope" list).
type IngestSpawner interface {
	Spawn(ctx context.Context, remoteAddr string) error
}
