package router

import (
	"context"
	"strings"

	"github.com/yourusername/agentweb/internal/webengine/buffer"
	"github.com/yourusername/agentweb/internal/webengine/staticfile"
	"github.com/yourusername/agentweb/internal/webengine/urlpath"
)

// Kind classifies what a Route call decided to do, so the connection
// state machine knows how to drive the response (spec.md §4.E).
type Kind int

const (
	// KindStatic means Static is populated; the caller acts on its
	// Outcome (stream the file, or redirect).
	KindStatic Kind = iota
	// KindAPI means the APIHandler collaborator already wrote the body
	// into the caller-supplied buffer.
	KindAPI
	// KindHostSwitch means the path's first segment was a host/node
	// selector; Rewritten holds the path to re-route with.
	KindHostSwitch
	// KindConfigDump means the netdata.conf route was taken.
	KindConfigDump
	// KindNotFound means nothing matched.
	KindNotFound
	// KindForbidden means a capability check failed.
	KindForbidden
)

// Result is what Route returns.
type Result struct {
	Kind Kind

	Static staticfile.Result

	APIStatus      int
	APIContentType string

	Rewritten string // for KindHostSwitch: the path to re-resolve
}

// Router is the immutable configuration a request is dispatched through.
// It holds no per-request state; one Router is shared across every slot.
type Router struct {
	WebRoot string
	Hosts   HostResolver
	Access  AccessGate
	API     APIHandler
	Ingest  IngestSpawner

	// ConfigDump, when non-nil, is called for GET /netdata.conf once the
	// AccessGate has granted the "config-dump" capability.
	ConfigDump func(out *buffer.Buffer)
}

// New builds a Router. Hosts, Access, API and Ingest may be nil; a nil
// collaborator makes the corresponding route behave as KindNotFound (or,
// for a capability gated by AccessGate, as a denial — this keeps the
// router usable in tests that only exercise one path, without requiring
// every collaborator to be stubbed).
func New(webRoot string, hosts HostResolver, access AccessGate, api APIHandler, ingest IngestSpawner) *Router {
	return &Router{WebRoot: webRoot, Hosts: hosts, Access: access, API: api, Ingest: ingest}
}

// Route dispatches a decoded path, per spec.md §4.E's first-segment
// switch: "api" to the API handler, "host"/"node" to the host-switch
// recursion, "v0"/"v1"/"v2" are dashboard version prefixes resolved as
// static files, "netdata.conf" behind a capability gate, everything else
// falls through to the static file resolver. Access gating is a boolean
// query per capability (spec.md §4.E): "dashboard" guards static serving,
// "registry" guards the host-switch, "config-dump" guards netdata.conf.
func (r *Router) Route(ctx context.Context, d urlpath.Decoded, origin string, out *buffer.Buffer) (Result, error) {
	if len(d.Segments) == 0 {
		return r.routeStatic(ctx, d, origin)
	}

	switch d.Segments[0] {
	case "api":
		return r.routeAPI(ctx, d, out)
	case "host", "node":
		return r.routeHostSwitch(ctx, d, origin)
	case "netdata.conf":
		return r.routeConfigDump(ctx, origin, out)
	default:
		return r.routeStatic(ctx, d, origin)
	}
}

// RouteStream hands a STREAM request to the ingest collaborator, once the
// "stream" capability is granted (spec.md §3/§4.E's internal ingest
// request mode). It is called directly by the connection slot rather
// than through Route, since a STREAM request carries no dashboard path
// to dispatch on.
func (r *Router) RouteStream(ctx context.Context, remoteAddr, origin string) error {
	if r.Access == nil || !r.Access.Allowed(ctx, "stream", origin) {
		return ErrCapabilityDenied
	}
	if r.Ingest == nil {
		return ErrIngestUnavailable
	}
	return r.Ingest.Spawn(ctx, remoteAddr)
}

func (r *Router) routeAPI(ctx context.Context, d urlpath.Decoded, out *buffer.Buffer) (Result, error) {
	if r.API == nil {
		return Result{Kind: KindNotFound}, nil
	}
	status, ct := r.API.ServeAPI(ctx, d, out)
	return Result{Kind: KindAPI, APIStatus: status, APIContentType: ct}, nil
}

// routeHostSwitch implements the node-id → hostname → GUID lookup with
// a lowercase retry spec.md §4.E describes: the first lookup tries the
// identifier exactly as given; if that fails, the lowercased form is
// tried once before giving up.
func (r *Router) routeHostSwitch(ctx context.Context, d urlpath.Decoded, origin string) (Result, error) {
	if r.Access == nil || !r.Access.Allowed(ctx, "registry", origin) {
		return Result{Kind: KindForbidden}, nil
	}
	if r.Hosts == nil || len(d.Segments) < 2 {
		return Result{Kind: KindNotFound}, nil
	}
	id := d.Segments[1]
	canonical, ok := r.Hosts.Resolve(ctx, id)
	if !ok {
		lower := strings.ToLower(id)
		if lower == id {
			return Result{Kind: KindNotFound}, nil
		}
		canonical, ok = r.Hosts.Resolve(ctx, lower)
		if !ok {
			return Result{Kind: KindNotFound}, nil
		}
	}

	rest := strings.Join(d.Segments[2:], "/")
	rewritten := "/" + canonical
	if rest != "" {
		rewritten += "/" + rest
	}
	return Result{Kind: KindHostSwitch, Rewritten: rewritten}, nil
}

func (r *Router) routeConfigDump(ctx context.Context, origin string, out *buffer.Buffer) (Result, error) {
	if r.Access == nil || !r.Access.Allowed(ctx, "config-dump", origin) {
		return Result{Kind: KindForbidden}, nil
	}
	if r.ConfigDump != nil {
		r.ConfigDump(out)
	}
	return Result{Kind: KindConfigDump}, nil
}

func (r *Router) routeStatic(ctx context.Context, d urlpath.Decoded, origin string) (Result, error) {
	if r.Access == nil || !r.Access.Allowed(ctx, "dashboard", origin) {
		return Result{Kind: KindForbidden}, nil
	}
	res, err := staticfile.Resolve(r.WebRoot, d)
	if err != nil {
		return Result{}, err
	}
	if res.Outcome == staticfile.NotFound {
		return Result{Kind: KindNotFound}, nil
	}
	return Result{Kind: KindStatic, Static: res}, nil
}
