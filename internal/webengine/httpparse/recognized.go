package httpparse

import (
	"strings"
	"sync"
)

// recognizedHeader identifies one of the fixed set of header names this
// engine interprets (spec.md §4.C step 5). Anything else is ignored —
// this engine does not preserve arbitrary headers (Non-goals).
type recognizedHeader int

const (
	hdrUnknown recognizedHeader = iota
	hdrOrigin
	hdrConnection
	hdrAcceptEncoding
	hdrDNT
	hdrUserAgent
	hdrXAuthToken
	hdrHost
	hdrXForwardedHost
)

// headerSeeds is the process-wide, write-once lookup from lower-cased
// header name to its recognizedHeader id. Design Notes §9 calls for
// lazy one-time initialization shared across all slots, not a per-slot
// rebuild; sync.Once gives every concurrent first caller the same map.
var (
	headerSeedsOnce sync.Once
	headerSeeds     map[string]recognizedHeader
)

func initHeaderSeeds() {
	headerSeeds = map[string]recognizedHeader{
		"origin":            hdrOrigin,
		"connection":        hdrConnection,
		"accept-encoding":   hdrAcceptEncoding,
		"dnt":               hdrDNT,
		"user-agent":        hdrUserAgent,
		"x-auth-token":      hdrXAuthToken,
		"host":              hdrHost,
		"x-forwarded-host":  hdrXForwardedHost,
	}
}

func lookupRecognized(name []byte) recognizedHeader {
	headerSeedsOnce.Do(initHeaderSeeds)
	h, ok := headerSeeds[strings.ToLower(string(name))]
	if !ok {
		return hdrUnknown
	}
	return h
}

// RecognizedHeaders holds the owned copies of the fixed header set the
// engine interprets, one per client slot. Each field is nil/empty when
// the header was absent from the request.
type RecognizedHeaders struct {
	Origin          string
	UserAgent       string
	AuthBearer      string
	Host            string
	ForwardedHost   string
	KeepAlive       bool
	AcceptsGzip     bool
	DNT             bool
}

// Reset clears all fields for reuse on slot reset.
func (h *RecognizedHeaders) Reset() {
	*h = RecognizedHeaders{}
}

func trimLeadingSpace(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	return b
}

func trimTrailingSpace(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}
	return b
}

func containsCaseInsensitive(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// extractBearer pulls the token out of "Bearer <token>"; an
// Authorization header in any other scheme is ignored.
func extractBearer(value string) string {
	const prefix = "bearer "
	if len(value) <= len(prefix) {
		return ""
	}
	if !strings.EqualFold(value[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(value[len(prefix):])
}

// apply records a recognized header's value onto h, per spec.md §4.C
// step 5's per-name handling.
func (h *RecognizedHeaders) apply(id recognizedHeader, name, value []byte) {
	v := string(value)
	switch id {
	case hdrOrigin:
		h.Origin = v
	case hdrConnection:
		if strings.EqualFold(v, "keep-alive") {
			h.KeepAlive = true
		}
	case hdrAcceptEncoding:
		if containsCaseInsensitive(v, "gzip") {
			h.AcceptsGzip = true
		}
	case hdrDNT:
		h.DNT = v == "1"
	case hdrUserAgent:
		h.UserAgent = v
	case hdrXAuthToken:
		h.AuthBearer = v
	case hdrHost:
		h.Host = v
	case hdrXForwardedHost:
		h.ForwardedHost = v
	}
}

// authorizationBearer is handled separately from the fixed recognized
// set because the source header name ("Authorization") is distinct from
// the token field name used elsewhere in the slot; X-Auth-Token above
// covers the telemetry agent's own bearer convention, Authorization
// covers the standard one.
func (h *RecognizedHeaders) applyAuthorization(value []byte) {
	if tok := extractBearer(string(value)); tok != "" {
		h.AuthBearer = tok
	}
}
