// Package config holds the tunables the request/response engine needs,
// plus their defaults.
package config

import "time"

// GzipStrategy selects the deflate strategy compress.NewChunkedGzipWriter
// hands to the underlying gzip encoder. GzipStrategyDefault uses the
// configured GzipLevel as-is; GzipStrategyHuffmanOnly forces
// flate.HuffmanOnly regardless of level, trading ratio for speed on
// already-compressed or highly random bodies.
type GzipStrategy int

const (
	GzipStrategyDefault GzipStrategy = iota
	GzipStrategyHuffmanOnly
)

// Config is the engine's own configuration surface. Process-wide
// concerns (socket acceptance, TLS certificate loading, the metrics
// database) are owned by the embedder and are not part of this struct.
type Config struct {
	// WebRoot is the directory static files are served from (component F).
	WebRoot string

	// RequestTimeout bounds how long a slot waits for a complete header
	// block before being torn down (spec.md §4.I timeout handling).
	RequestTimeout time.Duration

	// IdleTimeout bounds how long a reused, keep-alive slot waits for
	// the next request before being torn down.
	IdleTimeout time.Duration

	// MaxKeepAliveRequests caps how many requests a single connection
	// may serve before the engine forces "Connection: close". 0 means
	// unlimited.
	MaxKeepAliveRequests int

	// GzipLevel is passed to compress.NewChunkedGzipWriter.
	GzipLevel int

	// GzipStrategy is the deflate strategy paired with GzipLevel.
	GzipStrategy GzipStrategy

	// ForceTLS and RedirectNonTLS together gate httpparse.Policy: when
	// both are set, any non-STREAM request arriving over a plain
	// transport is redirected to HTTPS before routing.
	ForceTLS       bool
	RedirectNonTLS bool

	// RespectDNT gates both httpparse.Policy.RespectDNT (whether the
	// request-side DNT header is honoured at all) and the response's
	// Tk header (emitted only when this is set).
	RespectDNT bool

	// XFrameOptions, when non-empty, is emitted as the X-Frame-Options
	// response header on every response. Empty disables the header.
	XFrameOptions string
}

// Default returns the engine's default configuration.
func Default() Config {
	return Config{
		WebRoot:              "./web",
		RequestTimeout:       30 * time.Second,
		IdleTimeout:          120 * time.Second,
		MaxKeepAliveRequests: 0,
		GzipLevel:            6,
		GzipStrategy:         GzipStrategyDefault,
		ForceTLS:             false,
		RedirectNonTLS:       false,
		RespectDNT:           true,
		XFrameOptions:        "SAMEORIGIN",
	}
}
