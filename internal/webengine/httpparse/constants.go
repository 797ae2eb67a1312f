// Package httpparse implements the incremental, restartable HTTP/1.1
// header parser: component C of the request/response engine. Unlike a
// conventional io.Reader-driven parser, Feed is designed to be called
// repeatedly on the same growing buffer across many non-blocking reads,
// returning Incomplete until a full header block has arrived.
package httpparse

const (
	// MaxRequestLineSize bounds the request line per RFC 7230 guidance.
	MaxRequestLineSize = 8192
	// MaxHeadersSize bounds the total size of the header block.
	MaxHeadersSize = 16384
	// MaxHeaderName bounds a single header field name.
	MaxHeaderName = 64
	// MaxHeaderValue bounds a single header field value stored inline.
	MaxHeaderValue = 4096
	// MaxParseAttempts is the retry bound: if the buffer size has not
	// advanced across this many Feed calls, the connection is judged
	// stalled (spec.md §4.C step 1).
	MaxParseAttempts = 10
)

// headersEndMarker is the CRLFCRLF sequence terminating the header block.
var headersEndMarker = []byte("\r\n\r\n")
