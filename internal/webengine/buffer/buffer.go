// Package buffer provides the growable byte buffer used throughout the
// request/response cycle: request accumulation, response bodies, header
// scratch space, and serialized header output.
package buffer

import (
	"fmt"
	"time"
)

// Buffer is a growable, append-only byte buffer carrying the small set of
// response metadata the engine needs alongside the bytes themselves.
// Reset retains the underlying array so a Buffer can be reused across
// requests on the same client slot without re-allocating.
type Buffer struct {
	data []byte

	ContentType  string
	Date         time.Time
	Expires      time.Time
	NotCacheable bool
}

// New returns a Buffer with the given initial capacity.
func New(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity)}
}

// Reset truncates the buffer to zero length and clears its metadata,
// retaining the allocated capacity for reuse.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.ContentType = ""
	b.Date = time.Time{}
	b.Expires = time.Time{}
	b.NotCacheable = false
}

// Len returns the number of bytes currently held.
func (b *Buffer) Len() int { return len(b.data) }

// Cap returns the buffer's current capacity.
func (b *Buffer) Cap() int { return cap(b.data) }

// Bytes returns the accumulated bytes. The slice is valid until the next
// mutating call on the Buffer.
func (b *Buffer) Bytes() []byte { return b.data }

// NeedBytes ensures the buffer can hold at least n additional bytes
// without reallocating on the next append, growing the backing array if
// necessary. Growth never drops existing data.
func (b *Buffer) NeedBytes(n int) {
	if cap(b.data)-len(b.data) >= n {
		return
	}
	grown := make([]byte, len(b.data), len(b.data)+n)
	copy(grown, b.data)
	b.data = grown
}

// Write implements io.Writer, appending p and growing as needed.
func (b *Buffer) Write(p []byte) (int, error) {
	b.NeedBytes(len(p))
	b.data = append(b.data, p...)
	return len(p), nil
}

// WriteString appends a string without an intermediate []byte copy.
func (b *Buffer) WriteString(s string) {
	b.NeedBytes(len(s))
	b.data = append(b.data, s...)
}

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(c byte) error {
	b.NeedBytes(1)
	b.data = append(b.data, c)
	return nil
}

// Strcat appends each argument's bytes in order.
func (b *Buffer) Strcat(parts ...string) {
	for _, p := range parts {
		b.WriteString(p)
	}
}

// Sprintf appends fmt.Sprintf(format, args...) without an intermediate
// string allocation surviving past the call (Buffer still copies into
// its own array, but the caller never sees the temporary).
func (b *Buffer) Sprintf(format string, args ...interface{}) {
	b.WriteString(fmt.Sprintf(format, args...))
}

// htmlEscapes maps bytes that must never appear unescaped inside HTML
// output (e.g. a host name or file name echoed back to the client).
var htmlEscapes = map[byte]string{
	'&':  "&amp;",
	'<':  "&lt;",
	'>':  "&gt;",
	'"':  "&quot;",
	'\'': "&#39;",
}

// WriteHTMLEscaped appends s with '&', '<', '>', '"' and '\'' escaped.
// Used whenever attacker-controlled input (a URL, a host name) is
// reflected into an HTML error body.
func (b *Buffer) WriteHTMLEscaped(s string) {
	for i := 0; i < len(s); i++ {
		if esc, ok := htmlEscapes[s[i]]; ok {
			b.WriteString(esc)
		} else {
			b.WriteByte(s[i])
		}
	}
}

// ReplaceControlWithSpace appends s with any byte < 0x20 (control
// character) replaced by a space. Used by the access log to sanitize
// the as-received URL before logging it.
func (b *Buffer) ReplaceControlWithSpace(s string) {
	b.NeedBytes(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 {
			c = ' '
		}
		b.data = append(b.data, c)
	}
}

// Truncate shrinks the buffer to the first n bytes, retaining capacity.
// Truncate is a no-op if n >= Len().
func (b *Buffer) Truncate(n int) {
	if n < len(b.data) {
		b.data = b.data[:n]
	}
}
