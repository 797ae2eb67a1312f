package compress

import (
	"fmt"
	"io"
)

// PlainChunkedWriter frames writes as HTTP/1.1 chunks without
// compression. The connection slot's plain send path does not use it: a
// response to a client that did not send "Accept-Encoding: gzip" is
// written unchunked with a Content-Length.
type PlainChunkedWriter struct {
	w    io.Writer
	sent int64
}

// NewPlainChunkedWriter wraps w for uncompressed chunked output.
func NewPlainChunkedWriter(w io.Writer) *PlainChunkedWriter {
	return &PlainChunkedWriter{w: w}
}

// Write frames p as a single chunk.
func (p *PlainChunkedWriter) Write(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}
	if _, err := fmt.Fprintf(p.w, "%x\r\n", len(data)); err != nil {
		return 0, err
	}
	n, err := p.w.Write(data)
	p.sent += int64(n)
	if err != nil {
		return n, err
	}
	if _, err := io.WriteString(p.w, "\r\n"); err != nil {
		return n, err
	}
	return n, nil
}

// Close emits the terminating zero-length chunk.
func (p *PlainChunkedWriter) Close() error {
	_, err := io.WriteString(p.w, "0\r\n\r\n")
	return err
}

// Sent returns the number of uncompressed bytes written so far.
func (p *PlainChunkedWriter) Sent() int64 { return p.sent }
