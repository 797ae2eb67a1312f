package compress

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestChunkedGzipRoundTrip(t *testing.T) {
	var wire bytes.Buffer
	cw, err := NewChunkedGzipWriter(&wire, gzip.DefaultCompression)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload := strings.Repeat("hello world ", 500)
	if _, err := io.WriteString(cw, payload); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := cw.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	decoded := dechunk(t, wire.Bytes())
	gr, err := gzip.NewReader(bytes.NewReader(decoded))
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	out, err := io.ReadAll(gr)
	if err != nil {
		t.Fatalf("gzip read: %v", err)
	}
	if string(out) != payload {
		t.Fatalf("round-tripped payload mismatch: got %d bytes, want %d", len(out), len(payload))
	}

	sent, _, zsent := cw.Counters()
	if sent != int64(len(payload)) {
		t.Fatalf("expected sent=%d, got %d", len(payload), sent)
	}
	if zsent == 0 {
		t.Fatal("expected non-zero compressed bytes sent")
	}
}

func TestPlainChunkedWriter(t *testing.T) {
	var wire bytes.Buffer
	pw := NewPlainChunkedWriter(&wire)
	if _, err := pw.Write([]byte("abc")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := pw.Write([]byte("defgh")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := pw.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	decoded := dechunk(t, wire.Bytes())
	if string(decoded) != "abcdefgh" {
		t.Fatalf("unexpected dechunked payload %q", decoded)
	}
	if pw.Sent() != 8 {
		t.Fatalf("expected Sent()=8, got %d", pw.Sent())
	}
}

func TestCopyFile(t *testing.T) {
	var wire bytes.Buffer
	cw, err := NewChunkedGzipWriter(&wire, gzip.DefaultCompression)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	src := strings.NewReader(strings.Repeat("x", 100000))
	n, err := CopyFile(cw, src, 4096)
	if err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}
	if n != 100000 {
		t.Fatalf("expected 100000 bytes copied, got %d", n)
	}
	if err := cw.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

// dechunk parses HTTP/1.1 chunked framing back into the raw payload.
func dechunk(t *testing.T, wire []byte) []byte {
	t.Helper()
	var out []byte
	for {
		crlf := bytes.Index(wire, []byte("\r\n"))
		if crlf == -1 {
			t.Fatalf("malformed chunk header in %q", wire)
		}
		sizeLine := string(wire[:crlf])
		var size int64
		if _, err := fmtSscan(sizeLine, &size); err != nil {
			t.Fatalf("bad chunk size %q: %v", sizeLine, err)
		}
		wire = wire[crlf+2:]
		if size == 0 {
			return out
		}
		out = append(out, wire[:size]...)
		wire = wire[size+2:] // skip data + trailing CRLF
	}
}

func fmtSscan(hex string, out *int64) (int, error) {
	var v int64
	for _, c := range hex {
		var d int64
		switch {
		case c >= '0' && c <= '9':
			d = int64(c - '0')
		case c >= 'a' && c <= 'f':
			d = int64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = int64(c-'A') + 10
		default:
			return 0, io.ErrUnexpectedEOF
		}
		v = v*16 + d
	}
	*out = v
	return 1, nil
}
