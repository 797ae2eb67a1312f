package accesslog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/yourusername/agentweb/internal/webengine/conn"
)

func TestJSONSinkWritesOneLinePerRecord(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONSink(&buf)

	sink.LogRequest(conn.Record{
		RemoteAddr: "127.0.0.1:1234",
		Method:     "GET",
		Path:       "/index.html",
		Status:     200,
		BytesSent:  1024,
		Duration:   15 * time.Millisecond,
		KeepAlive:  true,
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one log line, got %d", len(lines))
	}

	var entry Entry
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON line: %v", err)
	}
	if entry.Status != 200 || entry.Path != "/index.html" || entry.DurationMS != 15 {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestMultiSinkFansOut(t *testing.T) {
	var a, b bytes.Buffer
	multi := MultiSink{NewJSONSink(&a), NewJSONSink(&b)}
	multi.LogRequest(conn.Record{Method: "GET", Status: 200})

	if a.Len() == 0 || b.Len() == 0 {
		t.Fatal("expected both sinks to receive the record")
	}
}
