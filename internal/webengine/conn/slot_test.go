package conn

import (
	"bufio"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yourusername/agentweb/internal/webengine/config"
	"github.com/yourusername/agentweb/internal/webengine/router"
	"github.com/yourusername/agentweb/internal/webengine/router/examplecollab"
	"github.com/yourusername/agentweb/internal/webengine/transport"
)

func pipePair(t *testing.T) (server, client net.Conn) {
	t.Helper()
	s, c := net.Pipe()
	t.Cleanup(func() { s.Close(); c.Close() })
	return s, c
}

func TestSlotServesStaticFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "hello.txt"), []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	server, client := pipePair(t)
	cfg := config.Default()
	cfg.WebRoot = root
	cfg.RequestTimeout = 2 * time.Second

	rt := router.New(root, nil, examplecollab.AllowAllGate{}, nil, nil)
	slot := NewSlot(transport.NewPlain(server), cfg, rt, nil)

	done := make(chan error, 1)
	go func() { done <- slot.Serve(context.Background()) }()

	if _, err := client.Write([]byte("GET /hello.txt HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n")); err != nil {
		t.Fatalf("client write: %v", err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	br := bufio.NewReader(client)
	statusLine, err := br.ReadString('\n')
	if err != nil {
		t.Fatalf("read status line: %v", err)
	}
	if !strings.HasPrefix(statusLine, "HTTP/1.1 200") {
		t.Fatalf("unexpected status line %q", statusLine)
	}

	var bodyFound bool
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			break
		}
		if strings.TrimRight(line, "\r\n") == "" {
			rest := make([]byte, len("hello world"))
			if _, err := br.Read(rest); err == nil && string(rest) == "hello world" {
				bodyFound = true
			}
			break
		}
	}
	if !bodyFound {
		t.Fatal("expected response body \"hello world\"")
	}

	client.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after client close")
	}
}

func TestSlotNotFound(t *testing.T) {
	root := t.TempDir()
	server, client := pipePair(t)
	cfg := config.Default()
	cfg.WebRoot = root
	cfg.RequestTimeout = 2 * time.Second

	rt := router.New(root, nil, examplecollab.AllowAllGate{}, nil, nil)
	slot := NewSlot(transport.NewPlain(server), cfg, rt, nil)

	go slot.Serve(context.Background())

	client.Write([]byte("GET /missing HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n"))
	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	br := bufio.NewReader(client)
	statusLine, err := br.ReadString('\n')
	if err != nil {
		t.Fatalf("read status line: %v", err)
	}
	if !strings.HasPrefix(statusLine, "HTTP/1.1 404") {
		t.Fatalf("unexpected status line %q", statusLine)
	}
}
