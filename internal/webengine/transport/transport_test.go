package transport

import (
	"net"
	"testing"
	"time"
)

func TestPlainReadWouldBlock(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := NewPlain(server)
	if err := c.SetDeadline(time.Now().Add(10 * time.Millisecond)); err != nil {
		t.Fatalf("SetDeadline: %v", err)
	}

	buf := make([]byte, 16)
	_, err := c.Read(buf)
	wb, ok := AsWouldBlock(err)
	if !ok {
		t.Fatalf("expected WouldBlock, got %v", err)
	}
	if !wb.WantRead {
		t.Fatal("expected WantRead to be set")
	}
}

func TestPlainReadWriteSucceeds(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := NewPlain(server)
	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 5)
		n, err := client.Read(buf)
		if err != nil {
			t.Errorf("client read: %v", err)
			return
		}
		if string(buf[:n]) != "hello" {
			t.Errorf("unexpected payload %q", buf[:n])
		}
	}()

	if err := c.SetDeadline(time.Now().Add(time.Second)); err != nil {
		t.Fatalf("SetDeadline: %v", err)
	}
	if _, err := c.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	<-done
}

func TestIsEncrypted(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	defer server.Close()
	c := NewPlain(server)
	if c.IsEncrypted() {
		t.Fatal("plain connection must not report IsEncrypted")
	}
}
