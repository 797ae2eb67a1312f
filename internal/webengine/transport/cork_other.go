//go:build !linux

package transport

import "net"

// SetCork is a no-op on platforms without TCP_CORK; TCP_NODELAY already
// covers the common small-write-latency case there.
func SetCork(conn net.Conn, enable bool) error {
	return nil
}
