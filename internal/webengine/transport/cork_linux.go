//go:build linux

package transport

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// SetCork toggles TCP_CORK on conn, delaying partial-segment flushes
// while the response header and the start of the body are written
// separately (spec.md §4.H's interleaved header/body send path). Cork
// failures are non-critical the same way socket.Apply treats its
// platform-specific options: log-and-continue in the caller, never fail
// the request.
func SetCork(conn net.Conn, enable bool) error {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}
	rawConn, err := tcpConn.SyscallConn()
	if err != nil {
		return err
	}

	var corkErr error
	val := 0
	if enable {
		val = 1
	}
	err = rawConn.Control(func(fd uintptr) {
		corkErr = unix.SetsockoptInt(int(fd), syscall.IPPROTO_TCP, unix.TCP_CORK, val)
	})
	if err != nil {
		return err
	}
	return corkErr
}
