// package nettools probes socket readiness so callers can fail fast
// on dead connections instead of blocking in a write.
package nettools

import (
	"errors"
	"net"
	"syscall"
	"time"
)

type Mode int

const (
	ModePoll Mode = iota
	ModeSelect
)

var (
	supported = map[Mode]func(c syscall.RawConn, timeout time.Duration) (bool, error){}
	picked    func(c syscall.RawConn, timeout time.Duration) (bool, error)
)

// ErrNotWritable reports that the connection did not become writable
// within the probe timeout.
var ErrNotWritable = errors.New("connection not writable within timeout")

func init() {
	for _, mode := range []Mode{ModePoll, ModeSelect} {
		if supported[mode] != nil {
			picked = supported[mode]
			break
		}
	}
}

// CheckWritable reports whether conn can accept a write without
// blocking. connections that cannot expose a raw file descriptor, and
// platforms without a probe implementation, are assumed writable.
func CheckWritable(conn net.Conn, timeout time.Duration) error {
	rc := rawConn(conn)
	if rc == nil || picked == nil {
		return nil
	}
	writable, err := picked(rc, timeout)
	if err != nil {
		return err
	}
	if !writable {
		return ErrNotWritable
	}
	return nil
}

func rawConn(raw net.Conn) syscall.RawConn {
	if t, ok := raw.(interface{ NetConn() net.Conn }); ok {
		// is *tls.Conn or polyfilled TLS Connection
		raw = t.NetConn()
	}
	if c, ok := raw.(syscall.Conn); ok {
		if c, err := c.SyscallConn(); err == nil {
			return c
		}
	}
	return nil
}
