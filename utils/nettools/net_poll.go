//go:build darwin || linux
// +build darwin linux

package nettools

import (
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

var _ = func() error { // make sure this executes before func init()
	supported[ModePoll] = pollWritable
	return nil
}()

func pollWritable(rc syscall.RawConn, timeout time.Duration) (writable bool, err error) {
	cerr := rc.Control(func(fd uintptr) {
		pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLOUT}}
		dur := time.Millisecond * 50 // process shouldn't hang in syscalls
		for timeout > 0 {
			n, perr := unix.Poll(pfd, 50)
			if perr != nil && perr != unix.EINTR {
				err = perr
				return
			}
			if n > 0 {
				if pfd[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
					return // peer is gone, not writable
				}
				writable = pfd[0].Revents&unix.POLLOUT != 0
				return
			}
			timeout -= dur
		}
	})
	if cerr != nil {
		// can't inspect the descriptor, assume the write path is fine
		return true, nil
	}
	return
}
