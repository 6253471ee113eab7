//go:build darwin || linux
// +build darwin linux

package nettools

import (
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

var _ = func() error { // make sure this executes before func init()
	supported[ModeSelect] = selectWritable
	return nil
}()

func selectWritable(rc syscall.RawConn, timeout time.Duration) (writable bool, err error) {
	cerr := rc.Control(func(fd uintptr) {
		dur := 50 * time.Millisecond
		for timeout > 0 {
			var set unix.FdSet
			set.Set(int(fd))
			tv := unix.NsecToTimeval(int64(dur))
			n, serr := unix.Select(int(fd)+1, nil, &set, nil, &tv)
			if serr != nil && serr != unix.EINTR {
				err = serr
				return
			}
			if n > 0 {
				writable = set.IsSet(int(fd))
				return
			}
			timeout -= dur
		}
	})
	if cerr != nil {
		return true, nil
	}
	return
}
