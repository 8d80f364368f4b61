//go:build windows

package shadow

import (
	"os"

	"golang.org/x/sys/windows"
)

// lockExclusive blocks until it holds an exclusive lock on the whole of
// f. The lock is released when f is closed.
func lockExclusive(f *os.File) error {
	return windows.LockFileEx(windows.Handle(f.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK, 0,
		^uint32(0), ^uint32(0), new(windows.Overlapped))
}
