//go:build unix

package shadow

import (
	"os"
	"syscall"
)

// lockExclusive blocks until it holds an exclusive advisory lock on f.
// The lock is released when f is closed.
func lockExclusive(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_EX)
}
