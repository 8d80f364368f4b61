package shadow

import (
	"os/exec"
	"sync"
)

// FishInstalled reports whether the fish shell is on PATH and runnable.
// The probe runs once per process; later calls return the cached result.
var FishInstalled = sync.OnceValue(func() bool {
	return exec.Command("fish", "--version").Run() == nil
})
