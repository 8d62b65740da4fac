//go:build !windows

package pid

import (
	"os"
	"syscall"

	"codeberg.org/mutker/aidasensors/internal/errors"
)

// running reports whether pid names a live process.
func running(pid int) bool {
	if pid <= 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))

	// EPERM means the process exists but belongs to another user.
	return err == nil || errors.Is(err, syscall.EPERM)
}
