//go:build !windows

package logger

import (
	"os"
	"syscall"

	"github.com/mattn/go-isatty"
)

// serviceHints are the process facts IsService decides on.
type serviceHints struct {
	stdinClosed  bool
	serviceEnv   bool
	parentIsInit bool
	groupLeader  bool
	stderrTTY    bool
}

// IsService checks if the application is running as a service
func IsService() bool {
	_, err := os.Stdin.Stat()

	return isService(serviceHints{
		stdinClosed:  err != nil,
		serviceEnv:   os.Getenv("SERVICE_NAME") != "" || os.Getenv("INVOCATION_ID") != "",
		parentIsInit: os.Getppid() == 1,
		groupLeader:  syscall.Getpgrp() == syscall.Getpid(),
		stderrTTY:    isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
	})
}

func isService(h serviceHints) bool {
	if h.stdinClosed || h.serviceEnv || h.parentIsInit {
		return true
	}

	// A shell with job control makes every foreground job a group leader,
	// so leadership only counts when nobody is watching stderr.
	return h.groupLeader && !h.stderrTTY
}
