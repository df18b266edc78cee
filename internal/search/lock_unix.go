//go:build unix

package search

import (
	"errors"
	"syscall"
)

// isProcessRunning checks if a process with given PID is running on Unix systems
func isProcessRunning(pid int) bool {
	// Signal 0 checks for existence without delivering anything
	err := syscall.Kill(pid, syscall.Signal(0))
	switch {
	case err == nil:
		return true
	case errors.Is(err, syscall.EPERM):
		// Exists but belongs to someone else
		return true
	default:
		return false
	}
}
