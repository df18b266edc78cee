package search

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ErrLocked is returned when another live process holds the index lock
var ErrLocked = errors.New("index locked by another process")

var (
	lockTimeout   = 5 * time.Second // Max time to wait for lock
	lockRetryWait = 500 * time.Millisecond
)

// Lock is an inter-process lock file holding the owner's PID
type Lock struct {
	path   string
	logger *log.Logger
}

// LockPath returns the lock file guarding the index at indexPath
func LockPath(indexPath string) string {
	return indexPath + ".lock"
}

// AcquireLock takes the build lock for the index at indexPath, waiting up
// to the lock timeout for another process to finish. Locks left behind by
// dead processes are removed.
func AcquireLock(indexPath string, logger *log.Logger) (*Lock, error) {
	if logger == nil {
		logger = log.Default()
	}
	l := &Lock{path: LockPath(indexPath), logger: logger}
	ourPID := os.Getpid()

	// Check if we already have the lock
	if pid, ok := l.owner(); ok && pid == ourPID {
		logger.Debug("Lock already held by this process", "pid", ourPID)
		return l, nil
	}

	startTime := time.Now()
	for {
		err := l.cleanStale()
		if err == nil {
			break
		}
		if !errors.Is(err, ErrLocked) {
			return nil, err
		}

		elapsed := time.Since(startTime)
		if elapsed >= lockTimeout {
			return nil, fmt.Errorf("timeout waiting for index lock after %v: %w", elapsed.Round(time.Millisecond), err)
		}
		logger.Infof("Index locked by another process, waiting... (%v elapsed)", elapsed.Round(100*time.Millisecond))
		time.Sleep(lockRetryWait)
	}

	if err := os.WriteFile(l.path, []byte(strconv.Itoa(ourPID)), 0o644); err != nil {
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	logger.Debug("✓ Index lock acquired", "pid", ourPID)
	return l, nil
}

// Release removes the lock file if this process owns it
func (l *Lock) Release() error {
	pid, ok := l.owner()
	if !ok {
		if _, err := os.Stat(l.path); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	} else if pid != os.Getpid() {
		l.logger.Warn("Lock file contains different PID, not removing", "pid", pid, "self", os.Getpid())
		return nil
	}

	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	l.logger.Debug("✓ Index lock released")
	return nil
}

// owner reads the PID stored in the lock file
func (l *Lock) owner() (int, bool) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return pid, true
}

// cleanStale removes the lock file if the owning process is dead. It returns
// ErrLocked while a live process holds the lock.
func (l *Lock) cleanStale() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read lock file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		l.logger.Warn("Corrupted lock file (invalid PID), removing...", "path", l.path)
		return os.Remove(l.path)
	}

	if isProcessRunning(pid) {
		return fmt.Errorf("%w (pid %d)", ErrLocked, pid)
	}

	l.logger.Infof("Stale lock detected (PID %d not running), cleaning...", pid)
	return os.Remove(l.path)
}
