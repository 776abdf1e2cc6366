package kvstore

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	lockTimeout   = 5 * time.Second // Max time to wait for lock
	lockRetryWait = 500 * time.Millisecond
)

// pidLock is an inter-process lock file holding the owner's PID. A lock whose
// owner is no longer running is considered stale and removed.
type pidLock struct {
	path    string
	timeout time.Duration
	logger  *slog.Logger
}

func newPIDLock(path string, logger *slog.Logger) *pidLock {
	return &pidLock{path: path, timeout: lockTimeout, logger: logger}
}

// isProcessRunning is implemented in platform-specific files:
// - process_unix.go for Unix/Linux/macOS
// - process_windows.go for Windows

// cleanStale removes the lock file if the owning process is dead
func (l *pidLock) cleanStale() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read lock file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		l.logger.Warn("corrupted lock file, removing", "path", l.path)
		return os.Remove(l.path)
	}

	if isProcessRunning(pid) {
		return fmt.Errorf("lock held by running process %d", pid)
	}

	l.logger.Info("stale lock detected, cleaning", "path", l.path, "pid", pid)
	return os.Remove(l.path)
}

// acquire takes the lock, waiting up to the timeout for another live owner
func (l *pidLock) acquire() error {
	ourPID := os.Getpid()

	if data, err := os.ReadFile(l.path); err == nil {
		if pid, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil && pid == ourPID {
			return nil
		}
	}

	startTime := time.Now()
	for {
		if err := l.cleanStale(); err != nil {
			elapsed := time.Since(startTime)
			if elapsed >= l.timeout {
				return fmt.Errorf("timeout waiting for storage lock after %v: %w", elapsed.Round(time.Millisecond), err)
			}
			l.logger.Debug("storage locked by another process, waiting", "elapsed", elapsed.Round(100*time.Millisecond))
			time.Sleep(lockRetryWait)
			continue
		}

		f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err != nil {
			if os.IsExist(err) {
				// lost a race with another process; go around again
				continue
			}
			return fmt.Errorf("failed to create lock file: %w", err)
		}
		_, werr := f.WriteString(strconv.Itoa(ourPID))
		cerr := f.Close()
		if werr != nil || cerr != nil {
			os.Remove(l.path)
			return fmt.Errorf("failed to write lock file: %w", firstErr(werr, cerr))
		}

		l.logger.Debug("storage lock acquired", "path", l.path, "pid", ourPID)
		return nil
	}
}

// release removes the lock file if this process owns it
func (l *pidLock) release() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read lock file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err == nil && pid != os.Getpid() {
		l.logger.Warn("lock file owned by another process, not removing", "path", l.path, "pid", pid)
		return nil
	}

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
