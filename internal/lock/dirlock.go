// Package lock guards an export output directory against concurrent runs.
package lock

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrLockTimeout is returned when lock acquisition times out because
// another instance is holding the lock.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// LockFileName is the marker file created inside a locked directory.
const LockFileName = ".docsmith.lock"

// Common timeout values for lock acquisition (in seconds).
const (
	// TimeoutImmediate returns immediately if the lock cannot be acquired.
	TimeoutImmediate = 0

	// TimeoutShort is suitable for fast-failing duplicate run detection.
	TimeoutShort = 1

	// TimeoutMedium provides a reasonable wait for transient conflicts.
	TimeoutMedium = 10
)

const pollInterval = 100 * time.Millisecond

// DirLock prevents two exports from writing into the same output directory
// at once. It creates a marker file with O_EXCL so exactly one process wins;
// the file records the holder's pid and start time for diagnostics.
type DirLock struct {
	dir  string
	path string
	held bool
}

// New creates a lock for the given directory. The lock is not acquired
// until Acquire is called.
func New(dir string) *DirLock {
	return &DirLock{
		dir:  dir,
		path: filepath.Join(dir, LockFileName),
	}
}

// Acquire attempts to take the lock, polling until the timeout elapses.
// Returns true if the lock was acquired, false if the timeout was reached
// while another instance held it.
func (l *DirLock) Acquire(ctx context.Context, timeoutSeconds int) (bool, error) {
	if l.held {
		return true, nil // Already holding the lock
	}

	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	for {
		acquired, err := l.try()
		if err != nil {
			return false, err
		}
		if acquired {
			l.held = true
			return true, nil
		}
		if timeoutSeconds == TimeoutImmediate || time.Now().After(deadline) {
			return false, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// try makes one attempt to create the marker file.
func (l *DirLock) try() (bool, error) {
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create lock file: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "pid=%d\nstarted=%s\n", os.Getpid(), time.Now().Format(time.RFC3339))
	return true, nil
}

// Release removes the marker file. Returns true if the lock was released,
// false if it was not held.
func (l *DirLock) Release() (bool, error) {
	if !l.held {
		return false, nil // Not holding the lock
	}

	err := os.Remove(l.path)
	l.held = false
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to remove lock file: %w", err)
	}
	return true, nil
}

// IsHeld returns true if this lock is currently held by this instance.
func (l *DirLock) IsHeld() bool {
	return l.held
}

// Path returns the marker file location.
func (l *DirLock) Path() string {
	return l.path
}

// TryAcquire attempts to acquire the lock immediately without waiting.
func (l *DirLock) TryAcquire(ctx context.Context) (bool, error) {
	return l.Acquire(ctx, TimeoutImmediate)
}

// AcquireOrFail attempts to acquire the lock with a short timeout and
// returns ErrLockTimeout, decorated with the holder's details, when another
// run owns the directory.
func (l *DirLock) AcquireOrFail(ctx context.Context) error {
	acquired, err := l.Acquire(ctx, TimeoutShort)
	if err != nil {
		return err
	}
	if !acquired {
		holder := l.holderInfo()
		if holder != "" {
			return fmt.Errorf("%w: %s is locked by another run (%s)", ErrLockTimeout, l.dir, holder)
		}
		return fmt.Errorf("%w: %s is locked by another run", ErrLockTimeout, l.dir)
	}
	return nil
}

// holderInfo reads the marker file for diagnostics. Best effort: the holder
// may release between the failed acquire and this read.
func (l *DirLock) holderInfo() string {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return ""
	}
	return strings.ReplaceAll(strings.TrimSpace(string(data)), "\n", ", ")
}

// WithLock executes a function while holding the directory lock, ensuring
// release even if the function panics.
func (l *DirLock) WithLock(ctx context.Context, timeoutSeconds int, fn func() error) error {
	acquired, err := l.Acquire(ctx, timeoutSeconds)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !acquired {
		return fmt.Errorf("%w: %s is locked by another run", ErrLockTimeout, l.dir)
	}

	defer func() {
		// Best effort: an abandoned marker file only blocks until the next
		// holder inspects it.
		l.Release()
	}()

	return fn()
}
