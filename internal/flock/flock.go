// Package flock provides a minimal flock(2)-based lock file for guarding
// report writes against concurrent memoq processes.
//
// flock is advisory and applies to an open file, not a pathname. All
// cooperating writers must take the lock for it to have effect. The lock
// file is a dedicated sibling of the guarded path ("<path>.lock") and is
// never unlinked, so the inode stays stable across acquisitions.
package flock

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ErrWouldBlock is returned by [Acquire] when another process holds the lock.
var ErrWouldBlock = errors.New("flock: lock would block")

// Lock is a held exclusive lock. Call [Lock.Close] to release it.
type Lock struct {
	file *os.File
}

// Acquire takes an exclusive, non-blocking lock on the lock file for path.
//
// Returns [ErrWouldBlock] if another process holds the lock. The caller
// must Close the returned Lock.
func Acquire(path string) (*Lock, error) {
	lockPath := path + ".lock"

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644) //nolint:gosec // lock file sits next to the guarded path
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	err = unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		_ = file.Close()

		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrWouldBlock
		}

		return nil, fmt.Errorf("flock %s: %w", lockPath, err)
	}

	return &Lock{file: file}, nil
}

// Close releases the lock and closes the underlying file descriptor.
// Close is idempotent.
func (l *Lock) Close() error {
	if l.file == nil {
		return nil
	}

	// Closing the descriptor releases the flock.
	err := l.file.Close()
	l.file = nil

	return err
}
