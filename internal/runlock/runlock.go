// Package runlock serializes organizer runs per rule file. Two engine
// processes working the same source directories would race on the same
// files, so callers acquire the lock for a rule file before starting a run
// and hold it until the run reaches a terminal state.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrHeld is returned when another process already holds the lock for the
// same rule file.
var ErrHeld = errors.New("another run is active for this rule file")

// Lock is an advisory file lock scoped to one rule file.
type Lock struct {
	path string
	lock *flock.Flock
}

// New creates a lock for the given rule file, stored under lockDir. The lock
// file name is derived from the rule file path so distinct rule files never
// contend.
func New(lockDir, ruleFile string) *Lock {
	digest := sha256.Sum256([]byte(ruleFile))
	name := fmt.Sprintf("run-%s.lock", hex.EncodeToString(digest[:8]))
	path := filepath.Join(lockDir, name)
	return &Lock{path: path, lock: flock.New(path)}
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock, failing with ErrHeld when it is already taken.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return ErrHeld
	}
	return nil
}

// Release drops the lock. Safe to call when not held.
func (l *Lock) Release() error {
	return l.lock.Unlock()
}
