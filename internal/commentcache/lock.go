package commentcache

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created inside the cache directory while a run holds it.
const LockFileName = ".ytcomments.lock"

// ErrLocked reports that another process holds the cache directory.
var ErrLocked = errors.New("cache directory is in use by another ytcomments run")

// Lock is an exclusive advisory lock on a cache directory.
type Lock struct {
	lock *flock.Flock
}

// Lock acquires the directory lock without blocking. The directory is created
// when missing.
func (c *Cache) Lock() (*Lock, error) {
	if err := c.EnsureDir(); err != nil {
		return nil, err
	}
	fl := flock.New(filepath.Join(c.dir, LockFileName))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, c.dir)
	}
	return &Lock{lock: fl}, nil
}

// Release drops the lock. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
