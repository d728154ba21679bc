// Package lock serialises mutating pkgtrack invocations on one mirror root
// with an advisory file lock.
package lock

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/gofrs/flock"

	"github.com/glorpus-work/pkgtrack/internal/logger"
	"github.com/glorpus-work/pkgtrack/pkg/errors"
	"github.com/glorpus-work/pkgtrack/pkg/fsutil"
)

const (
	// FileName is the lock file below the mirror root.
	FileName = ".lock"
	// retryDelay is how often a held lock is polled.
	retryDelay = 100 * time.Millisecond
)

// Lock is a held mirror lock.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes the lock at path, waiting at most timeout. A zero timeout
// tries exactly once.
func Acquire(ctx context.Context, path string, timeout time.Duration) (*Lock, error) {
	if err := fsutil.EnsureFileDir(path); err != nil {
		return nil, errors.Wrapf(err, "failed to create directory for lock %s", path)
	}
	fl := flock.New(path)

	if timeout <= 0 {
		ok, err := fl.TryLock()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to lock %s", path)
		}
		if !ok {
			return nil, errors.Wrapf(errors.ErrMirrorLocked, "%s is held by another process", path)
		}
		return &Lock{fl: fl}, nil
	}

	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ok, err := fl.TryLockContext(lockCtx, retryDelay)
	switch {
	case ok:
		logger.Debug("Acquired mirror lock", logger.Fields{"path": path})
		return &Lock{fl: fl}, nil
	case stderrors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		return nil, errors.Wrapf(errors.ErrMirrorLocked, "%s still held after %s", path, timeout)
	case err != nil:
		return nil, errors.Wrapf(err, "failed to lock %s", path)
	default:
		return nil, errors.Wrapf(errors.ErrMirrorLocked, "%s is held by another process", path)
	}
}

// Release drops the lock. The lock file stays in place.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return errors.Wrapf(err, "failed to unlock %s", l.fl.Path())
	}
	return nil
}
