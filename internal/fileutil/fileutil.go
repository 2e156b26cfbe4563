package fileutil

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const nameAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// lockRetryDelay is how often LockDir retries a held lock.
const lockRetryDelay = 50 * time.Millisecond

// UniqueName returns a random file name of the given length and extension that
// does not exist yet in dir. The directory is created when missing.
func UniqueName(dir string, length int, ext string) (string, error) {
	if length <= 0 {
		return "", errors.New("name length must be positive")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %q: %w", dir, err)
	}
	if len(ext) > 1 && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	for {
		name := randomName(length) + ext
		_, err := os.Stat(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			return name, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat candidate %q: %w", name, err)
		}
	}
}

func randomName(length int) string {
	var b strings.Builder
	b.Grow(length)
	for range length {
		b.WriteByte(nameAlphabet[rand.IntN(len(nameAlphabet))])
	}
	return b.String()
}

// Remove deletes path and reports whether it is gone. A missing file counts as
// removed.
func Remove(path string) bool {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return false
	}
	return true
}

// LockDir takes an exclusive advisory lock on a lock file inside dir, waiting
// until it is free or ctx is done. The returned function releases the lock.
func LockDir(ctx context.Context, dir, name string) (func() error, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %q: %w", dir, err)
	}
	lock := flock.New(filepath.Join(dir, name))
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire lock: %s is held by another process", lock.Path())
	}
	return lock.Unlock, nil
}
