package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 25 * time.Millisecond

// fileLock wraps a flock lock file that coordinates access to one history
// file across goroutines and processes.
type fileLock struct {
	flock *flock.Flock
	path  string
}

func newFileLock(path string) *fileLock {
	return &fileLock{flock: flock.New(path), path: path}
}

// lock takes the exclusive lock, retrying until ctx is done.
func (fl *fileLock) lock(ctx context.Context) error {
	if err := fl.ensureDir(); err != nil {
		return err
	}
	ok, err := fl.flock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	if !ok {
		return fmt.Errorf("failed to acquire lock on %s", fl.path)
	}
	return nil
}

// rlock takes a shared lock, retrying until ctx is done.
func (fl *fileLock) rlock(ctx context.Context) error {
	if err := fl.ensureDir(); err != nil {
		return err
	}
	ok, err := fl.flock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to acquire read lock on %s: %w", fl.path, err)
	}
	if !ok {
		return fmt.Errorf("failed to acquire read lock on %s", fl.path)
	}
	return nil
}

func (fl *fileLock) ensureDir() error {
	dir := filepath.Dir(fl.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

func (fl *fileLock) unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// replaceHistory swaps in a new history document. The document is staged
// next to path as "<name>.*.partial" and renamed over it once flushed, so a
// crash mid-write leaves the previous history readable.
func replaceHistory(path string, doc []byte) error {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	staged, err := os.CreateTemp(dir, name+".*.partial")
	if err != nil {
		return fmt.Errorf("failed to stage history for %s: %w", path, err)
	}
	stagedPath := staged.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = staged.Close()
			_ = os.Remove(stagedPath)
		}
	}()

	if err := staged.Chmod(0o644); err != nil {
		return fmt.Errorf("failed to set history permissions: %w", err)
	}
	if _, err := staged.Write(doc); err != nil {
		return fmt.Errorf("failed to write staged history: %w", err)
	}
	if err := staged.Sync(); err != nil {
		return fmt.Errorf("failed to flush staged history: %w", err)
	}
	if err := staged.Close(); err != nil {
		return fmt.Errorf("failed to close staged history: %w", err)
	}
	if err := os.Rename(stagedPath, path); err != nil {
		return fmt.Errorf("failed to replace history %s: %w", path, err)
	}
	renamed = true
	return nil
}
