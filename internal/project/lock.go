package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"
)

// IsLocked reports whether the lock marker exists.
func (h *Handle) IsLocked() (bool, error) {
	_, err := os.Lstat(h.LockPath())
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check lock of %s: %w", h.Name(), err)
}

// Lock creates the lock marker. It reports false, without error, when the
// project was already locked.
func (h *Handle) Lock(ctx context.Context) (bool, error) {
	f, err := os.OpenFile(h.LockPath(), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if errors.Is(err, fs.ErrExist) {
		h.logger.Info(h.ctx(ctx), "project already locked")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to lock %s: %w", h.Name(), err)
	}
	if err := f.Close(); err != nil {
		return true, fmt.Errorf("failed to lock %s: %w", h.Name(), err)
	}

	h.logger.Debug(h.ctx(ctx), "project locked")
	return true, nil
}

// Unlock removes the lock marker. It reports false, without error, when the
// project was already unlocked.
func (h *Handle) Unlock(ctx context.Context) (bool, error) {
	err := os.Remove(h.LockPath())
	if errors.Is(err, fs.ErrNotExist) {
		h.logger.Info(h.ctx(ctx), "project already unlocked")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to unlock %s: %w", h.Name(), err)
	}

	h.logger.Debug(h.ctx(ctx), "project unlocked")
	return true, nil
}

// UnlockFor unlocks the project, waits for d or until ctx is done, then
// locks it again. The re-lock runs on every return path of this call; a
// process killed during the wait leaves the project unlocked.
func (h *Handle) UnlockFor(ctx context.Context, d time.Duration) (err error) {
	if _, err := h.Unlock(ctx); err != nil {
		return err
	}
	defer func() {
		if _, lerr := h.Lock(context.WithoutCancel(ctx)); lerr != nil && err == nil {
			err = lerr
		}
	}()

	h.logger.Info(h.ctx(ctx), "project unlocked temporarily", zap.Duration("window", d))

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		h.logger.Info(h.ctx(ctx), "unlock window interrupted", zap.Error(ctx.Err()))
	}
	return nil
}
