//go:build unix

package bootstrap

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"
)

func TestRunTask_SignalCancelsTask(t *testing.T) {
	app := newTestApp(t, WithSignals(syscall.SIGUSR1))

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		if err := syscall.Kill(syscall.Getpid(), syscall.SIGUSR1); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return errors.New("signal did not cancel the task")
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
