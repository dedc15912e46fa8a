package background

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type purgerFunc func(ctx context.Context, cutoff time.Time) (int64, error)

func (f purgerFunc) PurgeExpiredTempPasswords(ctx context.Context, cutoff time.Time) (int64, error) {
	return f(ctx, cutoff)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTempPasswordTask_Cutoff(t *testing.T) {
	var got time.Time
	task := TempPasswordTask(purgerFunc(func(_ context.Context, cutoff time.Time) (int64, error) {
		got = cutoff
		return 2, nil
	}), 72*time.Hour)

	n, err := task.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.WithinDuration(t, time.Now().Add(-72*time.Hour), got, 5*time.Second)
}

func TestCleanupManager_RunsImmediatelyAndStops(t *testing.T) {
	var runs atomic.Int32
	ran := make(chan struct{}, 1)
	task := Task{Name: "count", Run: func(context.Context) (int64, error) {
		runs.Add(1)
		select {
		case ran <- struct{}{}:
		default:
		}
		return 1, nil
	}}

	cm := NewCleanupManager(quietLogger(), time.Hour, task)
	done := make(chan struct{})
	go func() {
		cm.Start(context.Background())
		close(done)
	}()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task did not run on start")
	}

	cm.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("manager did not stop")
	}
	assert.Equal(t, int32(1), runs.Load())
}

func TestCleanupManager_FailingTaskDoesNotBlockOthers(t *testing.T) {
	var second atomic.Bool
	cm := NewCleanupManager(quietLogger(), time.Hour,
		Task{Name: "broken", Run: func(context.Context) (int64, error) { return 0, errors.New("boom") }},
		Task{Name: "ok", Run: func(context.Context) (int64, error) { second.Store(true); return 0, nil }},
	)

	cm.runCleanup(context.Background())
	assert.True(t, second.Load())
}

func TestCleanupManager_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cm := NewCleanupManager(quietLogger(), 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		cm.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("manager did not stop on cancel")
	}
}
