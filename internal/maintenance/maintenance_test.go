package maintenance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakePurger struct {
	calls atomic.Int64
	err   error
}

func (f *fakePurger) PurgeExpired(context.Context) (int64, error) {
	f.calls.Add(1)
	if f.err != nil {
		return 0, f.err
	}
	return 3, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStartRunsPurgeOnTicker(t *testing.T) {
	purger := &fakePurger{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Start(ctx, purger, Config{PurgeInterval: 5 * time.Millisecond}, discardLogger())

	assert.Eventually(t, func() bool { return purger.calls.Load() >= 2 },
		2*time.Second, 5*time.Millisecond)
}

func TestStartKeepsTickingAfterPurgeError(t *testing.T) {
	purger := &fakePurger{err: errors.New("db down")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Start(ctx, purger, Config{PurgeInterval: 5 * time.Millisecond}, discardLogger())

	assert.Eventually(t, func() bool { return purger.calls.Load() >= 2 },
		2*time.Second, 5*time.Millisecond)
}

func TestStartStopsOnCancel(t *testing.T) {
	purger := &fakePurger{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		Start(ctx, purger, Config{PurgeInterval: time.Hour}, discardLogger())
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after context cancellation")
	}
}

func TestStartDisabledWithoutInterval(t *testing.T) {
	purger := &fakePurger{}

	done := make(chan struct{})
	go func() {
		Start(context.Background(), purger, Config{}, discardLogger())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return for a zero interval")
	}
	assert.Zero(t, purger.calls.Load())
}

func TestDefaultConfig(t *testing.T) {
	assert.Equal(t, 30*time.Minute, DefaultConfig().PurgeInterval)
}
