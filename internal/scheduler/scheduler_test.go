package scheduler

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRefresherRunsImmediatelyAndPeriodically(t *testing.T) {
	var calls atomic.Int64
	r := NewRefresher(20*time.Millisecond, func() error {
		calls.Add(1)
		return nil
	}, testLogger())

	r.Start()
	defer r.Stop()

	deadline := time.After(2 * time.Second)
	for calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 refreshes, got %d", calls.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRefresherStopWaitsForInFlightRun(t *testing.T) {
	release := make(chan struct{})
	var finished atomic.Bool
	r := NewRefresher(time.Hour, func() error {
		<-release
		finished.Store(true)
		return nil
	}, testLogger())

	r.Start()
	// Let the immediate run enter the refresh func, then stop.
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Stop returned while a refresh was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the refresh finished")
	}
	if !finished.Load() {
		t.Error("in-flight refresh did not complete")
	}
}

func TestRefresherKeepsGoingAfterErrors(t *testing.T) {
	var calls atomic.Int64
	r := NewRefresher(15*time.Millisecond, func() error {
		calls.Add(1)
		return io.ErrUnexpectedEOF
	}, testLogger())

	r.Start()
	defer r.Stop()

	deadline := time.After(2 * time.Second)
	for calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("refresher stopped after an error; %d calls", calls.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}
}
