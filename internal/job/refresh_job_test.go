package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type stubRefresher struct {
	calls atomic.Int64
	err   error
}

func (s *stubRefresher) RefreshSnapshot(context.Context) error {
	s.calls.Add(1)
	return s.err
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(100 * time.Millisecond)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met")
}

func TestNewRefreshJobInterval(t *testing.T) {
	j := NewRefreshJob(testTracer, &stubRefresher{}, 300)
	if j.interval != 300*time.Second {
		t.Fatalf("expected 300s interval, got %v", j.interval)
	}
}

func TestRefreshJobRunsImmediately(t *testing.T) {
	t.Parallel()

	stub := &stubRefresher{}
	j := NewRefreshJob(testTracer, stub, 3600)

	ctx, cancel := context.WithCancel(context.Background())
	go j.Start(ctx)

	eventually(t, func() bool { return stub.calls.Load() > 0 })
	cancel()
}

func TestRefreshJobSurvivesErrors(t *testing.T) {
	t.Parallel()

	stub := &stubRefresher{err: errors.New("exhausted")}
	j := NewRefreshJob(testTracer, stub, 3600)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()

	eventually(t, func() bool { return stub.calls.Load() > 0 })
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not stop on cancel")
	}
}
