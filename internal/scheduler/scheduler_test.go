package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/skillkhoj/backend/internal/app/models/dto"
	"github.com/skillkhoj/backend/internal/scheduler"
)

type fakeReconciler struct {
	mu      sync.Mutex
	calls   int
	err     error
	block   chan struct{}
	started chan struct{}
}

func (f *fakeReconciler) ReconcileMirrors(context.Context) (dto.ReconcileReport, error) {
	f.mu.Lock()
	f.calls++
	block, started := f.block, f.started
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return dto.ReconcileReport{Applicants: 1}, f.err
}

func (f *fakeReconciler) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestDisabledScheduler(t *testing.T) {
	rec := &fakeReconciler{}
	s := scheduler.New(rec, "", zerolog.Nop())

	if s.Enabled() {
		t.Fatal("empty spec should disable the scheduler")
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	s.Stop()
	if rec.Calls() != 0 {
		t.Errorf("reconciler called %d times, want 0", rec.Calls())
	}
}

func TestStart_RunsImmediately(t *testing.T) {
	rec := &fakeReconciler{}
	s := scheduler.New(rec, "@every 1h", zerolog.Nop())

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	s.Stop()
	if rec.Calls() != 1 {
		t.Errorf("reconciler called %d times after start, want 1", rec.Calls())
	}
}

func TestStart_InvalidSpec(t *testing.T) {
	s := scheduler.New(&fakeReconciler{}, "every so often", zerolog.Nop())
	if err := s.Start(context.Background()); err == nil {
		t.Error("Start accepted an invalid spec")
	}
}

func TestRunOnce_SkipsOverlap(t *testing.T) {
	rec := &fakeReconciler{block: make(chan struct{}), started: make(chan struct{}, 1)}
	s := scheduler.New(rec, "@every 1h", zerolog.Nop())

	done := make(chan struct{})
	go func() {
		s.RunOnce(context.Background())
		close(done)
	}()

	select {
	case <-rec.started:
	case <-time.After(time.Second):
		t.Fatal("first pass never started")
	}

	s.RunOnce(context.Background())
	close(rec.block)
	<-done

	if rec.Calls() != 1 {
		t.Errorf("reconciler called %d times, want 1", rec.Calls())
	}
}

func TestRunOnce_ErrorIsNotFatal(t *testing.T) {
	rec := &fakeReconciler{err: errors.New("db down")}
	s := scheduler.New(rec, "@every 1h", zerolog.Nop())

	s.RunOnce(context.Background())
	s.RunOnce(context.Background())
	if rec.Calls() != 2 {
		t.Errorf("reconciler called %d times, want 2", rec.Calls())
	}
}
