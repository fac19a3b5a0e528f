// Package scheduler runs the periodic rebuild of the denormalized
// relationship lists from the authoritative application records.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/skillkhoj/backend/internal/app/models/dto"
)

// Reconciler rebuilds mirror lists
type Reconciler interface {
	ReconcileMirrors(ctx context.Context) (dto.ReconcileReport, error)
}

// Scheduler wraps robfig/cron and manages the reconcile loop.
type Scheduler struct {
	cron       *cron.Cron
	reconciler Reconciler
	spec       string // cron spec, e.g. "@every 1h"
	timeout    time.Duration
	logger     zerolog.Logger

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

// New creates a Scheduler. An empty spec disables it.
func New(reconciler Reconciler, spec string, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		reconciler: reconciler,
		spec:       spec,
		timeout:    5 * time.Minute,
		logger:     logger,
	}
}

// Enabled reports whether a schedule is configured
func (s *Scheduler) Enabled() bool {
	return s.spec != ""
}

// Start registers the job and starts the scheduler. It also runs one pass
// immediately so drift from a previous crash is repaired at boot.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.Enabled() {
		s.logger.Info().Msg("Mirror reconciler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info().Str("spec", s.spec).Msg("Mirror reconciler started")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.RunOnce(ctx)
	}()
	return nil
}

// Stop shuts the scheduler down and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	if !s.Enabled() {
		return
	}
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info().Msg("Mirror reconciler stopped")
}

// RunOnce performs a single reconcile pass. Overlapping calls are skipped.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Debug().Msg("Reconcile pass already running, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	report, err := s.reconciler.ReconcileMirrors(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Reconcile pass failed")
		return
	}
	s.logger.Info().
		Int64("rowsRepaired", report.Total()).
		Dur("took", time.Since(start)).
		Msg("Reconcile pass complete")
}
