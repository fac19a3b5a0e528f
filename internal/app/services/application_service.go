package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/skillkhoj/backend/internal/app/models"
	"github.com/skillkhoj/backend/internal/app/models/dto"
	"github.com/skillkhoj/backend/internal/pkg/apperrors"
)

// ApplicationService owns job applications and the mirror lists derived from them
type ApplicationService struct {
	apps   ApplicationStore
	jobs   JobStore
	users  UserStore
	tx     Transactor
	cache  *JobListCache
	logger zerolog.Logger
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	apps ApplicationStore,
	jobs JobStore,
	users UserStore,
	tx Transactor,
	cache *JobListCache,
	logger zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{
		apps:   apps,
		jobs:   jobs,
		users:  users,
		tx:     tx,
		cache:  cache,
		logger: logger,
	}
}

// ApplyToJob records a pending application and updates both mirror lists
// atomically. A second application for the same pair fails with
// ErrAlreadyApplied and leaves the mirrors untouched.
func (s *ApplicationService) ApplyToJob(ctx context.Context, studentID, jobID, coverLetter string) (*models.JobApplication, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	exists, err := s.apps.Exists(ctx, job.ID, student.ID)
	if err != nil {
		return nil, fmt.Errorf("error checking existing application: %w", err)
	}
	if exists {
		return nil, apperrors.ErrAlreadyApplied
	}

	app := &models.JobApplication{
		ID:          uuid.NewString(),
		JobID:       job.ID,
		StudentID:   student.ID,
		Status:      models.StatusPending,
		CoverLetter: strings.TrimSpace(coverLetter),
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.apps.Create(ctx, app); err != nil {
			return err
		}
		if err := s.users.AddJobAppliedTo(ctx, student.ID, job.ID); err != nil {
			return err
		}
		return s.jobs.AddApplicant(ctx, job.ID, student.ID)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyApplied) {
			return nil, apperrors.ErrAlreadyApplied
		}
		return nil, fmt.Errorf("error submitting application: %w", err)
	}

	s.cache.Invalidate(ctx)
	s.logger.Info().Str("jobID", job.ID).Str("studentID", student.ID).Msg("Application submitted")
	return app, nil
}

// GetStudentApplications lists the student's applications newest first.
func (s *ApplicationService) GetStudentApplications(ctx context.Context, studentID string) ([]*models.JobApplication, error) {
	apps, err := s.apps.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	return apps, nil
}

// GetJobsAppliedTo resolves the student's jobs_applied_to list.
func (s *ApplicationService) GetJobsAppliedTo(ctx context.Context, studentID string) ([]*models.JobPosting, error) {
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobs.GetByIDs(ctx, student.JobsAppliedTo)
	if err != nil {
		return nil, fmt.Errorf("error resolving applied jobs: %w", err)
	}
	return jobs, nil
}

// ReconcileMirrors rebuilds every denormalized list from the authoritative
// applications and postings. Running it twice in a row changes nothing the second time.
func (s *ApplicationService) ReconcileMirrors(ctx context.Context) (dto.ReconcileReport, error) {
	var report dto.ReconcileReport
	err := s.tx.WithSnapshotTransaction(ctx, func(ctx context.Context) error {
		report = dto.ReconcileReport{}
		var err error
		if report.JobsAppliedTo, err = s.users.RebuildJobsAppliedTo(ctx); err != nil {
			return err
		}
		if report.Applicants, err = s.jobs.RebuildApplicants(ctx); err != nil {
			return err
		}
		report.JobPostings, err = s.users.RebuildJobPostings(ctx)
		return err
	})
	if err != nil {
		return dto.ReconcileReport{}, fmt.Errorf("error reconciling mirrors: %w", err)
	}

	if report.Total() > 0 {
		s.cache.Invalidate(ctx)
		s.logger.Warn().
			Int64("jobsAppliedTo", report.JobsAppliedTo).
			Int64("applicants", report.Applicants).
			Int64("jobPostings", report.JobPostings).
			Msg("Repaired drifted mirror lists")
	}
	return report, nil
}
