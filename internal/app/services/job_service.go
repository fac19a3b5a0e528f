package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/skillkhoj/backend/internal/app/models"
	"github.com/skillkhoj/backend/internal/app/models/dto"
	"github.com/skillkhoj/backend/internal/pkg/apperrors"
)

// JobService handles the job board
type JobService struct {
	jobs   JobStore
	users  UserStore
	tx     Transactor
	cache  *JobListCache
	logger zerolog.Logger
}

// NewJobService creates a new JobService
func NewJobService(jobs JobStore, users UserStore, tx Transactor, cache *JobListCache, logger zerolog.Logger) *JobService {
	return &JobService{
		jobs:   jobs,
		users:  users,
		tx:     tx,
		cache:  cache,
		logger: logger,
	}
}

// ListJobs returns every posting newest first, each with its poster.
func (s *JobService) ListJobs(ctx context.Context) ([]*models.JobPosting, error) {
	if jobs, ok := s.cache.get(ctx); ok {
		return jobs, nil
	}

	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing jobs: %w", err)
	}
	s.cache.set(ctx, jobs)
	return jobs, nil
}

func validateJobPosting(req *dto.CreateJobPostingRequest) error {
	fields := []struct {
		name  string
		value string
	}{
		{"title", req.Title},
		{"description", req.Description},
		{"company", req.Company},
		{"location", req.Location},
		{"salary", req.Salary},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", apperrors.ErrValidationFailed, f.name)
		}
	}
	return nil
}

// CreateJobPosting publishes a posting for the recruiter and records it in the
// recruiter's job_postings list in the same transaction.
func (s *JobService) CreateJobPosting(ctx context.Context, recruiterID string, req *dto.CreateJobPostingRequest) (*models.JobPosting, error) {
	if err := validateJobPosting(req); err != nil {
		return nil, err
	}

	recruiter, err := s.users.GetByID(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	if recruiter.Role != models.RoleRecruiter {
		return nil, apperrors.ErrNotRecruiter
	}

	job := &models.JobPosting{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Company:     strings.TrimSpace(req.Company),
		Location:    strings.TrimSpace(req.Location),
		Salary:      strings.TrimSpace(req.Salary),
		PostedBy:    recruiter.ID,
		Applicants:  []string{},
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.jobs.Create(ctx, job); err != nil {
			return err
		}
		return s.users.AddJobPosting(ctx, recruiter.ID, job.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("error creating job posting: %w", err)
	}

	summary := recruiter.Summary()
	job.Poster = &summary
	s.cache.Invalidate(ctx)
	s.logger.Info().Str("jobID", job.ID).Str("recruiterID", recruiter.ID).Msg("Job posting created")
	return job, nil
}

// GetApplicants returns the posting and the name/email of each applicant.
func (s *JobService) GetApplicants(ctx context.Context, jobID string) (*dto.JobApplicantsResponse, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	users, err := s.users.GetByIDs(ctx, job.Applicants)
	if err != nil {
		return nil, fmt.Errorf("error resolving applicants: %w", err)
	}

	applicants := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		applicants = append(applicants, u.Summary())
	}
	return &dto.JobApplicantsResponse{Job: job, Applicants: applicants}, nil
}
