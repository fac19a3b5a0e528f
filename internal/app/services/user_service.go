package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/skillkhoj/backend/internal/app/models"
	"github.com/skillkhoj/backend/internal/app/models/dto"
	"github.com/skillkhoj/backend/internal/pkg/apperrors"
	"github.com/skillkhoj/backend/internal/pkg/validation"
)

// UserService handles profiles and the role homepages
type UserService struct {
	users   UserStore
	courses CourseStore
	jobs    JobStore
	cache   *JobListCache
	logger  zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(users UserStore, courses CourseStore, jobs JobStore, cache *JobListCache, logger zerolog.Logger) *UserService {
	return &UserService{
		users:   users,
		courses: courses,
		jobs:    jobs,
		cache:   cache,
		logger:  logger,
	}
}

// GetProfile returns the name and email of a user
func (s *UserService) GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.ProfileResponse{Name: user.Name, Email: user.Email}, nil
}

// UpdateProfile changes name and email. Keeping one's own email is allowed;
// an email held by another user fails with ErrEmailInUse.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := validation.NormalizeEmail(req.Email)

	if !validation.IsValidName(name) {
		return nil, fmt.Errorf("%w: name is required and at most 100 characters", apperrors.ErrValidationFailed)
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if email != user.Email {
		// Early exit only; the unique index decides under concurrency.
		other, err := s.users.GetByEmail(ctx, email)
		switch {
		case err == nil && other.ID != user.ID:
			return nil, apperrors.ErrEmailInUse
		case err != nil && !errors.Is(err, apperrors.ErrUserNotFound):
			return nil, fmt.Errorf("error checking email: %w", err)
		}
	}

	if err := s.users.UpdateProfile(ctx, user.ID, name, email); err != nil {
		if errors.Is(err, apperrors.ErrEmailInUse) || errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	// Cached job listings embed the poster's name and email.
	if len(user.JobPostings) > 0 {
		s.cache.Invalidate(ctx)
	}

	s.logger.Info().Str("userID", user.ID).Msg("Profile updated")
	return &dto.ProfileResponse{Name: name, Email: email}, nil
}

// GetStudentHomepage returns the student with registered and recommended
// courses resolved in list order.
func (s *UserService) GetStudentHomepage(ctx context.Context, userID string) (*dto.StudentHomepageResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	registered, err := s.courses.GetByIDs(ctx, user.RegisteredCourses)
	if err != nil {
		return nil, fmt.Errorf("error resolving registered courses: %w", err)
	}
	recommended, err := s.courses.GetByIDs(ctx, user.RecommendedCourses)
	if err != nil {
		return nil, fmt.Errorf("error resolving recommended courses: %w", err)
	}

	return &dto.StudentHomepageResponse{
		User: dto.StudentHomepageUser{
			ID:                 user.ID,
			Name:               user.Name,
			Email:              user.Email,
			Role:               string(user.Role),
			RegisteredCourses:  dto.NewCourseSummaries(registered),
			RecommendedCourses: dto.NewCourseSummaries(recommended),
		},
	}, nil
}

// GetRecruiterHomepage returns the recruiter with their postings.
func (s *UserService) GetRecruiterHomepage(ctx context.Context, userID string) (*dto.RecruiterHomepageResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var jobs []*models.JobPosting
	if len(user.JobPostings) > 0 {
		jobs, err = s.jobs.GetByIDs(ctx, user.JobPostings)
		if err != nil {
			return nil, fmt.Errorf("error resolving job postings: %w", err)
		}
	}

	return &dto.RecruiterHomepageResponse{
		User: dto.RecruiterHomepageUser{
			ID:          user.ID,
			Name:        user.Name,
			Email:       user.Email,
			Role:        string(user.Role),
			JobPostings: dto.NewJobPostingSummaries(jobs),
		},
	}, nil
}
