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

// CourseService handles the course catalog
type CourseService struct {
	courses CourseStore
	users   UserStore
	logger  zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(courses CourseStore, users UserStore, logger zerolog.Logger) *CourseService {
	return &CourseService{
		courses: courses,
		users:   users,
		logger:  logger,
	}
}

// List returns every course
func (s *CourseService) List(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	return courses, nil
}

// Create adds a course; title and link are mandatory.
func (s *CourseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	title := strings.TrimSpace(req.Title)
	link := strings.TrimSpace(req.Link)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrValidationFailed)
	}
	if link == "" {
		return nil, fmt.Errorf("%w: link is required", apperrors.ErrValidationFailed)
	}

	course := &models.Course{
		ID:          uuid.NewString(),
		Title:       title,
		Description: req.Description,
		Link:        link,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("error creating course: %w", err)
	}

	s.logger.Info().Str("courseID", course.ID).Msg("Course created")
	return course, nil
}

// Update applies a partial update to a course.
func (s *CourseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidationFailed)
		}
		course.Title = title
	}
	if req.Link != nil {
		link := strings.TrimSpace(*req.Link)
		if link == "" {
			return nil, fmt.Errorf("%w: link cannot be empty", apperrors.ErrValidationFailed)
		}
		course.Link = link
	}
	if req.Description != nil {
		course.Description = req.Description
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Delete removes a course
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("courseID", id).Msg("Course deleted")
	return nil
}

// RegisterCourse adds the course to the student's registered courses. Registering twice is a no-op.
func (s *CourseService) RegisterCourse(ctx context.Context, studentID, courseID string) (*models.Course, error) {
	if _, err := s.users.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.users.AddRegisteredCourse(ctx, studentID, courseID); err != nil {
		return nil, fmt.Errorf("error registering course: %w", err)
	}
	return course, nil
}
