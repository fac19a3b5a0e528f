package seed

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	appModels "github.com/skillkhoj/backend/internal/app/models"
	"github.com/skillkhoj/backend/internal/app/services"
	"github.com/skillkhoj/backend/internal/pkg/apperrors"
	"github.com/skillkhoj/backend/internal/pkg/auth"
)

// AdminAccount describes the default administrator
type AdminAccount struct {
	Name     string
	Email    string
	Password string
}

func strPtr(s string) *string { return &s }

// DefaultCourses are the sample catalog entries created on an empty database.
var DefaultCourses = []appModels.Course{
	{
		Title:       "JavaScript Fundamentals",
		Description: strPtr("Learn the basics of JavaScript programming"),
		Link:        "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Guide",
	},
	{
		Title:       "React Development",
		Description: strPtr("Build modern web applications with React"),
		Link:        "https://react.dev/learn",
	},
	{
		Title:       "Node.js Backend",
		Description: strPtr("Server-side development with Node.js"),
		Link:        "https://nodejs.org/en/learn",
	},
}

// CreateDefaultData creates the sample courses and the default admin if they don't exist.
// Failures are collected and returned together; nothing is rolled back.
func CreateDefaultData(
	ctx context.Context,
	courses services.CourseStore,
	users services.UserStore,
	hasher *auth.Hasher,
	admin AdminAccount,
	lgr zerolog.Logger,
) error {
	lgr.Info().Msg("Checking/Creating default data (Courses/Admin)...")
	var finalErr error // To collect potential errors without stopping the process

	for _, c := range DefaultCourses {
		_, err := courses.FindByTitle(ctx, c.Title)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrCourseNotFound) {
			lgr.Error().Err(err).Str("title", c.Title).Msg("Error looking up default course")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		course := c
		course.ID = uuid.NewString()
		if err := courses.Create(ctx, &course); err != nil {
			lgr.Error().Err(err).Str("title", c.Title).Msg("Error creating default course")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Str("title", c.Title).Msg("Default course created")
	}

	if admin.Email == "" || admin.Password == "" {
		lgr.Info().Msg("No default admin credentials configured, skipping admin creation")
		return finalErr
	}

	_, err := users.GetByEmail(ctx, admin.Email)
	switch {
	case err == nil:
		lgr.Debug().Str("email", admin.Email).Msg("Default admin already exists")
	case errors.Is(err, apperrors.ErrUserNotFound):
		hash, hashErr := hasher.Hash(admin.Password)
		if hashErr != nil {
			lgr.Error().Err(hashErr).Msg("Error hashing default admin password")
			return errors.Join(finalErr, hashErr)
		}
		name := admin.Name
		if name == "" {
			name = "Administrator"
		}
		user := &appModels.User{
			ID:       uuid.NewString(),
			Name:     name,
			Email:    admin.Email,
			Password: hash,
			Role:     appModels.RoleAdmin,
		}
		if err := users.Create(ctx, user); err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			lgr.Error().Err(err).Msg("Error creating default admin")
			finalErr = errors.Join(finalErr, err)
		} else if err == nil {
			lgr.Info().Str("email", admin.Email).Msg("Default admin created")
		}
	default:
		lgr.Error().Err(err).Msg("Error looking up default admin")
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}
