package services

import (
	"context"

	"github.com/skillkhoj/backend/internal/app/models"
)

// Services defined in this package:
// - AuthService: registration and login
// - UserService: profiles and role homepages
// - CourseService: course catalog and student course registration
// - JobService: job board
// - ApplicationService: job applications and mirror reconciliation

// UserStore is the persistence the services need for users.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	UpdateProfile(ctx context.Context, id, name, email string) error
	AddJobPosting(ctx context.Context, recruiterID, jobID string) error
	AddJobAppliedTo(ctx context.Context, studentID, jobID string) error
	AddRegisteredCourse(ctx context.Context, studentID, courseID string) error
	RebuildJobsAppliedTo(ctx context.Context) (int64, error)
	RebuildJobPostings(ctx context.Context) (int64, error)
}

// CourseStore is the persistence the services need for courses.
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Course, error)
	FindByTitle(ctx context.Context, title string) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

// JobStore is the persistence the services need for job postings.
type JobStore interface {
	Create(ctx context.Context, job *models.JobPosting) error
	GetByID(ctx context.Context, id string) (*models.JobPosting, error)
	List(ctx context.Context) ([]*models.JobPosting, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.JobPosting, error)
	AddApplicant(ctx context.Context, jobID, studentID string) error
	RebuildApplicants(ctx context.Context) (int64, error)
}

// ApplicationStore is the persistence the services need for job applications.
type ApplicationStore interface {
	Create(ctx context.Context, app *models.JobApplication) error
	Exists(ctx context.Context, jobID, studentID string) (bool, error)
	ListByStudent(ctx context.Context, studentID string) ([]*models.JobApplication, error)
}

// Transactor runs fn atomically. Stores called with the ctx passed to fn
// take part in the transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// WithSnapshotTransaction reads one consistent snapshot and fails rather
	// than overwrite rows changed after it; implementations may rerun fn.
	WithSnapshotTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
