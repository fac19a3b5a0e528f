package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/skillkhoj/backend/internal/app/models"
	"github.com/skillkhoj/backend/internal/db"
	"github.com/skillkhoj/backend/internal/pkg/apperrors"
	"github.com/skillkhoj/backend/internal/pkg/dberrors"
	"github.com/skillkhoj/backend/internal/pkg/logger"
)

var userColumns = []string{
	"id", "name", "email", "password", "role",
	"registered_courses", "recommended_courses", "job_postings", "jobs_applied_to",
	"created_at", "updated_at",
}

const rebuildJobsAppliedToSQL = `
UPDATE users u
SET jobs_applied_to = a.jobs, updated_at = now()
FROM (
    SELECT u2.id,
           COALESCE(array_agg(ja.job_id ORDER BY ja.created_at) FILTER (WHERE ja.id IS NOT NULL), '{}'::uuid[]) AS jobs
    FROM users u2
    LEFT JOIN job_applications ja ON ja.student_id = u2.id
    GROUP BY u2.id
) a
WHERE u.id = a.id
  AND NOT (u.jobs_applied_to @> a.jobs AND a.jobs @> u.jobs_applied_to
           AND cardinality(u.jobs_applied_to) = cardinality(a.jobs))`

const rebuildJobPostingsSQL = `
UPDATE users u
SET job_postings = p.jobs, updated_at = now()
FROM (
    SELECT u2.id,
           COALESCE(array_agg(jp.id ORDER BY jp.created_at) FILTER (WHERE jp.id IS NOT NULL), '{}'::uuid[]) AS jobs
    FROM users u2
    LEFT JOIN job_postings jp ON jp.posted_by = u2.id
    GROUP BY u2.id
) p
WHERE u.id = p.id
  AND NOT (u.job_postings @> p.jobs AND p.jobs @> u.job_postings
           AND cardinality(u.job_postings) = cardinality(p.jobs))`

// UserRepository handles database operations related to users
type UserRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pg *db.PostgresDB) *UserRepository {
	return &UserRepository{
		db: pg,
		sb: statementBuilder(),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	var role string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &role,
		&u.RegisteredCourses, &u.RecommendedCourses, &u.JobPostings, &u.JobsAppliedTo,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = models.RoleType(role)
	return u, nil
}

// Create inserts a new user. A taken email maps to ErrEmailAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	sql, args, err := r.sb.Insert("users").
		Columns("id", "name", "email", "password", "role").
		Values(user.ID, user.Name, user.Email, user.Password, string(user.Role)).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get user SQL")
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

// GetByIDs returns the users named in ids in the same order. Unknown ids are skipped.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}

	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get users by IDs SQL")
		return nil, fmt.Errorf("failed to build get users query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get users by IDs query")
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning user row")
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return orderByIDs(ids, users, func(u *models.User) string { return u.ID }), nil
}

// UpdateProfile changes name and email. An email held by another user maps to ErrEmailInUse.
func (r *UserRepository) UpdateProfile(ctx context.Context, id, name, email string) error {
	sql, args, err := r.sb.Update("users").
		Set("name", name).
		Set("email", email).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update profile SQL")
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	cmdTag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrEmailInUse
		}
		logger.Error().Err(err).Str("userID", id).Msg("Error executing update profile query")
		return fmt.Errorf("error updating profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// appendUnique adds value to the array column unless already present.
func (r *UserRepository) appendUnique(ctx context.Context, column, userID, value string) error {
	sql, args, err := r.sb.Update("users").
		Set(column, squirrel.Expr("array_append("+column+", ?::uuid)", value)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": userID}).
		Where("NOT (?::uuid = ANY("+column+"))", value).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("column", column).Msg("Error building append SQL")
		return fmt.Errorf("failed to build append query: %w", err)
	}

	if _, err := r.db.Conn(ctx).Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("userID", userID).Str("column", column).Msg("Error executing append query")
		return fmt.Errorf("error appending to %s: %w", column, err)
	}
	return nil
}

// AddJobPosting records jobID in the recruiter's job_postings list.
func (r *UserRepository) AddJobPosting(ctx context.Context, recruiterID, jobID string) error {
	return r.appendUnique(ctx, "job_postings", recruiterID, jobID)
}

// AddJobAppliedTo records jobID in the student's jobs_applied_to list.
func (r *UserRepository) AddJobAppliedTo(ctx context.Context, studentID, jobID string) error {
	return r.appendUnique(ctx, "jobs_applied_to", studentID, jobID)
}

// AddRegisteredCourse records courseID in the student's registered_courses list.
func (r *UserRepository) AddRegisteredCourse(ctx context.Context, studentID, courseID string) error {
	return r.appendUnique(ctx, "registered_courses", studentID, courseID)
}

// RebuildJobsAppliedTo resets every jobs_applied_to list from job_applications.
// It returns the number of users whose list changed.
func (r *UserRepository) RebuildJobsAppliedTo(ctx context.Context) (int64, error) {
	cmdTag, err := r.db.Conn(ctx).Exec(ctx, rebuildJobsAppliedToSQL)
	if err != nil {
		logger.Error().Err(err).Msg("Error rebuilding jobs_applied_to")
		return 0, fmt.Errorf("error rebuilding jobs applied to: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// RebuildJobPostings resets every job_postings list from job_postings.posted_by.
func (r *UserRepository) RebuildJobPostings(ctx context.Context) (int64, error) {
	cmdTag, err := r.db.Conn(ctx).Exec(ctx, rebuildJobPostingsSQL)
	if err != nil {
		logger.Error().Err(err).Msg("Error rebuilding job_postings")
		return 0, fmt.Errorf("error rebuilding job postings: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
