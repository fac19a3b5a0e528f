package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/skillkhoj/backend/internal/app/models"
	"github.com/skillkhoj/backend/internal/db"
	"github.com/skillkhoj/backend/internal/pkg/apperrors"
	"github.com/skillkhoj/backend/internal/pkg/dberrors"
	"github.com/skillkhoj/backend/internal/pkg/logger"
)

// ApplicationRepository handles job application database operations
type ApplicationRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(pg *db.PostgresDB) *ApplicationRepository {
	return &ApplicationRepository{
		db: pg,
		sb: statementBuilder(),
	}
}

// Create inserts an application. A second application for the same
// (job, student) pair maps to ErrAlreadyApplied.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.JobApplication) error {
	sql, args, err := r.sb.Insert("job_applications").
		Columns("id", "job_id", "student_id", "status", "cover_letter").
		Values(app.ID, app.JobID, app.StudentID, string(app.Status), app.CoverLetter).
		Suffix("RETURNING application_date, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create application SQL")
		return fmt.Errorf("failed to build create application query: %w", err)
	}

	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&app.ApplicationDate, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyApplied
		}
		logger.Error().Err(err).Str("jobID", app.JobID).Str("studentID", app.StudentID).Msg("Error executing create application query")
		return fmt.Errorf("error creating application: %w", err)
	}
	return nil
}

// Exists reports whether the student already applied to the job.
func (r *ApplicationRepository) Exists(ctx context.Context, jobID, studentID string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("job_applications").
		Where(squirrel.Eq{"job_id": jobID, "student_id": studentID}).
		Suffix(")").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building application exists SQL")
		return false, fmt.Errorf("failed to build application exists query: %w", err)
	}

	var exists bool
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Msg("Error checking application existence")
		return false, fmt.Errorf("error checking application: %w", err)
	}
	return exists, nil
}

// ListByStudent returns the student's applications newest first, each with
// its job and the job's poster.
func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID string) ([]*models.JobApplication, error) {
	sql, args, err := r.sb.Select(
		"ja.id", "ja.job_id", "ja.student_id", "ja.status", "ja.application_date", "ja.cover_letter",
		"ja.created_at", "ja.updated_at",
		"jp.id", "jp.title", "jp.description", "jp.company", "jp.location", "jp.salary",
		"jp.posted_by", "jp.applicants", "jp.created_at", "jp.updated_at",
		"u.id", "u.name", "u.email",
	).
		From("job_applications ja").
		Join("job_postings jp ON jp.id = ja.job_id").
		Join("users u ON u.id = jp.posted_by").
		Where(squirrel.Eq{"ja.student_id": studentID}).
		OrderBy("ja.created_at DESC", "ja.id DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list applications SQL")
		return nil, fmt.Errorf("failed to build list applications query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error executing list applications query")
		return nil, fmt.Errorf("error querying applications: %w", err)
	}
	defer rows.Close()

	apps := []*models.JobApplication{}
	for rows.Next() {
		a := &models.JobApplication{Job: &models.JobPosting{Poster: &models.UserSummary{}}}
		var status string
		j := a.Job
		err := rows.Scan(&a.ID, &a.JobID, &a.StudentID, &status, &a.ApplicationDate, &a.CoverLetter,
			&a.CreatedAt, &a.UpdatedAt,
			&j.ID, &j.Title, &j.Description, &j.Company, &j.Location, &j.Salary,
			&j.PostedBy, &j.Applicants, &j.CreatedAt, &j.UpdatedAt,
			&j.Poster.ID, &j.Poster.Name, &j.Poster.Email)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning application row")
			return nil, fmt.Errorf("error scanning application row: %w", err)
		}
		a.Status = models.ApplicationStatus(status)
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating application rows")
		return nil, fmt.Errorf("error iterating application rows: %w", err)
	}
	return apps, nil
}
