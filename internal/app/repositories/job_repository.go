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

var jobColumns = []string{
	"jp.id", "jp.title", "jp.description", "jp.company", "jp.location", "jp.salary",
	"jp.posted_by", "jp.applicants", "jp.created_at", "jp.updated_at",
	"u.id", "u.name", "u.email",
}

const rebuildApplicantsSQL = `
UPDATE job_postings jp
SET applicants = a.students, updated_at = now()
FROM (
    SELECT jp2.id,
           COALESCE(array_agg(ja.student_id ORDER BY ja.created_at) FILTER (WHERE ja.id IS NOT NULL), '{}'::uuid[]) AS students
    FROM job_postings jp2
    LEFT JOIN job_applications ja ON ja.job_id = jp2.id
    GROUP BY jp2.id
) a
WHERE jp.id = a.id
  AND NOT (jp.applicants @> a.students AND a.students @> jp.applicants
           AND cardinality(jp.applicants) = cardinality(a.students))`

// JobRepository handles job posting database operations
type JobRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(pg *db.PostgresDB) *JobRepository {
	return &JobRepository{
		db: pg,
		sb: statementBuilder(),
	}
}

func scanJob(row pgx.Row) (*models.JobPosting, error) {
	j := &models.JobPosting{}
	poster := &models.UserSummary{}
	err := row.Scan(&j.ID, &j.Title, &j.Description, &j.Company, &j.Location, &j.Salary,
		&j.PostedBy, &j.Applicants, &j.CreatedAt, &j.UpdatedAt,
		&poster.ID, &poster.Name, &poster.Email)
	if err != nil {
		return nil, err
	}
	j.Poster = poster
	return j, nil
}

func (r *JobRepository) selectJobs() squirrel.SelectBuilder {
	return r.sb.Select(jobColumns...).
		From("job_postings jp").
		Join("users u ON u.id = jp.posted_by")
}

// Create inserts a new job posting
func (r *JobRepository) Create(ctx context.Context, job *models.JobPosting) error {
	sql, args, err := r.sb.Insert("job_postings").
		Columns("id", "title", "description", "company", "location", "salary", "posted_by").
		Values(job.ID, job.Title, job.Description, job.Company, job.Location, job.Salary, job.PostedBy).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create job posting SQL")
		return fmt.Errorf("failed to build create job posting query: %w", err)
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&job.CreatedAt, &job.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("recruiterID", job.PostedBy).Msg("Error executing create job posting query")
		return fmt.Errorf("error creating job posting: %w", err)
	}
	if job.Applicants == nil {
		job.Applicants = []string{}
	}
	return nil
}

// GetByID retrieves a job posting with its poster
func (r *JobRepository) GetByID(ctx context.Context, id string) (*models.JobPosting, error) {
	sql, args, err := r.selectJobs().
		Where(squirrel.Eq{"jp.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get job posting SQL")
		return nil, fmt.Errorf("failed to build get job posting query: %w", err)
	}

	job, err := scanJob(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrJobNotFound
		}
		logger.Error().Err(err).Str("jobID", id).Msg("Error scanning job posting row")
		return nil, fmt.Errorf("error getting job posting: %w", err)
	}
	return job, nil
}

func (r *JobRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.JobPosting, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list job postings SQL")
		return nil, fmt.Errorf("failed to build list job postings query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list job postings query")
		return nil, fmt.Errorf("error querying job postings: %w", err)
	}
	defer rows.Close()

	jobs := []*models.JobPosting{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning job posting row")
			return nil, fmt.Errorf("error scanning job posting row: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating job posting rows")
		return nil, fmt.Errorf("error iterating job posting rows: %w", err)
	}
	return jobs, nil
}

// List retrieves all job postings, newest first
func (r *JobRepository) List(ctx context.Context) ([]*models.JobPosting, error) {
	return r.list(ctx, r.selectJobs().OrderBy("jp.created_at DESC", "jp.id DESC"))
}

// GetByIDs returns the postings named in ids in the same order. Unknown ids are skipped.
func (r *JobRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.JobPosting, error) {
	if len(ids) == 0 {
		return []*models.JobPosting{}, nil
	}
	jobs, err := r.list(ctx, r.selectJobs().Where(squirrel.Eq{"jp.id": ids}))
	if err != nil {
		return nil, err
	}
	return orderByIDs(ids, jobs, func(j *models.JobPosting) string { return j.ID }), nil
}

// AddApplicant records studentID in the job's applicants list unless already present.
func (r *JobRepository) AddApplicant(ctx context.Context, jobID, studentID string) error {
	sql, args, err := r.sb.Update("job_postings").
		Set("applicants", squirrel.Expr("array_append(applicants, ?::uuid)", studentID)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": jobID}).
		Where("NOT (?::uuid = ANY(applicants))", studentID).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building add applicant SQL")
		return fmt.Errorf("failed to build add applicant query: %w", err)
	}

	if _, err := r.db.Conn(ctx).Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("jobID", jobID).Str("studentID", studentID).Msg("Error executing add applicant query")
		return fmt.Errorf("error adding applicant: %w", err)
	}
	return nil
}

// RebuildApplicants resets every applicants list from job_applications.
// It returns the number of postings whose list changed.
func (r *JobRepository) RebuildApplicants(ctx context.Context) (int64, error) {
	cmdTag, err := r.db.Conn(ctx).Exec(ctx, rebuildApplicantsSQL)
	if err != nil {
		logger.Error().Err(err).Msg("Error rebuilding applicants")
		return 0, fmt.Errorf("error rebuilding applicants: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
