package dto

import "github.com/skillkhoj/backend/internal/app/models"

// CreateJobPostingRequest represents a job posting. Every field is mandatory.
type CreateJobPostingRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required"`
	Company     string `json:"company" binding:"required,max=200"`
	Location    string `json:"location" binding:"required,max=200"`
	Salary      string `json:"salary" binding:"required,max=100"`
}

// ApplyToJobRequest carries the optional cover letter
type ApplyToJobRequest struct {
	CoverLetter string `json:"coverLetter" binding:"max=5000"`
}

// JobApplicantsResponse is a posting with its resolved applicants
type JobApplicantsResponse struct {
	Job        *models.JobPosting   `json:"job"`
	Applicants []models.UserSummary `json:"applicants"`
}

// ReconcileReport counts the mirror lists rewritten by a reconciliation pass
type ReconcileReport struct {
	JobsAppliedTo int64 `json:"jobsAppliedTo"`
	Applicants    int64 `json:"applicants"`
	JobPostings   int64 `json:"jobPostings"`
}

// Total returns the number of rows rewritten.
func (r ReconcileReport) Total() int64 {
	return r.JobsAppliedTo + r.Applicants + r.JobPostings
}
