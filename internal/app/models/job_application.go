package models

import "time"

// JobApplication is the authoritative record that a student applied to a job.
// At most one exists per (JobID, StudentID).
type JobApplication struct {
	ID              string            `json:"id" db:"id"`
	JobID           string            `json:"jobId" db:"job_id"`
	StudentID       string            `json:"studentId" db:"student_id"`
	Status          ApplicationStatus `json:"status" db:"status"`
	ApplicationDate time.Time         `json:"applicationDate" db:"application_date"`
	CoverLetter     string            `json:"coverLetter" db:"cover_letter"`
	CreatedAt       time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time         `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Job *JobPosting `json:"job,omitempty"`
}
