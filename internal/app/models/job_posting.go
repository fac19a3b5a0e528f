package models

import "time"

// JobPosting is an opening published by a recruiter
type JobPosting struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Company     string    `json:"company" db:"company"`
	Location    string    `json:"location" db:"location"`
	Salary      string    `json:"salary" db:"salary"`
	PostedBy    string    `json:"postedById" db:"posted_by"`
	Applicants  []string  `json:"applicants" db:"applicants"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Poster *UserSummary `json:"postedBy,omitempty"`
}
