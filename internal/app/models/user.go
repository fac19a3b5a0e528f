package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID                 string    `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	Email              string    `json:"email" db:"email"`
	Password           string    `json:"-" db:"password"`
	Role               RoleType  `json:"role" db:"role"`
	RegisteredCourses  []string  `json:"registeredCourses" db:"registered_courses"`
	RecommendedCourses []string  `json:"recommendedCourses" db:"recommended_courses"`
	JobPostings        []string  `json:"jobPostings" db:"job_postings"`
	JobsAppliedTo      []string  `json:"jobsAppliedTo" db:"jobs_applied_to"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`
}

// UserSummary is the public projection of a user embedded in other resources
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Summary returns the public projection of u.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
