package dto

import "github.com/skillkhoj/backend/internal/app/models"

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email"`
}

// ProfileResponse is the public profile of a user
type ProfileResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CourseSummary is a course as shown on a homepage
type CourseSummary struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Link        string  `json:"link"`
}

// StudentHomepageUser is the user block of the student homepage
type StudentHomepageUser struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Email              string          `json:"email"`
	Role               string          `json:"role"`
	RegisteredCourses  []CourseSummary `json:"registeredCourses"`
	RecommendedCourses []CourseSummary `json:"recommendedCourses"`
}

// StudentHomepageResponse wraps the student homepage
type StudentHomepageResponse struct {
	User StudentHomepageUser `json:"user"`
}

// JobPostingSummary is a posting as shown on the recruiter homepage
type JobPostingSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// RecruiterHomepageUser is the user block of the recruiter homepage
type RecruiterHomepageUser struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Role        string              `json:"role"`
	JobPostings []JobPostingSummary `json:"jobPostings"`
}

// RecruiterHomepageResponse wraps the recruiter homepage
type RecruiterHomepageResponse struct {
	User RecruiterHomepageUser `json:"user"`
}

// NewCourseSummaries projects courses in order.
func NewCourseSummaries(courses []*models.Course) []CourseSummary {
	out := make([]CourseSummary, 0, len(courses))
	for _, c := range courses {
		out = append(out, CourseSummary{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Link:        c.Link,
		})
	}
	return out
}

// NewJobPostingSummaries projects postings in order.
func NewJobPostingSummaries(jobs []*models.JobPosting) []JobPostingSummary {
	out := make([]JobPostingSummary, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, JobPostingSummary{
			ID:          j.ID,
			Title:       j.Title,
			Description: j.Description,
			Company:     j.Company,
			Location:    j.Location,
			Salary:      j.Salary,
			CreatedAt:   j.CreatedAt.UTC().Format(TimeLayout),
			UpdatedAt:   j.UpdatedAt.UTC().Format(TimeLayout),
		})
	}
	return out
}
