package dto

// CreateCourseRequest represents a new catalog entry
type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description *string `json:"description"`
	Link        string  `json:"link" binding:"required,max=2048"`
}

// UpdateCourseRequest is a partial update; absent fields are left unchanged
type UpdateCourseRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description"`
	Link        *string `json:"link" binding:"omitempty,max=2048"`
}
