package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent   RoleType = "Student"
	RoleRecruiter RoleType = "Recruiter"
	RoleAdmin     RoleType = "Admin"
)

// Roles lists every role in declaration order.
var Roles = []RoleType{RoleStudent, RoleRecruiter, RoleAdmin}

// IsValid reports whether r is a known role.
func (r RoleType) IsValid() bool {
	switch r {
	case RoleStudent, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}

// ApplicationStatus is the lifecycle state of a job application
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusReviewed ApplicationStatus = "reviewed"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)
