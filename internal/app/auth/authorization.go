package auth

import (
	"fmt"
	"sort"

	"github.com/skillkhoj/backend/internal/app/models"
)

// Route names used as keys of the policy table
const (
	RouteCourseWrite = "courses.write"

	RouteStudentHomepage     = "student.homepage"
	RouteStudentProfile      = "student.profile"
	RouteStudentJobs         = "student.jobs"
	RouteStudentApply        = "student.apply"
	RouteStudentApplications = "student.applications"
	RouteStudentAppliedTo    = "student.jobsAppliedTo"
	RouteStudentCourses      = "student.courses"

	RouteRecruiterProfile    = "recruiter.profile"
	RouteRecruiterHomepage   = "recruiter.homepage"
	RouteRecruiterCreateJob  = "recruiter.createJobPosting"
	RouteRecruiterApplicants = "recruiter.applicants"

	RoutePingStudent   = "ping.student"
	RoutePingRecruiter = "ping.recruiter"
	RoutePingAdmin     = "ping.admin"

	RouteAdminReconcile = "admin.reconcile"
)

var (
	studentOrAdmin   = []models.RoleType{models.RoleStudent, models.RoleAdmin}
	recruiterOrAdmin = []models.RoleType{models.RoleRecruiter, models.RoleAdmin}
	adminOnly        = []models.RoleType{models.RoleAdmin}
)

// Policy maps a route name to the roles allowed to call it.
type Policy map[string][]models.RoleType

// DefaultPolicy is the allow-list of every protected route.
func DefaultPolicy() Policy {
	return Policy{
		RouteCourseWrite: adminOnly,

		RouteStudentHomepage:     studentOrAdmin,
		RouteStudentProfile:      studentOrAdmin,
		RouteStudentJobs:         studentOrAdmin,
		RouteStudentApply:        studentOrAdmin,
		RouteStudentApplications: studentOrAdmin,
		RouteStudentAppliedTo:    studentOrAdmin,
		RouteStudentCourses:      studentOrAdmin,

		RouteRecruiterProfile:    recruiterOrAdmin,
		RouteRecruiterHomepage:   recruiterOrAdmin,
		RouteRecruiterCreateJob:  recruiterOrAdmin,
		RouteRecruiterApplicants: recruiterOrAdmin,

		RoutePingStudent:   studentOrAdmin,
		RoutePingRecruiter: recruiterOrAdmin,
		RoutePingAdmin:     adminOnly,

		RouteAdminReconcile: adminOnly,
	}
}

// Roles returns the allow-list for route. It panics on an unknown route so a
// missing entry fails at router setup rather than opening the route.
func (p Policy) Roles(route string) []models.RoleType {
	roles, ok := p[route]
	if !ok || len(roles) == 0 {
		panic(fmt.Sprintf("auth: no policy for route %q", route))
	}
	return roles
}

// Allows reports whether role may call route. Unknown routes allow nobody.
func (p Policy) Allows(route string, role models.RoleType) bool {
	for _, r := range p[route] {
		if r == role {
			return true
		}
	}
	return false
}

// RouteNames lists the routes in the table, sorted.
func (p Policy) RouteNames() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
