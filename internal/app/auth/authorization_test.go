package auth_test

import (
	"testing"

	"github.com/skillkhoj/backend/internal/app/auth"
	"github.com/skillkhoj/backend/internal/app/models"
)

func TestDefaultPolicy_Allows(t *testing.T) {
	p := auth.DefaultPolicy()

	tests := []struct {
		route string
		role  models.RoleType
		want  bool
	}{
		{auth.RouteCourseWrite, models.RoleAdmin, true},
		{auth.RouteCourseWrite, models.RoleRecruiter, false},
		{auth.RouteCourseWrite, models.RoleStudent, false},

		{auth.RouteStudentApply, models.RoleStudent, true},
		{auth.RouteStudentApply, models.RoleAdmin, true},
		{auth.RouteStudentApply, models.RoleRecruiter, false},

		{auth.RouteRecruiterCreateJob, models.RoleRecruiter, true},
		{auth.RouteRecruiterCreateJob, models.RoleStudent, false},
		{auth.RouteRecruiterApplicants, models.RoleAdmin, true},

		{auth.RoutePingAdmin, models.RoleAdmin, true},
		{auth.RoutePingAdmin, models.RoleRecruiter, false},
		{auth.RouteAdminReconcile, models.RoleStudent, false},

		{"no.such.route", models.RoleAdmin, false},
	}

	for _, tt := range tests {
		if got := p.Allows(tt.route, tt.role); got != tt.want {
			t.Errorf("Allows(%s, %s) = %v, want %v", tt.route, tt.role, got, tt.want)
		}
	}
}

func TestDefaultPolicy_EveryRouteHasValidRoles(t *testing.T) {
	p := auth.DefaultPolicy()
	for _, name := range p.RouteNames() {
		roles := p.Roles(name)
		for _, r := range roles {
			if !r.IsValid() {
				t.Errorf("route %s lists unknown role %q", name, r)
			}
		}
		if !p.Allows(name, models.RoleAdmin) {
			t.Errorf("route %s does not allow Admin", name)
		}
	}
}

func TestRoles_UnknownRoutePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Roles on an unknown route did not panic")
		}
	}()
	auth.DefaultPolicy().Roles("no.such.route")
}
