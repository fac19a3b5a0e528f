package routes

import (
	"github.com/gin-gonic/gin"
	appAuth "github.com/skillkhoj/backend/internal/app/auth"
	"github.com/skillkhoj/backend/internal/app/controllers"
	"github.com/skillkhoj/backend/internal/middleware"
)

// Controllers groups every handler the router mounts
type Controllers struct {
	Auth      *controllers.AuthController
	Course    *controllers.CourseController
	User      *controllers.UserController
	Student   *controllers.StudentController
	Recruiter *controllers.RecruiterController
	Admin     *controllers.AdminController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/", c.Admin.Health)
	router.NoRoute(middleware.NotFound())

	api := router.Group("/api")
	api.GET("/health", c.Admin.Health)

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
	}

	// --- Course routes: reads are public, writes are gated ---
	courses := api.Group("/courses")
	{
		courses.GET("", c.Course.List)

		write := courses.Group("", authMiddleware.Authenticate(), authMiddleware.Allow(appAuth.RouteCourseWrite))
		write.POST("", c.Course.Create)
		write.PATCH("/:id", c.Course.Update)
		write.DELETE("/:id", c.Course.Delete)
	}

	// --- Authenticated Routes Group ---
	authenticated := api.Group("", authMiddleware.Authenticate())
	self := authMiddleware.RequireSelfOrAdmin("id")

	student := authenticated.Group("/student")
	{
		student.GET("/jobs", authMiddleware.Allow(appAuth.RouteStudentJobs), c.Student.ListJobs)

		student.GET("/:id/homepage", authMiddleware.Allow(appAuth.RouteStudentHomepage), self, c.Student.Homepage)
		student.GET("/:id/profile", authMiddleware.Allow(appAuth.RouteStudentProfile), self, c.User.GetProfile)
		student.PUT("/:id/profile", authMiddleware.Allow(appAuth.RouteStudentProfile), self, c.User.UpdateProfile)
		student.POST("/:id/apply/:jobId", authMiddleware.Allow(appAuth.RouteStudentApply), self, c.Student.Apply)
		student.GET("/:id/applications", authMiddleware.Allow(appAuth.RouteStudentApplications), self, c.Student.Applications)
		student.GET("/:id/jobs-applied-to", authMiddleware.Allow(appAuth.RouteStudentAppliedTo), self, c.Student.JobsAppliedTo)
		student.POST("/:id/courses/:courseId", authMiddleware.Allow(appAuth.RouteStudentCourses), self, c.Student.RegisterCourse)
	}

	recruiter := authenticated.Group("/recruiter")
	{
		recruiter.GET("/job/:jobId/applicants", authMiddleware.Allow(appAuth.RouteRecruiterApplicants), c.Recruiter.Applicants)

		recruiter.GET("/:id/profile", authMiddleware.Allow(appAuth.RouteRecruiterProfile), self, c.User.GetProfile)
		recruiter.PUT("/:id/profile", authMiddleware.Allow(appAuth.RouteRecruiterProfile), self, c.User.UpdateProfile)
		recruiter.GET("/:id/homepage", authMiddleware.Allow(appAuth.RouteRecruiterHomepage), self, c.Recruiter.Homepage)
		recruiter.POST("/:id/createJobPosting", authMiddleware.Allow(appAuth.RouteRecruiterCreateJob), self, c.Recruiter.CreateJobPosting)
	}

	user := authenticated.Group("/user")
	{
		user.GET("/student", authMiddleware.Allow(appAuth.RoutePingStudent), c.User.Ping("Welcome Student"))
		user.GET("/recruiter", authMiddleware.Allow(appAuth.RoutePingRecruiter), c.User.Ping("Welcome Recruiter"))
		user.GET("/admin", authMiddleware.Allow(appAuth.RoutePingAdmin), c.User.Ping("Welcome Admin"))
	}

	admin := authenticated.Group("/admin")
	{
		admin.POST("/reconcile", authMiddleware.Allow(appAuth.RouteAdminReconcile), c.Admin.Reconcile)
	}
}
