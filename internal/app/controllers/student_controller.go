package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/skillkhoj/backend/internal/app/models/dto"
	"github.com/skillkhoj/backend/internal/app/services"
	"github.com/skillkhoj/backend/internal/middleware"
)

// StudentController handles the student dashboard, job board and applications
type StudentController struct {
	userService        *services.UserService
	jobService         *services.JobService
	applicationService *services.ApplicationService
	courseService      *services.CourseService
	logger             zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(
	userService *services.UserService,
	jobService *services.JobService,
	applicationService *services.ApplicationService,
	courseService *services.CourseService,
	logger zerolog.Logger,
) *StudentController {
	return &StudentController{
		userService:        userService,
		jobService:         jobService,
		applicationService: applicationService,
		courseService:      courseService,
		logger:             logger,
	}
}

// Homepage returns the student with registered and recommended courses
// @Summary Student homepage
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentHomepageResponse}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /student/{id}/homepage [get]
func (c *StudentController) Homepage(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	home, err := c.userService.GetStudentHomepage(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Homepage retrieved successfully", home))
}

// ListJobs returns every job posting newest first
// @Summary List jobs
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.JobPosting}
// @Router /student/jobs [get]
func (c *StudentController) ListJobs(ctx *gin.Context) {
	jobs, err := c.jobService.ListJobs(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Jobs retrieved successfully", jobs))
}

// Apply submits an application to a job
// @Summary Apply to job
// @Tags student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param jobId path string true "Job ID"
// @Param request body dto.ApplyToJobRequest false "Optional cover letter"
// @Success 201 {object} dto.APIResponse{data=models.JobApplication}
// @Failure 400 {object} dto.ErrorResponse "Already applied"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /student/{id}/apply/{jobId} [post]
func (c *StudentController) Apply(ctx *gin.Context) {
	studentID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	jobID, ok := idParam(ctx, "jobId")
	if !ok {
		return
	}

	var req dto.ApplyToJobRequest
	if !middleware.BindOptionalJSON(ctx, &req) {
		return
	}

	app, err := c.applicationService.ApplyToJob(ctx.Request.Context(), studentID, jobID, req.CoverLetter)
	if err != nil {
		c.logger.Warn().Err(err).Str("studentID", studentID).Str("jobID", jobID).Msg("Application rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Application submitted successfully", app))
}

// Applications lists the student's applications newest first
// @Summary Student applications
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.JobApplication}
// @Router /student/{id}/applications [get]
func (c *StudentController) Applications(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	apps, err := c.applicationService.GetStudentApplications(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Applications retrieved successfully", apps))
}

// JobsAppliedTo resolves the student's applied-jobs list
// @Summary Jobs applied to
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.JobPosting}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /student/{id}/jobs-applied-to [get]
func (c *StudentController) JobsAppliedTo(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	jobs, err := c.applicationService.GetJobsAppliedTo(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Jobs retrieved successfully", jobs))
}

// RegisterCourse adds a course to the student's registered courses
// @Summary Register for course
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /student/{id}/courses/{courseId} [post]
func (c *StudentController) RegisterCourse(ctx *gin.Context) {
	studentID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	courseID, ok := idParam(ctx, "courseId")
	if !ok {
		return
	}

	course, err := c.courseService.RegisterCourse(ctx.Request.Context(), studentID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Course registered successfully", course))
}
