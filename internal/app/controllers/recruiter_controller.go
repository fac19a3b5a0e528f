package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/skillkhoj/backend/internal/app/models/dto"
	"github.com/skillkhoj/backend/internal/app/services"
	"github.com/skillkhoj/backend/internal/middleware"
)

// RecruiterController handles the recruiter dashboard and job postings
type RecruiterController struct {
	userService *services.UserService
	jobService  *services.JobService
	logger      zerolog.Logger
}

// NewRecruiterController creates a new RecruiterController
func NewRecruiterController(userService *services.UserService, jobService *services.JobService, logger zerolog.Logger) *RecruiterController {
	return &RecruiterController{
		userService: userService,
		jobService:  jobService,
		logger:      logger,
	}
}

// Homepage returns the recruiter with their postings
// @Summary Recruiter homepage
// @Tags recruiter
// @Produce json
// @Security BearerAuth
// @Param id path string true "Recruiter ID"
// @Success 200 {object} dto.APIResponse{data=dto.RecruiterHomepageResponse}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /recruiter/{id}/homepage [get]
func (c *RecruiterController) Homepage(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	home, err := c.userService.GetRecruiterHomepage(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Homepage retrieved successfully", home))
}

// CreateJobPosting publishes a job posting
// @Summary Create job posting
// @Tags recruiter
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Recruiter ID"
// @Param request body dto.CreateJobPostingRequest true "Posting, every field required"
// @Success 201 {object} dto.APIResponse{data=models.JobPosting}
// @Failure 400 {object} dto.ErrorResponse "Missing field"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /recruiter/{id}/createJobPosting [post]
func (c *RecruiterController) CreateJobPosting(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.CreateJobPostingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	job, err := c.jobService.CreateJobPosting(ctx.Request.Context(), id, &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("recruiterID", id).Msg("Job posting rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Job posting created successfully", job))
}

// Applicants returns a posting with the name and email of each applicant
// @Summary Job applicants
// @Tags recruiter
// @Produce json
// @Security BearerAuth
// @Param jobId path string true "Job ID"
// @Success 200 {object} dto.APIResponse{data=dto.JobApplicantsResponse}
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /recruiter/job/{jobId}/applicants [get]
func (c *RecruiterController) Applicants(ctx *gin.Context) {
	jobID, ok := idParam(ctx, "jobId")
	if !ok {
		return
	}

	resp, err := c.jobService.GetApplicants(ctx.Request.Context(), jobID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Applicants retrieved successfully", resp))
}
