package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skillkhoj/backend/internal/app/models/dto"
	"github.com/skillkhoj/backend/internal/app/services"
	"github.com/skillkhoj/backend/internal/middleware"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// AdminController exposes maintenance and health endpoints
type AdminController struct {
	applicationService *services.ApplicationService
	db                 Pinger
}

// NewAdminController creates a new AdminController
func NewAdminController(applicationService *services.ApplicationService, db Pinger) *AdminController {
	return &AdminController{
		applicationService: applicationService,
		db:                 db,
	}
}

// Reconcile rebuilds the denormalized relationship lists on demand
// @Summary Reconcile mirror lists
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ReconcileReport}
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /admin/reconcile [post]
func (c *AdminController) Reconcile(ctx *gin.Context) {
	report, err := c.applicationService.ReconcileMirrors(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Mirrors reconciled", report))
}

// Health reports API liveness and database reachability
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Failure 503 {object} dto.APIResponse
// @Router /health [get]
func (c *AdminController) Health(ctx *gin.Context) {
	status := http.StatusOK
	dbState := "up"
	if c.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := c.db.Ping(pingCtx); err != nil {
			status = http.StatusServiceUnavailable
			dbState = "down"
		}
	}

	ctx.JSON(status, dto.APIResponse{
		Success: status == http.StatusOK,
		Message: "Skill Khoj API is running!",
		Data: gin.H{
			"database":  dbState,
			"timestamp": time.Now().UTC().Format(dto.TimeLayout),
		},
	})
}
