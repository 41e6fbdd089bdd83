package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yaqubtawab/siwes-backend/internal/app/models/dto"
	"github.com/yaqubtawab/siwes-backend/internal/app/services"
	"github.com/yaqubtawab/siwes-backend/internal/middleware"
)

// SupervisorController handles the supervisor-facing operations
type SupervisorController struct {
	supervisorService services.SupervisorService
}

// NewSupervisorController creates a new SupervisorController
func NewSupervisorController(supervisorService services.SupervisorService) *SupervisorController {
	return &SupervisorController{supervisorService: supervisorService}
}

// ReviewEntry handles a supervisor's verdict on an entry
// @Summary Review a logbook entry
// @Description Applies an approve or reject verdict at the caller's review stage
// @Tags supervisor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Param request body dto.ReviewEntryRequest true "Verdict and feedback"
// @Success 200 {object} dto.APIResponse{data=dto.EntryResponse} "Entry reviewed successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 409 {object} dto.ErrorResponse "Entry is not reviewable at this stage"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /supervisor/entries/{id}/review [post]
func (c *SupervisorController) ReviewEntry(ctx *gin.Context) {
	userID, ok := authenticatedUserID(ctx)
	if !ok {
		return
	}
	entryID, ok := pathID(ctx, "id", "entry")
	if !ok {
		return
	}

	var req dto.ReviewEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.supervisorService.ReviewEntry(ctx, userID, entryID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// AssignedStudents handles listing the supervisor's students
// @Summary List assigned students
// @Description Retrieves the active students assigned to the caller
// @Tags supervisor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse} "Students retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /supervisor/students [get]
func (c *SupervisorController) AssignedStudents(ctx *gin.Context) {
	userID, ok := authenticatedUserID(ctx)
	if !ok {
		return
	}

	students, err := c.supervisorService.AssignedStudents(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students))
}

// PendingReviews handles listing the entries waiting on the caller's stage
// @Summary List pending reviews
// @Description Industry supervisors see pending entries; school supervisors see industry-approved entries awaiting final review
// @Tags supervisor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.EntryResponse} "Pending reviews retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /supervisor/reviews/pending [get]
func (c *SupervisorController) PendingReviews(ctx *gin.Context) {
	userID, ok := authenticatedUserID(ctx)
	if !ok {
		return
	}

	entries, err := c.supervisorService.PendingReviews(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(entries))
}

// AllStudentEntries handles listing every submitted entry of assigned students
// @Summary List all student entries
// @Description Retrieves every submitted entry of the caller's students, newest first
// @Tags supervisor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.EntryResponse} "Entries retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /supervisor/entries [get]
func (c *SupervisorController) AllStudentEntries(ctx *gin.Context) {
	userID, ok := authenticatedUserID(ctx)
	if !ok {
		return
	}

	entries, err := c.supervisorService.AllStudentEntries(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(entries))
}

// Stats handles the supervisor dashboard counters
// @Summary Get supervisor dashboard stats
// @Description Returns student count and review counters for the caller
// @Tags supervisor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SupervisorStatsResponse} "Stats retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /supervisor/stats [get]
func (c *SupervisorController) Stats(ctx *gin.Context) {
	userID, ok := authenticatedUserID(ctx)
	if !ok {
		return
	}

	stats, err := c.supervisorService.Stats(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}

// StudentProgress handles one student's progress breakdown
// @Summary Get a student's progress
// @Description Returns entry counts and review progress for one assigned student
// @Tags supervisor
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentProgressResponse} "Progress retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /supervisor/students/{id}/progress [get]
func (c *SupervisorController) StudentProgress(ctx *gin.Context) {
	userID, ok := authenticatedUserID(ctx)
	if !ok {
		return
	}
	studentID, ok := pathID(ctx, "id", "student")
	if !ok {
		return
	}

	progress, err := c.supervisorService.StudentProgress(ctx, userID, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(progress))
}
