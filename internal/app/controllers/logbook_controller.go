package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yaqubtawab/siwes-backend/internal/app/models/dto"
	"github.com/yaqubtawab/siwes-backend/internal/app/services"
	"github.com/yaqubtawab/siwes-backend/internal/middleware"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/helpers"
)

// LogbookController handles the student-facing logbook operations
type LogbookController struct {
	logbookService services.LogbookService
}

// NewLogbookController creates a new LogbookController
func NewLogbookController(logbookService services.LogbookService) *LogbookController {
	return &LogbookController{logbookService: logbookService}
}

// CreateEntry handles creating a new logbook entry
// @Summary Create a logbook entry
// @Description Records a new daily entry, as a draft or submitted straight to review
// @Tags logbook
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEntryRequest true "Entry details"
// @Success 201 {object} dto.APIResponse{data=dto.EntryResponse} "Entry created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /logbook [post]
func (c *LogbookController) CreateEntry(ctx *gin.Context) {
	userID, ok := authenticatedUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.logbookService.CreateEntry(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// ListEntries handles listing the student's own entries
// @Summary List own logbook entries
// @Description Retrieves a filtered page of the student's entries, newest first
// @Tags logbook
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (draft, pending, approved)"
// @Param search query string false "Search in title and task description"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10)"
// @Success 200 {object} dto.APIResponse{data=[]dto.EntryResponse,pagination=dto.PaginationInfo} "Entries retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /logbook [get]
func (c *LogbookController) ListEntries(ctx *gin.Context) {
	userID, ok := authenticatedUserID(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	filter := &dto.EntryFilter{
		Status: ctx.Query("status"),
		Search: ctx.Query("search"),
		Page:   page,
		Size:   size,
	}

	entries, total, err := c.logbookService.ListEntries(ctx, userID, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponseWithPagination(entries, &pagination))
}

// GetEntry handles retrieving one of the student's entries
// @Summary Get a logbook entry
// @Description Retrieves one of the student's own entries by ID
// @Tags logbook
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} dto.APIResponse{data=dto.EntryResponse} "Entry retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid entry ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /logbook/{id} [get]
func (c *LogbookController) GetEntry(ctx *gin.Context) {
	userID, ok := authenticatedUserID(ctx)
	if !ok {
		return
	}
	entryID, ok := pathID(ctx, "id", "entry")
	if !ok {
		return
	}

	resp, err := c.logbookService.GetEntry(ctx, userID, entryID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateEntry handles editing a draft or pending entry
// @Summary Update a logbook entry
// @Description Edits the content of a draft or pending entry; approved entries are frozen
// @Tags logbook
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Param request body dto.UpdateEntryRequest true "Updated content"
// @Success 200 {object} dto.APIResponse{data=dto.EntryResponse} "Entry updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 409 {object} dto.ErrorResponse "Entry is no longer editable"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /logbook/{id} [put]
func (c *LogbookController) UpdateEntry(ctx *gin.Context) {
	userID, ok := authenticatedUserID(ctx)
	if !ok {
		return
	}
	entryID, ok := pathID(ctx, "id", "entry")
	if !ok {
		return
	}

	var req dto.UpdateEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.logbookService.UpdateEntry(ctx, userID, entryID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// SubmitEntry handles submitting a draft for review
// @Summary Submit a logbook entry
// @Description Moves a draft into the industry supervisor's review queue
// @Tags logbook
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} dto.APIResponse{data=dto.EntryResponse} "Entry submitted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid entry ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 409 {object} dto.ErrorResponse "Entry is not a draft"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /logbook/{id}/submit [post]
func (c *LogbookController) SubmitEntry(ctx *gin.Context) {
	userID, ok := authenticatedUserID(ctx)
	if !ok {
		return
	}
	entryID, ok := pathID(ctx, "id", "entry")
	if !ok {
		return
	}

	resp, err := c.logbookService.SubmitEntry(ctx, userID, entryID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DeleteEntry handles deleting a draft entry
// @Summary Delete a logbook entry
// @Description Deletes a draft; entries that entered review cannot be deleted
// @Tags logbook
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 204 "Entry deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid entry ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 409 {object} dto.ErrorResponse "Entry is not a draft"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /logbook/{id} [delete]
func (c *LogbookController) DeleteEntry(ctx *gin.Context) {
	userID, ok := authenticatedUserID(ctx)
	if !ok {
		return
	}
	entryID, ok := pathID(ctx, "id", "entry")
	if !ok {
		return
	}

	if err := c.logbookService.DeleteEntry(ctx, userID, entryID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, nil)
}

// GetStats handles retrieving the student's entry counters
// @Summary Get own logbook stats
// @Description Returns total, approved, pending and draft counts for the student
// @Tags logbook
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.LogbookStats} "Stats retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /logbook/stats [get]
func (c *LogbookController) GetStats(ctx *gin.Context) {
	userID, ok := authenticatedUserID(ctx)
	if !ok {
		return
	}

	stats, err := c.logbookService.GetStats(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}

// pathID parses a path parameter as an int64 ID, replying 400 itself on
// malformed input
func pathID(ctx *gin.Context, param, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(param), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+label+" ID")
		errorDetail = errorDetail.WithDetails(label + " ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
