package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yaqubtawab/siwes-backend/internal/app/auth"
	"github.com/yaqubtawab/siwes-backend/internal/app/models/dto"
	"github.com/yaqubtawab/siwes-backend/internal/app/services"
	"github.com/yaqubtawab/siwes-backend/internal/middleware"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/apperrors"
)

// ClearanceController handles clearance status and finalization
type ClearanceController struct {
	clearanceService  services.ClearanceService
	supervisorService services.SupervisorService
	authzService      *auth.AuthorizationService
}

// NewClearanceController creates a new ClearanceController
func NewClearanceController(
	clearanceService services.ClearanceService,
	supervisorService services.SupervisorService,
	authzService *auth.AuthorizationService,
) *ClearanceController {
	return &ClearanceController{
		clearanceService:  clearanceService,
		supervisorService: supervisorService,
		authzService:      authzService,
	}
}

// GetStudentClearance handles the clearance checklist view
// @Summary Get a student's clearance data
// @Description Returns the requirement checklist and clearance record; accessible to the student and their assigned supervisors
// @Tags clearance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClearanceDataResponse} "Clearance data retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /clearance/students/{id} [get]
func (c *ClearanceController) GetStudentClearance(ctx *gin.Context) {
	userID, ok := authenticatedUserID(ctx)
	if !ok {
		return
	}
	studentID, ok := pathID(ctx, "id", "student")
	if !ok {
		return
	}

	if err := c.authorizeClearanceView(ctx, userID, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	data, err := c.clearanceService.GetClearanceData(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Ready handles the school supervisor's clearance queue
// @Summary List students ready for clearance
// @Description Retrieves assigned students whose approved entries reached the duration threshold
// @Tags clearance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ClearanceCandidateResponse} "Candidates retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /clearance/ready [get]
func (c *ClearanceController) Ready(ctx *gin.Context) {
	userID, ok := authenticatedUserID(ctx)
	if !ok {
		return
	}

	candidates, err := c.supervisorService.StudentsReadyForClearance(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(candidates))
}

// ClearStudent handles the school supervisor's final clearance action
// @Summary Clear a student
// @Description Finalizes an assigned student's clearance; repeat calls are harmless
// @Tags clearance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 204 "Student cleared"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /clearance/students/{id}/clear [post]
func (c *ClearanceController) ClearStudent(ctx *gin.Context) {
	userID, ok := authenticatedUserID(ctx)
	if !ok {
		return
	}
	studentID, ok := pathID(ctx, "id", "student")
	if !ok {
		return
	}

	if err := c.supervisorService.ClearStudent(ctx, userID, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, nil)
}

// authorizeClearanceView allows a student to read only their own clearance
// and a supervisor to read only assigned students
func (c *ClearanceController) authorizeClearanceView(ctx *gin.Context, userID, studentID int64) error {
	caller, err := c.authzService.GetUserInfo(ctx, userID)
	if err != nil {
		return err
	}

	if caller.IsStudent() {
		if caller.ID != studentID {
			return apperrors.ErrPermissionDenied
		}
		return nil
	}

	supervisor, err := auth.SupervisorFor(caller)
	if err != nil {
		return err
	}
	student, err := c.authzService.ResolveStudent(ctx, studentID)
	if err != nil {
		return err
	}
	return c.authzService.ValidateStudentAssignment(supervisor, student)
}
