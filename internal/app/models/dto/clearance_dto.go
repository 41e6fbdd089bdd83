package dto

import (
	"time"

	"github.com/yaqubtawab/siwes-backend/internal/app/models"
)

// ClearanceRecordResponse mirrors the persisted clearance form
type ClearanceRecordResponse struct {
	StudentID                  int64                  `json:"studentId"`
	IndustrySupervisorApproved bool                   `json:"industrySupervisorApproved"`
	SchoolSupervisorApproved   bool                   `json:"schoolSupervisorApproved"`
	SchoolSupervisorID         *int64                 `json:"schoolSupervisorId,omitempty"`
	SchoolApprovalDate         *time.Time             `json:"schoolApprovalDate,omitempty"`
	TotalWeeksCompleted        int                    `json:"totalWeeksCompleted"`
	TotalEntriesApproved       int                    `json:"totalEntriesApproved"`
	Status                     models.ClearanceStatus `json:"status"`
	CompletedAt                *time.Time             `json:"completedAt,omitempty"`
}

// ClearanceDataResponse is the full checklist view consumed by the dashboard
// and the certificate renderer. Both read eligibility from here; neither
// recomputes it.
type ClearanceDataResponse struct {
	Requirements    []models.ClearanceRequirement `json:"requirements"`
	OverallProgress int                           `json:"overallProgress" example:"80"`
	IsEligible      bool                          `json:"isEligible"`
	ClearanceStatus ClearanceRecordResponse       `json:"clearanceStatus"`
	Student         *UserResponse                 `json:"studentInfo,omitempty"`
}

// ToClearanceRecordResponse converts a clearance record model to its DTO
func ToClearanceRecordResponse(r *models.ClearanceRecord) ClearanceRecordResponse {
	return ClearanceRecordResponse{
		StudentID:                  r.StudentID,
		IndustrySupervisorApproved: r.IndustrySupervisorApproved,
		SchoolSupervisorApproved:   r.SchoolSupervisorApproved,
		SchoolSupervisorID:         r.SchoolSupervisorID,
		SchoolApprovalDate:         r.SchoolApprovalDate,
		TotalWeeksCompleted:        r.TotalWeeksCompleted,
		TotalEntriesApproved:       r.TotalEntriesApproved,
		Status:                     r.Status,
		CompletedAt:                r.CompletedAt,
	}
}
