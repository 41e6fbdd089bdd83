package models

import (
	"time"
)

// ClearanceRecord is the per-student clearance form based on the
// 'clearance_forms' table. One row per student, created lazily on the first
// industry approval (or provisioned explicitly). Never deleted.
type ClearanceRecord struct {
	ID                         int64           `json:"id" db:"id"`
	StudentID                  int64           `json:"studentId" db:"student_id"`
	IndustrySupervisorApproved bool            `json:"industrySupervisorApproved" db:"industry_supervisor_approved"`
	SchoolSupervisorApproved   bool            `json:"schoolSupervisorApproved" db:"school_supervisor_approved"`
	SchoolSupervisorID         *int64          `json:"schoolSupervisorId,omitempty" db:"school_supervisor_id"`
	SchoolApprovalDate         *time.Time      `json:"schoolApprovalDate,omitempty" db:"school_approval_date"`
	TotalWeeksCompleted        int             `json:"totalWeeksCompleted" db:"total_weeks_completed"`
	TotalEntriesApproved       int             `json:"totalEntriesApproved" db:"total_entries_approved"`
	Status                     ClearanceStatus `json:"status" db:"status" example:"not_cleared"`
	CompletedAt                *time.Time      `json:"completedAt,omitempty" db:"completed_at"`
	CreatedAt                  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt                  time.Time       `json:"updatedAt" db:"updated_at"`
}

// Cleared reports whether the record reached its terminal state
func (r *ClearanceRecord) Cleared() bool {
	return r.Status == ClearanceCleared
}

// RequirementType identifies one of the five fixed checklist items
type RequirementType string

const (
	RequirementDuration           RequirementType = "duration"
	RequirementLogEntries         RequirementType = "log_entries"
	RequirementSupervisorApproval RequirementType = "supervisor_approval"
	RequirementAcademicApproval   RequirementType = "academic_approval"
	RequirementFinalAssessment    RequirementType = "final_assessment"
)

// RequirementStatus is the completion state of one checklist item
type RequirementStatus string

const (
	RequirementCompleted  RequirementStatus = "completed"
	RequirementInProgress RequirementStatus = "in-progress"
	RequirementPending    RequirementStatus = "pending"
)

// ClearanceRequirement is one derived checklist item. Requirements are
// recomputed on demand from entry aggregates and the clearance record; they
// are never persisted.
type ClearanceRequirement struct {
	Type        RequirementType   `json:"type" example:"duration"`
	Title       string            `json:"title" example:"Complete Minimum Duration"`
	Description string            `json:"description"`
	Current     int               `json:"current" example:"24"`
	Required    int               `json:"required" example:"24"`
	Status      RequirementStatus `json:"status" example:"completed"`
}
