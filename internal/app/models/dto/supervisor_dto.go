package dto

import "github.com/yaqubtawab/siwes-backend/internal/app/models"

// ReviewEntryRequest represents a supervisor's verdict on a logbook entry
type ReviewEntryRequest struct {
	Action   models.ReviewAction `json:"action" binding:"required,oneof=approve reject"`
	Feedback string              `json:"feedback" binding:"required"`
}

// SupervisorStatsResponse summarizes a supervisor's dashboard counters
type SupervisorStatsResponse struct {
	StudentsCount    int `json:"studentsCount"`
	PendingReviews   int `json:"pendingReviews"`
	CompletedReviews int `json:"completedReviews"`
	ThisWeekReviews  int `json:"thisWeekReviews"`
}

// StudentProgressResponse is the per-student breakdown shown to supervisors
type StudentProgressResponse struct {
	Student               UserResponse `json:"student"`
	TotalEntries          int          `json:"totalEntries"`
	ApprovedEntries       int          `json:"approvedEntries"`
	PendingEntries        int          `json:"pendingEntries"`
	DraftEntries          int          `json:"draftEntries"`
	LastEntryDate         string       `json:"lastEntryDate,omitempty" example:"2025-08-15"`
	IndustryApprovedCount int          `json:"industryApprovedEntries"`
	SchoolApprovedCount   int          `json:"schoolApprovedEntries"`
}

// ClearanceCandidateResponse is one row of the ready-for-clearance listing
type ClearanceCandidateResponse struct {
	Student         UserResponse           `json:"student"`
	TotalApproved   int                    `json:"totalApproved"`
	ClearanceStatus models.ClearanceStatus `json:"clearanceStatus"`
	CanBeCleared    bool                   `json:"canBeCleared"`
}
