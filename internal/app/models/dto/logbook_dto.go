package dto

import (
	"time"

	"github.com/yaqubtawab/siwes-backend/internal/app/models"
)

// CreateEntryRequest represents a new logbook entry. Status may be "draft" or
// "pending" (create-and-submit); anything else is rejected.
type CreateEntryRequest struct {
	Date      string   `json:"date" binding:"required" example:"2025-08-15"`
	Title     string   `json:"title" binding:"required"`
	TaskDone  string   `json:"taskDone" binding:"required"`
	MediaURLs []string `json:"mediaUrls"`
	Status    string   `json:"status" binding:"omitempty,oneof=draft pending"`
}

// UpdateEntryRequest represents a content edit by the owning student. Only
// title, task and attachments can change; date and status are immutable here.
type UpdateEntryRequest struct {
	Title     string   `json:"title" binding:"required"`
	TaskDone  string   `json:"taskDone" binding:"required"`
	MediaURLs []string `json:"mediaUrls"`
}

// EntryFilter carries list filtering and pagination options
type EntryFilter struct {
	Status string
	Search string
	Page   int
	Size   int
}

// SchoolReviewResponse mirrors the structured final review
type SchoolReviewResponse struct {
	Decision   models.ReviewAction `json:"decision"`
	Feedback   string              `json:"feedback"`
	ReviewerID int64               `json:"reviewerId"`
	ReviewedAt time.Time           `json:"reviewedAt"`
}

// EntryResponse represents a logbook entry in API responses
type EntryResponse struct {
	ID               int64                 `json:"id"`
	StudentID        int64                 `json:"studentId"`
	Date             string                `json:"date" example:"2025-08-15"`
	DayName          string                `json:"dayName" example:"friday"`
	Title            string                `json:"title"`
	TaskDone         string                `json:"taskDone"`
	MediaURLs        []string              `json:"mediaUrls,omitempty"`
	Status           models.EntryStatus    `json:"status"`
	IndustryFeedback string                `json:"commentsFromSupervisor,omitempty"`
	SchoolReview     *SchoolReviewResponse `json:"schoolReview,omitempty"`
	Student          *UserResponse         `json:"student,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

// ToEntryResponse converts an entry model to its response DTO
func ToEntryResponse(e *models.LogbookEntry) EntryResponse {
	resp := EntryResponse{
		ID:               e.ID,
		StudentID:        e.StudentID,
		Date:             e.Date.Format("2006-01-02"),
		DayName:          e.DayName,
		Title:            e.Title,
		TaskDone:         e.TaskDone,
		MediaURLs:        e.MediaURLs,
		Status:           e.Status,
		IndustryFeedback: e.IndustryFeedback,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
	if e.SchoolReview != nil {
		resp.SchoolReview = &SchoolReviewResponse{
			Decision:   e.SchoolReview.Decision,
			Feedback:   e.SchoolReview.Feedback,
			ReviewerID: e.SchoolReview.ReviewerID,
			ReviewedAt: e.SchoolReview.ReviewedAt,
		}
	}
	if e.Student != nil {
		student := ToUserResponse(e.Student)
		resp.Student = &student
	}
	return resp
}

// ToEntryResponses converts a slice of entry models
func ToEntryResponses(entries []models.LogbookEntry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, ToEntryResponse(&entries[i]))
	}
	return out
}
