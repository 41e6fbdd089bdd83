package models

import (
	"time"
)

// SchoolReview is the structured final review a school supervisor attaches to
// an already industry-approved entry. It lives in its own column; workflow
// state is never inferred from markers inside free-text feedback.
type SchoolReview struct {
	Decision   ReviewAction `json:"decision" db:"school_review_decision" example:"approve"`
	Feedback   string       `json:"feedback" db:"school_review_feedback"`
	ReviewerID int64        `json:"reviewerId" db:"school_reviewer_id"`
	ReviewedAt time.Time    `json:"reviewedAt" db:"school_reviewed_at"`
}

// LogbookEntry represents one daily logbook submission based on the 'logbook'
// table. IndustryFeedback holds the first-stage supervisor comment; the final
// school stage is tracked separately in SchoolReview.
type LogbookEntry struct {
	ID               int64         `json:"id" db:"id" example:"1"`
	StudentID        int64         `json:"studentId" db:"student_id" example:"7"`
	Date             time.Time     `json:"date" db:"date"`
	DayName          string        `json:"dayName" db:"day_name" example:"monday"`
	Title            string        `json:"title" db:"title" example:"Database Design"`
	TaskDone         string        `json:"taskDone" db:"task_done"`
	MediaURLs        []string      `json:"mediaUrls,omitempty" db:"media_urls"`
	Status           EntryStatus   `json:"status" db:"status" example:"pending"`
	IndustryFeedback string        `json:"commentsFromSupervisor,omitempty" db:"comments_from_supervisor"`
	SchoolReview     *SchoolReview `json:"schoolReview,omitempty"`
	CreatedAt        time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time     `json:"updatedAt" db:"updated_at"`

	// Relation, populated on supervisor listings
	Student *User `json:"student,omitempty"`
}

// HasIndustryFeedback reports whether the first review stage has happened.
// The school stage is only legal once this is true.
func (e *LogbookEntry) HasIndustryFeedback() bool {
	return e.IndustryFeedback != ""
}

// Editable reports whether the owning student may still change content fields
func (e *LogbookEntry) Editable() bool {
	return e.Status == EntryDraft || e.Status == EntryPending
}

// dayNames follows the calendar convention Sunday=0..Saturday=6
var dayNames = [...]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// DayNameFor derives the lowercase weekday name for a date
func DayNameFor(date time.Time) string {
	return dayNames[int(date.Weekday())]
}

// LogbookStats holds per-student counts aggregated over all entries
type LogbookStats struct {
	Total    int `json:"total" example:"24"`
	Approved int `json:"approved" example:"20"`
	Pending  int `json:"pending" example:"3"`
	Draft    int `json:"draft" example:"1"`
}
