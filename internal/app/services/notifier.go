package services

import (
	"context"

	"github.com/yaqubtawab/siwes-backend/internal/app/models"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/logger"
)

// Notifier delivers review events to the people waiting on them.
// Notification failures never fail the triggering operation.
type Notifier interface {
	// EntrySubmitted tells the industry supervisor a pending entry awaits review
	EntrySubmitted(ctx context.Context, entry *models.LogbookEntry, student *models.User)
	// EntryReviewed tells the student the outcome of a review
	EntryReviewed(ctx context.Context, entry *models.LogbookEntry, student *models.User, action models.ReviewAction)
	// StudentCleared tells the student the clearance is final
	StudentCleared(ctx context.Context, student *models.User)
}

// logNotifier writes notifications to the application log. It stands in for
// an email or push channel in deployments that have none configured.
type logNotifier struct{}

// NewLogNotifier creates a Notifier backed by the application log
func NewLogNotifier() Notifier {
	return &logNotifier{}
}

func (n *logNotifier) EntrySubmitted(ctx context.Context, entry *models.LogbookEntry, student *models.User) {
	logger.Info().
		Int64("entryID", entry.ID).
		Int64("studentID", student.ID).
		Str("student", student.FullName()).
		Msg("Notification: entry submitted for review")
}

func (n *logNotifier) EntryReviewed(ctx context.Context, entry *models.LogbookEntry, student *models.User, action models.ReviewAction) {
	logger.Info().
		Int64("entryID", entry.ID).
		Int64("studentID", student.ID).
		Str("action", string(action)).
		Msg("Notification: entry reviewed")
}

func (n *logNotifier) StudentCleared(ctx context.Context, student *models.User) {
	logger.Info().
		Int64("studentID", student.ID).
		Str("student", student.FullName()).
		Msg("Notification: student cleared")
}
