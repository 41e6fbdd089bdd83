package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yaqubtawab/siwes-backend/internal/app/models"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/apperrors"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/logger"
)

// LogbookPgRepository handles logbook entry database operations
type LogbookPgRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLogbookRepository creates a new postgres logbook repository
func NewLogbookRepository(db *pgxpool.Pool) *LogbookPgRepository {
	return &LogbookPgRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const entryColumns = "l.id, l.student_id, l.date, l.day_name, l.title, l.task_done, l.media_urls, l.status, " +
	"l.comments_from_supervisor, l.school_review_decision, l.school_review_feedback, l.school_reviewer_id, l.school_reviewed_at, " +
	"l.created_at, l.updated_at"

// scanEntry scans one logbook row, folding the nullable school review columns
// into the structured SchoolReview field.
func scanEntry(row pgx.Row) (*models.LogbookEntry, error) {
	var entry models.LogbookEntry
	var feedback, reviewDecision, reviewFeedback sql.NullString
	var reviewerID sql.NullInt64
	var reviewedAt sql.NullTime

	err := row.Scan(
		&entry.ID, &entry.StudentID, &entry.Date, &entry.DayName, &entry.Title, &entry.TaskDone,
		&entry.MediaURLs, &entry.Status,
		&feedback, &reviewDecision, &reviewFeedback, &reviewerID, &reviewedAt,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if feedback.Valid {
		entry.IndustryFeedback = feedback.String
	}
	if reviewDecision.Valid && reviewerID.Valid && reviewedAt.Valid {
		entry.SchoolReview = &models.SchoolReview{
			Decision:   models.ReviewAction(reviewDecision.String),
			Feedback:   reviewFeedback.String,
			ReviewerID: reviewerID.Int64,
			ReviewedAt: reviewedAt.Time,
		}
	}
	return &entry, nil
}

// schoolReviewArgs expands the optional school review into insert/update args
func schoolReviewArgs(review *models.SchoolReview) (decision, feedback interface{}, reviewerID, reviewedAt interface{}) {
	if review == nil {
		return nil, nil, nil, nil
	}
	return string(review.Decision), review.Feedback, review.ReviewerID, review.ReviewedAt
}

// Create inserts a new logbook entry
func (r *LogbookPgRepository) Create(ctx context.Context, entry *models.LogbookEntry) (int64, error) {
	decision, reviewFeedback, reviewerID, reviewedAt := schoolReviewArgs(entry.SchoolReview)

	sqlStr, args, err := r.sb.Insert("logbook").
		Columns(
			"student_id", "date", "day_name", "title", "task_done", "media_urls", "status",
			"comments_from_supervisor",
			"school_review_decision", "school_review_feedback", "school_reviewer_id", "school_reviewed_at",
		).
		Values(
			entry.StudentID, entry.Date, entry.DayName, entry.Title, entry.TaskDone, entry.MediaURLs, entry.Status,
			getContentNullString(entry.IndustryFeedback),
			decision, reviewFeedback, reviewerID, reviewedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create entry SQL")
		return 0, fmt.Errorf("failed to build create entry query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", entry.StudentID).Msg("Error executing create entry query")
		return 0, fmt.Errorf("error inserting logbook entry: %w", err)
	}

	logger.Info().Int64("entryID", id).Int64("studentID", entry.StudentID).Msg("Logbook entry created")
	return id, nil
}

// GetByID retrieves a logbook entry by its ID
func (r *LogbookPgRepository) GetByID(ctx context.Context, id int64) (*models.LogbookEntry, error) {
	sqlStr, args, err := r.sb.Select(entryColumns).
		From("logbook l").
		Where(squirrel.Eq{"l.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get entry query: %w", err)
	}

	entry, err := scanEntry(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEntryNotFound
		}
		logger.Error().Err(err).Int64("entryID", id).Msg("Error scanning entry row by ID")
		return nil, fmt.Errorf("error querying entry ID=%d: %w", id, err)
	}
	return entry, nil
}

// ListByStudent retrieves all entries of one student, newest date first
func (r *LogbookPgRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.LogbookEntry, error) {
	sqlStr, args, err := r.sb.Select(entryColumns).
		From("logbook l").
		Where(squirrel.Eq{"l.student_id": studentID}).
		OrderBy("l.date DESC", "l.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list entries query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing list entries query")
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// ListByStudentPaginated retrieves a filtered page of one student's entries
func (r *LogbookPgRepository) ListByStudentPaginated(ctx context.Context, studentID int64, filter EntryListFilter) ([]models.LogbookEntry, int64, error) {
	whereCondition := squirrel.And{squirrel.Eq{"l.student_id": studentID}}
	if filter.Status != "" {
		whereCondition = append(whereCondition, squirrel.Eq{"l.status": filter.Status})
	}
	if filter.Search != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		whereCondition = append(whereCondition, squirrel.Or{
			squirrel.ILike{"l.title": pattern},
			squirrel.ILike{"l.task_done": pattern},
		})
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("logbook l").Where(whereCondition).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count entries query: %w", err)
	}

	var totalItems int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalItems); err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing count entries query")
		return nil, 0, fmt.Errorf("failed to count entries: %w", err)
	}
	if totalItems == 0 {
		return []models.LogbookEntry{}, 0, nil
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	sqlStr, args, err := r.sb.Select(entryColumns).
		From("logbook l").
		Where(whereCondition).
		OrderBy("l.date DESC", "l.id DESC").
		Limit(uint64(limit)).
		Offset(filter.Offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build paginated entries query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing paginated entries query")
		return nil, 0, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries, err := collectEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, totalItems, nil
}

// Update persists entry content, status, feedback and the school review
func (r *LogbookPgRepository) Update(ctx context.Context, entry *models.LogbookEntry) error {
	decision, reviewFeedback, reviewerID, reviewedAt := schoolReviewArgs(entry.SchoolReview)

	sqlStr, args, err := r.sb.Update("logbook").
		SetMap(map[string]interface{}{
			"title":                    entry.Title,
			"task_done":                entry.TaskDone,
			"media_urls":               entry.MediaURLs,
			"status":                   entry.Status,
			"comments_from_supervisor": getContentNullString(entry.IndustryFeedback),
			"school_review_decision":   decision,
			"school_review_feedback":   reviewFeedback,
			"school_reviewer_id":       reviewerID,
			"school_reviewed_at":       reviewedAt,
			"updated_at":               time.Now(),
		}).
		Where(squirrel.Eq{"id": entry.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Int64("entryID", entry.ID).Msg("Error building update entry SQL")
		return fmt.Errorf("failed to build update entry query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Int64("entryID", entry.ID).Msg("Error executing update entry query")
		return fmt.Errorf("error updating entry ID=%d: %w", entry.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		logger.Warn().Int64("entryID", entry.ID).Msg("Attempted to update non-existent entry")
		return apperrors.ErrEntryNotFound
	}

	return nil
}

// Delete removes a logbook entry
func (r *LogbookPgRepository) Delete(ctx context.Context, id int64) error {
	sqlStr, args, err := r.sb.Delete("logbook").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete entry query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Int64("entryID", id).Msg("Error executing delete entry query")
		return fmt.Errorf("error deleting entry ID=%d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEntryNotFound
	}

	logger.Info().Int64("entryID", id).Msg("Logbook entry deleted")
	return nil
}

// CountApproved returns the fresh count of a student's approved entries.
// Clearance recomputation always derives from this, never from an increment.
func (r *LogbookPgRepository) CountApproved(ctx context.Context, studentID int64) (int, error) {
	sqlStr, args, err := r.sb.Select("COUNT(*)").
		From("logbook").
		Where(squirrel.Eq{"student_id": studentID, "status": models.EntryApproved}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count approved query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error counting approved entries")
		return 0, fmt.Errorf("failed to count approved entries: %w", err)
	}
	return count, nil
}

// ListForStudents retrieves entries across a set of students with the student
// relation joined in, newest first
func (r *LogbookPgRepository) ListForStudents(ctx context.Context, studentIDs []int64, statuses ...models.EntryStatus) ([]models.LogbookEntry, error) {
	if len(studentIDs) == 0 {
		return []models.LogbookEntry{}, nil
	}

	whereCondition := squirrel.And{squirrel.Eq{"l.student_id": studentIDs}}
	if len(statuses) > 0 {
		whereCondition = append(whereCondition, squirrel.Eq{"l.status": statuses})
	}

	sqlStr, args, err := r.sb.Select(entryColumns+
		", u.first_name, u.middle_name, u.last_name, u.matric_no, u.department").
		From("logbook l").
		Join("users u ON l.student_id = u.id").
		Where(whereCondition).
		OrderBy("l.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list for students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list for students query")
		return nil, fmt.Errorf("failed to query entries for students: %w", err)
	}
	defer rows.Close()

	var entries []models.LogbookEntry
	for rows.Next() {
		var entry models.LogbookEntry
		var feedback, reviewDecision, reviewFeedback, middleName sql.NullString
		var reviewerID sql.NullInt64
		var reviewedAt sql.NullTime
		var student models.User

		err := rows.Scan(
			&entry.ID, &entry.StudentID, &entry.Date, &entry.DayName, &entry.Title, &entry.TaskDone,
			&entry.MediaURLs, &entry.Status,
			&feedback, &reviewDecision, &reviewFeedback, &reviewerID, &reviewedAt,
			&entry.CreatedAt, &entry.UpdatedAt,
			&student.FirstName, &middleName, &student.LastName, &student.MatricNo, &student.Department,
		)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning entry row with student")
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}

		if feedback.Valid {
			entry.IndustryFeedback = feedback.String
		}
		if reviewDecision.Valid && reviewerID.Valid && reviewedAt.Valid {
			entry.SchoolReview = &models.SchoolReview{
				Decision:   models.ReviewAction(reviewDecision.String),
				Feedback:   reviewFeedback.String,
				ReviewerID: reviewerID.Int64,
				ReviewedAt: reviewedAt.Time,
			}
		}
		student.ID = entry.StudentID
		student.MiddleName = middleName.String
		student.Role = models.RoleStudent
		entry.Student = &student

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}
	return entries, nil
}

// CountForStudents counts entries of one status across a set of students
func (r *LogbookPgRepository) CountForStudents(ctx context.Context, studentIDs []int64, status models.EntryStatus, since *time.Time) (int, error) {
	if len(studentIDs) == 0 {
		return 0, nil
	}

	whereCondition := squirrel.And{
		squirrel.Eq{"student_id": studentIDs},
		squirrel.Eq{"status": status},
	}
	if since != nil {
		whereCondition = append(whereCondition, squirrel.GtOrEq{"updated_at": *since})
	}

	sqlStr, args, err := r.sb.Select("COUNT(*)").From("logbook").Where(whereCondition).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count for students query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error counting entries for students")
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

// collectEntries drains rows into entry models
func collectEntries(rows pgx.Rows) ([]models.LogbookEntry, error) {
	var entries []models.LogbookEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning entry row")
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}
	return entries, nil
}

// getContentNullString maps empty strings to SQL NULL
func getContentNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
