package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yaqubtawab/siwes-backend/internal/app/models"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/apperrors"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/logger"
)

// ClearancePgRepository handles clearance form database operations
type ClearancePgRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewClearanceRepository creates a new postgres clearance repository
func NewClearanceRepository(db *pgxpool.Pool) *ClearancePgRepository {
	return &ClearancePgRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const clearanceColumns = "id, student_id, industry_supervisor_approved, school_supervisor_approved, " +
	"school_supervisor_id, school_approval_date, total_weeks_completed, total_entries_approved, " +
	"status, completed_at, created_at, updated_at"

func scanClearance(row pgx.Row) (*models.ClearanceRecord, error) {
	var record models.ClearanceRecord
	var schoolSupervisorID sql.NullInt64
	var schoolApprovalDate, completedAt sql.NullTime

	err := row.Scan(
		&record.ID, &record.StudentID,
		&record.IndustrySupervisorApproved, &record.SchoolSupervisorApproved,
		&schoolSupervisorID, &schoolApprovalDate,
		&record.TotalWeeksCompleted, &record.TotalEntriesApproved,
		&record.Status, &completedAt, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if schoolSupervisorID.Valid {
		record.SchoolSupervisorID = &schoolSupervisorID.Int64
	}
	if schoolApprovalDate.Valid {
		record.SchoolApprovalDate = &schoolApprovalDate.Time
	}
	if completedAt.Valid {
		record.CompletedAt = &completedAt.Time
	}
	return &record, nil
}

// GetByStudent retrieves a student's clearance form
func (r *ClearancePgRepository) GetByStudent(ctx context.Context, studentID int64) (*models.ClearanceRecord, error) {
	sqlStr, args, err := r.sb.Select(clearanceColumns).
		From("clearance_forms").
		Where(squirrel.Eq{"student_id": studentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get clearance query: %w", err)
	}

	record, err := scanClearance(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClearanceNotFound
		}
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error scanning clearance row")
		return nil, fmt.Errorf("error querying clearance for student ID=%d: %w", studentID, err)
	}
	return record, nil
}

// GetOrCreate retrieves a student's clearance form, inserting a fresh
// not_cleared record when none exists yet
func (r *ClearancePgRepository) GetOrCreate(ctx context.Context, studentID int64) (*models.ClearanceRecord, error) {
	record, err := r.GetByStudent(ctx, studentID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, apperrors.ErrClearanceNotFound) {
		return nil, err
	}

	sqlStr, args, err := r.sb.Insert("clearance_forms").
		Columns("student_id", "industry_supervisor_approved", "school_supervisor_approved",
			"total_weeks_completed", "total_entries_approved", "status").
		Values(studentID, false, false, 0, 0, models.ClearanceNotCleared).
		Suffix("ON CONFLICT (student_id) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create clearance query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sqlStr, args...); err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error inserting clearance record")
		return nil, fmt.Errorf("error creating clearance record: %w", err)
	}

	logger.Info().Int64("studentID", studentID).Msg("Clearance record created")
	return r.GetByStudent(ctx, studentID)
}

// Update persists the counters, flags and status of a clearance form
func (r *ClearancePgRepository) Update(ctx context.Context, record *models.ClearanceRecord) error {
	var schoolSupervisorID, schoolApprovalDate, completedAt interface{}
	if record.SchoolSupervisorID != nil {
		schoolSupervisorID = *record.SchoolSupervisorID
	}
	if record.SchoolApprovalDate != nil {
		schoolApprovalDate = *record.SchoolApprovalDate
	}
	if record.CompletedAt != nil {
		completedAt = *record.CompletedAt
	}

	sqlStr, args, err := r.sb.Update("clearance_forms").
		SetMap(map[string]interface{}{
			"industry_supervisor_approved": record.IndustrySupervisorApproved,
			"school_supervisor_approved":   record.SchoolSupervisorApproved,
			"school_supervisor_id":         schoolSupervisorID,
			"school_approval_date":         schoolApprovalDate,
			"total_weeks_completed":        record.TotalWeeksCompleted,
			"total_entries_approved":       record.TotalEntriesApproved,
			"status":                       record.Status,
			"completed_at":                 completedAt,
			"updated_at":                   time.Now(),
		}).
		Where(squirrel.Eq{"id": record.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update clearance query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Int64("clearanceID", record.ID).Msg("Error executing update clearance query")
		return fmt.Errorf("error updating clearance ID=%d: %w", record.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrClearanceNotFound
	}

	return nil
}

// ListByStudents retrieves clearance forms for a set of students keyed by student ID
func (r *ClearancePgRepository) ListByStudents(ctx context.Context, studentIDs []int64) (map[int64]*models.ClearanceRecord, error) {
	records := make(map[int64]*models.ClearanceRecord, len(studentIDs))
	if len(studentIDs) == 0 {
		return records, nil
	}

	sqlStr, args, err := r.sb.Select(clearanceColumns).
		From("clearance_forms").
		Where(squirrel.Eq{"student_id": studentIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list clearance query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list clearance query")
		return nil, fmt.Errorf("failed to query clearance records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		record, err := scanClearance(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning clearance row")
			return nil, fmt.Errorf("failed to scan clearance row: %w", err)
		}
		records[record.StudentID] = record
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clearance rows: %w", err)
	}
	return records, nil
}
