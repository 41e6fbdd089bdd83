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
	"github.com/yaqubtawab/siwes-backend/internal/pkg/dberrors"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/logger"
)

// UserPgRepository handles user database operations
type UserPgRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new postgres user repository
func NewUserRepository(db *pgxpool.Pool) *UserPgRepository {
	return &UserPgRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const userColumns = "id, email, password, first_name, middle_name, last_name, role, " +
	"matric_no, department, level, organization, industry_supervisor_id, school_supervisor_id, " +
	"is_active, last_login_at, created_at, updated_at"

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	var middleName, matricNo, department, level, organization sql.NullString
	var industrySupervisorID, schoolSupervisorID sql.NullInt64
	var lastLoginAt sql.NullTime

	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName, &middleName, &user.LastName, &user.Role,
		&matricNo, &department, &level, &organization, &industrySupervisorID, &schoolSupervisorID,
		&user.IsActive, &lastLoginAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.MiddleName = middleName.String
	user.MatricNo = matricNo.String
	user.Department = department.String
	user.Level = level.String
	user.Organization = organization.String
	if industrySupervisorID.Valid {
		user.IndustrySupervisorID = &industrySupervisorID.Int64
	}
	if schoolSupervisorID.Valid {
		user.SchoolSupervisorID = &schoolSupervisorID.Int64
	}
	if lastLoginAt.Valid {
		user.LastLoginAt = &lastLoginAt.Time
	}
	return &user, nil
}

// Create inserts a new user, surfacing unique violations on email and matric
// number as conflict sentinels
func (r *UserPgRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	sqlStr, args, err := r.sb.Insert("users").
		Columns(
			"email", "password", "first_name", "middle_name", "last_name", "role",
			"matric_no", "department", "level", "organization",
			"industry_supervisor_id", "school_supervisor_id", "is_active",
		).
		Values(
			user.Email, user.Password, user.FirstName, getContentNullString(user.MiddleName), user.LastName, user.Role,
			getContentNullString(user.MatricNo), getContentNullString(user.Department),
			getContentNullString(user.Level), getContentNullString(user.Organization),
			user.IndustrySupervisorID, user.SchoolSupervisorID, user.IsActive,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		if dberrors.IsDuplicateConstraintError(err, "users_matric_no_key") {
			return 0, apperrors.ErrMatricNoExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return 0, fmt.Errorf("error inserting user: %w", err)
	}

	logger.Info().Int64("userID", id).Str("role", string(user.Role)).Msg("User created")
	return id, nil
}

// GetByID retrieves a user by ID
func (r *UserPgRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	sqlStr, args, err := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", id).Msg("Error scanning user row by ID")
		return nil, fmt.Errorf("error querying user ID=%d: %w", id, err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserPgRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	sqlStr, args, err := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user by email query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("email", email).Msg("Error scanning user row by email")
		return nil, fmt.Errorf("error querying user by email: %w", err)
	}
	return user, nil
}

// UpdateLastLogin records the login timestamp
func (r *UserPgRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	sqlStr, args, err := r.sb.Update("users").
		Set("last_login_at", at).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update last login query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", id).Msg("Error updating last login")
		return fmt.Errorf("error updating last login for user ID=%d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// ListAssignedStudents retrieves the active students assigned to a supervisor
func (r *UserPgRepository) ListAssignedStudents(ctx context.Context, supervisorID int64, supervisorType models.SupervisorType) ([]models.User, error) {
	column := "industry_supervisor_id"
	if supervisorType == models.SupervisorSchool {
		column = "school_supervisor_id"
	}

	sqlStr, args, err := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{
			column:      supervisorID,
			"role":      models.RoleStudent,
			"is_active": true,
		}).
		OrderBy("last_name ASC", "first_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list assigned students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Int64("supervisorID", supervisorID).Msg("Error executing assigned students query")
		return nil, fmt.Errorf("failed to query assigned students: %w", err)
	}
	defer rows.Close()

	var students []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}
		students = append(students, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}
	return students, nil
}
