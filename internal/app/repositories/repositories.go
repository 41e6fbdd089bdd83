package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yaqubtawab/siwes-backend/internal/app/models"
)

// EntryListFilter narrows a student's entry listing
type EntryListFilter struct {
	Status models.EntryStatus
	Search string
	Offset uint64
	Limit  int
}

// LogbookRepository is the store adapter contract for logbook entries. Two
// implementations exist: postgres and an in-memory fixture store. The
// implementation is chosen once at process start, never per call.
type LogbookRepository interface {
	Create(ctx context.Context, entry *models.LogbookEntry) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.LogbookEntry, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.LogbookEntry, error)
	ListByStudentPaginated(ctx context.Context, studentID int64, filter EntryListFilter) ([]models.LogbookEntry, int64, error)
	Update(ctx context.Context, entry *models.LogbookEntry) error
	Delete(ctx context.Context, id int64) error
	CountApproved(ctx context.Context, studentID int64) (int, error)
	// ListForStudents returns entries for a set of students, newest first,
	// optionally narrowed to the given statuses, with the Student relation
	// populated for supervisor listings.
	ListForStudents(ctx context.Context, studentIDs []int64, statuses ...models.EntryStatus) ([]models.LogbookEntry, error)
	// CountForStudents counts entries of one status across a set of students,
	// optionally only those updated at or after since.
	CountForStudents(ctx context.Context, studentIDs []int64, status models.EntryStatus, since *time.Time) (int, error)
}

// ClearanceRepository is the store adapter contract for clearance records
type ClearanceRepository interface {
	GetByStudent(ctx context.Context, studentID int64) (*models.ClearanceRecord, error)
	GetOrCreate(ctx context.Context, studentID int64) (*models.ClearanceRecord, error)
	Update(ctx context.Context, record *models.ClearanceRecord) error
	// ListByStudents returns the existing clearance records for a set of
	// students keyed by student ID. Students without a record are absent.
	ListByStudents(ctx context.Context, studentIDs []int64) (map[int64]*models.ClearanceRecord, error)
}

// UserRepository is the store adapter contract for accounts and assignments
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	// ListAssignedStudents returns the active students whose supervisor
	// reference of the given type points at supervisorID.
	ListAssignedStudents(ctx context.Context, supervisorID int64, supervisorType models.SupervisorType) ([]models.User, error)
}

// TokenRepository persists opaque refresh tokens
type TokenRepository interface {
	Save(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	GetUserID(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

// Repositories bundles one implementation of every store adapter
type Repositories struct {
	Users     UserRepository
	Logbook   LogbookRepository
	Clearance ClearanceRepository
	Tokens    TokenRepository
}

// NewPostgresRepositories initializes the postgres-backed store adapters
func NewPostgresRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(db),
		Logbook:   NewLogbookRepository(db),
		Clearance: NewClearanceRepository(db),
		Tokens:    NewTokenRepository(db),
	}
}

// NewMemoryRepositories initializes the in-memory fixture store adapters.
// All four share one store so cross-entity reads stay consistent.
func NewMemoryRepositories() *Repositories {
	store := NewMemoryStore()
	return &Repositories{
		Users:     &memoryUserRepo{store},
		Logbook:   &memoryLogbookRepo{store},
		Clearance: &memoryClearanceRepo{store},
		Tokens:    &memoryTokenRepo{store},
	}
}
