package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yaqubtawab/siwes-backend/internal/app/models"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/apperrors"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/logger"
)

// MemoryStore is an in-memory store adapter backing all repositories. It is
// used for tests and single-process deployments without a database. The four
// repository views over it share one mutex so cross-entity reads stay
// consistent.
type MemoryStore struct {
	mu sync.RWMutex

	users      map[int64]*models.User
	entries    map[int64]*models.LogbookEntry
	clearances map[int64]*models.ClearanceRecord // keyed by student ID
	tokens     map[string]memoryToken

	nextUserID      int64
	nextEntryID     int64
	nextClearanceID int64
}

type memoryToken struct {
	userID    int64
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[int64]*models.User),
		entries:    make(map[int64]*models.LogbookEntry),
		clearances: make(map[int64]*models.ClearanceRecord),
		tokens:     make(map[string]memoryToken),
	}
}

func copyUser(u *models.User) *models.User {
	cp := *u
	return &cp
}

func copyEntry(e *models.LogbookEntry) *models.LogbookEntry {
	cp := *e
	if e.MediaURLs != nil {
		cp.MediaURLs = append([]string(nil), e.MediaURLs...)
	}
	if e.SchoolReview != nil {
		review := *e.SchoolReview
		cp.SchoolReview = &review
	}
	cp.Student = nil
	return &cp
}

func copyClearance(c *models.ClearanceRecord) *models.ClearanceRecord {
	cp := *c
	if c.SchoolSupervisorID != nil {
		id := *c.SchoolSupervisorID
		cp.SchoolSupervisorID = &id
	}
	if c.SchoolApprovalDate != nil {
		at := *c.SchoolApprovalDate
		cp.SchoolApprovalDate = &at
	}
	if c.CompletedAt != nil {
		at := *c.CompletedAt
		cp.CompletedAt = &at
	}
	return &cp
}

// memoryUserRepo implements UserRepository over the shared store
type memoryUserRepo struct {
	s *MemoryStore
}

func (r *memoryUserRepo) Create(ctx context.Context, user *models.User) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		if user.MatricNo != "" && existing.MatricNo == user.MatricNo {
			return 0, apperrors.ErrMatricNoExists
		}
	}

	r.s.nextUserID++
	cp := copyUser(user)
	cp.ID = r.s.nextUserID
	now := time.Now()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.s.users[cp.ID] = cp

	logger.Debug().Int64("userID", cp.ID).Msg("Memory store: user created")
	return cp.ID, nil
}

func (r *memoryUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (r *memoryUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *memoryUserRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.LastLoginAt = &at
	user.UpdatedAt = time.Now()
	return nil
}

func (r *memoryUserRepo) ListAssignedStudents(ctx context.Context, supervisorID int64, supervisorType models.SupervisorType) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var students []models.User
	for _, user := range r.s.users {
		if user.Role != models.RoleStudent || !user.IsActive {
			continue
		}
		assigned := user.SupervisorIDFor(supervisorType)
		if assigned != nil && *assigned == supervisorID {
			students = append(students, *copyUser(user))
		}
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].LastName != students[j].LastName {
			return students[i].LastName < students[j].LastName
		}
		return students[i].FirstName < students[j].FirstName
	})
	return students, nil
}

// memoryLogbookRepo implements LogbookRepository over the shared store
type memoryLogbookRepo struct {
	s *MemoryStore
}

func (r *memoryLogbookRepo) Create(ctx context.Context, entry *models.LogbookEntry) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextEntryID++
	cp := copyEntry(entry)
	cp.ID = r.s.nextEntryID
	now := time.Now()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.s.entries[cp.ID] = cp
	return cp.ID, nil
}

func (r *memoryLogbookRepo) GetByID(ctx context.Context, id int64) (*models.LogbookEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	entry, ok := r.s.entries[id]
	if !ok {
		return nil, apperrors.ErrEntryNotFound
	}
	return copyEntry(entry), nil
}

func (r *memoryLogbookRepo) ListByStudent(ctx context.Context, studentID int64) ([]models.LogbookEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var entries []models.LogbookEntry
	for _, entry := range r.s.entries {
		if entry.StudentID == studentID {
			entries = append(entries, *copyEntry(entry))
		}
	}
	sortEntriesByDateDesc(entries)
	return entries, nil
}

func (r *memoryLogbookRepo) ListByStudentPaginated(ctx context.Context, studentID int64, filter EntryListFilter) ([]models.LogbookEntry, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	var matched []models.LogbookEntry
	for _, entry := range r.s.entries {
		if entry.StudentID != studentID {
			continue
		}
		if filter.Status != "" && entry.Status != filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(entry.Title), search) &&
			!strings.Contains(strings.ToLower(entry.TaskDone), search) {
			continue
		}
		matched = append(matched, *copyEntry(entry))
	}
	sortEntriesByDateDesc(matched)

	total := int64(len(matched))
	start := int(filter.Offset)
	if start >= len(matched) {
		return []models.LogbookEntry{}, total, nil
	}
	end := len(matched)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}
	return matched[start:end], total, nil
}

func (r *memoryLogbookRepo) Update(ctx context.Context, entry *models.LogbookEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.entries[entry.ID]
	if !ok {
		return apperrors.ErrEntryNotFound
	}
	cp := copyEntry(entry)
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = time.Now()
	r.s.entries[entry.ID] = cp
	return nil
}

func (r *memoryLogbookRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.entries[id]; !ok {
		return apperrors.ErrEntryNotFound
	}
	delete(r.s.entries, id)
	return nil
}

func (r *memoryLogbookRepo) CountApproved(ctx context.Context, studentID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, entry := range r.s.entries {
		if entry.StudentID == studentID && entry.Status == models.EntryApproved {
			count++
		}
	}
	return count, nil
}

func (r *memoryLogbookRepo) ListForStudents(ctx context.Context, studentIDs []int64, statuses ...models.EntryStatus) ([]models.LogbookEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	idSet := make(map[int64]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		idSet[id] = struct{}{}
	}
	statusSet := make(map[models.EntryStatus]struct{}, len(statuses))
	for _, st := range statuses {
		statusSet[st] = struct{}{}
	}

	var entries []models.LogbookEntry
	for _, entry := range r.s.entries {
		if _, ok := idSet[entry.StudentID]; !ok {
			continue
		}
		if len(statusSet) > 0 {
			if _, ok := statusSet[entry.Status]; !ok {
				continue
			}
		}
		cp := copyEntry(entry)
		if student, ok := r.s.users[entry.StudentID]; ok {
			cp.Student = copyUser(student)
		}
		entries = append(entries, *cp)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

func (r *memoryLogbookRepo) CountForStudents(ctx context.Context, studentIDs []int64, status models.EntryStatus, since *time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	idSet := make(map[int64]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		idSet[id] = struct{}{}
	}

	count := 0
	for _, entry := range r.s.entries {
		if _, ok := idSet[entry.StudentID]; !ok {
			continue
		}
		if entry.Status != status {
			continue
		}
		if since != nil && entry.UpdatedAt.Before(*since) {
			continue
		}
		count++
	}
	return count, nil
}

// memoryClearanceRepo implements ClearanceRepository over the shared store
type memoryClearanceRepo struct {
	s *MemoryStore
}

func (r *memoryClearanceRepo) GetByStudent(ctx context.Context, studentID int64) (*models.ClearanceRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	record, ok := r.s.clearances[studentID]
	if !ok {
		return nil, apperrors.ErrClearanceNotFound
	}
	return copyClearance(record), nil
}

func (r *memoryClearanceRepo) GetOrCreate(ctx context.Context, studentID int64) (*models.ClearanceRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if record, ok := r.s.clearances[studentID]; ok {
		return copyClearance(record), nil
	}

	r.s.nextClearanceID++
	now := time.Now()
	record := &models.ClearanceRecord{
		ID:        r.s.nextClearanceID,
		StudentID: studentID,
		Status:    models.ClearanceNotCleared,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.s.clearances[studentID] = record
	return copyClearance(record), nil
}

func (r *memoryClearanceRepo) Update(ctx context.Context, record *models.ClearanceRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.clearances[record.StudentID]
	if !ok || existing.ID != record.ID {
		return apperrors.ErrClearanceNotFound
	}
	cp := copyClearance(record)
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = time.Now()
	r.s.clearances[record.StudentID] = cp
	return nil
}

func (r *memoryClearanceRepo) ListByStudents(ctx context.Context, studentIDs []int64) (map[int64]*models.ClearanceRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	records := make(map[int64]*models.ClearanceRecord, len(studentIDs))
	for _, id := range studentIDs {
		if record, ok := r.s.clearances[id]; ok {
			records[id] = copyClearance(record)
		}
	}
	return records, nil
}

// memoryTokenRepo implements TokenRepository over the shared store
type memoryTokenRepo struct {
	s *MemoryStore
}

func (r *memoryTokenRepo) Save(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.tokens[token] = memoryToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *memoryTokenRepo) GetUserID(ctx context.Context, token string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.tokens[token]
	if !ok {
		return 0, apperrors.ErrTokenNotFound
	}
	if time.Now().After(stored.expiresAt) {
		return 0, apperrors.ErrTokenExpired
	}
	return stored.userID, nil
}

func (r *memoryTokenRepo) Delete(ctx context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.tokens, token)
	return nil
}

func sortEntriesByDateDesc(entries []models.LogbookEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.After(entries[j].Date)
		}
		return entries[i].ID > entries[j].ID
	})
}
