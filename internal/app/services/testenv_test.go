package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yaqubtawab/siwes-backend/internal/app/auth"
	"github.com/yaqubtawab/siwes-backend/internal/app/models"
	"github.com/yaqubtawab/siwes-backend/internal/app/repositories"
	pkgauth "github.com/yaqubtawab/siwes-backend/internal/pkg/auth"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/cache"
)

// testEnv wires the full service graph over the in-memory store, exactly as
// the bootstrap does for the memory driver.
type testEnv struct {
	repos      *repositories.Repositories
	statsCache *cache.MemoryStatsCache

	stats      StatsService
	clearance  ClearanceService
	logbook    LogbookService
	supervisor SupervisorService
	auth       AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repos := repositories.NewMemoryRepositories()
	statsCache := cache.NewMemoryStatsCache(time.Minute)
	authz := auth.NewAuthorizationService(repos.Users)
	notifier := NewLogNotifier()
	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:       "test-secret-key-for-signing",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "siwes-test",
	})

	stats := NewStatsService(repos.Logbook, statsCache)
	clearance := NewClearanceService(repos.Clearance, repos.Logbook, repos.Users, stats, notifier)
	logbook := NewLogbookService(repos.Logbook, authz, stats, notifier)
	supervisor := NewSupervisorService(repos.Users, repos.Logbook, repos.Clearance, authz, clearance, stats, notifier)
	authSvc := NewAuthService(repos.Users, repos.Tokens, clearance, jwtService)

	return &testEnv{
		repos:      repos,
		statsCache: statsCache,
		stats:      stats,
		clearance:  clearance,
		logbook:    logbook,
		supervisor: supervisor,
		auth:       authSvc,
	}
}

func (e *testEnv) createUser(t *testing.T, user models.User) int64 {
	t.Helper()
	if user.Password == "" {
		user.Password = "$2a$10$not.a.real.hash.for.tests"
	}
	user.IsActive = true
	id, err := e.repos.Users.Create(context.Background(), &user)
	require.NoError(t, err)
	return id
}

func (e *testEnv) createSupervisor(t *testing.T, role models.RoleType, email string) int64 {
	t.Helper()
	return e.createUser(t, models.User{
		Email:     email,
		FirstName: "Test",
		LastName:  "Supervisor",
		Role:      role,
	})
}

var matricSeq int

// createStudent registers a student assigned to the given supervisors. A nil
// supervisor id leaves that stage unassigned.
func (e *testEnv) createStudent(t *testing.T, email string, industryID, schoolID *int64) int64 {
	t.Helper()
	matricSeq++
	return e.createUser(t, models.User{
		Email:                email,
		FirstName:            "Test",
		LastName:             "Student",
		Role:                 models.RoleStudent,
		MatricNo:             fmt.Sprintf("CS/2019/%03d", matricSeq),
		Department:           "Computer Science",
		Level:                "400",
		IndustrySupervisorID: industryID,
		SchoolSupervisorID:   schoolID,
	})
}

func (e *testEnv) addEntry(t *testing.T, studentID int64, status models.EntryStatus, date time.Time, industryFeedback string) int64 {
	t.Helper()
	id, err := e.repos.Logbook.Create(context.Background(), &models.LogbookEntry{
		StudentID:        studentID,
		Date:             date,
		DayName:          models.DayNameFor(date),
		Title:            "Worked on the reporting module",
		TaskDone:         "Implemented and tested the weekly report export",
		Status:           status,
		IndustryFeedback: industryFeedback,
	})
	require.NoError(t, err)
	return id
}

// addApprovedEntries bulk-creates n approved entries on consecutive days
func (e *testEnv) addApprovedEntries(t *testing.T, studentID int64, n int) {
	t.Helper()
	base := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		e.addEntry(t, studentID, models.EntryApproved, base.AddDate(0, 0, i), "Good work")
	}
}

func int64Ptr(v int64) *int64 { return &v }
