package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaqubtawab/siwes-backend/internal/app/models"
	"github.com/yaqubtawab/siwes-backend/internal/app/models/dto"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/apperrors"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/validation"
)

func TestCreateEntry(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	studentID := env.createStudent(t, "create@st.futminna.edu.ng", nil, nil)

	tests := []struct {
		name    string
		req     dto.CreateEntryRequest
		wantErr bool
		status  models.EntryStatus
	}{
		{
			name: "defaults to draft",
			req: dto.CreateEntryRequest{
				Date:     "2025-08-11",
				Title:    "Network setup",
				TaskDone: "Configured the office switch stack",
			},
			status: models.EntryDraft,
		},
		{
			name: "create and submit in one step",
			req: dto.CreateEntryRequest{
				Date:     "2025-08-12",
				Title:    "Cable tracing",
				TaskDone: "Traced and labelled patch panel runs",
				Status:   "pending",
			},
			status: models.EntryPending,
		},
		{
			name: "malformed date",
			req: dto.CreateEntryRequest{
				Date:     "12/08/2025",
				Title:    "Bad date",
				TaskDone: "Should not be created",
			},
			wantErr: true,
		},
		{
			name: "future date",
			req: dto.CreateEntryRequest{
				Date:     time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
				Title:    "Time travel",
				TaskDone: "Should not be created",
			},
			wantErr: true,
		},
		{
			name: "title over limit",
			req: dto.CreateEntryRequest{
				Date:     "2025-08-13",
				Title:    strings.Repeat("x", validation.TitleMaxLength+1),
				TaskDone: "Should not be created",
			},
			wantErr: true,
		},
		{
			name: "approved is not a creatable status",
			req: dto.CreateEntryRequest{
				Date:     "2025-08-13",
				Title:    "Self approval",
				TaskDone: "Should not be created",
				Status:   "approved",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.logbook.CreateEntry(ctx, studentID, &tt.req)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, studentID, resp.StudentID)
			assert.Equal(t, tt.req.Date, resp.Date)
			assert.NotEmpty(t, resp.DayName)
		})
	}
}

func TestCreateEntryRejectsNonStudents(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	supervisorID := env.createSupervisor(t, models.RoleSupervisorIndustry, "sup@techcorp.ng")

	_, err := env.logbook.CreateEntry(ctx, supervisorID, &dto.CreateEntryRequest{
		Date:     "2025-08-11",
		Title:    "Not a student",
		TaskDone: "Supervisors keep no logbook",
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestEntryLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	studentID := env.createStudent(t, "lifecycle@st.futminna.edu.ng", nil, nil)

	created, err := env.logbook.CreateEntry(ctx, studentID, &dto.CreateEntryRequest{
		Date:     "2025-08-11",
		Title:    "Initial draft",
		TaskDone: "First version of the day's report",
	})
	require.NoError(t, err)
	assert.Equal(t, models.EntryDraft, created.Status)

	updated, err := env.logbook.UpdateEntry(ctx, studentID, created.ID, &dto.UpdateEntryRequest{
		Title:    "Revised draft",
		TaskDone: "Expanded the report with measurements",
	})
	require.NoError(t, err)
	assert.Equal(t, "Revised draft", updated.Title)

	submitted, err := env.logbook.SubmitEntry(ctx, studentID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EntryPending, submitted.Status)

	// Only drafts can be submitted
	_, err = env.logbook.SubmitEntry(ctx, studentID, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	// A pending entry has entered review and cannot be deleted
	err = env.logbook.DeleteEntry(ctx, studentID, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrEntryNotDeletable)

	// A pending entry can still be edited after rejection feedback
	_, err = env.logbook.UpdateEntry(ctx, studentID, created.ID, &dto.UpdateEntryRequest{
		Title:    "Revised after feedback",
		TaskDone: "Addressed the supervisor's comments",
	})
	assert.NoError(t, err)
}

func TestDeleteDraftEntry(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	studentID := env.createStudent(t, "delete@st.futminna.edu.ng", nil, nil)

	created, err := env.logbook.CreateEntry(ctx, studentID, &dto.CreateEntryRequest{
		Date:     "2025-08-11",
		Title:    "Disposable draft",
		TaskDone: "Written by mistake",
	})
	require.NoError(t, err)

	require.NoError(t, env.logbook.DeleteEntry(ctx, studentID, created.ID))

	_, err = env.logbook.GetEntry(ctx, studentID, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrEntryNotFound)
}

func TestUpdateApprovedEntryIsFrozen(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	studentID := env.createStudent(t, "frozen@st.futminna.edu.ng", nil, nil)
	entryID := env.addEntry(t, studentID, models.EntryApproved, time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC), "Approved")

	_, err := env.logbook.UpdateEntry(ctx, studentID, entryID, &dto.UpdateEntryRequest{
		Title:    "Tampering",
		TaskDone: "Approved entries are immutable",
	})
	assert.ErrorIs(t, err, apperrors.ErrEntryNotEditable)
}

func TestEntryOwnership(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	ownerID := env.createStudent(t, "owner@st.futminna.edu.ng", nil, nil)
	otherID := env.createStudent(t, "other@st.futminna.edu.ng", nil, nil)
	entryID := env.addEntry(t, ownerID, models.EntryDraft, time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC), "")

	_, err := env.logbook.GetEntry(ctx, otherID, entryID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = env.logbook.UpdateEntry(ctx, otherID, entryID, &dto.UpdateEntryRequest{
		Title:    "Not mine",
		TaskDone: "Should be denied",
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = env.logbook.DeleteEntry(ctx, otherID, entryID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestListEntries(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	studentID := env.createStudent(t, "list@st.futminna.edu.ng", nil, nil)

	base := time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC)
	env.addEntry(t, studentID, models.EntryDraft, base, "")
	env.addEntry(t, studentID, models.EntryPending, base.AddDate(0, 0, 1), "")
	env.addEntry(t, studentID, models.EntryApproved, base.AddDate(0, 0, 2), "Fine")

	t.Run("all entries newest first", func(t *testing.T) {
		entries, total, err := env.logbook.ListEntries(ctx, studentID, &dto.EntryFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, entries, 3)
		assert.Equal(t, "2025-08-06", entries[0].Date)
		assert.Equal(t, "2025-08-04", entries[2].Date)
	})

	t.Run("status filter", func(t *testing.T) {
		entries, total, err := env.logbook.ListEntries(ctx, studentID, &dto.EntryFilter{Status: "pending"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, entries, 1)
		assert.Equal(t, models.EntryPending, entries[0].Status)
	})

	t.Run("unknown status filter", func(t *testing.T) {
		_, _, err := env.logbook.ListEntries(ctx, studentID, &dto.EntryFilter{Status: "archived"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("pagination", func(t *testing.T) {
		page1, total, err := env.logbook.ListEntries(ctx, studentID, &dto.EntryFilter{Page: 1, Size: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, page1, 2)

		page2, _, err := env.logbook.ListEntries(ctx, studentID, &dto.EntryFilter{Page: 2, Size: 2})
		require.NoError(t, err)
		assert.Len(t, page2, 1)
	})

	t.Run("search matches title and task", func(t *testing.T) {
		entryID := env.addEntry(t, studentID, models.EntryDraft, base.AddDate(0, 0, 3), "")
		_, err := env.logbook.UpdateEntry(ctx, studentID, entryID, &dto.UpdateEntryRequest{
			Title:    "Router firmware",
			TaskDone: "Upgraded the edge router",
		})
		require.NoError(t, err)

		entries, total, err := env.logbook.ListEntries(ctx, studentID, &dto.EntryFilter{Search: "router"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, entries, 1)
		assert.Equal(t, "Router firmware", entries[0].Title)
	})
}

func TestGetStatsReflectsWrites(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	studentID := env.createStudent(t, "stats@st.futminna.edu.ng", nil, nil)

	stats, err := env.logbook.GetStats(ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)

	created, err := env.logbook.CreateEntry(ctx, studentID, &dto.CreateEntryRequest{
		Date:     "2025-08-11",
		Title:    "Counted entry",
		TaskDone: "Shows up in stats immediately",
	})
	require.NoError(t, err)

	stats, err = env.logbook.GetStats(ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Draft)

	_, err = env.logbook.SubmitEntry(ctx, studentID, created.ID)
	require.NoError(t, err)

	stats, err = env.logbook.GetStats(ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Draft)
	assert.Equal(t, 1, stats.Pending)
}
