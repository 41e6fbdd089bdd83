package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaqubtawab/siwes-backend/internal/app/models"
	"github.com/yaqubtawab/siwes-backend/internal/app/models/dto"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/apperrors"
)

// reviewFixture is the common dual-supervisor setup: one student assigned to
// an industry and a school supervisor.
type reviewFixture struct {
	env        *testEnv
	industryID int64
	schoolID   int64
	studentID  int64
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	env := newTestEnv(t)
	industryID := env.createSupervisor(t, models.RoleSupervisorIndustry, "industry@techcorp.ng")
	schoolID := env.createSupervisor(t, models.RoleSupervisorSchool, "school@futminna.edu.ng")
	studentID := env.createStudent(t, "student@st.futminna.edu.ng", int64Ptr(industryID), int64Ptr(schoolID))
	return &reviewFixture{env: env, industryID: industryID, schoolID: schoolID, studentID: studentID}
}

func approveRequest(feedback string) *dto.ReviewEntryRequest {
	return &dto.ReviewEntryRequest{Action: models.ActionApprove, Feedback: feedback}
}

func rejectRequest(feedback string) *dto.ReviewEntryRequest {
	return &dto.ReviewEntryRequest{Action: models.ActionReject, Feedback: feedback}
}

func TestIndustryReviewApprove(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	entryID := f.env.addEntry(t, f.studentID, models.EntryPending, time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC), "")

	resp, err := f.env.supervisor.ReviewEntry(ctx, f.industryID, entryID, approveRequest("Well documented"))
	require.NoError(t, err)
	assert.Equal(t, models.EntryApproved, resp.Status)
	assert.Equal(t, "Well documented", resp.IndustryFeedback)
	assert.Nil(t, resp.SchoolReview)

	// Approval feeds the clearance counters
	record, err := f.env.repos.Clearance.GetByStudent(ctx, f.studentID)
	require.NoError(t, err)
	assert.True(t, record.IndustrySupervisorApproved)
	assert.Equal(t, 1, record.TotalEntriesApproved)
	assert.Equal(t, models.ClearanceNotCleared, record.Status)
}

func TestIndustryReviewRejectKeepsEntryPending(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	entryID := f.env.addEntry(t, f.studentID, models.EntryPending, time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC), "")

	resp, err := f.env.supervisor.ReviewEntry(ctx, f.industryID, entryID, rejectRequest("Missing the afternoon tasks"))
	require.NoError(t, err)
	assert.Equal(t, models.EntryPending, resp.Status)
	assert.Equal(t, "Missing the afternoon tasks", resp.IndustryFeedback)

	// No clearance record springs into being from a rejection
	_, err = f.env.repos.Clearance.GetByStudent(ctx, f.studentID)
	assert.ErrorIs(t, err, apperrors.ErrClearanceNotFound)
}

func TestIndustryApprovalCrossingThreshold(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)

	f.env.addApprovedEntries(t, f.studentID, models.DurationThreshold-1)
	entryID := f.env.addEntry(t, f.studentID, models.EntryPending, time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC), "")

	_, err := f.env.supervisor.ReviewEntry(ctx, f.industryID, entryID, approveRequest("Final week"))
	require.NoError(t, err)

	record, err := f.env.repos.Clearance.GetByStudent(ctx, f.studentID)
	require.NoError(t, err)
	assert.Equal(t, models.DurationThreshold, record.TotalEntriesApproved)
	assert.Equal(t, models.ClearanceReadyForSchoolApproval, record.Status)
}

func TestSchoolReviewApprove(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	entryID := f.env.addEntry(t, f.studentID, models.EntryApproved, time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC), "Approved by industry")

	resp, err := f.env.supervisor.ReviewEntry(ctx, f.schoolID, entryID, approveRequest("Meets the departmental standard"))
	require.NoError(t, err)
	assert.Equal(t, models.EntryApproved, resp.Status)
	require.NotNil(t, resp.SchoolReview)
	assert.Equal(t, models.ActionApprove, resp.SchoolReview.Decision)
	assert.Equal(t, f.schoolID, resp.SchoolReview.ReviewerID)

	// School approval finalizes the clearance
	record, err := f.env.repos.Clearance.GetByStudent(ctx, f.studentID)
	require.NoError(t, err)
	assert.Equal(t, models.ClearanceCleared, record.Status)
	assert.True(t, record.SchoolSupervisorApproved)
}

func TestSchoolReviewRejectAttachesReviewOnly(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	entryID := f.env.addEntry(t, f.studentID, models.EntryApproved, time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC), "Approved by industry")

	resp, err := f.env.supervisor.ReviewEntry(ctx, f.schoolID, entryID, rejectRequest("Needs the weekly summary section"))
	require.NoError(t, err)
	require.NotNil(t, resp.SchoolReview)
	assert.Equal(t, models.ActionReject, resp.SchoolReview.Decision)
	assert.Equal(t, models.EntryApproved, resp.Status, "industry approval is not undone")

	_, err = f.env.repos.Clearance.GetByStudent(ctx, f.studentID)
	assert.ErrorIs(t, err, apperrors.ErrClearanceNotFound)
}

func TestReviewEntryGuards(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	date := time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)
	strayStudent := f.env.createStudent(t, "stray@st.futminna.edu.ng", nil, nil)

	pendingEntry := f.env.addEntry(t, f.studentID, models.EntryPending, date, "")
	draftEntry := f.env.addEntry(t, f.studentID, models.EntryDraft, date.AddDate(0, 0, 1), "")
	unreviewedApproved := f.env.addEntry(t, f.studentID, models.EntryApproved, date.AddDate(0, 0, 2), "")
	strayEntry := f.env.addEntry(t, strayStudent, models.EntryPending, date, "")

	finalReviewed := f.env.addEntry(t, f.studentID, models.EntryApproved, date.AddDate(0, 0, 3), "Approved by industry")
	_, err := f.env.supervisor.ReviewEntry(ctx, f.schoolID, finalReviewed, approveRequest("Done"))
	require.NoError(t, err)

	tests := []struct {
		name       string
		reviewerID int64
		entryID    int64
		wantErr    error
	}{
		{"student cannot review", f.studentID, pendingEntry, apperrors.ErrNotASupervisor},
		{"industry cannot review drafts", f.industryID, draftEntry, apperrors.ErrInvalidTransition},
		{"industry cannot review unassigned students", f.industryID, strayEntry, apperrors.ErrStudentNotAssigned},
		{"school cannot review pending entries", f.schoolID, pendingEntry, apperrors.ErrInvalidTransition},
		{"school requires industry feedback", f.schoolID, unreviewedApproved, apperrors.ErrNoIndustryFeedback},
		{"school cannot review twice", f.schoolID, finalReviewed, apperrors.ErrAlreadyFinalReviewed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.env.supervisor.ReviewEntry(ctx, tt.reviewerID, tt.entryID, approveRequest("Attempt"))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAssignedStudents(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	f.env.createStudent(t, "unassigned@st.futminna.edu.ng", nil, nil)

	students, err := f.env.supervisor.AssignedStudents(ctx, f.industryID)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, f.studentID, students[0].ID)

	students, err = f.env.supervisor.AssignedStudents(ctx, f.schoolID)
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestPendingReviewsPerStage(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	date := time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)

	f.env.addEntry(t, f.studentID, models.EntryDraft, date, "")
	pendingID := f.env.addEntry(t, f.studentID, models.EntryPending, date.AddDate(0, 0, 1), "")
	awaitingSchoolID := f.env.addEntry(t, f.studentID, models.EntryApproved, date.AddDate(0, 0, 2), "Approved by industry")
	f.env.addEntry(t, f.studentID, models.EntryApproved, date.AddDate(0, 0, 3), "")

	industryQueue, err := f.env.supervisor.PendingReviews(ctx, f.industryID)
	require.NoError(t, err)
	require.Len(t, industryQueue, 1)
	assert.Equal(t, pendingID, industryQueue[0].ID)

	// The school queue holds industry-approved entries with feedback and no
	// final review yet
	schoolQueue, err := f.env.supervisor.PendingReviews(ctx, f.schoolID)
	require.NoError(t, err)
	require.Len(t, schoolQueue, 1)
	assert.Equal(t, awaitingSchoolID, schoolQueue[0].ID)

	_, err = f.env.supervisor.ReviewEntry(ctx, f.schoolID, awaitingSchoolID, approveRequest("Done"))
	require.NoError(t, err)

	schoolQueue, err = f.env.supervisor.PendingReviews(ctx, f.schoolID)
	require.NoError(t, err)
	assert.Empty(t, schoolQueue)
}

func TestAllStudentEntriesExcludesDrafts(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	date := time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)

	f.env.addEntry(t, f.studentID, models.EntryDraft, date, "")
	f.env.addEntry(t, f.studentID, models.EntryPending, date.AddDate(0, 0, 1), "")
	f.env.addEntry(t, f.studentID, models.EntryApproved, date.AddDate(0, 0, 2), "Fine")

	entries, err := f.env.supervisor.AllStudentEntries(ctx, f.industryID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	for _, entry := range entries {
		assert.NotEqual(t, models.EntryDraft, entry.Status)
		require.NotNil(t, entry.Student)
		assert.Equal(t, f.studentID, entry.Student.ID)
	}
}

func TestSupervisorStats(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	date := time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)

	f.env.addEntry(t, f.studentID, models.EntryPending, date, "")
	f.env.addEntry(t, f.studentID, models.EntryPending, date.AddDate(0, 0, 1), "")
	f.env.addEntry(t, f.studentID, models.EntryApproved, date.AddDate(0, 0, 2), "Fine")

	stats, err := f.env.supervisor.Stats(ctx, f.industryID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.StudentsCount)
	assert.Equal(t, 2, stats.PendingReviews)
	assert.Equal(t, 1, stats.CompletedReviews)

	// The school supervisor has one reviewable entry and no completed reviews
	schoolStats, err := f.env.supervisor.Stats(ctx, f.schoolID)
	require.NoError(t, err)
	assert.Equal(t, 1, schoolStats.StudentsCount)
	assert.Equal(t, 1, schoolStats.PendingReviews)
	assert.Equal(t, 0, schoolStats.CompletedReviews)
}

func TestStudentProgress(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	date := time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)

	f.env.addEntry(t, f.studentID, models.EntryDraft, date, "")
	f.env.addEntry(t, f.studentID, models.EntryPending, date.AddDate(0, 0, 1), "")
	f.env.addEntry(t, f.studentID, models.EntryApproved, date.AddDate(0, 0, 2), "Fine")

	progress, err := f.env.supervisor.StudentProgress(ctx, f.industryID, f.studentID)
	require.NoError(t, err)
	assert.Equal(t, f.studentID, progress.Student.ID)
	assert.Equal(t, 3, progress.TotalEntries)
	assert.Equal(t, 1, progress.ApprovedEntries)
	assert.Equal(t, 1, progress.PendingEntries)
	assert.Equal(t, 1, progress.DraftEntries)

	// Progress of an unassigned student is off limits
	strayID := f.env.createStudent(t, "stray2@st.futminna.edu.ng", nil, nil)
	_, err = f.env.supervisor.StudentProgress(ctx, f.industryID, strayID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotAssigned)
}

func TestStudentsReadyForClearance(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)

	// Only the school supervisor runs the clearance queue
	_, err := f.env.supervisor.StudentsReadyForClearance(ctx, f.industryID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	candidates, err := f.env.supervisor.StudentsReadyForClearance(ctx, f.schoolID)
	require.NoError(t, err)
	assert.Empty(t, candidates)

	f.env.addApprovedEntries(t, f.studentID, models.DurationThreshold)
	require.NoError(t, f.env.clearance.RecountAfterIndustryApproval(ctx, f.studentID))

	candidates, err = f.env.supervisor.StudentsReadyForClearance(ctx, f.schoolID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, f.studentID, candidates[0].Student.ID)
	assert.Equal(t, models.DurationThreshold, candidates[0].TotalApproved)
	assert.Equal(t, models.ClearanceReadyForSchoolApproval, candidates[0].ClearanceStatus)
	assert.True(t, candidates[0].CanBeCleared)

	require.NoError(t, f.env.supervisor.ClearStudent(ctx, f.schoolID, f.studentID))

	candidates, err = f.env.supervisor.StudentsReadyForClearance(ctx, f.schoolID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, models.ClearanceCleared, candidates[0].ClearanceStatus)
	assert.False(t, candidates[0].CanBeCleared)
}

func TestClearStudentGuards(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	strayID := f.env.createStudent(t, "notmine@st.futminna.edu.ng", nil, nil)

	err := f.env.supervisor.ClearStudent(ctx, f.industryID, f.studentID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = f.env.supervisor.ClearStudent(ctx, f.schoolID, strayID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotAssigned)

	require.NoError(t, f.env.supervisor.ClearStudent(ctx, f.schoolID, f.studentID))

	record, err := f.env.repos.Clearance.GetByStudent(ctx, f.studentID)
	require.NoError(t, err)
	assert.Equal(t, models.ClearanceCleared, record.Status)
}
