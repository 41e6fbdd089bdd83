package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaqubtawab/siwes-backend/internal/app/models"
)

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.LogbookEntry
		want    models.LogbookStats
	}{
		{
			name: "empty",
			want: models.LogbookStats{},
		},
		{
			name: "mixed statuses",
			entries: []models.LogbookEntry{
				{Status: models.EntryApproved},
				{Status: models.EntryApproved},
				{Status: models.EntryPending},
				{Status: models.EntryDraft},
			},
			want: models.LogbookStats{Total: 4, Approved: 2, Pending: 1, Draft: 1},
		},
		{
			name: "unknown status still counts toward total",
			entries: []models.LogbookEntry{
				{Status: models.EntryStatus("archived")},
				{Status: models.EntryApproved},
			},
			want: models.LogbookStats{Total: 2, Approved: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStats(tt.entries))
		})
	}
}

func TestStatsServiceCaching(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	studentID := env.createStudent(t, "cachetest@st.futminna.edu.ng", nil, nil)
	date := time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)

	env.addEntry(t, studentID, models.EntryPending, date, "")

	stats, err := env.stats.GetStats(ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)

	// A write behind the cache's back is invisible until invalidation
	env.addEntry(t, studentID, models.EntryPending, date.AddDate(0, 0, 1), "")

	stats, err = env.stats.GetStats(ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)

	env.stats.InvalidateStats(ctx, studentID)

	stats, err = env.stats.GetStats(ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Pending)
}
