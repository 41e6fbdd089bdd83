package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntryDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid date", value: "2025-08-15"},
		{name: "slashed format", value: "15/08/2025", wantErr: true},
		{name: "missing day", value: "2025-08", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := ParseEntryDate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, date.Format(EntryDateLayout))
		})
	}
}

func TestStartOfWeek(t *testing.T) {
	// 2025-08-11 is a Monday
	monday := time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{name: "monday maps to itself", in: monday, want: monday},
		{name: "midweek", in: monday.AddDate(0, 0, 2).Add(15 * time.Hour), want: monday},
		{name: "saturday", in: monday.AddDate(0, 0, 5), want: monday},
		{name: "sunday belongs to the preceding week", in: monday.AddDate(0, 0, 6), want: monday},
		{name: "next monday starts a new week", in: monday.AddDate(0, 0, 7), want: monday.AddDate(0, 0, 7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StartOfWeek(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, time.Monday, got.Weekday())
			assert.Equal(t, 0, got.Hour())
		})
	}
}

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantOffset uint64
		wantLimit  int
	}{
		{name: "first page", page: 1, size: 10, wantOffset: 0, wantLimit: 10},
		{name: "third page", page: 3, size: 20, wantOffset: 40, wantLimit: 20},
		{name: "zero values fall back to defaults", page: 0, size: 0, wantOffset: 0, wantLimit: DefaultPageSize},
		{name: "oversized page capped to default", page: 2, size: MaxPageSize + 1, wantOffset: uint64(DefaultPageSize), wantLimit: DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(tt.page, tt.size)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(45, 2, 10)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 5, info.TotalPages)
	assert.Equal(t, int64(45), info.TotalItems)

	// A page past the end is clamped
	info = NewPaginationInfo(5, 9, 10)
	assert.Equal(t, 1, info.CurrentPage)
	assert.Equal(t, 1, info.TotalPages)
}
