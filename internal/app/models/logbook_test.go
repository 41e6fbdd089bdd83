package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntryStatusValid(t *testing.T) {
	assert.True(t, EntryDraft.Valid())
	assert.True(t, EntryPending.Valid())
	assert.True(t, EntryApproved.Valid())
	assert.False(t, EntryStatus("archived").Valid())
	assert.False(t, EntryStatus("").Valid())
}

func TestEntryEditable(t *testing.T) {
	assert.True(t, (&LogbookEntry{Status: EntryDraft}).Editable())
	assert.True(t, (&LogbookEntry{Status: EntryPending}).Editable())
	assert.False(t, (&LogbookEntry{Status: EntryApproved}).Editable())
}

func TestHasIndustryFeedback(t *testing.T) {
	assert.False(t, (&LogbookEntry{}).HasIndustryFeedback())
	assert.True(t, (&LogbookEntry{IndustryFeedback: "Looks good"}).HasIndustryFeedback())
}

func TestDayNameFor(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC), "sunday"},
		{time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC), "monday"},
		{time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), "friday"},
		{time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC), "saturday"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DayNameFor(tt.date))
	}
}

func TestUserHelpers(t *testing.T) {
	student := &User{FirstName: "Yaqub", MiddleName: "A.", LastName: "Tawab", Role: RoleStudent}
	assert.Equal(t, "Yaqub A. Tawab", student.FullName())
	assert.True(t, student.IsStudent())
	assert.False(t, student.IsSupervisor())

	industry := &User{FirstName: "Ngozi", LastName: "Okeke", Role: RoleSupervisorIndustry}
	assert.True(t, industry.IsSupervisor())
	assert.False(t, industry.IsStudent())
}

func TestSupervisorIDFor(t *testing.T) {
	industryID := int64(3)
	schoolID := int64(7)
	student := &User{IndustrySupervisorID: &industryID, SchoolSupervisorID: &schoolID}

	assert.Equal(t, &industryID, student.SupervisorIDFor(SupervisorIndustry))
	assert.Equal(t, &schoolID, student.SupervisorIDFor(SupervisorSchool))
	assert.Nil(t, (&User{}).SupervisorIDFor(SupervisorSchool))
}

func TestClearanceRecordCleared(t *testing.T) {
	assert.False(t, (&ClearanceRecord{Status: ClearanceNotCleared}).Cleared())
	assert.False(t, (&ClearanceRecord{Status: ClearanceReadyForSchoolApproval}).Cleared())
	assert.True(t, (&ClearanceRecord{Status: ClearanceCleared}).Cleared())
}
