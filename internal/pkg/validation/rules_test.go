package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatricNoPattern(t *testing.T) {
	tests := []struct {
		matricNo string
		valid    bool
	}{
		{"CSC/2021/084", true},
		{"CS/2019/031", true},
		{"MECHE/2020/1234", true},
		{"csc/2021/084", false},   // lower case prefix
		{"C/2021/084", false},     // prefix too short
		{"CSC-2021-084", false},   // wrong separator
		{"CSC/21/084", false},     // two-digit year
		{"CSC/2021/08", false},    // serial too short
		{"CSC/2021/08456", false}, // serial too long
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.matricNo, func(t *testing.T) {
			assert.Equal(t, tt.valid, CompiledPatterns.MatricNo.MatchString(tt.matricNo))
		})
	}
}

func TestEmailPattern(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"y.tawab@st.futminna.edu.ng", true},
		{"user+tag@example.com", true},
		{"no-at-sign.example.com", false},
		{"UPPER@example.com", false}, // callers lowercase before matching
		{"user@", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.valid, CompiledPatterns.Email.MatchString(tt.email))
		})
	}
}

func TestValidEntryTitle(t *testing.T) {
	assert.True(t, ValidEntryTitle("Database migration"))
	assert.True(t, ValidEntryTitle(strings.Repeat("x", TitleMaxLength)))
	assert.False(t, ValidEntryTitle(""))
	assert.False(t, ValidEntryTitle(strings.Repeat("x", TitleMaxLength+1)))
}

func TestValidEntryTaskDone(t *testing.T) {
	assert.True(t, ValidEntryTaskDone("Wrote the report"))
	assert.True(t, ValidEntryTaskDone(strings.Repeat("x", TaskDoneMaxLength)))
	assert.False(t, ValidEntryTaskDone(""))
	assert.False(t, ValidEntryTaskDone(strings.Repeat("x", TaskDoneMaxLength+1)))
}

func TestValidEntryDate(t *testing.T) {
	now := time.Now()

	assert.True(t, ValidEntryDate(now), "today is a valid entry date")
	assert.True(t, ValidEntryDate(now.AddDate(0, 0, -1)))
	assert.True(t, ValidEntryDate(now.AddDate(0, -6, 0)))
	assert.False(t, ValidEntryDate(now.AddDate(0, 0, 2)))
	assert.False(t, ValidEntryDate(time.Time{}))
}

func TestStringValidation(t *testing.T) {
	assert.True(t, NewStringValidation("hello").WithMinLength(2).WithMaxLength(10).Validate())
	assert.False(t, NewStringValidation("h").WithMinLength(2).Validate())
	assert.False(t, NewStringValidation("").Validate(), "required by default")
	assert.True(t, NewStringValidation("").WithRequired(false).WithMinLength(5).Validate(), "optional empty skips other rules")
	assert.False(t, NewStringValidation("abc").WithPattern(CompiledPatterns.MatricNo).Validate())
}
