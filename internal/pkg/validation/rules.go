package validation

import (
	"regexp"
	"time"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// Matric number pattern, e.g. CSC/2021/084
	MatricNoPattern = `^[A-Z]{2,5}/\d{4}/\d{3,4}$`

	// Password min length
	PasswordMinLength = 8

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100

	// Entry content limits
	TitleMaxLength    = 200
	TaskDoneMaxLength = 2000
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email    *regexp.Regexp
	MatricNo *regexp.Regexp
}{
	Email:    regexp.MustCompile(EmailPattern),
	MatricNo: regexp.MustCompile(MatricNoPattern),
}

// String validation
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Required && v.Value == "" {
		return false
	}

	// Skip other validations for empty optional values
	if !v.Required && v.Value == "" {
		return true
	}

	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}

	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}

// ValidEntryTitle reports whether a logbook entry title is acceptable
func ValidEntryTitle(title string) bool {
	return NewStringValidation(title).
		WithMinLength(1).
		WithMaxLength(TitleMaxLength).
		Validate()
}

// ValidEntryTaskDone reports whether a logbook entry task description is acceptable
func ValidEntryTaskDone(taskDone string) bool {
	return NewStringValidation(taskDone).
		WithMinLength(1).
		WithMaxLength(TaskDoneMaxLength).
		Validate()
}

// ValidEntryDate rejects zero and future dates. Comparison is by calendar
// day, so entries for today are accepted.
func ValidEntryDate(date time.Time) bool {
	if date.IsZero() {
		return false
	}
	today := time.Now().Truncate(24 * time.Hour)
	return !date.Truncate(24 * time.Hour).After(today)
}
