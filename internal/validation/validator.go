package validation

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"task-timer/internal/config"
)

// DateLayout is the layout of ledger dates.
const DateLayout = "2006-01-02"

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
	now    func() time.Time
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{config: cfg, now: time.Now}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if the trimmed rune count is within range
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidTaskNameLength checks if a task name length is within configured limits
func (v *Validator) IsValidTaskNameLength(name string) bool {
	return v.IsValidStringLength(name, v.TaskNameMinLength(), v.TaskNameMaxLength())
}

// IsValidTaskName rejects control characters. Any printable text is a
// valid name, including non-Latin scripts.
func (v *Validator) IsValidTaskName(name string) bool {
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// IsValidDate checks for a real calendar date in YYYY-MM-DD form
func (v *Validator) IsValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// IsValidMonth checks for 1..12
func (v *Validator) IsValidMonth(month int) bool {
	return month >= 1 && month <= 12
}

// IsValidYear checks for a four digit year
func (v *Validator) IsValidYear(year int) bool {
	return year >= 1000 && year <= 9999
}

// IsReasonableDate checks if a date is within reasonable bounds: ten years
// back to one year ahead
func (v *Validator) IsReasonableDate(t time.Time) bool {
	now := v.now()
	return t.After(now.AddDate(-10, 0, 0)) && t.Before(now.AddDate(1, 0, 0))
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// TaskNameMinLength returns configured minimum task name length or default
func (v *Validator) TaskNameMinLength() int {
	if v.config != nil {
		return v.config.Validation.TaskNameMinLength
	}
	return 1
}

// TaskNameMaxLength returns configured maximum task name length or default
func (v *Validator) TaskNameMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TaskNameMaxLength
	}
	return 255
}
