package validation

import (
	"strconv"
	"strings"
	"time"

	"task-timer/internal/domain"
	apperrors "task-timer/internal/errors"
)

// InputValidator parses and checks the free-form values users type into
// dialogs and flags. Parse methods return a *ValidationError on bad input
// and a missing-selection AppError when a required choice is empty.
type InputValidator struct {
	validator *Validator
}

// NewInputValidator creates a new input validator
func NewInputValidator(v *Validator) *InputValidator {
	if v == nil {
		v = NewValidator()
	}
	return &InputValidator{validator: v}
}

// RequireSelection fails with a missing-selection error when value is blank
func (iv *InputValidator) RequireSelection(field, value string) error {
	if !iv.validator.IsNonEmptyString(value) {
		return apperrors.NewMissingSelectionError(field)
	}
	return nil
}

// ParseManualTime parses an hh:mm:ss string into a duration
func (iv *InputValidator) ParseManualTime(s string) (time.Duration, error) {
	d, err := domain.ParseHMS(s)
	if err != nil {
		ve := NewValidationError()
		ve.AddInvalidFormatError("time", s, "hh:mm:ss")
		return 0, ve
	}
	return d, nil
}

// ParseCorrection builds a correction amount from separate hour, minute and
// second fields. The amount must be positive.
func (iv *InputValidator) ParseCorrection(hours, minutes, seconds string) (time.Duration, error) {
	d, err := domain.HMSFromParts(hours, minutes, seconds)
	if err != nil {
		ve := NewValidationError()
		ve.AddInvalidFormatError("time", strings.Join([]string{hours, minutes, seconds}, ":"), "whole hours, minutes (0-59) and seconds (0-59)")
		return 0, ve
	}
	if d <= 0 {
		ve := NewValidationError()
		ve.AddInvalidValueError("time", d.String(), "must be greater than zero")
		return 0, ve
	}
	return d, nil
}

// ParseIdleMinutes parses the idle timeout, a positive whole number of minutes
func (iv *InputValidator) ParseIdleMinutes(s string) (int, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		ve := NewValidationError()
		ve.AddInvalidFormatError("idle_timeout", s, "a whole number of minutes")
		return 0, ve
	}
	if minutes < 1 {
		ve := NewValidationError()
		ve.AddInvalidRangeError("idle_timeout", minutes, "must be at least 1 minute")
		return 0, ve
	}
	return minutes, nil
}

// ParseMonth parses a month selection such as "03" or "3"
func (iv *InputValidator) ParseMonth(s string) (int, error) {
	if err := iv.RequireSelection("month", s); err != nil {
		return 0, err
	}
	month, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !iv.validator.IsValidMonth(month) {
		ve := NewValidationError()
		ve.AddInvalidRangeError("month", s, "must be between 01 and 12")
		return 0, ve
	}
	return month, nil
}

// ParseYear parses a four digit year selection
func (iv *InputValidator) ParseYear(s string) (int, error) {
	if err := iv.RequireSelection("year", s); err != nil {
		return 0, err
	}
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !iv.validator.IsValidYear(year) {
		ve := NewValidationError()
		ve.AddInvalidFormatError("year", s, "YYYY")
		return 0, ve
	}
	return year, nil
}

// ParseDate checks a YYYY-MM-DD date and that it is not absurdly far from today
func (iv *InputValidator) ParseDate(s string) (string, error) {
	if err := iv.RequireSelection("date", s); err != nil {
		return "", err
	}
	s = strings.TrimSpace(s)
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		ve := NewValidationError()
		ve.AddInvalidFormatError("date", s, "YYYY-MM-DD")
		return "", ve
	}
	if !iv.validator.IsReasonableDate(t) {
		ve := NewValidationError()
		ve.AddInvalidRangeError("date", s, "must be within the last ten years")
		return "", ve
	}
	return s, nil
}
