package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "task-timer/internal/errors"
)

func TestValidationError_Error(t *testing.T) {
	ve := NewValidationError()
	assert.Equal(t, "validation error", ve.Error())
	assert.Nil(t, ve.OrNil())

	ve.AddRequiredError("task_name")
	assert.Equal(t, "validation error for field 'task_name': task_name is required", ve.Error())
	assert.Equal(t, "task_name is required", ve.GetUserFriendlyMessage())
	assert.NotNil(t, ve.OrNil())

	ve.AddInvalidFormatError("time", "1:2", "hh:mm:ss")
	assert.Contains(t, ve.Error(), "multiple validation errors")
	assert.Contains(t, ve.GetUserFriendlyMessage(), "- time has invalid format, expected: hh:mm:ss")
}

func TestValidationError_GetFieldErrors(t *testing.T) {
	ve := NewValidationError()
	ve.AddInvalidRangeError("month", 13, "must be between 01 and 12")
	ve.AddInvalidLengthError("task_name", "", 1, 255)
	ve.AddInvalidCharacterError("task_name", "a\tb")
	ve.AddInvalidValueError("time", 0, "must be greater than zero")

	assert.Len(t, ve.GetFieldErrors("task_name"), 2)
	assert.Len(t, ve.GetFieldErrors("month"), 1)
	assert.Empty(t, ve.GetFieldErrors("year"))
}

func TestIsValidationError(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredError("x")

	assert.True(t, IsValidationError(ve))
	assert.True(t, IsValidationError(fmt.Errorf("wrapped: %w", ve)))
	assert.False(t, IsValidationError(errors.New("plain")))
}

func TestToAppError(t *testing.T) {
	ve := NewValidationError()
	ve.AddInvalidFormatError("time", "1:xx", "hh:mm:ss")

	err := ToAppError(ve)
	require.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
	assert.Equal(t, "time has invalid format, expected: hh:mm:ss", apperrors.GetUserMessage(err))
	assert.True(t, IsValidationError(err), "cause stays reachable")

	plain := errors.New("plain")
	assert.Equal(t, plain, ToAppError(plain))
	assert.Nil(t, ToAppError(nil))
}
