package cli

import (
	"context"
	stderrors "errors"
	"fmt"

	"task-timer/internal/api"
	"task-timer/internal/errors"
	"task-timer/internal/validation"
)

// ErrorHandler turns errors from the tracker into messages for the terminal
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// CommandError is an error already turned into a message for the terminal.
// It keeps the original error for errors.Is and errors.As.
type CommandError struct {
	Operation string
	Message   string
	Err       error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("failed to %s: %s", e.Operation, e.Message)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	var handled *CommandError
	if stderrors.As(err, &handled) {
		return err
	}
	return &CommandError{Operation: operation, Message: eh.message(err), Err: err}
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	var handled *CommandError
	if stderrors.As(err, &handled) {
		return err
	}
	if eh.isKnown(err) {
		return fmt.Errorf("%s", eh.message(err))
	}
	return err
}

func (eh *ErrorHandler) isKnown(err error) bool {
	if _, ok := err.(*validation.ValidationError); ok {
		return true
	}
	if _, ok := errors.AsAppError(err); ok {
		return true
	}
	return stderrors.Is(err, api.ErrStopped) || stderrors.Is(err, context.DeadlineExceeded)
}

func (eh *ErrorHandler) message(err error) string {
	if validationErr, ok := err.(*validation.ValidationError); ok {
		return validationErr.GetUserFriendlyMessage()
	}
	if _, ok := errors.AsAppError(err); ok {
		return errors.GetUserMessage(err)
	}
	switch {
	case stderrors.Is(err, api.ErrStopped):
		return "the tracker has shut down"
	case stderrors.Is(err, context.DeadlineExceeded):
		return "the operation timed out. Please try again."
	}
	return err.Error()
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation) ||
		errors.IsErrorType(err, errors.ErrorTypeInvalidInput) ||
		errors.IsErrorType(err, errors.ErrorTypeMissingSelection)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsDatabaseError checks if an error is a database error
func (eh *ErrorHandler) IsDatabaseError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeDatabase)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}
