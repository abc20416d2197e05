// Package errors provides structured error handling for the application.
// Every external-call failure is converted to an AppError at the service
// boundary; raw transport errors never cross it.
package errors

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents an error code
type ErrorCode string

// Common error codes following RESTful API conventions
const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Server errors (5xx)
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	CodeDatabaseError      ErrorCode = "DATABASE_ERROR"

	// Pipeline errors
	CodeNoIngredientsSelected     ErrorCode = "NO_INGREDIENTS_SELECTED"
	CodeProviderUnavailable       ErrorCode = "PROVIDER_UNAVAILABLE"
	CodeMalformedProviderResponse ErrorCode = "MALFORMED_PROVIDER_RESPONSE"
	CodePersistenceWriteFailed    ErrorCode = "PERSISTENCE_WRITE_FAILED"
	CodeUnauthenticated           ErrorCode = "UNAUTHENTICATED"
	CodeRecipeNotFound            ErrorCode = "RECIPE_NOT_FOUND"
	CodeShoppingListNotFound      ErrorCode = "SHOPPING_LIST_NOT_FOUND"
	CodeEmailAlreadyExists        ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeInvalidCredentials        ErrorCode = "INVALID_CREDENTIALS"
	CodeOperationInFlight         ErrorCode = "OPERATION_IN_FLIGHT"
)

// AppError represents an application error with structured information
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed, CodeNoIngredientsSelected:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeUnauthenticated, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeRecipeNotFound, CodeShoppingListNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeEmailAlreadyExists, CodeOperationInFlight:
		return http.StatusConflict
	case CodeServiceUnavailable, CodeProviderUnavailable:
		return http.StatusServiceUnavailable
	case CodeMalformedProviderResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		StackTrace: getStackTrace(),
	}
}

// Predefined error constructors for common scenarios

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, message, "")
}

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return NewAppError(CodeUnauthorized, message, "")
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	message := "Resource not found"
	if resource != "" {
		message = fmt.Sprintf("%s not found", strings.Title(resource))
	}
	return NewAppError(CodeNotFound, message, "")
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *AppError {
	return NewAppError(
		CodeDatabaseError,
		"Database operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// Pipeline specific errors

// NewNoIngredientsSelectedError is returned when generation is requested
// with an empty name list, before any provider call is made.
func NewNoIngredientsSelectedError() *AppError {
	return NewAppError(
		CodeNoIngredientsSelected,
		"No ingredients selected",
		"Select at least one ingredient before generating recipes",
	)
}

// NewProviderUnavailableError indicates the AI provider has no configured credential.
func NewProviderUnavailableError(provider string) *AppError {
	return NewAppError(
		CodeProviderUnavailable,
		"AI provider unavailable",
		fmt.Sprintf("No API key configured for provider %s", provider),
	).WithMetadata("provider", provider)
}

// NewMalformedProviderResponseError indicates the provider payload did not
// parse into the expected schema. The raw response goes to logs, never to users.
func NewMalformedProviderResponseError(cause error) *AppError {
	return NewAppError(
		CodeMalformedProviderResponse,
		"Could not understand the AI response",
		"The provider response did not match the expected schema",
	).WithCause(cause)
}

// NewPersistenceWriteFailedError covers any failed save/update/delete/toggle write.
func NewPersistenceWriteFailedError(operation string, cause error) *AppError {
	return NewAppError(
		CodePersistenceWriteFailed,
		"Could not save your changes",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewUnauthenticatedError indicates a persistence operation with no session.
func NewUnauthenticatedError() *AppError {
	return NewAppError(
		CodeUnauthenticated,
		"No active session",
		"",
	)
}

// NewRecipeNotFoundError creates a recipe not found error
func NewRecipeNotFoundError(recipeID string) *AppError {
	return NewAppError(
		CodeRecipeNotFound,
		"Recipe not found",
		fmt.Sprintf("Recipe with ID %s does not exist", recipeID),
	).WithMetadata("recipe_id", recipeID)
}

// NewShoppingListNotFoundError creates a shopping list not found error
func NewShoppingListNotFoundError(listID string) *AppError {
	return NewAppError(
		CodeShoppingListNotFound,
		"Shopping list not found",
		fmt.Sprintf("Shopping list with ID %s does not exist", listID),
	).WithMetadata("list_id", listID)
}

// NewEmailAlreadyExistsError creates an email already exists error
func NewEmailAlreadyExistsError(email string) *AppError {
	return NewAppError(
		CodeEmailAlreadyExists,
		"Email already exists",
		"An account with this email address already exists",
	).WithMetadata("email", email)
}

// NewInvalidCredentialsError creates an invalid credentials error
func NewInvalidCredentialsError() *AppError {
	return NewAppError(
		CodeInvalidCredentials,
		"Invalid credentials",
		"The provided email or password is incorrect",
	)
}

// NewOperationInFlightError is returned when a single-flight operation is
// triggered while a previous invocation is still outstanding.
func NewOperationInFlightError(operation string) *AppError {
	return NewAppError(
		CodeOperationInFlight,
		"Operation already in progress",
		fmt.Sprintf("A %s request is still outstanding", operation),
	).WithMetadata("operation", operation)
}

// Utility functions

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// getStackTrace captures the current stack trace
func getStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "pkg/errors") {
			builder.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return builder.String()
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails represents the error details in API responses
type ErrorDetails struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// ToErrorResponse converts an AppError to an API error response
func ToErrorResponse(err *AppError, requestID string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetails{
			Code:      err.Code,
			Message:   err.Message,
			Details:   err.Details,
			Metadata:  err.Metadata,
			RequestID: requestID,
			Timestamp: fmt.Sprintf("%d", time.Now().Unix()),
		},
	}
}
