package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeValidation          = "VALIDATION_ERROR"
	CodeMissingField        = "MISSING_FIELD"
	CodeFieldTooLong        = "FIELD_TOO_LONG"
	CodeInvalidCategoryType = "INVALID_CATEGORY_TYPE"
	CodeWeakPassword        = "WEAK_PASSWORD"
	CodeSelfFollow          = "SELF_FOLLOW"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeForbidden           = "FORBIDDEN"
	CodeDuplicateEmail      = "DUPLICATE_EMAIL"
	CodeAlreadyLiked        = "ALREADY_LIKED"
	CodeAlreadyFollowing    = "ALREADY_FOLLOWING"
	CodeDuplicateCategory   = "DUPLICATE_CATEGORY"
	CodeInternal            = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewMissingFieldError(field string) *AppError {
	return &AppError{
		Code:    CodeMissingField,
		Message: fmt.Sprintf("The '%s' field is required", field),
	}
}

func NewFieldTooLongError(field string, max int) *AppError {
	return &AppError{
		Code:    CodeFieldTooLong,
		Message: fmt.Sprintf("'%s' must be at most %d characters", field, max),
	}
}

func NewInvalidCategoryTypeError(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidCategoryType,
		Message: message,
	}
}

func NewWeakPasswordError() *AppError {
	return &AppError{
		Code:    CodeWeakPassword,
		Message: "The 'password' field must be at least 8 characters and must contain an upper-case character, a lower-case character, a symbol and a number.",
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Code:    CodeInvalidCredentials,
		Message: "Invalid username and/or password",
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

// NewConflictError builds one of the uniqueness errors (duplicate email, like, follow, category).
func NewConflictError(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// StatusFor maps an error to the HTTP status it is reported with.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeValidation, CodeMissingField, CodeFieldTooLong, CodeInvalidCategoryType,
		CodeWeakPassword, CodeSelfFollow:
		return fiber.StatusBadRequest
	case CodeUnauthorized, CodeInvalidCredentials:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeDuplicateEmail, CodeAlreadyLiked, CodeAlreadyFollowing, CodeDuplicateCategory:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		// Internal details stay in the logs.
		if appErr.Err != nil && appErr.Code != CodeInternal {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
