package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeInvalidOTP         ErrorCode = "INVALID_OTP"
	ErrCodeOTPExpired         ErrorCode = "OTP_EXPIRED"

	ErrCodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	ErrCodeManagerNotFound      ErrorCode = "MANAGER_NOT_FOUND"
	ErrCodeRoleNotFound         ErrorCode = "ROLE_NOT_FOUND"
	ErrCodeSkillNotFound        ErrorCode = "SKILL_NOT_FOUND"
	ErrCodeAssessmentNotFound   ErrorCode = "ASSESSMENT_NOT_FOUND"
	ErrCodeTicketNotFound       ErrorCode = "TICKET_NOT_FOUND"
	ErrCodeFieldNotFound        ErrorCode = "FIELD_NOT_FOUND"
	ErrCodeNotificationNotFound ErrorCode = "NOTIFICATION_NOT_FOUND"

	ErrCodeDuplicateUser     ErrorCode = "DUPLICATE_USER"
	ErrCodeDuplicateRole     ErrorCode = "DUPLICATE_ROLE"
	ErrCodeDuplicateField    ErrorCode = "DUPLICATE_FIELD"
	ErrCodeManagerCycle      ErrorCode = "MANAGER_CYCLE"
	ErrCodeAlreadyInactive   ErrorCode = "ALREADY_INACTIVE"
	ErrCodeNotTeamMember     ErrorCode = "NOT_TEAM_MEMBER"
	ErrCodeInsufficientRole  ErrorCode = "INSUFFICIENT_ROLE"
	ErrCodeInvalidSkillLevel ErrorCode = "INVALID_SKILL_LEVEL"
	ErrCodeInvalidAdmin      ErrorCode = "INVALID_ADMIN"
)

// AppError is the domain error carried from services to the HTTP boundary,
// where StatusCode decides the response.
type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrInvalidCredentials = NewUnauthorizedError("Invalid employee code or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrInvalidOTP         = NewUnauthorizedError("Invalid reset code", ErrCodeInvalidOTP)
	ErrOTPExpired         = NewUnauthorizedError("Reset code has expired", ErrCodeOTPExpired)

	ErrUserNotFound         = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrManagerNotFound      = NewNotFoundError("Manager not found", ErrCodeManagerNotFound)
	ErrRoleNotFound         = NewNotFoundError("Role not found", ErrCodeRoleNotFound)
	ErrSkillNotFound        = NewNotFoundError("Skill not found", ErrCodeSkillNotFound)
	ErrAssessmentNotFound   = NewNotFoundError("Skill assessment not found", ErrCodeAssessmentNotFound)
	ErrTicketNotFound       = NewNotFoundError("Ticket not found", ErrCodeTicketNotFound)
	ErrFieldNotFound        = NewNotFoundError("Custom field not found", ErrCodeFieldNotFound)
	ErrNotificationNotFound = NewNotFoundError("Notification not found", ErrCodeNotificationNotFound)

	ErrDuplicateUser  = NewConflictError("User already exists with this employee code or email", ErrCodeDuplicateUser)
	ErrDuplicateRole  = NewConflictError("Role already exists", ErrCodeDuplicateRole)
	ErrDuplicateField = NewConflictError("Field name already exists", ErrCodeDuplicateField)

	ErrManagerCycle     = NewValidationError("Manager assignment would create a cycle", ErrCodeManagerCycle)
	ErrAlreadyInactive  = NewValidationError("Employee is already inactive", ErrCodeAlreadyInactive)
	ErrNotTeamMember    = NewForbiddenError("Employee is not part of your team", ErrCodeNotTeamMember)
	ErrInsufficientRole = NewForbiddenError("Insufficient role for this operation", ErrCodeInsufficientRole)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
