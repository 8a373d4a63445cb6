// Package apierror provides standardized API error handling.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/validator"
)

// Code represents an error code.
type Code string

// Standard error codes.
const (
	CodeBadRequest        Code = "BAD_REQUEST"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeNotFound          Code = "NOT_FOUND"
	CodeConflict          Code = "CONFLICT"
	CodeLocked            Code = "LOCKED"
	CodeInternalError     Code = "INTERNAL_ERROR"
	CodeNotImplemented    Code = "NOT_IMPLEMENTED"
	CodeValidationFailed  Code = "VALIDATION_FAILED"
	CodeRateLimitExceeded Code = "RATE_LIMIT_EXCEEDED"
)

// Error represents a standardized API error.
type Error struct {
	// HTTP status code
	Status int `json:"-"`

	// Machine-readable error code
	Code Code `json:"code"`

	// Human-readable error message
	Message string `json:"message"`

	// Additional error details (optional)
	Details any `json:"details,omitempty"`

	// Internal error (not exposed to client)
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Response represents the error response structure.
type Response struct {
	Error     string `json:"error"`
	Code      Code   `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ToResponse converts the error to a response structure.
func (e *Error) ToResponse(requestID string) Response {
	return Response{
		Error:     string(e.Code),
		Code:      e.Code,
		Message:   e.Message,
		Details:   e.Details,
		RequestID: requestID,
	}
}

// WriteJSON writes the error as JSON to the response writer.
func (e *Error) WriteJSON(w http.ResponseWriter, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(e.ToResponse(requestID))
}

// New creates a new API error.
func New(status int, code Code, message string) *Error {
	return &Error{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// WithError adds an internal error.
func (e *Error) WithError(err error) *Error {
	e.Err = err
	return e
}

// BadRequest creates a 400 Bad Request error.
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, CodeBadRequest, message)
}

// Unauthorized creates a 401 Unauthorized error.
func Unauthorized(message string) *Error {
	if message == "" {
		message = "Authentication required"
	}
	return New(http.StatusUnauthorized, CodeUnauthorized, message)
}

// Forbidden creates a 403 Forbidden error.
func Forbidden(message string) *Error {
	if message == "" {
		message = "Access denied"
	}
	return New(http.StatusForbidden, CodeForbidden, message)
}

// NotFound creates a 404 Not Found error.
func NotFound(resource string) *Error {
	message := "Resource not found"
	if resource != "" {
		message = fmt.Sprintf("%s not found", resource)
	}
	return New(http.StatusNotFound, CodeNotFound, message)
}

// Conflict creates a 409 Conflict error.
func Conflict(message string) *Error {
	return New(http.StatusConflict, CodeConflict, message)
}

// ValidationFailed creates a 422 Unprocessable Entity error.
func ValidationFailed(message string, details any) *Error {
	return &Error{
		Status:  http.StatusUnprocessableEntity,
		Code:    CodeValidationFailed,
		Message: message,
		Details: details,
	}
}

// InternalError creates a 500 Internal Server Error.
func InternalError(err error) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "An internal error occurred",
		Err:     err,
	}
}

// NotImplemented creates a 501 Not Implemented error.
func NotImplemented(message string) *Error {
	return New(http.StatusNotImplemented, CodeNotImplemented, message)
}

// RateLimitExceeded creates a 429 Too Many Requests error.
func RateLimitExceeded() *Error {
	return New(http.StatusTooManyRequests, CodeRateLimitExceeded, "Rate limit exceeded")
}

type mapping struct {
	target error
	build  func() *Error
}

// domainErrors maps domain sentinels to API errors. Order matters only for
// errors that wrap more than one sentinel.
var domainErrors = []mapping{
	// Authentication
	{domain.ErrInvalidCredentials, func() *Error { return Unauthorized("Invalid email or password") }},
	{domain.ErrInvalidToken, func() *Error { return Unauthorized("Invalid or expired token") }},
	{domain.ErrSessionNotFound, func() *Error { return Unauthorized("Session not found") }},
	{domain.ErrSessionExpired, func() *Error { return Unauthorized("Session expired") }},
	{domain.ErrSessionRevoked, func() *Error { return Unauthorized("Session revoked") }},
	{domain.ErrAccountLocked, func() *Error {
		return New(http.StatusLocked, CodeLocked, "Account temporarily locked due to too many failed login attempts")
	}},
	{domain.ErrUserAlreadyExists, func() *Error { return Conflict("User already exists") }},
	{domain.ErrUserNotFound, func() *Error { return NotFound("User") }},

	// Input
	{domain.ErrInvalidEmail, func() *Error { return BadRequest("Invalid email address") }},
	{domain.ErrWeakPassword, func() *Error { return BadRequest("Password does not meet requirements") }},
	{domain.ErrInvalidRole, func() *Error { return BadRequest("Invalid role") }},
	{domain.ErrInvalidSlug, func() *Error { return BadRequest("Invalid slug") }},
	{domain.ErrInvalidName, func() *Error { return BadRequest("Name is required") }},
	{domain.ErrInvalidPlatform, func() *Error { return BadRequest("Invalid platform") }},
	{domain.ErrInvalidQuantity, func() *Error { return BadRequest("Invalid quantity") }},
	{domain.ErrMissingExternalID, func() *Error { return BadRequest("External id is required") }},
	{domain.ErrInvalidAmount, func() *Error { return BadRequest("Invalid amount") }},

	// Tenancy
	{domain.ErrNoOrganization, func() *Error { return BadRequest("No organization selected") }},
	{domain.ErrForbidden, func() *Error { return Forbidden("") }},
	{domain.ErrOrganizationNotFound, func() *Error { return NotFound("Organization") }},
	{domain.ErrSlugTaken, func() *Error { return Conflict("Organization slug already taken") }},
	{domain.ErrMembershipNotFound, func() *Error { return NotFound("Membership") }},
	{domain.ErrAlreadyMember, func() *Error { return Conflict("User is already a member of this organization") }},
	{domain.ErrInvitationNotFound, func() *Error { return NotFound("Invitation") }},
	{domain.ErrInvitationNotPending, func() *Error { return BadRequest("Invitation is no longer pending") }},
	{domain.ErrInvitationPending, func() *Error { return Conflict("Invitation already pending") }},
	{domain.ErrInvitationExpired, func() *Error { return BadRequest("Invitation has expired") }},
	{domain.ErrInvitationEmailMismatch, func() *Error { return Forbidden("Invitation was sent to a different email address") }},
	{domain.ErrNotImplemented, func() *Error { return NotImplemented("Not implemented") }},

	// Restaurant resources
	{domain.ErrBranchNotFound, func() *Error { return NotFound("Branch") }},
	{domain.ErrMenuItemNotFound, func() *Error { return NotFound("Menu item") }},
	{domain.ErrMenuMappingNotFound, func() *Error { return NotFound("Menu mapping") }},
	{domain.ErrOrderNotFound, func() *Error { return NotFound("Order") }},
	{domain.ErrInvalidOrderTransition, func() *Error { return BadRequest("Invalid order status transition") }},
	{domain.ErrInventoryItemNotFound, func() *Error { return NotFound("Inventory item") }},
	{domain.ErrPaymentConfigNotFound, func() *Error { return NotFound("Payment config") }},
}

// FromError converts any error to an API error. Known domain errors get their
// mapped status and code; anything else is an internal error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return ValidationFailed("Validation failed", verrs)
	}

	// Policy violations carry the failing requirement in the wrapped message.
	if errors.Is(err, domain.ErrWeakPassword) || errors.Is(err, domain.ErrInvalidEmail) {
		return BadRequest(err.Error())
	}

	for _, m := range domainErrors {
		if errors.Is(err, m.target) {
			return m.build().WithError(err)
		}
	}

	return InternalError(err)
}
