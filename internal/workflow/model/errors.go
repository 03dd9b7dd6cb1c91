package model

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// AppError is implemented by every error the engine returns to callers.
type AppError interface {
	error
	HTTPStatus() int
	Code() string
}

// TemplateProblem describes one reason a workflow template was rejected.
type TemplateProblem struct {
	StepIndex *int   `json:"stepIndex,omitempty"`
	Field     string `json:"field"`
	Message   string `json:"message"`
}

func (p TemplateProblem) String() string {
	if p.StepIndex != nil {
		return fmt.Sprintf("step %d %s: %s", *p.StepIndex, p.Field, p.Message)
	}
	return fmt.Sprintf("%s: %s", p.Field, p.Message)
}

// InvalidTemplateError is returned when a template fails structural validation.
type InvalidTemplateError struct {
	Problems []TemplateProblem
}

func (e *InvalidTemplateError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.String())
	}
	return "invalid workflow template: " + strings.Join(parts, "; ")
}

func (e *InvalidTemplateError) HTTPStatus() int { return http.StatusBadRequest }
func (e *InvalidTemplateError) Code() string    { return "INVALID_TEMPLATE" }

// InvalidStateError is returned when an operation does not apply to the request's current state.
type InvalidStateError struct {
	RequestID uuid.UUID
	Status    RequestStatus
	Operation string
	Reason    string
}

func (e *InvalidStateError) Error() string {
	msg := fmt.Sprintf("cannot %s request %s in status %s", e.Operation, e.RequestID, e.Status)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *InvalidStateError) HTTPStatus() int { return http.StatusConflict }
func (e *InvalidStateError) Code() string    { return "INVALID_STATE" }

// AuthorizationError is returned when the principal may not perform the operation.
type AuthorizationError struct {
	PrincipalID string
	Action      string
	RequestID   uuid.UUID
	Reason      string
}

func (e *AuthorizationError) Error() string {
	msg := fmt.Sprintf("principal %q is not allowed to %s", e.PrincipalID, e.Action)
	if e.RequestID != uuid.Nil {
		msg += fmt.Sprintf(" request %s", e.RequestID)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *AuthorizationError) HTTPStatus() int { return http.StatusForbidden }
func (e *AuthorizationError) Code() string    { return "NOT_AUTHORIZED" }

const (
	ConflictDuplicateDecision      = "DUPLICATE_DECISION"
	ConflictConcurrentModification = "CONCURRENT_MODIFICATION"
)

// ConflictError is returned when a write collides with existing data.
type ConflictError struct {
	Kind    string
	Message string
}

func (e *ConflictError) Error() string   { return e.Message }
func (e *ConflictError) HTTPStatus() int { return http.StatusConflict }
func (e *ConflictError) Code() string {
	if e.Kind == "" {
		return "CONFLICT"
	}
	return e.Kind
}

// NewDuplicateDecisionError reports that the approver already decided on this step.
func NewDuplicateDecisionError(requestID uuid.UUID, stepIndex int, approverID string) *ConflictError {
	return &ConflictError{
		Kind:    ConflictDuplicateDecision,
		Message: fmt.Sprintf("approver %q already decided on step %d of request %s", approverID, stepIndex, requestID),
	}
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) HTTPStatus() int { return http.StatusNotFound }
func (e *NotFoundError) Code() string    { return "NOT_FOUND" }

func NewNotFoundError(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: fmt.Sprint(id)}
}

// ValidationError reports malformed caller input that is not a template problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return "validation error: " + e.Message
}

func (e *ValidationError) HTTPStatus() int { return http.StatusBadRequest }
func (e *ValidationError) Code() string    { return "VALIDATION_ERROR" }

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StorageError wraps an infrastructure failure from persistence or a collaborator.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error    { return e.Err }
func (e *StorageError) HTTPStatus() int { return http.StatusServiceUnavailable }
func (e *StorageError) Code() string    { return "STORAGE_UNAVAILABLE" }

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// HTTPStatusOf returns the HTTP status for err, or 500 for errors that are not AppErrors.
func HTTPStatusOf(err error) int {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// CodeOf returns the machine-readable code for err.
func CodeOf(err error) string {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}
	return "INTERNAL_ERROR"
}
