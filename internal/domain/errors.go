package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Error types for consistent error handling across the back office.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       int64
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Resource, e.ID)
}

// ErrValidationFailed carries field-level validation failures. The Fields
// map (field name -> message) is the validation result itself; it is
// returned as data so callers can render per-field messages.
type ErrValidationFailed struct {
	Fields map[string]string
}

func (e *ErrValidationFailed) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// ErrInvalidTransition indicates a claim status change not permitted from
// the claim's current state. The claim is left untouched.
type ErrInvalidTransition struct {
	From   ClaimStatus
	Action string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("cannot %s a claim in status %s", e.Action, e.From)
}

// ErrInvalidSettlementAmount indicates a settlement amount outside
// (0, claimedAmount]. No write is performed.
type ErrInvalidSettlementAmount struct {
	Amount        float64
	ClaimedAmount float64
}

func (e *ErrInvalidSettlementAmount) Error() string {
	return fmt.Sprintf("settlement amount %.2f outside (0, %.2f]", e.Amount, e.ClaimedAmount)
}

// ErrExternalService indicates the persistence collaborator failed
// (network/server error). It is surfaced to the caller unchanged and never
// retried above the resilience layer.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrTimeout indicates an operation exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}

// ErrUnauthorized indicates invalid credentials or token.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrForbidden indicates the user lacks the role for the operation.
type ErrForbidden struct {
	Action string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Action)
}

// ErrConflict indicates a resource already exists (e.g. duplicate username).
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}
