package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Workflow-specific error types
const (
	ErrorTypeInvalidTransition   ErrorType = "invalid_transition"
	ErrorTypeTemplateNotFound    ErrorType = "template_not_found"
	ErrorTypeEmptyTemplate       ErrorType = "empty_template"
	ErrorTypeStepNotFound        ErrorType = "step_not_found"
	ErrorTypeAlreadyDecided      ErrorType = "already_decided"
	ErrorTypeStepNotActionable   ErrorType = "step_not_actionable"
	ErrorTypeNotAuthorized       ErrorType = "not_authorized"
	ErrorTypeNoEligibleApprover  ErrorType = "no_eligible_approver"
)

// WorkflowError carries structured workflow context so callers can render a
// precise message without re-querying state.
type WorkflowError struct {
	*AppError
	// FromStatus and ToStatus are set for transition errors.
	FromStatus string
	ToStatus   string
	// StepID is set for step decision errors.
	StepID uint
}

// Error implements the error interface
func (e *WorkflowError) Error() string {
	return e.AppError.Error()
}

// Unwrap allows errors.Is and errors.As to work correctly
func (e *WorkflowError) Unwrap() error {
	return e.AppError
}

// NewInvalidTransitionError creates an error for a status transition not in
// the lifecycle table, carrying the attempted from/to statuses.
func NewInvalidTransitionError(from, to string) *WorkflowError {
	return &WorkflowError{
		AppError: &AppError{
			Type:    ErrorTypeInvalidTransition,
			Message: fmt.Sprintf("cannot transition ticket from %s to %s", from, to),
			Code:    http.StatusUnprocessableEntity,
		},
		FromStatus: from,
		ToStatus:   to,
	}
}

// NewTemplateNotFoundError creates an error for a missing or deleted approval template.
func NewTemplateNotFoundError(templateID uint) *WorkflowError {
	return &WorkflowError{
		AppError: &AppError{
			Type:    ErrorTypeTemplateNotFound,
			Message: fmt.Sprintf("approval template %d not found", templateID),
			Code:    http.StatusNotFound,
		},
	}
}

// NewEmptyTemplateError creates an error for an approval template with zero steps.
// This is a configuration error, distinct from user input errors.
func NewEmptyTemplateError(templateID uint) *WorkflowError {
	return &WorkflowError{
		AppError: &AppError{
			Type:    ErrorTypeEmptyTemplate,
			Message: fmt.Sprintf("approval template %d has no steps", templateID),
			Code:    http.StatusUnprocessableEntity,
		},
	}
}

// NewStepNotFoundError creates an error for a missing approval process step.
func NewStepNotFoundError(stepID uint) *WorkflowError {
	return &WorkflowError{
		AppError: &AppError{
			Type:    ErrorTypeStepNotFound,
			Message: fmt.Sprintf("approval step %d not found", stepID),
			Code:    http.StatusNotFound,
		},
		StepID: stepID,
	}
}

// NewAlreadyDecidedError creates an error for a step that was already decided.
// It is distinct from a generic conflict so clients can safely detect and
// ignore duplicate submissions.
func NewAlreadyDecidedError(stepID uint, status string) *WorkflowError {
	return &WorkflowError{
		AppError: &AppError{
			Type:    ErrorTypeAlreadyDecided,
			Message: fmt.Sprintf("approval step %d has already been decided (%s)", stepID, status),
			Code:    http.StatusConflict,
		},
		StepID: stepID,
	}
}

// NewStepNotActionableError creates an error for a decision on a step that is
// not the process's current step.
func NewStepNotActionableError(stepID uint, stepOrder, currentStep int) *WorkflowError {
	return &WorkflowError{
		AppError: &AppError{
			Type:    ErrorTypeStepNotActionable,
			Message: fmt.Sprintf("approval step %d (order %d) is not the current step (%d)", stepID, stepOrder, currentStep),
			Code:    http.StatusUnprocessableEntity,
		},
		StepID: stepID,
	}
}

// NewNotAuthorizedError creates an error for an actor who is neither the
// designated approver nor a confirmed proxy.
func NewNotAuthorizedError(stepID uint) *WorkflowError {
	return &WorkflowError{
		AppError: &AppError{
			Type:    ErrorTypeNotAuthorized,
			Message: fmt.Sprintf("actor is not authorized to decide approval step %d", stepID),
			Code:    http.StatusForbidden,
		},
		StepID: stepID,
	}
}

// NewNoEligibleApproverError creates an error for a role-designated template
// step that resolves to no concrete approver. Fatal to process instantiation.
func NewNoEligibleApproverError(roleID uint) *WorkflowError {
	return &WorkflowError{
		AppError: &AppError{
			Type:    ErrorTypeNoEligibleApprover,
			Message: fmt.Sprintf("no eligible approver for role %d", roleID),
			Code:    http.StatusUnprocessableEntity,
		},
	}
}

// GetWorkflowError extracts a WorkflowError from an error chain.
func GetWorkflowError(err error) *WorkflowError {
	var wfErr *WorkflowError
	if stderrors.As(err, &wfErr) {
		return wfErr
	}
	return nil
}

// IsAlreadyDecided reports whether the error is an AlreadyDecided workflow error.
func IsAlreadyDecided(err error) bool {
	wfErr := GetWorkflowError(err)
	return wfErr != nil && wfErr.Type == ErrorTypeAlreadyDecided
}
