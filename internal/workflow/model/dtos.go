package model

import "github.com/google/uuid"

// CreateTemplateDTO is the input for registering a new workflow template.
type CreateTemplateDTO struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Steps       []StepDefinition `json:"steps"`
}

// CreateRequestDTO creates an approval request; with Submit set it is submitted immediately.
type CreateRequestDTO struct {
	WorkflowTemplateID uuid.UUID `json:"workflowTemplateId" binding:"required"`
	OrgID              string    `json:"orgId" binding:"required"`
	SubjectRef         string    `json:"subjectRef" binding:"required"`
	Submit             bool      `json:"submit"`
}

// DecideDTO carries one approver's decision. StepIndex, when set, must match the current step.
type DecideDTO struct {
	Outcome   DecisionOutcome `json:"outcome" binding:"required"`
	Comment   *string         `json:"comment,omitempty"`
	StepIndex *int            `json:"stepIndex,omitempty"`
}

type ExpireDTO struct {
	Reason string `json:"reason"`
}

// RequestFilter narrows ListRequests. Nil fields are not filtered on.
type RequestFilter struct {
	RequesterID *string
	OrgID       *string
	Status      *RequestStatus
	Offset      *int
	Limit       *int
}

type RequestListResult struct {
	TotalCount int64             `json:"totalCount"`
	Items      []ApprovalRequest `json:"items"`
	Offset     int               `json:"offset"`
	Limit      int               `json:"limit"`
}

type TemplateListResult struct {
	TotalCount int64              `json:"totalCount"`
	Items      []WorkflowTemplate `json:"items"`
	Offset     int                `json:"offset"`
	Limit      int                `json:"limit"`
}

// RequestSnapshot is the read view of a request for a given caller.
type RequestSnapshot struct {
	Request     ApprovalRequest `json:"request"`
	CurrentStep *StepDefinition `json:"currentStep,omitempty"`
	Decisions   []Decision      `json:"decisions"`
	CanDecide   bool            `json:"canDecide"` // Whether the caller is an eligible, undecided approver on the current step
}

// DecisionResult reports a recorded decision and the request state after it was applied.
type DecisionResult struct {
	// Request after the decision was applied, as seen by the approver
	RequestSnapshot

	Decision   Decision    `json:"decision"`
	Action     AuditAction `json:"action,omitempty"`     // Audit action written for the decision, empty if none
	Superseded bool        `json:"superseded,omitempty"` // The step had already been resolved when the decision was applied
}
