package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wewinbid/approval-engine/internal/workflow/model"
)

// Type identifies what happened to an approval request.
type Type string

const (
	TypeSubmitted        Type = "approval.submitted"
	TypeStepAdvanced     Type = "approval.step_advanced"
	TypeStepReturned     Type = "approval.step_returned"
	TypeDecisionRecorded Type = "approval.decision_recorded"
	TypeApproved         Type = "approval.approved"
	TypeRejected         Type = "approval.rejected"
	TypeCancelled        Type = "approval.cancelled"
	TypeExpired          Type = "approval.expired"
)

var actionTypes = map[model.AuditAction]Type{
	model.AuditActionSubmitted:        TypeSubmitted,
	model.AuditActionStepAdvanced:     TypeStepAdvanced,
	model.AuditActionStepReturned:     TypeStepReturned,
	model.AuditActionDecisionRecorded: TypeDecisionRecorded,
	model.AuditActionApproved:         TypeApproved,
	model.AuditActionRejected:         TypeRejected,
	model.AuditActionCancelled:        TypeCancelled,
	model.AuditActionExpired:          TypeExpired,
}

// TypeForAction maps an audit action to its event type.
func TypeForAction(action model.AuditAction) Type {
	if t, ok := actionTypes[action]; ok {
		return t
	}
	return Type("approval." + string(action))
}

// Event is emitted once for every committed request transition.
type Event struct {
	ID                 uuid.UUID           `json:"id"`
	Type               Type                `json:"type"`
	RequestID          uuid.UUID           `json:"requestId"`
	WorkflowTemplateID uuid.UUID           `json:"workflowTemplateId"`
	OrgID              string              `json:"orgId"`
	RequesterID        string              `json:"requesterId"`
	SubjectRef         string              `json:"subjectRef"`
	ActorID            string              `json:"actorId"`
	PreviousStatus     model.RequestStatus `json:"previousStatus"`
	Status             model.RequestStatus `json:"status"`
	StepIndex          *int                `json:"stepIndex"`
	Round              int                 `json:"round"`
	Sequence           int                 `json:"sequence"`
	Details            map[string]any      `json:"details,omitempty"`
	OccurredAt         time.Time           `json:"occurredAt"`
}

// IsTerminal reports whether the event moved the request into a final status.
func (e Event) IsTerminal() bool {
	return e.Status.IsTerminal()
}

// FromAudit builds the event for a committed audit entry.
func FromAudit(request *model.ApprovalRequest, entry *model.AuditEntry) Event {
	return Event{
		ID:                 entry.ID,
		Type:               TypeForAction(entry.Action),
		RequestID:          request.ID,
		WorkflowTemplateID: request.WorkflowTemplateID,
		OrgID:              request.OrgID,
		RequesterID:        request.RequesterID,
		SubjectRef:         request.SubjectRef,
		ActorID:            entry.ActorID,
		PreviousStatus:     entry.FromStatus,
		Status:             entry.ToStatus,
		StepIndex:          entry.ToStep,
		Round:              request.Round,
		Sequence:           entry.Sequence,
		Details:            entry.Details,
		OccurredAt:         entry.CreatedAt,
	}
}

// Sink receives request events after the transition has committed.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, event Event) error

func (f SinkFunc) Publish(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Discard drops every event.
var Discard Sink = SinkFunc(func(context.Context, Event) error { return nil })
