package model

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestStatusDraft      RequestStatus = "DRAFT"       // Created but not yet submitted
	RequestStatusInProgress RequestStatus = "IN_PROGRESS" // Submitted and waiting on the current step
	RequestStatusApproved   RequestStatus = "APPROVED"    // Every step satisfied
	RequestStatusRejected   RequestStatus = "REJECTED"    // A step was blocked with TERMINATE_REQUEST
	RequestStatusCancelled  RequestStatus = "CANCELLED"   // Withdrawn by the requester or expired
)

// IsTerminal reports whether no further transitions are possible from the status.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected || s == RequestStatusCancelled
}

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusDraft, RequestStatusInProgress, RequestStatusApproved, RequestStatusRejected, RequestStatusCancelled:
		return true
	}
	return false
}

// ApprovalRequest is one instance of a workflow template applied to a subject.
// Status, CurrentStepIndex, Round and Version are only written by the request lifecycle.
type ApprovalRequest struct {
	BaseModel
	WorkflowTemplateID uuid.UUID     `gorm:"type:uuid;column:workflow_template_id;not null;index" json:"workflowTemplateId"` // Template the request follows
	RequesterID        string        `gorm:"type:varchar(255);column:requester_id;not null;index" json:"requesterId"`        // Principal who owns the request
	OrgID              string        `gorm:"type:varchar(255);column:org_id;not null;index" json:"orgId"`                    // Tenant used for role resolution
	SubjectRef         string        `gorm:"type:varchar(512);column:subject_ref;not null" json:"subjectRef"`                // Opaque reference to the thing being approved
	Status             RequestStatus `gorm:"type:varchar(50);column:status;not null;index" json:"status"`                    // Lifecycle status
	CurrentStepIndex   *int          `gorm:"column:current_step_index" json:"currentStepIndex"`                              // Non-null only while IN_PROGRESS
	Round              int           `gorm:"column:round;not null" json:"round"`                                             // Incremented on every step entry
	Version            int           `gorm:"column:version;not null" json:"version"`                                         // Optimistic concurrency counter
	SubmittedAt        *time.Time    `gorm:"column:submitted_at" json:"submittedAt,omitempty"`
	CompletedAt        *time.Time    `gorm:"column:completed_at" json:"completedAt,omitempty"`
}

func (r *ApprovalRequest) TableName() string {
	return "approval_requests"
}

// StepIndex returns the current step index, or -1 when the request has no active step.
func (r *ApprovalRequest) StepIndex() int {
	if r.CurrentStepIndex == nil {
		return -1
	}
	return *r.CurrentStepIndex
}

// IsAtStep reports whether the request is in progress at the given step and round.
func (r *ApprovalRequest) IsAtStep(stepIndex, round int) bool {
	return r.Status == RequestStatusInProgress &&
		r.CurrentStepIndex != nil &&
		*r.CurrentStepIndex == stepIndex &&
		r.Round == round
}
