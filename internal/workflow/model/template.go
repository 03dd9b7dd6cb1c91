package model

import (
	"fmt"

	"gorm.io/gorm"
)

type PolicyKind string

const (
	PolicyAll       PolicyKind = "ALL"       // Every eligible approver must approve
	PolicyAny       PolicyKind = "ANY"       // A single approval satisfies the step
	PolicyThreshold PolicyKind = "THRESHOLD" // At least N approvals satisfy the step
)

type ApproverKind string

const (
	ApproverKindUser ApproverKind = "USER" // A specific principal
	ApproverKindRole ApproverKind = "ROLE" // Every current member of an organization role
)

type RejectAction string

const (
	RejectActionTerminate      RejectAction = "TERMINATE_REQUEST"       // Blocked step rejects the whole request
	RejectActionReturnPrevious RejectAction = "RETURN_TO_PREVIOUS_STEP" // Blocked step sends the request back one step
)

// ApproverSpec names who may decide on a step, either directly or through a role.
type ApproverSpec struct {
	Kind   ApproverKind `json:"kind"`
	UserID string       `json:"userId,omitempty"`
	Role   string       `json:"role,omitempty"`
}

// Key returns a stable identity used to detect duplicate specs within a step.
func (a ApproverSpec) Key() string {
	switch a.Kind {
	case ApproverKindUser:
		return "user:" + a.UserID
	case ApproverKindRole:
		return "role:" + a.Role
	default:
		return fmt.Sprintf("%s:%s%s", a.Kind, a.UserID, a.Role)
	}
}

type ApprovalPolicy struct {
	Kind      PolicyKind `json:"kind"`
	Threshold int        `json:"threshold,omitempty"` // Only meaningful for THRESHOLD
}

func (p ApprovalPolicy) String() string {
	if p.Kind == PolicyThreshold {
		return fmt.Sprintf("%s(%d)", p.Kind, p.Threshold)
	}
	return string(p.Kind)
}

// StepDefinition is a single ordered stage of a workflow template.
type StepDefinition struct {
	Index     int            `json:"index"`
	Name      string         `json:"name,omitempty"`
	Policy    ApprovalPolicy `json:"policy"`
	Approvers []ApproverSpec `json:"approvers"`
	OnReject  RejectAction   `json:"onReject,omitempty"`
}

// RejectBehavior returns the configured reject action, defaulting to TERMINATE_REQUEST.
func (s StepDefinition) RejectBehavior() RejectAction {
	if s.OnReject == "" {
		return RejectActionTerminate
	}
	return s.OnReject
}

func (s StepDefinition) clone() StepDefinition {
	c := s
	c.Approvers = append([]ApproverSpec(nil), s.Approvers...)
	return c
}

// WorkflowTemplate is an immutable, ordered list of approval steps.
type WorkflowTemplate struct {
	BaseModel
	Name        string           `gorm:"type:varchar(255);column:name;not null" json:"name"`           // Human-readable name of the template
	Description string           `gorm:"type:text;column:description" json:"description,omitempty"`   // Optional description
	Steps       []StepDefinition `gorm:"type:jsonb;column:steps;not null;serializer:json" json:"steps"` // Steps sorted by index
}

func (wt *WorkflowTemplate) TableName() string {
	return "workflow_templates"
}

// BeforeUpdate rejects every update; templates are versioned by creating new ones.
func (wt *WorkflowTemplate) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableRecord
}

func (wt *WorkflowTemplate) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableRecord
}

// Step returns the step with the given index.
func (wt *WorkflowTemplate) Step(index int) (StepDefinition, bool) {
	if index < 0 || index >= len(wt.Steps) {
		return StepDefinition{}, false
	}
	return wt.Steps[index], true
}

// StepCount returns the number of steps in the template.
func (wt *WorkflowTemplate) StepCount() int {
	return len(wt.Steps)
}

// Clone returns a deep copy so callers cannot mutate a cached or stored template.
func (wt *WorkflowTemplate) Clone() *WorkflowTemplate {
	if wt == nil {
		return nil
	}
	c := *wt
	c.Steps = make([]StepDefinition, len(wt.Steps))
	for i, s := range wt.Steps {
		c.Steps[i] = s.clone()
	}
	return &c
}
