package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditAction string

const (
	AuditActionSubmitted        AuditAction = "SUBMITTED"
	AuditActionStepAdvanced     AuditAction = "STEP_ADVANCED"
	AuditActionStepReturned     AuditAction = "STEP_RETURNED"
	AuditActionDecisionRecorded AuditAction = "DECISION_RECORDED"
	AuditActionApproved         AuditAction = "APPROVED"
	AuditActionRejected         AuditAction = "REJECTED"
	AuditActionCancelled        AuditAction = "CANCELLED"
	AuditActionExpired          AuditAction = "EXPIRED"
)

// AuditDetails carries action-specific context such as the evaluated policy or decision outcome.
type AuditDetails map[string]any

// AuditEntry is an append-only record of one request transition.
type AuditEntry struct {
	ID         uuid.UUID     `gorm:"type:uuid;column:id;not null;primaryKey" json:"id"`
	RequestID  uuid.UUID     `gorm:"type:uuid;column:request_id;not null;uniqueIndex:idx_audit_entries_request_sequence,priority:1" json:"requestId"`
	Sequence   int           `gorm:"column:sequence;not null;uniqueIndex:idx_audit_entries_request_sequence,priority:2" json:"sequence"` // Monotonic per request, starting at 1
	Action     AuditAction   `gorm:"type:varchar(50);column:action;not null" json:"action"`
	ActorID    string        `gorm:"type:varchar(255);column:actor_id;not null" json:"actorId"`
	FromStatus RequestStatus `gorm:"type:varchar(50);column:from_status;not null" json:"fromStatus"`
	ToStatus   RequestStatus `gorm:"type:varchar(50);column:to_status;not null" json:"toStatus"`
	FromStep   *int          `gorm:"column:from_step" json:"fromStep"`
	ToStep     *int          `gorm:"column:to_step" json:"toStep"`
	Details    AuditDetails  `gorm:"type:jsonb;column:details;serializer:json" json:"details,omitempty"`
	CreatedAt  time.Time     `gorm:"column:created_at;not null" json:"timestamp"`
}

func (a *AuditEntry) TableName() string {
	return "audit_entries"
}

func (a *AuditEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewRandom()
		if err != nil {
			return
		}
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return
}

func (a *AuditEntry) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableRecord
}

func (a *AuditEntry) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableRecord
}
