package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DecisionOutcome string

const (
	DecisionApproved         DecisionOutcome = "APPROVED"
	DecisionRejected         DecisionOutcome = "REJECTED"
	DecisionChangesRequested DecisionOutcome = "CHANGES_REQUESTED" // Counted as a non-approval by every policy
)

func (o DecisionOutcome) IsValid() bool {
	return o == DecisionApproved || o == DecisionRejected || o == DecisionChangesRequested
}

// Decision is one approver's outcome on one step of one request, recorded exactly once per round.
type Decision struct {
	ID         uuid.UUID       `gorm:"type:uuid;column:id;not null;primaryKey" json:"id"`
	RequestID  uuid.UUID       `gorm:"type:uuid;column:request_id;not null;uniqueIndex:idx_decisions_unique_approver,priority:1" json:"requestId"`
	StepIndex  int             `gorm:"column:step_index;not null;uniqueIndex:idx_decisions_unique_approver,priority:2" json:"stepIndex"`
	Round      int             `gorm:"column:round;not null;uniqueIndex:idx_decisions_unique_approver,priority:3" json:"round"`
	ApproverID string          `gorm:"type:varchar(255);column:approver_id;not null;uniqueIndex:idx_decisions_unique_approver,priority:4" json:"approverId"`
	Outcome    DecisionOutcome `gorm:"type:varchar(50);column:outcome;not null" json:"outcome"`
	Comment    *string         `gorm:"type:text;column:comment" json:"comment,omitempty"`
	DecidedAt  time.Time       `gorm:"column:decided_at;not null" json:"decidedAt"`
}

func (d *Decision) TableName() string {
	return "decisions"
}

func (d *Decision) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID, err = uuid.NewRandom()
		if err != nil {
			return
		}
	}
	if d.DecidedAt.IsZero() {
		d.DecidedAt = time.Now().UTC()
	}
	return
}

func (d *Decision) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableRecord
}

func (d *Decision) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableRecord
}
