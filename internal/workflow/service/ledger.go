package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wewinbid/approval-engine/internal/workflow/model"
)

// RecordInput identifies the decision to record and the step/round it applies to.
type RecordInput struct {
	RequestID  uuid.UUID
	StepIndex  int
	Round      int
	ApproverID string
	Outcome    model.DecisionOutcome
	Comment    *string
}

// DecisionLedger persists decisions exactly once per approver, step and round.
type DecisionLedger struct {
	db *gorm.DB
}

func NewDecisionLedger(db *gorm.DB) *DecisionLedger {
	return &DecisionLedger{db: db}
}

// Record inserts a decision. The insert holds a shared lock on the request row and
// re-checks that the request is still at the given step and round, so no decision
// lands after a transition that moved the request on. Uniqueness is enforced by the
// decisions unique index, not by a prior read.
func (l *DecisionLedger) Record(ctx context.Context, in RecordInput) (*model.Decision, error) {
	if in.RequestID == uuid.Nil {
		return nil, model.NewValidationError("requestId", "must not be empty")
	}
	if in.ApproverID == "" {
		return nil, model.NewValidationError("approverId", "must not be empty")
	}
	if !in.Outcome.IsValid() {
		return nil, model.NewValidationError("outcome", "must be one of APPROVED, REJECTED, CHANGES_REQUESTED")
	}

	decision := &model.Decision{
		RequestID:  in.RequestID,
		StepIndex:  in.StepIndex,
		Round:      in.Round,
		ApproverID: in.ApproverID,
		Outcome:    in.Outcome,
		Comment:    in.Comment,
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var request model.ApprovalRequest
		result := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Select("id", "status", "current_step_index", "round").
			First(&request, "id = ?", in.RequestID)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return model.NewNotFoundError("approval request", in.RequestID)
			}
			return model.NewStorageError("lock approval request", result.Error)
		}
		if !request.IsAtStep(in.StepIndex, in.Round) {
			return &model.InvalidStateError{
				RequestID: in.RequestID,
				Status:    request.Status,
				Operation: "decide on",
				Reason:    "the request is no longer waiting on this step",
			}
		}

		if err := tx.Create(decision).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return model.NewDuplicateDecisionError(in.RequestID, in.StepIndex, in.ApproverID)
			}
			return model.NewStorageError("insert decision", err)
		}
		return nil
	})
	if err != nil {
		return nil, asAppError("record decision", err)
	}
	return decision, nil
}

// ForStep returns the decisions of one step round, in the order they were made.
func (l *DecisionLedger) ForStep(ctx context.Context, requestID uuid.UUID, stepIndex, round int) ([]model.Decision, error) {
	return l.ForStepInTx(ctx, l.db, requestID, stepIndex, round)
}

// ForStepInTx is ForStep within an existing transaction.
func (l *DecisionLedger) ForStepInTx(ctx context.Context, tx *gorm.DB, requestID uuid.UUID, stepIndex, round int) ([]model.Decision, error) {
	decisions := make([]model.Decision, 0)
	result := tx.WithContext(ctx).
		Where("request_id = ? AND step_index = ? AND round = ?", requestID, stepIndex, round).
		Order("decided_at ASC").
		Find(&decisions)
	if result.Error != nil {
		return nil, model.NewStorageError("load step decisions", result.Error)
	}
	return decisions, nil
}

// ForRequest returns every decision ever recorded on the request, including earlier rounds.
func (l *DecisionLedger) ForRequest(ctx context.Context, requestID uuid.UUID) ([]model.Decision, error) {
	decisions := make([]model.Decision, 0)
	result := l.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("round ASC, decided_at ASC").
		Find(&decisions)
	if result.Error != nil {
		return nil, model.NewStorageError("load request decisions", result.Error)
	}
	return decisions, nil
}
