package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wewinbid/approval-engine/internal/workflow/model"
)

// AppendInput describes one transition to add to a request's audit trail.
type AppendInput struct {
	RequestID  uuid.UUID
	Action     model.AuditAction
	ActorID    string
	FromStatus model.RequestStatus
	ToStatus   model.RequestStatus
	FromStep   *int
	ToStep     *int
	Details    model.AuditDetails
}

// AuditTrail is the append-only history of request transitions.
type AuditTrail struct {
	db *gorm.DB
}

func NewAuditTrail(db *gorm.DB) *AuditTrail {
	return &AuditTrail{db: db}
}

// AppendInTx writes the next entry of the request's trail. It must run in the
// same transaction, and under the same request lock, as the transition it records;
// the sequence number is max(sequence)+1 for the request.
func (a *AuditTrail) AppendInTx(ctx context.Context, tx *gorm.DB, in AppendInput) (*model.AuditEntry, error) {
	var last int
	result := tx.WithContext(ctx).
		Model(&model.AuditEntry{}).
		Where("request_id = ?", in.RequestID).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&last)
	if result.Error != nil {
		return nil, model.NewStorageError("read audit sequence", result.Error)
	}

	entry := &model.AuditEntry{
		RequestID:  in.RequestID,
		Sequence:   last + 1,
		Action:     in.Action,
		ActorID:    in.ActorID,
		FromStatus: in.FromStatus,
		ToStatus:   in.ToStatus,
		FromStep:   copyIntPtr(in.FromStep),
		ToStep:     copyIntPtr(in.ToStep),
		Details:    in.Details,
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, model.NewStorageError("append audit entry", err)
	}
	return entry, nil
}

// History returns the request's audit entries ordered by sequence.
func (a *AuditTrail) History(ctx context.Context, requestID uuid.UUID) ([]model.AuditEntry, error) {
	entries := make([]model.AuditEntry, 0)
	result := a.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("sequence ASC").
		Find(&entries)
	if result.Error != nil {
		return nil, model.NewStorageError("load audit history", result.Error)
	}
	return entries, nil
}

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func intPtr(v int) *int {
	return &v
}
