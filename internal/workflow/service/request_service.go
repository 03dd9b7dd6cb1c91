package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wewinbid/approval-engine/internal/events"
	"github.com/wewinbid/approval-engine/internal/workflow/model"
	"github.com/wewinbid/approval-engine/utils"
)

// SystemActorID is recorded as the actor of transitions not made by a principal.
const SystemActorID = "system"

// RequestService is the request lifecycle manager. It is the only writer of a
// request's status, current step, round and version.
//
// Transitions on one request are serialized by an in-process lock keyed by the
// request id, a row lock taken inside the transition transaction, and an
// optimistic version check on the update. Recording a decision and resolving
// roles happen outside the request lock.
type RequestService struct {
	db           *gorm.DB
	templates    *TemplateService
	resolver     *ApproverResolver
	ledger       *DecisionLedger
	audit        *AuditTrail
	stateMachine *RequestStateMachine
	locks        *lockTable
	sink         events.Sink
	now          func() time.Time
}

func NewRequestService(
	db *gorm.DB,
	templates *TemplateService,
	resolver *ApproverResolver,
	ledger *DecisionLedger,
	audit *AuditTrail,
	sink events.Sink,
) *RequestService {
	if sink == nil {
		sink = events.Discard
	}
	return &RequestService{
		db:           db,
		templates:    templates,
		resolver:     resolver,
		ledger:       ledger,
		audit:        audit,
		stateMachine: NewRequestStateMachine(),
		locks:        newLockTable(),
		sink:         sink,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// transitionFunc mutates a locked request inside a transaction and returns the
// audit entry it wrote, or nil when nothing was recorded.
type transitionFunc func(tx *gorm.DB, request *model.ApprovalRequest) (*model.AuditEntry, error)

// CreateDraft stores a new request in DRAFT. Creation is not a transition and writes no audit entry.
func (s *RequestService) CreateDraft(ctx context.Context, requesterID string, req *model.CreateRequestDTO) (*model.ApprovalRequest, error) {
	if err := validateCreateRequest(requesterID, req); err != nil {
		return nil, err
	}
	if _, err := s.templates.GetTemplate(ctx, req.WorkflowTemplateID); err != nil {
		return nil, err
	}

	request := newDraft(requesterID, req)
	if err := s.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, model.NewStorageError("create approval request", err)
	}

	slog.InfoContext(ctx, "approval request drafted",
		"requestID", request.ID,
		"templateID", request.WorkflowTemplateID,
		"requesterID", requesterID)

	return request, nil
}

// Start creates a request from a template and submits it in one transaction.
func (s *RequestService) Start(ctx context.Context, requesterID string, req *model.CreateRequestDTO) (*model.RequestSnapshot, error) {
	if err := validateCreateRequest(requesterID, req); err != nil {
		return nil, err
	}
	template, err := s.templates.GetTemplate(ctx, req.WorkflowTemplateID)
	if err != nil {
		return nil, err
	}

	request := newDraft(requesterID, req)
	var entry *model.AuditEntry
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(request).Error; err != nil {
			return model.NewStorageError("create approval request", err)
		}
		var err error
		entry, err = s.submitInTx(ctx, tx, request, template, requesterID)
		return err
	})
	if err != nil {
		return nil, asAppError("start approval request", err)
	}

	s.publish(ctx, request, entry)
	return s.snapshot(ctx, request, template, requesterID)
}

// Submit moves a DRAFT request owned by requesterID to IN_PROGRESS at step 0.
func (s *RequestService) Submit(ctx context.Context, requestID uuid.UUID, requesterID string) (*model.RequestSnapshot, error) {
	current, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	template, err := s.templates.GetTemplate(ctx, current.WorkflowTemplateID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(requestID)
	request, entry, err := s.transition(ctx, requestID, func(tx *gorm.DB, request *model.ApprovalRequest) (*model.AuditEntry, error) {
		if request.Status != model.RequestStatusDraft {
			return nil, &model.InvalidStateError{RequestID: requestID, Status: request.Status, Operation: "submit"}
		}
		if request.RequesterID != requesterID {
			return nil, &model.AuthorizationError{PrincipalID: requesterID, Action: "submit", RequestID: requestID, Reason: "only the requester may submit"}
		}
		return s.submitInTx(ctx, tx, request, template, requesterID)
	})
	unlock()
	if err != nil {
		return nil, err
	}

	s.publish(ctx, request, entry)
	return s.snapshot(ctx, request, template, requesterID)
}

// Decide records an approver's decision on the current step and applies its consequence.
//
// The decision is validated and written to the ledger first. The request is then
// re-read under its lock; if it has moved on in the meantime the decision stays
// recorded but has no effect on the request. The result carries the request
// snapshot as the approver now sees it.
func (s *RequestService) Decide(ctx context.Context, requestID uuid.UUID, approverID string, req *model.DecideDTO) (*model.DecisionResult, error) {
	if req == nil {
		return nil, model.NewValidationError("body", "decision is required")
	}
	if strings.TrimSpace(approverID) == "" {
		return nil, model.NewValidationError("approverId", "must not be empty")
	}
	if !req.Outcome.IsValid() {
		return nil, model.NewValidationError("outcome", "must be one of APPROVED, REJECTED, CHANGES_REQUESTED")
	}

	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != model.RequestStatusInProgress {
		return nil, &model.InvalidStateError{RequestID: requestID, Status: request.Status, Operation: "decide on"}
	}
	stepIndex := request.StepIndex()
	if req.StepIndex != nil && *req.StepIndex != stepIndex {
		return nil, &model.InvalidStateError{
			RequestID: requestID,
			Status:    request.Status,
			Operation: "decide on",
			Reason:    fmt.Sprintf("step %d is not the current step %d", *req.StepIndex, stepIndex),
		}
	}

	template, err := s.templates.GetTemplate(ctx, request.WorkflowTemplateID)
	if err != nil {
		return nil, err
	}
	step, ok := template.Step(stepIndex)
	if !ok {
		return nil, fmt.Errorf("template %s has no step %d", template.ID, stepIndex)
	}
	eligible, err := s.resolver.EligibleApprovers(ctx, step, request.OrgID)
	if err != nil {
		return nil, err
	}
	if !containsPrincipal(eligible, approverID) {
		return nil, &model.AuthorizationError{
			PrincipalID: approverID,
			Action:      "decide on",
			RequestID:   requestID,
			Reason:      fmt.Sprintf("not an eligible approver for step %d", stepIndex),
		}
	}

	decision, err := s.ledger.Record(ctx, RecordInput{
		RequestID:  requestID,
		StepIndex:  stepIndex,
		Round:      request.Round,
		ApproverID: approverID,
		Outcome:    req.Outcome,
		Comment:    req.Comment,
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "decision recorded",
		"requestID", requestID,
		"stepIndex", stepIndex,
		"round", request.Round,
		"approverID", approverID,
		"outcome", decision.Outcome)

	return s.applyDecision(ctx, template, step, eligible, decision)
}

// applyDecision evaluates the decision's step under the request lock and performs the resulting transition.
// eligible is resolved by the caller before the lock is taken.
func (s *RequestService) applyDecision(
	ctx context.Context,
	template *model.WorkflowTemplate,
	step model.StepDefinition,
	eligible []string,
	decision *model.Decision,
) (*model.DecisionResult, error) {
	superseded := false
	unlock := s.locks.Lock(decision.RequestID)
	request, entry, err := s.transition(ctx, decision.RequestID, func(tx *gorm.DB, request *model.ApprovalRequest) (*model.AuditEntry, error) {
		if !request.IsAtStep(decision.StepIndex, decision.Round) {
			superseded = true
			return s.recordSupersededInTx(ctx, tx, request, decision)
		}

		decisions, err := s.ledger.ForStepInTx(ctx, tx, request.ID, decision.StepIndex, decision.Round)
		if err != nil {
			return nil, err
		}
		verdict := Evaluate(step, decisions, eligible)
		tally := CountDecisions(decisions, eligible)
		return s.applyVerdictInTx(ctx, tx, request, template, step, verdict, tally, decision)
	})
	unlock()
	if err != nil {
		return nil, err
	}

	s.publish(ctx, request, entry)

	result := &model.DecisionResult{
		Decision:   *decision,
		Superseded: superseded,
	}
	if entry != nil {
		result.Action = entry.Action
	}

	snapshot, err := s.snapshot(ctx, request, template, decision.ApproverID)
	if err != nil {
		slog.WarnContext(ctx, "failed to build snapshot after decision",
			"requestID", request.ID,
			"decisionID", decision.ID,
			"error", err)
		snapshot = &model.RequestSnapshot{Request: *request}
	}
	result.RequestSnapshot = *snapshot
	return result, nil
}

// applyVerdictInTx performs the transition that follows from a step verdict and writes its audit entry.
func (s *RequestService) applyVerdictInTx(
	ctx context.Context,
	tx *gorm.DB,
	request *model.ApprovalRequest,
	template *model.WorkflowTemplate,
	step model.StepDefinition,
	verdict Verdict,
	tally Tally,
	decision *model.Decision,
) (*model.AuditEntry, error) {
	fromStatus := request.Status
	fromStep := copyIntPtr(request.CurrentStepIndex)
	details := model.AuditDetails{
		"decisionId":   decision.ID.String(),
		"approverId":   decision.ApproverID,
		"outcome":      string(decision.Outcome),
		"policy":       step.Policy.String(),
		"verdict":      string(verdict),
		"approvals":    tally.Approvals,
		"nonApprovals": tally.NonApprovals,
		"eligible":     tally.Eligible,
	}

	var action model.AuditAction
	switch verdict {
	case VerdictPending:
		action = model.AuditActionDecisionRecorded
	case VerdictSatisfied:
		if step.Index+1 < template.StepCount() {
			if err := s.moveTo(request, TransitionAdvance, intPtr(step.Index+1)); err != nil {
				return nil, err
			}
			action = model.AuditActionStepAdvanced
		} else {
			if err := s.moveTo(request, TransitionApprove, nil); err != nil {
				return nil, err
			}
			action = model.AuditActionApproved
		}
	case VerdictBlocked:
		details["onReject"] = string(step.RejectBehavior())
		if step.RejectBehavior() == model.RejectActionReturnPrevious && step.Index > 0 {
			if err := s.moveTo(request, TransitionReturn, intPtr(step.Index-1)); err != nil {
				return nil, err
			}
			action = model.AuditActionStepReturned
		} else {
			if step.RejectBehavior() == model.RejectActionReturnPrevious {
				details["returnedFromFirstStep"] = true
			}
			if err := s.moveTo(request, TransitionReject, nil); err != nil {
				return nil, err
			}
			action = model.AuditActionRejected
		}
	default:
		return nil, fmt.Errorf("unknown verdict %q", verdict)
	}

	if action != model.AuditActionDecisionRecorded {
		if err := s.persistInTx(ctx, tx, request); err != nil {
			return nil, err
		}
	}

	return s.audit.AppendInTx(ctx, tx, AppendInput{
		RequestID:  request.ID,
		Action:     action,
		ActorID:    decision.ApproverID,
		FromStatus: fromStatus,
		ToStatus:   request.Status,
		FromStep:   fromStep,
		ToStep:     request.CurrentStepIndex,
		Details:    details,
	})
}

// recordSupersededInTx notes a decision that arrived after its step was already resolved.
// Nothing is written once the request is terminal.
func (s *RequestService) recordSupersededInTx(ctx context.Context, tx *gorm.DB, request *model.ApprovalRequest, decision *model.Decision) (*model.AuditEntry, error) {
	slog.InfoContext(ctx, "decision superseded by an earlier transition",
		"requestID", request.ID,
		"decisionID", decision.ID,
		"decisionStep", decision.StepIndex,
		"currentStatus", request.Status)

	if request.Status != model.RequestStatusInProgress {
		return nil, nil
	}
	return s.audit.AppendInTx(ctx, tx, AppendInput{
		RequestID:  request.ID,
		Action:     model.AuditActionDecisionRecorded,
		ActorID:    decision.ApproverID,
		FromStatus: request.Status,
		ToStatus:   request.Status,
		FromStep:   request.CurrentStepIndex,
		ToStep:     request.CurrentStepIndex,
		Details: model.AuditDetails{
			"decisionId":   decision.ID.String(),
			"approverId":   decision.ApproverID,
			"outcome":      string(decision.Outcome),
			"decisionStep": decision.StepIndex,
			"superseded":   true,
		},
	})
}

// Cancel withdraws a non-terminal request. Only the requester may cancel.
func (s *RequestService) Cancel(ctx context.Context, requestID uuid.UUID, requesterID string) (*model.ApprovalRequest, error) {
	unlock := s.locks.Lock(requestID)
	request, entry, err := s.transition(ctx, requestID, func(tx *gorm.DB, request *model.ApprovalRequest) (*model.AuditEntry, error) {
		if request.Status.IsTerminal() {
			return nil, &model.InvalidStateError{RequestID: requestID, Status: request.Status, Operation: "cancel"}
		}
		if request.RequesterID != requesterID {
			return nil, &model.AuthorizationError{PrincipalID: requesterID, Action: "cancel", RequestID: requestID, Reason: "only the requester may cancel"}
		}
		return s.closeInTx(ctx, tx, request, TransitionCancel, model.AuditActionCancelled, requesterID, nil)
	})
	unlock()
	if err != nil {
		return nil, err
	}

	s.publish(ctx, request, entry)
	return request, nil
}

// Expire cancels a non-terminal request on behalf of an external scheduler.
func (s *RequestService) Expire(ctx context.Context, requestID uuid.UUID, reason string) (*model.ApprovalRequest, error) {
	unlock := s.locks.Lock(requestID)
	request, entry, err := s.transition(ctx, requestID, func(tx *gorm.DB, request *model.ApprovalRequest) (*model.AuditEntry, error) {
		if request.Status.IsTerminal() {
			return nil, &model.InvalidStateError{RequestID: requestID, Status: request.Status, Operation: "expire"}
		}
		details := model.AuditDetails{}
		if reason != "" {
			details["reason"] = reason
		}
		return s.closeInTx(ctx, tx, request, TransitionExpire, model.AuditActionExpired, SystemActorID, details)
	})
	unlock()
	if err != nil {
		return nil, err
	}

	s.publish(ctx, request, entry)
	return request, nil
}

// GetRequest returns the request with its decisions and whether callerID may decide now.
func (s *RequestService) GetRequest(ctx context.Context, requestID uuid.UUID, callerID string) (*model.RequestSnapshot, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	template, err := s.templates.GetTemplate(ctx, request.WorkflowTemplateID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(ctx, request, template, callerID)
}

// History returns the request's audit trail in sequence order.
func (s *RequestService) History(ctx context.Context, requestID uuid.UUID) ([]model.AuditEntry, error) {
	if _, err := s.getRequest(ctx, requestID); err != nil {
		return nil, err
	}
	return s.audit.History(ctx, requestID)
}

// ListRequests returns a page of requests, newest first.
func (s *RequestService) ListRequests(ctx context.Context, filter model.RequestFilter) (*model.RequestListResult, error) {
	offset, limit := utils.GetPaginationParams(filter.Offset, filter.Limit)

	query := s.db.WithContext(ctx).Model(&model.ApprovalRequest{})
	if filter.RequesterID != nil {
		query = query.Where("requester_id = ?", *filter.RequesterID)
	}
	if filter.OrgID != nil {
		query = query.Where("org_id = ?", *filter.OrgID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, model.NewStorageError("count approval requests", err)
	}

	requests := make([]model.ApprovalRequest, 0)
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return nil, model.NewStorageError("list approval requests", err)
	}

	return &model.RequestListResult{
		TotalCount: total,
		Items:      requests,
		Offset:     offset,
		Limit:      limit,
	}, nil
}

// transition runs fn against the request row locked for update. The caller holds the request lock.
func (s *RequestService) transition(ctx context.Context, requestID uuid.UUID, fn transitionFunc) (*model.ApprovalRequest, *model.AuditEntry, error) {
	var request *model.ApprovalRequest
	var entry *model.AuditEntry

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.lockRequestInTx(ctx, tx, requestID)
		if err != nil {
			return err
		}
		entry, err = fn(tx, locked)
		if err != nil {
			return err
		}
		request = locked
		return nil
	})
	if err != nil {
		return nil, nil, asAppError("transition approval request", err)
	}
	return request, entry, nil
}

func (s *RequestService) submitInTx(ctx context.Context, tx *gorm.DB, request *model.ApprovalRequest, template *model.WorkflowTemplate, actorID string) (*model.AuditEntry, error) {
	fromStatus := request.Status
	if err := s.moveTo(request, TransitionSubmit, intPtr(0)); err != nil {
		return nil, err
	}
	submittedAt := s.now()
	request.SubmittedAt = &submittedAt
	if err := s.persistInTx(ctx, tx, request); err != nil {
		return nil, err
	}

	first, _ := template.Step(0)
	return s.audit.AppendInTx(ctx, tx, AppendInput{
		RequestID:  request.ID,
		Action:     model.AuditActionSubmitted,
		ActorID:    actorID,
		FromStatus: fromStatus,
		ToStatus:   request.Status,
		FromStep:   nil,
		ToStep:     request.CurrentStepIndex,
		Details: model.AuditDetails{
			"templateId": template.ID.String(),
			"stepCount":  template.StepCount(),
			"policy":     first.Policy.String(),
		},
	})
}

func (s *RequestService) closeInTx(
	ctx context.Context,
	tx *gorm.DB,
	request *model.ApprovalRequest,
	via RequestTransition,
	action model.AuditAction,
	actorID string,
	details model.AuditDetails,
) (*model.AuditEntry, error) {
	fromStatus := request.Status
	fromStep := copyIntPtr(request.CurrentStepIndex)
	if err := s.moveTo(request, via, nil); err != nil {
		return nil, err
	}
	if err := s.persistInTx(ctx, tx, request); err != nil {
		return nil, err
	}
	return s.audit.AppendInTx(ctx, tx, AppendInput{
		RequestID:  request.ID,
		Action:     action,
		ActorID:    actorID,
		FromStatus: fromStatus,
		ToStatus:   request.Status,
		FromStep:   fromStep,
		ToStep:     nil,
		Details:    details,
	})
}

// moveTo applies a state machine transition to the in-memory request. Entering a
// step starts a new round; leaving IN_PROGRESS clears the step and sets completion time.
func (s *RequestService) moveTo(request *model.ApprovalRequest, via RequestTransition, stepIndex *int) error {
	next, err := s.stateMachine.Transition(request.Status, via)
	if err != nil {
		return &model.InvalidStateError{RequestID: request.ID, Status: request.Status, Operation: strings.ToLower(string(via)), Reason: err.Error()}
	}

	request.Status = next
	if next == model.RequestStatusInProgress {
		request.CurrentStepIndex = stepIndex
		request.Round++
		return nil
	}

	request.CurrentStepIndex = nil
	if next.IsTerminal() {
		completedAt := s.now()
		request.CompletedAt = &completedAt
	}
	return nil
}

// persistInTx writes the request's lifecycle fields if its version is unchanged.
func (s *RequestService) persistInTx(ctx context.Context, tx *gorm.DB, request *model.ApprovalRequest) error {
	version := request.Version
	now := s.now()
	result := tx.WithContext(ctx).
		Model(&model.ApprovalRequest{}).
		Where("id = ? AND version = ?", request.ID, version).
		Updates(map[string]any{
			"status":             request.Status,
			"current_step_index": request.CurrentStepIndex,
			"round":              request.Round,
			"version":            version + 1,
			"submitted_at":       request.SubmittedAt,
			"completed_at":       request.CompletedAt,
			"updated_at":         now,
		})
	if result.Error != nil {
		return model.NewStorageError("update approval request", result.Error)
	}
	if result.RowsAffected == 0 {
		return &model.ConflictError{
			Kind:    model.ConflictConcurrentModification,
			Message: fmt.Sprintf("approval request %s was modified concurrently", request.ID),
		}
	}
	request.Version = version + 1
	request.UpdatedAt = now
	return nil
}

func (s *RequestService) lockRequestInTx(ctx context.Context, tx *gorm.DB, requestID uuid.UUID) (*model.ApprovalRequest, error) {
	var request model.ApprovalRequest
	result := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&request, "id = ?", requestID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.NewNotFoundError("approval request", requestID)
		}
		return nil, model.NewStorageError("lock approval request", result.Error)
	}
	return &request, nil
}

func (s *RequestService) getRequest(ctx context.Context, requestID uuid.UUID) (*model.ApprovalRequest, error) {
	if requestID == uuid.Nil {
		return nil, model.NewValidationError("requestId", "must not be empty")
	}
	var request model.ApprovalRequest
	result := s.db.WithContext(ctx).First(&request, "id = ?", requestID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.NewNotFoundError("approval request", requestID)
		}
		return nil, model.NewStorageError("get approval request", result.Error)
	}
	return &request, nil
}

func (s *RequestService) snapshot(ctx context.Context, request *model.ApprovalRequest, template *model.WorkflowTemplate, callerID string) (*model.RequestSnapshot, error) {
	decisions, err := s.ledger.ForRequest(ctx, request.ID)
	if err != nil {
		return nil, err
	}

	snapshot := &model.RequestSnapshot{
		Request:   *request,
		Decisions: decisions,
	}
	if request.Status != model.RequestStatusInProgress {
		return snapshot, nil
	}

	step, ok := template.Step(request.StepIndex())
	if !ok {
		return snapshot, nil
	}
	snapshot.CurrentStep = &step

	if callerID == "" {
		return snapshot, nil
	}
	eligible, err := s.resolver.EligibleApprovers(ctx, step, request.OrgID)
	if err != nil {
		return nil, err
	}
	if !containsPrincipal(eligible, callerID) {
		return snapshot, nil
	}
	for _, d := range decisions {
		if d.StepIndex == step.Index && d.Round == request.Round && d.ApproverID == callerID {
			return snapshot, nil
		}
	}
	snapshot.CanDecide = true
	return snapshot, nil
}

// publish emits the event for a committed transition. Failures are logged and never undo the transition.
func (s *RequestService) publish(ctx context.Context, request *model.ApprovalRequest, entry *model.AuditEntry) {
	if request == nil || entry == nil {
		return
	}
	event := events.FromAudit(request, entry)
	if err := s.sink.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish approval event",
			"requestID", request.ID,
			"eventType", event.Type,
			"sequence", entry.Sequence,
			"error", err)
		return
	}
	slog.DebugContext(ctx, "approval event published",
		"requestID", request.ID,
		"eventType", event.Type,
		"sequence", entry.Sequence)
}

func validateCreateRequest(requesterID string, req *model.CreateRequestDTO) error {
	if req == nil {
		return model.NewValidationError("body", "request is required")
	}
	if strings.TrimSpace(requesterID) == "" {
		return model.NewValidationError("requesterId", "must not be empty")
	}
	if req.WorkflowTemplateID == uuid.Nil {
		return model.NewValidationError("workflowTemplateId", "must not be empty")
	}
	if strings.TrimSpace(req.OrgID) == "" {
		return model.NewValidationError("orgId", "must not be empty")
	}
	if strings.TrimSpace(req.SubjectRef) == "" {
		return model.NewValidationError("subjectRef", "must not be empty")
	}
	return nil
}

func newDraft(requesterID string, req *model.CreateRequestDTO) *model.ApprovalRequest {
	return &model.ApprovalRequest{
		WorkflowTemplateID: req.WorkflowTemplateID,
		RequesterID:        requesterID,
		OrgID:              req.OrgID,
		SubjectRef:         req.SubjectRef,
		Status:             model.RequestStatusDraft,
		Round:              0,
		Version:            1,
	}
}
