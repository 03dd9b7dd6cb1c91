package service

import (
	"fmt"

	"github.com/wewinbid/approval-engine/internal/workflow/model"
)

// RequestTransition is an action that moves an approval request between statuses.
type RequestTransition string

const (
	TransitionSubmit  RequestTransition = "SUBMIT"
	TransitionAdvance RequestTransition = "ADVANCE"
	TransitionReturn  RequestTransition = "RETURN"
	TransitionApprove RequestTransition = "APPROVE"
	TransitionReject  RequestTransition = "REJECT"
	TransitionCancel  RequestTransition = "CANCEL"
	TransitionExpire  RequestTransition = "EXPIRE"
)

type transitionKey struct {
	status     model.RequestStatus
	transition RequestTransition
}

// RequestStateMachine enforces the request lifecycle:
//
//	DRAFT ──Submit──► IN_PROGRESS ──Approve──► APPROVED
//	  │                │  ▲    │
//	  │        Advance/Return  └──Reject──► REJECTED
//	  │
//	  └──Cancel/Expire──► CANCELLED ◄──Cancel/Expire── IN_PROGRESS
//
// Terminal statuses accept no transitions.
type RequestStateMachine struct {
	transitions map[transitionKey]model.RequestStatus
}

func NewRequestStateMachine() *RequestStateMachine {
	sm := &RequestStateMachine{
		transitions: make(map[transitionKey]model.RequestStatus),
	}

	sm.addTransition(model.RequestStatusDraft, TransitionSubmit, model.RequestStatusInProgress)
	sm.addTransition(model.RequestStatusDraft, TransitionCancel, model.RequestStatusCancelled)
	sm.addTransition(model.RequestStatusDraft, TransitionExpire, model.RequestStatusCancelled)
	sm.addTransition(model.RequestStatusInProgress, TransitionAdvance, model.RequestStatusInProgress)
	sm.addTransition(model.RequestStatusInProgress, TransitionReturn, model.RequestStatusInProgress)
	sm.addTransition(model.RequestStatusInProgress, TransitionApprove, model.RequestStatusApproved)
	sm.addTransition(model.RequestStatusInProgress, TransitionReject, model.RequestStatusRejected)
	sm.addTransition(model.RequestStatusInProgress, TransitionCancel, model.RequestStatusCancelled)
	sm.addTransition(model.RequestStatusInProgress, TransitionExpire, model.RequestStatusCancelled)

	return sm
}

func (sm *RequestStateMachine) addTransition(from model.RequestStatus, via RequestTransition, to model.RequestStatus) {
	sm.transitions[transitionKey{status: from, transition: via}] = to
}

// Transition returns the status reached from current via action, or an error if the move is not allowed.
func (sm *RequestStateMachine) Transition(current model.RequestStatus, action RequestTransition) (model.RequestStatus, error) {
	next, ok := sm.transitions[transitionKey{status: current, transition: action}]
	if !ok {
		return current, fmt.Errorf("invalid state transition: cannot %s from %s", action, current)
	}
	return next, nil
}

func (sm *RequestStateMachine) CanTransition(current model.RequestStatus, action RequestTransition) bool {
	_, ok := sm.transitions[transitionKey{status: current, transition: action}]
	return ok
}

// ValidTransitions returns every action allowed from status.
func (sm *RequestStateMachine) ValidTransitions(status model.RequestStatus) []RequestTransition {
	var result []RequestTransition
	for key := range sm.transitions {
		if key.status == status {
			result = append(result, key.transition)
		}
	}
	return result
}

func (sm *RequestStateMachine) IsTerminal(status model.RequestStatus) bool {
	return status.IsTerminal()
}
