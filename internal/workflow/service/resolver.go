package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/wewinbid/approval-engine/internal/workflow/model"
)

// RoleDirectory answers who currently holds a role within an organization.
// It is consulted on every evaluation; membership changes apply to open steps.
type RoleDirectory interface {
	MembersOfRole(ctx context.Context, orgID, role string) ([]string, error)
}

// ApproverResolver expands approver specs into principal ids.
type ApproverResolver struct {
	directory RoleDirectory
}

func NewApproverResolver(directory RoleDirectory) *ApproverResolver {
	return &ApproverResolver{directory: directory}
}

// Resolve returns the principals matched by a single spec.
func (r *ApproverResolver) Resolve(ctx context.Context, spec model.ApproverSpec, orgID string) ([]string, error) {
	switch spec.Kind {
	case model.ApproverKindUser:
		return []string{spec.UserID}, nil
	case model.ApproverKindRole:
		if r.directory == nil {
			return nil, model.NewStorageError("resolve role "+spec.Role, fmt.Errorf("no role directory configured"))
		}
		members, err := r.directory.MembersOfRole(ctx, orgID, spec.Role)
		if err != nil {
			return nil, asAppError("resolve role "+spec.Role, err)
		}
		return members, nil
	default:
		return nil, fmt.Errorf("unknown approver kind %q", spec.Kind)
	}
}

// EligibleApprovers returns the de-duplicated, sorted union of principals for every approver spec of a step.
func (r *ApproverResolver) EligibleApprovers(ctx context.Context, step model.StepDefinition, orgID string) ([]string, error) {
	set := make(map[string]struct{})
	for _, spec := range step.Approvers {
		principals, err := r.Resolve(ctx, spec, orgID)
		if err != nil {
			return nil, err
		}
		for _, p := range principals {
			if p != "" {
				set[p] = struct{}{}
			}
		}
	}

	eligible := make([]string, 0, len(set))
	for p := range set {
		eligible = append(eligible, p)
	}
	sort.Strings(eligible)
	return eligible, nil
}

func containsPrincipal(principals []string, id string) bool {
	for _, p := range principals {
		if p == id {
			return true
		}
	}
	return false
}
