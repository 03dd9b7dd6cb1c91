package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wewinbid/approval-engine/internal/workflow/model"
	"github.com/wewinbid/approval-engine/utils"
)

// TemplateService is the workflow catalog. Templates are validated on creation
// and never change afterwards.
type TemplateService struct {
	db *gorm.DB
}

func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{db: db}
}

// CreateTemplate validates and stores a new workflow template.
func (s *TemplateService) CreateTemplate(ctx context.Context, req *model.CreateTemplateDTO) (*model.WorkflowTemplate, error) {
	if req == nil {
		return nil, model.NewValidationError("body", "template definition is required")
	}

	steps, err := ValidateTemplate(req.Name, req.Steps)
	if err != nil {
		return nil, err
	}

	template := &model.WorkflowTemplate{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Steps:       steps,
	}
	if err := s.db.WithContext(ctx).Create(template).Error; err != nil {
		return nil, model.NewStorageError("create workflow template", err)
	}

	slog.InfoContext(ctx, "workflow template created",
		"templateID", template.ID,
		"name", template.Name,
		"steps", len(template.Steps))

	return template.Clone(), nil
}

// GetTemplate returns a copy of the template with the given id.
func (s *TemplateService) GetTemplate(ctx context.Context, id uuid.UUID) (*model.WorkflowTemplate, error) {
	if id == uuid.Nil {
		return nil, model.NewValidationError("templateId", "must not be empty")
	}

	var template model.WorkflowTemplate
	result := s.db.WithContext(ctx).First(&template, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.NewNotFoundError("workflow template", id)
		}
		return nil, model.NewStorageError("get workflow template", result.Error)
	}
	return template.Clone(), nil
}

// ListTemplates returns templates ordered by creation time, newest first.
func (s *TemplateService) ListTemplates(ctx context.Context, offset, limit *int) (*model.TemplateListResult, error) {
	finalOffset, finalLimit := utils.GetPaginationParams(offset, limit)

	var total int64
	if err := s.db.WithContext(ctx).Model(&model.WorkflowTemplate{}).Count(&total).Error; err != nil {
		return nil, model.NewStorageError("count workflow templates", err)
	}

	templates := make([]model.WorkflowTemplate, 0)
	result := s.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(finalOffset).
		Limit(finalLimit).
		Find(&templates)
	if result.Error != nil {
		return nil, model.NewStorageError("list workflow templates", result.Error)
	}

	return &model.TemplateListResult{
		TotalCount: total,
		Items:      templates,
		Offset:     finalOffset,
		Limit:      finalLimit,
	}, nil
}

// ValidateTemplate checks a template definition and returns its steps sorted by index.
// Every problem found is reported in a single InvalidTemplateError.
func ValidateTemplate(name string, steps []model.StepDefinition) ([]model.StepDefinition, error) {
	var problems []model.TemplateProblem

	if strings.TrimSpace(name) == "" {
		problems = append(problems, model.TemplateProblem{Field: "name", Message: "must not be empty"})
	}
	if len(steps) == 0 {
		problems = append(problems, model.TemplateProblem{Field: "steps", Message: "must contain at least one step"})
		return nil, &model.InvalidTemplateError{Problems: problems}
	}

	sorted := make([]model.StepDefinition, len(steps))
	for i, step := range steps {
		sorted[i] = step
		sorted[i].Approvers = append([]model.ApproverSpec(nil), step.Approvers...)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	seen := make(map[int]int, len(sorted))
	for _, step := range sorted {
		seen[step.Index]++
	}
	for index, count := range seen {
		if count > 1 {
			problems = append(problems, stepProblem(index, "index", fmt.Sprintf("is used by %d steps", count)))
		}
		if index < 0 || index >= len(sorted) {
			problems = append(problems, stepProblem(index, "index", fmt.Sprintf("must be between 0 and %d", len(sorted)-1)))
		}
	}
	for i := range sorted {
		if _, ok := seen[i]; !ok {
			problems = append(problems, model.TemplateProblem{Field: "steps", Message: fmt.Sprintf("step index %d is missing", i)})
		}
	}

	for _, step := range sorted {
		problems = append(problems, validateStep(step)...)
	}

	if len(problems) > 0 {
		sort.SliceStable(problems, func(i, j int) bool {
			return problemOrder(problems[i]) < problemOrder(problems[j])
		})
		return nil, &model.InvalidTemplateError{Problems: problems}
	}
	return sorted, nil
}

func validateStep(step model.StepDefinition) []model.TemplateProblem {
	var problems []model.TemplateProblem

	switch step.Policy.Kind {
	case model.PolicyAll, model.PolicyAny:
	case model.PolicyThreshold:
		if step.Policy.Threshold < 1 || step.Policy.Threshold > len(step.Approvers) {
			problems = append(problems, stepProblem(step.Index, "policy.threshold",
				fmt.Sprintf("must be between 1 and %d, got %d", len(step.Approvers), step.Policy.Threshold)))
		}
	default:
		problems = append(problems, stepProblem(step.Index, "policy.kind", fmt.Sprintf("unknown policy %q", step.Policy.Kind)))
	}

	switch step.OnReject {
	case "", model.RejectActionTerminate, model.RejectActionReturnPrevious:
	default:
		problems = append(problems, stepProblem(step.Index, "onReject", fmt.Sprintf("unknown reject action %q", step.OnReject)))
	}

	if len(step.Approvers) == 0 {
		problems = append(problems, stepProblem(step.Index, "approvers", "must contain at least one approver"))
		return problems
	}

	specs := make(map[string]struct{}, len(step.Approvers))
	for i, spec := range step.Approvers {
		field := fmt.Sprintf("approvers[%d]", i)
		switch spec.Kind {
		case model.ApproverKindUser:
			if strings.TrimSpace(spec.UserID) == "" {
				problems = append(problems, stepProblem(step.Index, field, "USER approver requires userId"))
				continue
			}
		case model.ApproverKindRole:
			if strings.TrimSpace(spec.Role) == "" {
				problems = append(problems, stepProblem(step.Index, field, "ROLE approver requires role"))
				continue
			}
		default:
			problems = append(problems, stepProblem(step.Index, field, fmt.Sprintf("unknown approver kind %q", spec.Kind)))
			continue
		}
		if _, dup := specs[spec.Key()]; dup {
			problems = append(problems, stepProblem(step.Index, field, fmt.Sprintf("duplicate approver %s", spec.Key())))
			continue
		}
		specs[spec.Key()] = struct{}{}
	}

	return problems
}

func stepProblem(index int, field, message string) model.TemplateProblem {
	return model.TemplateProblem{StepIndex: &index, Field: field, Message: message}
}

// problemOrder keeps template-level problems first, then steps in index order.
func problemOrder(p model.TemplateProblem) int {
	if p.StepIndex == nil {
		return -1 << 31
	}
	return *p.StepIndex
}
