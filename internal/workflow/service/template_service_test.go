package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wewinbid/approval-engine/internal/workflow/model"
)

func problemMessages(t *testing.T, err error) []string {
	t.Helper()
	var invalid *model.InvalidTemplateError
	require.ErrorAs(t, err, &invalid)
	messages := make([]string, 0, len(invalid.Problems))
	for _, p := range invalid.Problems {
		messages = append(messages, p.String())
	}
	return messages
}

func TestValidateTemplate(t *testing.T) {
	t.Run("sorts valid steps by index", func(t *testing.T) {
		steps, err := ValidateTemplate("purchase", []model.StepDefinition{
			userStep(1, allOf(), "carol"),
			userStep(0, anyOf(), "alice", "bob"),
		})
		require.NoError(t, err)
		require.Len(t, steps, 2)
		assert.Equal(t, 0, steps[0].Index)
		assert.Equal(t, 1, steps[1].Index)
	})

	tests := []struct {
		name     string
		tmplName string
		steps    []model.StepDefinition
		expected []string
	}{
		{
			name:     "empty name and no steps",
			tmplName: " ",
			expected: []string{"name: must not be empty", "steps: must contain at least one step"},
		},
		{
			name:     "duplicate index",
			tmplName: "dup",
			steps:    []model.StepDefinition{userStep(0, anyOf(), "alice"), userStep(0, anyOf(), "bob")},
			expected: []string{"steps: step index 1 is missing", "step 0 index: is used by 2 steps"},
		},
		{
			name:     "gap in indices",
			tmplName: "gap",
			steps:    []model.StepDefinition{userStep(0, anyOf(), "alice"), userStep(2, anyOf(), "bob")},
			expected: []string{"steps: step index 1 is missing", "step 2 index: must be between 0 and 1"},
		},
		{
			name:     "threshold above approver count",
			tmplName: "threshold",
			steps:    []model.StepDefinition{userStep(0, atLeast(3), "alice", "bob")},
			expected: []string{"step 0 policy.threshold: must be between 1 and 2, got 3"},
		},
		{
			name:     "threshold zero",
			tmplName: "threshold",
			steps:    []model.StepDefinition{userStep(0, atLeast(0), "alice")},
			expected: []string{"step 0 policy.threshold: must be between 1 and 1, got 0"},
		},
		{
			name:     "unknown policy and reject action",
			tmplName: "unknown",
			steps: []model.StepDefinition{{
				Index:     0,
				Policy:    model.ApprovalPolicy{Kind: "MAJORITY"},
				Approvers: []model.ApproverSpec{{Kind: model.ApproverKindUser, UserID: "alice"}},
				OnReject:  "ESCALATE",
			}},
			expected: []string{`step 0 policy.kind: unknown policy "MAJORITY"`, `step 0 onReject: unknown reject action "ESCALATE"`},
		},
		{
			name:     "no approvers",
			tmplName: "empty",
			steps:    []model.StepDefinition{{Index: 0, Policy: anyOf()}},
			expected: []string{"step 0 approvers: must contain at least one approver"},
		},
		{
			name:     "malformed approver specs",
			tmplName: "specs",
			steps: []model.StepDefinition{{
				Index:  0,
				Policy: anyOf(),
				Approvers: []model.ApproverSpec{
					{Kind: model.ApproverKindUser},
					{Kind: model.ApproverKindRole},
					{Kind: "GROUP", Role: "x"},
					{Kind: model.ApproverKindRole, Role: "finance"},
					{Kind: model.ApproverKindRole, Role: "finance"},
				},
			}},
			expected: []string{
				"step 0 approvers[0]: USER approver requires userId",
				"step 0 approvers[1]: ROLE approver requires role",
				`step 0 approvers[2]: unknown approver kind "GROUP"`,
				"step 0 approvers[4]: duplicate approver role:finance",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := ValidateTemplate(tt.tmplName, tt.steps)
			assert.Nil(t, steps)
			assert.ElementsMatch(t, tt.expected, problemMessages(t, err))
		})
	}
}

func TestValidateTemplate_ProblemsOrderedByStep(t *testing.T) {
	_, err := ValidateTemplate("", []model.StepDefinition{
		{Index: 1, Policy: anyOf()},
		{Index: 0, Policy: anyOf()},
	})

	var invalid *model.InvalidTemplateError
	require.ErrorAs(t, err, &invalid)
	require.Len(t, invalid.Problems, 3)
	assert.Nil(t, invalid.Problems[0].StepIndex)
	assert.Equal(t, 0, *invalid.Problems[1].StepIndex)
	assert.Equal(t, 1, *invalid.Problems[2].StepIndex)
}

func TestTemplateService_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	service := NewTemplateService(db)
	ctx := context.Background()

	created, err := service.CreateTemplate(ctx, &model.CreateTemplateDTO{
		Name:        "  purchase order  ",
		Description: "two step purchase approval",
		Steps: []model.StepDefinition{
			userStep(1, allOf(), "carol"),
			{
				Index:     0,
				Policy:    anyOf(),
				Approvers: []model.ApproverSpec{{Kind: model.ApproverKindRole, Role: "manager"}},
				OnReject:  model.RejectActionTerminate,
			},
		},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "purchase order", created.Name)

	fetched, err := service.GetTemplate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, fetched.Name)
	require.Len(t, fetched.Steps, 2)
	assert.Equal(t, model.ApproverKindRole, fetched.Steps[0].Approvers[0].Kind)
	assert.Equal(t, "manager", fetched.Steps[0].Approvers[0].Role)
	assert.Equal(t, []model.ApproverSpec{{Kind: model.ApproverKindUser, UserID: "carol"}}, fetched.Steps[1].Approvers)

	t.Run("returned templates are copies", func(t *testing.T) {
		fetched.Steps[0].Approvers[0].Role = "mallory"
		again, err := service.GetTemplate(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "manager", again.Steps[0].Approvers[0].Role)
	})

	t.Run("stored templates cannot be updated", func(t *testing.T) {
		err := db.Model(&model.WorkflowTemplate{BaseModel: model.BaseModel{ID: created.ID}}).Update("name", "changed").Error
		assert.ErrorIs(t, err, model.ErrImmutableRecord)
	})
}

func TestTemplateService_CreateInvalid(t *testing.T) {
	service := NewTemplateService(setupTestDB(t))

	_, err := service.CreateTemplate(context.Background(), &model.CreateTemplateDTO{Name: "bad"})
	var invalid *model.InvalidTemplateError
	assert.ErrorAs(t, err, &invalid)

	_, err = service.CreateTemplate(context.Background(), nil)
	var validation *model.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestTemplateService_GetTemplateErrors(t *testing.T) {
	service := NewTemplateService(setupTestDB(t))
	ctx := context.Background()

	_, err := service.GetTemplate(ctx, uuid.Nil)
	var validation *model.ValidationError
	assert.ErrorAs(t, err, &validation)

	_, err = service.GetTemplate(ctx, uuid.New())
	var notFound *model.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestTemplateService_ListTemplates(t *testing.T) {
	service := NewTemplateService(setupTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := service.CreateTemplate(ctx, &model.CreateTemplateDTO{Name: name, Steps: []model.StepDefinition{userStep(0, anyOf(), "alice")}})
		require.NoError(t, err)
	}

	limit := 2
	page, err := service.ListTemplates(ctx, nil, &limit)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 0, page.Offset)
	assert.Equal(t, 2, page.Limit)

	offset := 2
	page, err = service.ListTemplates(ctx, &offset, &limit)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestTemplateService_StorageFailure(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	service := NewTemplateService(db)

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(`INSERT INTO "workflow_templates"`).WillReturnError(errors.New("connection reset"))
	sqlMock.ExpectRollback()

	_, err := service.CreateTemplate(context.Background(), &model.CreateTemplateDTO{
		Name:  "purchase",
		Steps: []model.StepDefinition{userStep(0, anyOf(), "alice")},
	})

	var storageErr *model.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "create workflow template", storageErr.Op)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
