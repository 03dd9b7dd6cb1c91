package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wewinbid/approval-engine/internal/config"
	"github.com/wewinbid/approval-engine/internal/database"
	"github.com/wewinbid/approval-engine/internal/directory"
	"github.com/wewinbid/approval-engine/internal/events"
	"github.com/wewinbid/approval-engine/internal/workflow/model"
)

// setupTestDB opens a private in-memory SQLite database with the engine schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		LogLevel:   "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// setupMockDB returns a postgres-dialect GORM handle backed by sqlmock.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db, sqlMock
}

// recordingSink keeps every published event.
type recordingSink struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (s *recordingSink) Publish(_ context.Context, event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *recordingSink) Types() []events.Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]events.Type, 0, len(s.events))
	for _, e := range s.events {
		types = append(types, e.Type)
	}
	return types
}

type testEngine struct {
	db        *gorm.DB
	directory *directory.Directory
	templates *TemplateService
	ledger    *DecisionLedger
	audit     *AuditTrail
	requests  *RequestService
	sink      *recordingSink
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	db := setupTestDB(t)
	dir := directory.New(db)
	templates := NewTemplateService(db)
	ledger := NewDecisionLedger(db)
	audit := NewAuditTrail(db)
	sink := &recordingSink{}

	return &testEngine{
		db:        db,
		directory: dir,
		templates: templates,
		ledger:    ledger,
		audit:     audit,
		requests:  NewRequestService(db, templates, NewApproverResolver(dir), ledger, audit, sink),
		sink:      sink,
	}
}

func (e *testEngine) createTemplate(t *testing.T, steps ...model.StepDefinition) *model.WorkflowTemplate {
	t.Helper()
	template, err := e.templates.CreateTemplate(context.Background(), &model.CreateTemplateDTO{
		Name:  "test-template",
		Steps: steps,
	})
	require.NoError(t, err)
	return template
}

func (e *testEngine) start(t *testing.T, templateID uuid.UUID, requesterID string) *model.ApprovalRequest {
	t.Helper()
	snapshot, err := e.requests.Start(context.Background(), requesterID, &model.CreateRequestDTO{
		WorkflowTemplateID: templateID,
		OrgID:              "org-1",
		SubjectRef:         "invoice/42",
	})
	require.NoError(t, err)
	return &snapshot.Request
}

func (e *testEngine) decide(t *testing.T, requestID uuid.UUID, approverID string, outcome model.DecisionOutcome) *model.DecisionResult {
	t.Helper()
	result, err := e.requests.Decide(context.Background(), requestID, approverID, &model.DecideDTO{Outcome: outcome})
	require.NoError(t, err)
	return result
}

func (e *testEngine) actions(t *testing.T, requestID uuid.UUID) []model.AuditAction {
	t.Helper()
	entries, err := e.audit.History(context.Background(), requestID)
	require.NoError(t, err)
	actions := make([]model.AuditAction, 0, len(entries))
	for _, entry := range entries {
		actions = append(actions, entry.Action)
	}
	return actions
}

func userStep(index int, policy model.ApprovalPolicy, users ...string) model.StepDefinition {
	step := model.StepDefinition{Index: index, Policy: policy}
	for _, u := range users {
		step.Approvers = append(step.Approvers, model.ApproverSpec{Kind: model.ApproverKindUser, UserID: u})
	}
	return step
}

func anyOf() model.ApprovalPolicy { return model.ApprovalPolicy{Kind: model.PolicyAny} }
func allOf() model.ApprovalPolicy { return model.ApprovalPolicy{Kind: model.PolicyAll} }
func atLeast(n int) model.ApprovalPolicy {
	return model.ApprovalPolicy{Kind: model.PolicyThreshold, Threshold: n}
}
