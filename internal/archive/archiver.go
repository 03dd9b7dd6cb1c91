package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wewinbid/approval-engine/internal/events"
	"github.com/wewinbid/approval-engine/internal/workflow/model"
)

const contentTypeJSON = "application/json"

// HistorySource loads the audit trail of a request.
type HistorySource interface {
	History(ctx context.Context, requestID uuid.UUID) ([]model.AuditEntry, error)
}

// Record is the archived form of a finished request.
type Record struct {
	RequestID          uuid.UUID           `json:"requestId"`
	WorkflowTemplateID uuid.UUID           `json:"workflowTemplateId"`
	OrgID              string              `json:"orgId"`
	RequesterID        string              `json:"requesterId"`
	SubjectRef         string              `json:"subjectRef"`
	FinalStatus        model.RequestStatus `json:"finalStatus"`
	ArchivedAt         time.Time           `json:"archivedAt"`
	Entries            []model.AuditEntry  `json:"entries"`
}

// Archiver writes the full audit trail of a request to object storage once the
// request reaches a terminal status.
type Archiver struct {
	storage StorageDriver
	history HistorySource
}

func NewArchiver(storage StorageDriver, history HistorySource) *Archiver {
	return &Archiver{storage: storage, history: history}
}

// Register subscribes the archiver to every terminal event type on the bus.
func (a *Archiver) Register(bus *events.Bus) func() {
	unsubscribers := []func(){
		bus.Subscribe(events.TypeApproved, a.Handle),
		bus.Subscribe(events.TypeRejected, a.Handle),
		bus.Subscribe(events.TypeCancelled, a.Handle),
		bus.Subscribe(events.TypeExpired, a.Handle),
	}
	return func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
	}
}

// Handle archives the request named by a terminal event. Other events are ignored.
func (a *Archiver) Handle(ctx context.Context, event events.Event) error {
	if !event.IsTerminal() {
		return nil
	}

	entries, err := a.history.History(ctx, event.RequestID)
	if err != nil {
		return fmt.Errorf("failed to load history for archive: %w", err)
	}

	record := Record{
		RequestID:          event.RequestID,
		WorkflowTemplateID: event.WorkflowTemplateID,
		OrgID:              event.OrgID,
		RequesterID:        event.RequesterID,
		SubjectRef:         event.SubjectRef,
		FinalStatus:        event.Status,
		ArchivedAt:         time.Now().UTC(),
		Entries:            entries,
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal archive record: %w", err)
	}

	key := Key(event.RequestID)
	if err := a.storage.Save(ctx, key, bytes.NewReader(payload), contentTypeJSON); err != nil {
		return fmt.Errorf("failed to save archive record: %w", err)
	}

	slog.InfoContext(ctx, "request history archived",
		"requestID", event.RequestID,
		"status", event.Status,
		"entries", len(entries),
		"key", key)
	return nil
}

// Load reads back an archived record.
func (a *Archiver) Load(ctx context.Context, requestID uuid.UUID) (*Record, error) {
	body, _, err := a.storage.Get(ctx, Key(requestID))
	if err != nil {
		return nil, fmt.Errorf("failed to read archive record: %w", err)
	}
	defer body.Close()

	var record Record
	if err := json.NewDecoder(body).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode archive record: %w", err)
	}
	return &record, nil
}

// Key returns the storage key of a request's archive record.
func Key(requestID uuid.UUID) string {
	return "requests/" + requestID.String() + ".json"
}
