package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/wewinbid/approval-engine/internal/directory"
	"github.com/wewinbid/approval-engine/internal/workflow/model"
)

// Models lists every table owned by the approval engine.
func Models() []any {
	return []any{
		&model.WorkflowTemplate{},
		&model.ApprovalRequest{},
		&model.Decision{},
		&model.AuditEntry{},
		&directory.RoleMembership{},
	}
}

// Migrate creates or updates the engine's tables and indexes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	slog.Info("database schema migrated", "tables", len(Models()))
	return nil
}
