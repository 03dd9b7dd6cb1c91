package directory

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wewinbid/approval-engine/internal/workflow/model"
)

// RoleMembership records that a principal holds a role within an organization.
type RoleMembership struct {
	OrgID       string    `gorm:"type:varchar(255);column:org_id;primaryKey" json:"orgId"`
	Role        string    `gorm:"type:varchar(255);column:role;primaryKey" json:"role"`
	PrincipalID string    `gorm:"type:varchar(255);column:principal_id;primaryKey" json:"principalId"`
	CreatedAt   time.Time `gorm:"column:created_at;not null" json:"createdAt"`
}

func (RoleMembership) TableName() string {
	return "role_memberships"
}

// Directory is the database-backed role directory. Lookups always hit the
// database so membership changes are visible to the next evaluation.
type Directory struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// MembersOfRole returns the principals holding role in orgID, sorted by id.
func (d *Directory) MembersOfRole(ctx context.Context, orgID, role string) ([]string, error) {
	if orgID == "" || role == "" {
		return nil, model.NewValidationError("role", "org ID and role are required")
	}

	members := make([]string, 0)
	result := d.db.WithContext(ctx).
		Model(&RoleMembership{}).
		Where("org_id = ? AND role = ?", orgID, role).
		Order("principal_id ASC").
		Pluck("principal_id", &members)
	if result.Error != nil {
		slog.ErrorContext(ctx, "failed to fetch role members",
			"orgID", orgID,
			"role", role,
			"error", result.Error)
		return nil, model.NewStorageError("fetch role members", result.Error)
	}
	return members, nil
}

// AddMember grants role to principalID. Adding an existing membership is a no-op.
func (d *Directory) AddMember(ctx context.Context, orgID, role, principalID string) error {
	if err := validateMembership(orgID, role, principalID); err != nil {
		return err
	}

	membership := RoleMembership{
		OrgID:       orgID,
		Role:        role,
		PrincipalID: principalID,
		CreatedAt:   time.Now().UTC(),
	}
	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&membership)
	if result.Error != nil {
		return model.NewStorageError("add role member", result.Error)
	}

	slog.InfoContext(ctx, "role member added",
		"orgID", orgID,
		"role", role,
		"principalID", principalID)
	return nil
}

// RemoveMember revokes role from principalID. Removing a missing membership is a no-op.
func (d *Directory) RemoveMember(ctx context.Context, orgID, role, principalID string) error {
	if err := validateMembership(orgID, role, principalID); err != nil {
		return err
	}

	result := d.db.WithContext(ctx).
		Where("org_id = ? AND role = ? AND principal_id = ?", orgID, role, principalID).
		Delete(&RoleMembership{})
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return model.NewStorageError("remove role member", result.Error)
	}

	slog.InfoContext(ctx, "role member removed",
		"orgID", orgID,
		"role", role,
		"principalID", principalID,
		"removed", result.RowsAffected)
	return nil
}

func validateMembership(orgID, role, principalID string) error {
	var missing []string
	if strings.TrimSpace(orgID) == "" {
		missing = append(missing, "org ID")
	}
	if strings.TrimSpace(role) == "" {
		missing = append(missing, "role")
	}
	if strings.TrimSpace(principalID) == "" {
		missing = append(missing, "principal ID")
	}
	if len(missing) > 0 {
		return model.NewValidationError("membership", strings.Join(missing, ", ")+" required")
	}
	return nil
}
