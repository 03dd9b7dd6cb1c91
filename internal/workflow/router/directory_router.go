package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wewinbid/approval-engine/internal/config"
)

// RoleAdministration manages organization role memberships.
type RoleAdministration interface {
	MembersOfRole(ctx context.Context, orgID, role string) ([]string, error)
	AddMember(ctx context.Context, orgID, role, principalID string) error
	RemoveMember(ctx context.Context, orgID, role, principalID string) error
}

type DirectoryRouter struct {
	roles  RoleAdministration
	access config.AccessConfig
}

func NewDirectoryRouter(roles RoleAdministration, access config.AccessConfig) *DirectoryRouter {
	return &DirectoryRouter{roles: roles, access: access}
}

func (dr *DirectoryRouter) requireAdmin(c *gin.Context) bool {
	_, ok := requireOperator(c, dr.access.IsAdmin, "change role memberships", "not a configured administrator")
	return ok
}

// HandleListMembers handles GET /api/v1/orgs/:orgId/roles/:role/members
func (dr *DirectoryRouter) HandleListMembers(c *gin.Context) {
	orgID, role := c.Param("orgId"), c.Param("role")

	members, err := dr.roles.MembersOfRole(c.Request.Context(), orgID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orgId": orgID, "role": role, "members": members})
}

// HandleAddMember handles PUT /api/v1/orgs/:orgId/roles/:role/members/:principalId
// Only configured administrators may change memberships.
func (dr *DirectoryRouter) HandleAddMember(c *gin.Context) {
	if !dr.requireAdmin(c) {
		return
	}
	if err := dr.roles.AddMember(c.Request.Context(), c.Param("orgId"), c.Param("role"), c.Param("principalId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleRemoveMember handles DELETE /api/v1/orgs/:orgId/roles/:role/members/:principalId
func (dr *DirectoryRouter) HandleRemoveMember(c *gin.Context) {
	if !dr.requireAdmin(c) {
		return
	}
	if err := dr.roles.RemoveMember(c.Request.Context(), c.Param("orgId"), c.Param("role"), c.Param("principalId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
