package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wewinbid/approval-engine/internal/workflow/model"
)

// TemplateCatalog defines the workflow catalog operations exposed over HTTP.
type TemplateCatalog interface {
	CreateTemplate(ctx context.Context, req *model.CreateTemplateDTO) (*model.WorkflowTemplate, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*model.WorkflowTemplate, error)
	ListTemplates(ctx context.Context, offset, limit *int) (*model.TemplateListResult, error)
}

type TemplateRouter struct {
	catalog TemplateCatalog
}

func NewTemplateRouter(catalog TemplateCatalog) *TemplateRouter {
	return &TemplateRouter{catalog: catalog}
}

// HandleCreateTemplate handles POST /api/v1/templates
// Request body: CreateTemplateDTO
// Response: WorkflowTemplate
func (tr *TemplateRouter) HandleCreateTemplate(c *gin.Context) {
	var req model.CreateTemplateDTO
	if !bindJSON(c, &req) {
		return
	}

	template, err := tr.catalog.CreateTemplate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, template)
}

// HandleGetTemplate handles GET /api/v1/templates/:templateId
func (tr *TemplateRouter) HandleGetTemplate(c *gin.Context) {
	templateID, ok := uuidParam(c, "templateId")
	if !ok {
		return
	}

	template, err := tr.catalog.GetTemplate(c.Request.Context(), templateID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// HandleListTemplates handles GET /api/v1/templates
// Optional Query Filters: offset, limit
func (tr *TemplateRouter) HandleListTemplates(c *gin.Context) {
	offset, ok := intQuery(c, "offset")
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}

	result, err := tr.catalog.ListTemplates(c.Request.Context(), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
