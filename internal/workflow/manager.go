package workflow

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wewinbid/approval-engine/internal/config"
	"github.com/wewinbid/approval-engine/internal/directory"
	"github.com/wewinbid/approval-engine/internal/events"
	"github.com/wewinbid/approval-engine/internal/workflow/router"
	"github.com/wewinbid/approval-engine/internal/workflow/service"
)

// Manager wires the workflow catalog, approver resolution, decision ledger,
// audit trail and request lifecycle together and exposes them over HTTP.
type Manager struct {
	templateService *service.TemplateService
	resolver        *service.ApproverResolver
	ledger          *service.DecisionLedger
	auditTrail      *service.AuditTrail
	requestService  *service.RequestService
	templateRouter  *router.TemplateRouter
	requestRouter   *router.RequestRouter
	directoryRouter *router.DirectoryRouter
}

// NewManager creates a workflow manager backed by db. Lifecycle events are
// delivered to sink after each committed transition; a nil sink discards them.
// access names the principals allowed to expire requests and change role memberships.
func NewManager(db *gorm.DB, dir *directory.Directory, sink events.Sink, access config.AccessConfig) *Manager {
	// Initialize services
	templateService := service.NewTemplateService(db)
	resolver := service.NewApproverResolver(dir)
	ledger := service.NewDecisionLedger(db)
	auditTrail := service.NewAuditTrail(db)
	requestService := service.NewRequestService(db, templateService, resolver, ledger, auditTrail, sink)

	return &Manager{
		templateService: templateService,
		resolver:        resolver,
		ledger:          ledger,
		auditTrail:      auditTrail,
		requestService:  requestService,
		templateRouter:  router.NewTemplateRouter(templateService),
		requestRouter:   router.NewRequestRouter(requestService, access),
		directoryRouter: router.NewDirectoryRouter(dir, access),
	}
}

// RegisterRoutes mounts the workflow API under r.
func (m *Manager) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api/v1")

	templates := api.Group("/templates")
	templates.POST("", m.templateRouter.HandleCreateTemplate)
	templates.GET("", m.templateRouter.HandleListTemplates)
	templates.GET("/:templateId", m.templateRouter.HandleGetTemplate)

	requests := api.Group("/requests")
	requests.POST("", m.requestRouter.HandleCreateRequest)
	requests.GET("", m.requestRouter.HandleListRequests)
	requests.GET("/:requestId", m.requestRouter.HandleGetRequest)
	requests.POST("/:requestId/submit", m.requestRouter.HandleSubmitRequest)
	requests.POST("/:requestId/decisions", m.requestRouter.HandleDecide)
	requests.POST("/:requestId/cancel", m.requestRouter.HandleCancelRequest)
	requests.POST("/:requestId/expire", m.requestRouter.HandleExpireRequest)
	requests.GET("/:requestId/history", m.requestRouter.HandleGetHistory)

	members := api.Group("/orgs/:orgId/roles/:role/members")
	members.GET("", m.directoryRouter.HandleListMembers)
	members.PUT("/:principalId", m.directoryRouter.HandleAddMember)
	members.DELETE("/:principalId", m.directoryRouter.HandleRemoveMember)
}

func (m *Manager) Templates() *service.TemplateService {
	return m.templateService
}

func (m *Manager) Requests() *service.RequestService {
	return m.requestService
}

func (m *Manager) AuditTrail() *service.AuditTrail {
	return m.auditTrail
}

func (m *Manager) Ledger() *service.DecisionLedger {
	return m.ledger
}
