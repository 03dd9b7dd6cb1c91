package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wewinbid/approval-engine/internal/config"
	"github.com/wewinbid/approval-engine/internal/workflow/model"
)

// RequestLifecycle defines the approval request operations exposed over HTTP.
type RequestLifecycle interface {
	CreateDraft(ctx context.Context, requesterID string, req *model.CreateRequestDTO) (*model.ApprovalRequest, error)
	Start(ctx context.Context, requesterID string, req *model.CreateRequestDTO) (*model.RequestSnapshot, error)
	Submit(ctx context.Context, requestID uuid.UUID, requesterID string) (*model.RequestSnapshot, error)
	Decide(ctx context.Context, requestID uuid.UUID, approverID string, req *model.DecideDTO) (*model.DecisionResult, error)
	Cancel(ctx context.Context, requestID uuid.UUID, requesterID string) (*model.ApprovalRequest, error)
	Expire(ctx context.Context, requestID uuid.UUID, reason string) (*model.ApprovalRequest, error)
	GetRequest(ctx context.Context, requestID uuid.UUID, callerID string) (*model.RequestSnapshot, error)
	History(ctx context.Context, requestID uuid.UUID) ([]model.AuditEntry, error)
	ListRequests(ctx context.Context, filter model.RequestFilter) (*model.RequestListResult, error)
}

type RequestRouter struct {
	lifecycle RequestLifecycle
	access    config.AccessConfig
}

func NewRequestRouter(lifecycle RequestLifecycle, access config.AccessConfig) *RequestRouter {
	return &RequestRouter{lifecycle: lifecycle, access: access}
}

// HandleCreateRequest handles POST /api/v1/requests
// Request body: CreateRequestDTO. With "submit": true the request is submitted
// immediately and the response is a RequestSnapshot; otherwise the DRAFT request is returned.
func (rr *RequestRouter) HandleCreateRequest(c *gin.Context) {
	requesterID, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req model.CreateRequestDTO
	if !bindJSON(c, &req) {
		return
	}

	if req.Submit {
		snapshot, err := rr.lifecycle.Start(c.Request.Context(), requesterID, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, snapshot)
		return
	}

	request, err := rr.lifecycle.CreateDraft(c.Request.Context(), requesterID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

// HandleListRequests handles GET /api/v1/requests
// Optional Query Filters: requesterId, orgId, status, offset, limit
func (rr *RequestRouter) HandleListRequests(c *gin.Context) {
	var filter model.RequestFilter

	if requesterID := c.Query("requesterId"); requesterID != "" {
		filter.RequesterID = &requesterID
	}
	if orgID := c.Query("orgId"); orgID != "" {
		filter.OrgID = &orgID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := model.RequestStatus(statusStr)
		if !status.IsValid() {
			respondError(c, model.NewValidationError("status", "unknown request status"))
			return
		}
		filter.Status = &status
	}

	var ok bool
	if filter.Offset, ok = intQuery(c, "offset"); !ok {
		return
	}
	if filter.Limit, ok = intQuery(c, "limit"); !ok {
		return
	}

	result, err := rr.lifecycle.ListRequests(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleGetRequest handles GET /api/v1/requests/:requestId
// The snapshot's canDecide flag is computed for the calling principal.
func (rr *RequestRouter) HandleGetRequest(c *gin.Context) {
	requestID, ok := uuidParam(c, "requestId")
	if !ok {
		return
	}

	snapshot, err := rr.lifecycle.GetRequest(c.Request.Context(), requestID, principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// HandleSubmitRequest handles POST /api/v1/requests/:requestId/submit
func (rr *RequestRouter) HandleSubmitRequest(c *gin.Context) {
	requesterID, ok := requirePrincipal(c)
	if !ok {
		return
	}
	requestID, ok := uuidParam(c, "requestId")
	if !ok {
		return
	}

	snapshot, err := rr.lifecycle.Submit(c.Request.Context(), requestID, requesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// HandleDecide handles POST /api/v1/requests/:requestId/decisions
// Request body: DecideDTO
// Response: DecisionResult
func (rr *RequestRouter) HandleDecide(c *gin.Context) {
	approverID, ok := requirePrincipal(c)
	if !ok {
		return
	}
	requestID, ok := uuidParam(c, "requestId")
	if !ok {
		return
	}
	var req model.DecideDTO
	if !bindJSON(c, &req) {
		return
	}

	result, err := rr.lifecycle.Decide(c.Request.Context(), requestID, approverID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// HandleCancelRequest handles POST /api/v1/requests/:requestId/cancel
func (rr *RequestRouter) HandleCancelRequest(c *gin.Context) {
	requesterID, ok := requirePrincipal(c)
	if !ok {
		return
	}
	requestID, ok := uuidParam(c, "requestId")
	if !ok {
		return
	}

	request, err := rr.lifecycle.Cancel(c.Request.Context(), requestID, requesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// HandleExpireRequest handles POST /api/v1/requests/:requestId/expire
// Only configured scheduler principals may expire; the body reason is optional.
func (rr *RequestRouter) HandleExpireRequest(c *gin.Context) {
	schedulerID, ok := requireOperator(c, rr.access.IsScheduler, "expire", "not a configured scheduler")
	if !ok {
		return
	}
	requestID, ok := uuidParam(c, "requestId")
	if !ok {
		return
	}
	var req model.ExpireDTO
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	slog.InfoContext(c.Request.Context(), "expire requested",
		"requestID", requestID,
		"principalID", schedulerID,
		"reason", req.Reason)

	request, err := rr.lifecycle.Expire(c.Request.Context(), requestID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// HandleGetHistory handles GET /api/v1/requests/:requestId/history
func (rr *RequestRouter) HandleGetHistory(c *gin.Context) {
	requestID, ok := uuidParam(c, "requestId")
	if !ok {
		return
	}

	entries, err := rr.lifecycle.History(c.Request.Context(), requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requestId": requestID, "entries": entries})
}
