package router

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wewinbid/approval-engine/internal/workflow/model"
)

// respondError writes a JSON error body with the status and code of err.
func respondError(c *gin.Context, err error) {
	status := model.HTTPStatusOf(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"error", err)
	}

	body := gin.H{
		"error": err.Error(),
		"code":  model.CodeOf(err),
	}
	var invalid *model.InvalidTemplateError
	if errors.As(err, &invalid) {
		body["problems"] = invalid.Problems
	}
	c.AbortWithStatusJSON(status, body)
}

// bindJSON binds the request body and responds with 400 when it is malformed.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondError(c, model.NewValidationError("body", err.Error()))
		return false
	}
	return true
}

// uuidParam parses a UUID path parameter and responds with 400 when it is invalid.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, model.NewValidationError(name, "must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}

// intQuery parses an optional integer query parameter.
func intQuery(c *gin.Context, name string) (*int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		respondError(c, model.NewValidationError(name, "must be an integer"))
		return nil, false
	}
	return &value, true
}
