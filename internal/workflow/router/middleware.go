package router

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wewinbid/approval-engine/internal/config"
	"github.com/wewinbid/approval-engine/internal/workflow/model"
)

// PrincipalHeader carries the id of the caller, already authenticated upstream.
const PrincipalHeader = "X-Principal-ID"

const principalKey = "principalID"

type principalContextKey struct{}

// PrincipalMiddleware copies the caller id from PrincipalHeader into the gin and
// request contexts. Requests without the header continue without a principal;
// handlers that need one reject them.
func PrincipalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if principalID := strings.TrimSpace(c.GetHeader(PrincipalHeader)); principalID != "" {
			c.Set(principalKey, principalID)
			c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), principalContextKey{}, principalID))
		}
		c.Next()
	}
}

// PrincipalFromContext returns the caller id stored by PrincipalMiddleware, or "".
func PrincipalFromContext(ctx context.Context) string {
	principalID, _ := ctx.Value(principalContextKey{}).(string)
	return principalID
}

func principal(c *gin.Context) string {
	return c.GetString(principalKey)
}

// requirePrincipal responds with 401 when the request carries no principal.
func requirePrincipal(c *gin.Context) (string, bool) {
	principalID := principal(c)
	if principalID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing " + PrincipalHeader + " header",
			"code":  "UNAUTHENTICATED",
		})
		return "", false
	}
	return principalID, true
}

// requireOperator responds with 401 when the request carries no principal and
// with 403 when allowed rejects it.
func requireOperator(c *gin.Context, allowed func(string) bool, action, reason string) (string, bool) {
	principalID, ok := requirePrincipal(c)
	if !ok {
		return "", false
	}
	if !allowed(principalID) {
		respondError(c, &model.AuthorizationError{PrincipalID: principalID, Action: action, Reason: reason})
		return "", false
	}
	return principalID, true
}

// CORS applies the configured cross-origin policy and answers preflight requests.
func CORS(cfg *config.CORSConfig) gin.HandlerFunc {
	allowAll := slices.Contains(cfg.AllowedOrigins, "*")
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowAll || slices.Contains(cfg.AllowedOrigins, origin)) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Methods", methods)
			c.Header("Access-Control-Allow-Headers", headers)
			if cfg.AllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
			c.Header("Access-Control-Max-Age", maxAge)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
