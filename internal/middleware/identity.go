package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/siriuscareer/career-admin/internal/response"
)

const (
	// ContextKeyIdentity is the Gin context key for the caller identity.
	ContextKeyIdentity = "identity"

	// DefaultIdentityHeader carries the caller identity when none is configured.
	DefaultIdentityHeader = "X-User-ID"
)

// RequireIdentity rejects requests that do not carry a non-blank identity in
// header. Authentication itself happens upstream; the value is only recorded.
func RequireIdentity(header string) gin.HandlerFunc {
	if header == "" {
		header = DefaultIdentityHeader
	}
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(header))
		if id == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrIdentityRequired)
			return
		}

		c.Set(ContextKeyIdentity, id)
		c.Next()
	}
}

// Identity returns the caller identity stored by RequireIdentity, or "".
func Identity(c *gin.Context) string {
	return c.GetString(ContextKeyIdentity)
}
