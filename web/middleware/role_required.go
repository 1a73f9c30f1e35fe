package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/userdesk/userdesk/logger"
	"github.com/userdesk/userdesk/web/entity"
)

// IdentityKey is the gin context key holding the authenticated login.
const IdentityKey = "identity"

// Policy decides whether an identity holds a permission tier.
type Policy interface {
	Permits(c *gin.Context, identity, permission string) bool
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(c *gin.Context, identity, permission string) bool

func (f PolicyFunc) Permits(c *gin.Context, identity, permission string) bool {
	return f(c, identity, permission)
}

// PermissionRequired aborts with 403 unless the authenticated identity holds
// permission. It must run after the login check has stored the identity.
func PermissionRequired(policy Policy, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := c.GetString(IdentityKey)
		if identity == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, entity.ErrorMsg{Error: "Unauthorized"})
			return
		}
		if !policy.Permits(c, identity, permission) {
			logger.Warningf("%s denied %s %s: %s permission required", identity, c.Request.Method, c.Request.URL.Path, permission)
			c.AbortWithStatusJSON(http.StatusForbidden, entity.ErrorMsg{Error: "Forbidden"})
			return
		}
		c.Next()
	}
}
