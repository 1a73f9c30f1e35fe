// Package controller provides the HTTP handlers of the userdesk API together
// with the login and permission guards in front of them.
package controller

import (
	"net/http"

	"github.com/userdesk/userdesk/logger"
	"github.com/userdesk/userdesk/web/middleware"
	"github.com/userdesk/userdesk/web/service"
	"github.com/userdesk/userdesk/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides the authentication guards shared by all controllers.
type BaseController struct {
	authService *service.AuthService
}

// checkLogin aborts with 401 unless the session names an active user. A
// session whose user was deleted or blocked is cleared.
func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsLogin(c) {
		pureJsonError(c, http.StatusUnauthorized, "Unauthorized")
		c.Abort()
		return
	}

	identity := session.GetLoginUser(c)
	login, ok := a.authService.AuthorizedUserID(c.Request.Context(), identity)
	if !ok {
		logger.Infof("session of %s is no longer valid", identity)
		if err := session.ClearSession(c); err != nil {
			logger.Warning("Unable to clear session:", err)
		}
		pureJsonError(c, http.StatusUnauthorized, "Unauthorized")
		c.Abort()
		return
	}

	c.Set(middleware.IdentityKey, login)
	c.Next()
}

// requirePermission builds a guard that admits only identities holding
// permission. It must follow checkLogin.
func (a *BaseController) requirePermission(permission string) gin.HandlerFunc {
	return middleware.PermissionRequired(middleware.PolicyFunc(
		func(c *gin.Context, identity, perm string) bool {
			return a.authService.Permits(c.Request.Context(), identity, perm)
		}), permission)
}
