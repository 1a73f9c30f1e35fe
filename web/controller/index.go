package controller

import (
	"net/http"

	"github.com/userdesk/userdesk/logger"
	"github.com/userdesk/userdesk/web/entity"
	"github.com/userdesk/userdesk/web/service"
	"github.com/userdesk/userdesk/web/session"

	"github.com/gin-gonic/gin"
)

const invalidCredentials = "Invalid username/password combination or this user is blocked"

// IndexController handles login and logout.
type IndexController struct {
	BaseController

	sessionMaxAge int
}

// NewIndexController registers the session routes on g. sessionMaxAge is in
// minutes, zero keeps the cookie for the browser session only.
func NewIndexController(g *gin.RouterGroup, authService *service.AuthService, sessionMaxAge int) *IndexController {
	a := &IndexController{
		BaseController: BaseController{authService: authService},
		sessionMaxAge:  sessionMaxAge,
	}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.POST("/login", a.login)
	g.POST("/logout", a.checkLogin, a.logout)
}

// login checks the credentials and stores the login in the session.
func (a *IndexController) login(c *gin.Context) {
	var form entity.LoginForm
	if err := bindJSON(c, &form); err != nil {
		validationError(c, err)
		return
	}

	if !a.authService.CheckCredentials(c.Request.Context(), form.Login, form.Password) {
		logger.Warningf("failed login for %q from %s", form.Login, getRemoteIp(c))
		pureJsonError(c, http.StatusBadRequest, invalidCredentials)
		return
	}

	if err := session.SetMaxAge(c, a.sessionMaxAge*60); err != nil {
		logger.Warning("Unable to set session max age:", err)
	}
	if err := session.SetLoginUser(c, form.Login); err != nil {
		logger.Warning("Unable to save session:", err)
		pureJsonError(c, http.StatusInternalServerError, "Unable to save session")
		return
	}

	logger.Infof("%s logged in successfully, Ip Address: %s", form.Login, getRemoteIp(c))
	jsonMsgObj(c, http.StatusOK, "Login successful", form.Login)
}

// logout clears the session of the authenticated user.
func (a *IndexController) logout(c *gin.Context) {
	identity := session.GetLoginUser(c)
	if err := session.ClearSession(c); err != nil {
		logger.Warning("Unable to clear session:", err)
		pureJsonError(c, http.StatusInternalServerError, "Unable to clear session")
		return
	}
	logger.Infof("%s logged out successfully", identity)
	jsonMsgObj(c, http.StatusOK, "Logout successful", identity)
}
