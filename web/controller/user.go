package controller

import (
	"errors"
	"net/http"

	"github.com/userdesk/userdesk/database/model"
	"github.com/userdesk/userdesk/logger"
	"github.com/userdesk/userdesk/web/entity"
	"github.com/userdesk/userdesk/web/service"

	"github.com/gin-gonic/gin"
)

// UserController serves the /user resource. Reads need a login, writes the
// admin tier.
type UserController struct {
	BaseController

	userService *service.UserService
}

func NewUserController(g *gin.RouterGroup, authService *service.AuthService, userService *service.UserService) *UserController {
	a := &UserController{
		BaseController: BaseController{authService: authService},
		userService:    userService,
	}
	a.initRouter(g)
	return a
}

func (a *UserController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/user")
	g.Use(a.checkLogin)

	admin := a.requirePermission(model.PermAdmin)

	g.GET("", a.list)
	g.GET("/:slug", a.get)
	g.POST("", admin, a.create)
	g.PATCH("/:slug", admin, a.update)
	g.DELETE("/:slug", admin, a.delete)
}

func (a *UserController) list(c *gin.Context) {
	records, err := a.userService.ReadAll(c.Request.Context())
	if err != nil {
		internalError(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, entity.NewUsers(records))
}

func (a *UserController) get(c *gin.Context) {
	record, err := a.userService.Read(c.Request.Context(), c.Param("slug"))
	if err != nil {
		internalError(c, "read user", err)
		return
	}
	if record == nil {
		pureJsonError(c, http.StatusNotFound, "Not found")
		return
	}
	c.JSON(http.StatusOK, entity.NewUser(record))
}

func (a *UserController) create(c *gin.Context) {
	var form entity.CreateUserForm
	if err := bindJSON(c, &form); err != nil {
		validationError(c, err)
		return
	}

	record, err := a.userService.Create(c.Request.Context(), form.Input())
	if err != nil {
		if isInvalidData(err) {
			pureJsonError(c, http.StatusBadRequest, "Insert error: "+err.Error())
			return
		}
		internalError(c, "create user", err)
		return
	}
	c.JSON(http.StatusCreated, entity.NewUser(record))
}

func (a *UserController) update(c *gin.Context) {
	var form entity.UpdateUserForm
	if err := bindJSON(c, &form); err != nil {
		validationError(c, err)
		return
	}

	record, err := a.userService.Update(c.Request.Context(), c.Param("slug"), form.Input())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			pureJsonError(c, http.StatusBadRequest, "Update error")
		case isInvalidData(err):
			pureJsonError(c, http.StatusBadRequest, "Update error: "+err.Error())
		default:
			internalError(c, "update user", err)
		}
		return
	}
	c.JSON(http.StatusOK, entity.NewUser(record))
}

func (a *UserController) delete(c *gin.Context) {
	n, err := a.userService.Delete(c.Request.Context(), c.Param("slug"))
	if err != nil {
		internalError(c, "delete user", err)
		return
	}
	if n == 0 {
		pureJsonError(c, http.StatusBadRequest, "Delete error")
		return
	}
	jsonMsg(c, http.StatusOK, "User deleted")
}

// isInvalidData reports whether err is a caller mistake rather than a server fault.
func isInvalidData(err error) bool {
	return errors.Is(err, service.ErrDuplicateLogin) ||
		errors.Is(err, service.ErrInvalidLogin) ||
		errors.Is(err, service.ErrInvalidField) ||
		errors.Is(err, service.ErrInvalidPermission) ||
		errors.Is(err, service.ErrInvalidDate)
}

func internalError(c *gin.Context, action string, err error) {
	logger.Errorf("%s failed: %v", action, err)
	pureJsonError(c, http.StatusInternalServerError, "Internal server error")
}
