package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/userdesk/userdesk/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const healthTimeout = 2 * time.Second

// HealthController reports whether the database answers.
type HealthController struct {
	db *gorm.DB
}

func NewHealthController(g *gin.RouterGroup, db *gorm.DB) *HealthController {
	a := &HealthController{db: db}
	g.GET("/healthz", a.healthz)
	return a
}

func (a *HealthController) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		logger.Warning("health check failed:", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
