// Package web assembles the userdesk HTTP server: routing, sessions,
// middleware and the background job scheduler.
package web

import (
	"context"
	"crypto/sha256"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/userdesk/userdesk/config"
	"github.com/userdesk/userdesk/logger"
	"github.com/userdesk/userdesk/util/common"
	"github.com/userdesk/userdesk/util/crypto"
	"github.com/userdesk/userdesk/web/cache"
	"github.com/userdesk/userdesk/web/controller"
	"github.com/userdesk/userdesk/web/entity"
	"github.com/userdesk/userdesk/web/job"
	"github.com/userdesk/userdesk/web/middleware"
	"github.com/userdesk/userdesk/web/service"
	"github.com/userdesk/userdesk/web/session"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Server is the userdesk web server with its controllers and scheduled jobs.
type Server struct {
	cfg *config.Config
	db  *gorm.DB

	httpServer *http.Server
	listener   net.Listener
	redis      *cache.Redis

	index  *controller.IndexController
	user   *controller.UserController
	health *controller.HealthController

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a server for cfg backed by db. The caller keeps ownership
// of db.
func NewServer(cfg *config.Config, db *gorm.DB) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{cfg: cfg, db: db, ctx: ctx, cancel: cancel}
}

// sessionStore builds the configured session backend. Both stores sign and
// encrypt with keys derived from the cookie key.
func (s *Server) sessionStore() (sessions.Store, error) {
	if s.cfg.UsesDefaultCookieKey() {
		logger.Warning("session cookie key is the built-in default; set USERDESK_COOKIE_KEY (see `userdesk setting gen-cookie-key`)")
	}
	encKey := []byte(s.cfg.Session.CookieKey)
	hashKey := sha256.Sum256(encKey)

	var store sessions.Store
	switch s.cfg.Session.Store {
	case config.SessionStoreRedis:
		r, err := cache.NewRedis(s.ctx, s.cfg.Redis)
		if err != nil {
			return nil, err
		}
		s.redis = r
		store = cache.NewRedisStore(r.Client(), hashKey[:], encKey)
	default:
		store = cookie.NewStore(hashKey[:], encKey)
	}

	store.Options(sessions.Options{
		Path:     s.cfg.BasePath,
		MaxAge:   s.cfg.Session.MaxAge * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// initRouter initializes Gin, registers middleware and controllers and
// returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}
	controller.RegisterValidators()

	store, err := s.sessionStore()
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.Use(sessions.Sessions(session.CookieName, store))

	hasher := crypto.NewHasher(s.cfg.HashRounds)
	authService := service.NewAuthService(s.db, hasher)
	userService := service.NewUserService(s.db, hasher)

	g := engine.Group(s.cfg.BasePath)
	s.index = controller.NewIndexController(g, authService, s.cfg.Session.MaxAge)
	s.user = controller.NewUserController(g, authService, userService)
	s.health = controller.NewHealthController(g, s.db)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, entity.ErrorMsg{Error: "Not found"})
	})

	return engine, nil
}

// startTask schedules background jobs.
func (s *Server) startTask() error {
	if !s.cfg.Database.IsSQLite() || s.cfg.CheckpointCron == "" {
		return nil
	}
	if _, err := s.cron.AddJob(s.cfg.CheckpointCron, job.NewCheckpointJob(s.db)); err != nil {
		return err
	}
	logger.Infof("database checkpoint scheduled at %s", s.cfg.CheckpointCron)
	return nil
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New()
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", s.cfg.ListenAddr())
	if err != nil {
		return err
	}
	logger.Info("Web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("web server stopped:", err)
		}
	}()

	return s.startTask()
}

// Stop gracefully shuts down the web server, cron jobs and the session backend.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}

	var err1, err2, err3 error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err1 = s.httpServer.Shutdown(ctx)
	} else if s.listener != nil {
		err2 = s.listener.Close()
	}
	if s.redis != nil {
		err3 = s.redis.Close()
	}
	return common.Combine(err1, err2, err3)
}

// Addr returns the address the server listens on, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// GetCron returns the server's cron scheduler instance.
func (s *Server) GetCron() *cron.Cron { return s.cron }
