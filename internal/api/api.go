package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/mmc-gaming/clanhub/internal/api/auth"
	"github.com/mmc-gaming/clanhub/internal/api/handler"
	"github.com/mmc-gaming/clanhub/internal/config"
	"github.com/mmc-gaming/clanhub/internal/engine"
	"github.com/mmc-gaming/clanhub/internal/static"
	"github.com/mmc-gaming/clanhub/internal/storage"
)

const sessionName = "clanhub_session"

type Server struct {
	cfg       *config.Config
	ginEngine *gin.Engine
	engine    *engine.Engine
	storage   *storage.Store
	http      *http.Server
}

func New(cfg *config.Config, e *engine.Engine, store *storage.Store, debug bool) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:       cfg,
		ginEngine: gin.New(),
		engine:    e,
		storage:   store,
	}
	s.ginEngine.Use(gin.Recovery())
	if debug {
		s.ginEngine.Use(gin.Logger())
	}
	s.setupSession()
	s.setupRoutes()

	s.http = &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) setupSession() {
	store := cookie.NewStore([]byte(s.cfg.SessionKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.GetSessionMaxAge(),
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions(sessionName, store))
}

func (s *Server) setupRoutes() {
	h := handler.New(s.engine, s.storage)

	// The configured directory replaces the bundled default images.
	if s.cfg.StaticDir != "" {
		s.ginEngine.Static("/static", s.cfg.StaticDir)
	} else {
		s.ginEngine.StaticFS("/static", http.FS(static.FS()))
	}
	s.ginEngine.Static(strings.TrimSuffix(storage.URLPrefix, "/"), s.storage.Dir())

	s.ginEngine.Use(auth.LoadUser(s.engine))
	s.ginEngine.GET("/logout", h.LogoutRedirect)

	api := s.ginEngine.Group("/api")
	api.Use(gzip.Gzip(gzip.DefaultCompression))

	api.POST("/login", h.Login)
	api.POST("/register", h.Register)
	api.POST("/logout", h.Logout)
	api.GET("/me", h.Me)
	api.GET("/leaderboard", h.Leaderboard)
	api.GET("/clans", h.ListClans)
	api.GET("/clans/:id", h.GetClan)
	api.GET("/events", h.ListEvents)
	api.POST("/contact", h.Contact)

	protected := api.Group("")
	protected.Use(auth.RequireAuth())
	protected.POST("/clans", h.CreateClan)
	protected.POST("/clans/:id/join", h.JoinClan)
	protected.POST("/profile", h.UpdateProfile)
	protected.POST("/profile/picture", h.UploadProfilePicture)

	admin := api.Group("/admin")
	admin.Use(auth.RequireAuth(), auth.RequireAdmin())
	admin.POST("/events", h.AddEvent)
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

// Run serves HTTP until Shutdown is called.
func (s *Server) Run() error {
	log.Info("Starting API server", "listen", s.cfg.Listen)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
