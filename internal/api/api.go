package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aimarketer/aimarketer/internal/api/auth"
	"github.com/aimarketer/aimarketer/internal/api/handler"
	"github.com/aimarketer/aimarketer/internal/config"
	"github.com/aimarketer/aimarketer/internal/database"
	"github.com/aimarketer/aimarketer/internal/gravatar"
	"github.com/aimarketer/aimarketer/internal/metrics"
	"github.com/aimarketer/aimarketer/internal/notify/email"
	"github.com/aimarketer/aimarketer/internal/render"
	"github.com/aimarketer/aimarketer/internal/static"
	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Server struct {
	cfg       *config.Config
	ginEngine *gin.Engine
	db        database.DB
	metrics   *metrics.Metrics
}

// New creates the server and registers all routes.
func New(cfg *config.Config, db database.DB, debug bool) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Session == nil {
		return nil, fmt.Errorf("session config is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:       cfg,
		ginEngine: gin.New(),
		db:        db,
	}
	s.ginEngine.Use(gin.Recovery(), requestLogger())

	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		s.metrics = metrics.New()
		s.ginEngine.Use(s.metrics.Middleware())
	}

	if cfg.Gzip != nil && cfg.Gzip.Enabled {
		var excluded []string
		if s.metrics != nil {
			excluded = append(excluded, cfg.Metrics.Path)
		}
		s.ginEngine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths(excluded)))
	}

	if err := s.setupRoutes(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	notifier := email.New(s.cfg.Email, s.cfg.ServerURL+"/feedback-summary")
	h := handler.New(s.db, render.New(s.cfg.PagesDir), notifier, gravatar.New(s.cfg.Gravatar))
	authProvider := auth.NewProvider(s.db, s.cfg.Auth)

	// liveness and metrics never touch the session or the database
	s.ginEngine.GET("/healthz", h.Healthz)
	if s.metrics != nil {
		s.ginEngine.GET(s.cfg.Metrics.Path, gin.WrapH(s.metrics.Handler()))
	}

	assets, err := static.FS()
	if err != nil {
		return err
	}
	s.ginEngine.StaticFS("/static", assets)

	site := s.ginEngine.Group("/")
	site.Use(auth.Middleware(s.cfg.Session), auth.LoadUser())

	site.GET("/", h.Page("home.html"))
	site.GET("/feedback", h.Page("feedback.html"))
	site.GET("/products", h.Page("products.html"))
	site.GET("/register", h.Page("register.html"))
	site.GET("/login", h.Page("login.html"))

	site.POST("/register", authProvider.Register)
	site.POST("/login", authProvider.Login)
	site.GET("/logout", authProvider.Logout)
	site.POST("/feedback", h.SubmitFeedback)

	site.GET("/feedback-summary", auth.RequireAdmin(), h.FeedbackSummary)

	return nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

// Run serves HTTP on the configured address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
		}
		if status >= http.StatusInternalServerError {
			log.Warn("Request failed", fields...)
			return
		}
		log.Debug("Request", fields...)
	}
}
