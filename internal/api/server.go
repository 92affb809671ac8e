// Package api exposes the Memories HTTP surface: chat import, browsing,
// analysis, and export endpoints.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/vishnutej000/memories/internal/analysis"
	"github.com/vishnutej000/memories/internal/api/auth"
	"github.com/vishnutej000/memories/internal/config"
	"github.com/vishnutej000/memories/internal/parser"
	"github.com/vishnutej000/memories/internal/storage"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Server represents the API server
type Server struct {
	echo   *echo.Echo
	cfg    *config.Config
	store  *storage.Store
	parser *parser.ResilientParser
	scorer analysis.Scorer
	tokens *auth.TokenService
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, store *storage.Store) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler

	// Middleware
	e.Use(RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if cfg.Server.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	}
	e.Use(RateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	server := &Server{
		echo:   e,
		cfg:    cfg,
		store:  store,
		parser: parser.NewResilient(),
		scorer: analysis.NewVaderScorer(),
		tokens: auth.NewTokenService(cfg.Auth.SecretKey, time.Duration(cfg.Auth.TokenMinutes)*time.Minute),
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// authEnabled reports whether the vault is passphrase-protected.
func (s *Server) authEnabled() bool {
	return s.cfg.Auth.PasswordHash != ""
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.echo.GET("/health", s.getHealth)

	// API v1 group
	v1 := s.echo.Group("/api/v1")
	v1.POST("/auth/login", s.login)

	chats := v1.Group("/chats")
	if s.authEnabled() {
		chats.Use(auth.RequireAuth(s.tokens))
	}

	chats.POST("", s.createChat)
	chats.GET("", s.getChats)
	chats.GET("/:id", s.getChatByID)
	chats.DELETE("/:id", s.deleteChat)
	chats.GET("/:id/messages", s.getMessages)
	chats.GET("/:id/statistics", s.getStatistics)
	chats.GET("/:id/sentiment", s.getSentiment)
	chats.GET("/:id/keywords", s.getKeywords)
	chats.GET("/:id/export/:format", s.exportChat)
}

// Start begins the API server and blocks until an interrupt arrives
func (s *Server) Start() error {
	go func() {
		addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("shutting down the server")
		}
	}()

	log.Info().Int("port", s.cfg.Server.Port).Bool("auth", s.authEnabled()).
		Msg("memories API listening")

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}

func (s *Server) getHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"version":   Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// errorResponse is the JSON shape for all error payloads.
type errorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// errorHandler renders every error as an errorResponse
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	resp := errorResponse{Message: "internal server error"}

	if httpErr, ok := err.(*echo.HTTPError); ok {
		code = httpErr.Code
		resp.Message = fmt.Sprintf("%v", httpErr.Message)
		if httpErr.Internal != nil {
			resp.Details = httpErr.Internal.Error()
		}
	} else {
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, resp)
}
