// Package leaderboard serves the verified high score table over HTTP.
// Clients upload replays instead of scores; the server replays every upload
// through the engine and only ranks runs whose score it could recompute.
package leaderboard

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/blockdrop/internal/engine"
	"github.com/vovakirdan/blockdrop/internal/replay"
	"github.com/vovakirdan/blockdrop/internal/storage"
)

// Store is the persistence the service needs. *storage.Store satisfies it.
type Store interface {
	SaveReplay(d replay.Data, verified bool) (int64, error)
	Replay(id int64) (storage.StoredReplay, error)
	TopScores(limit int, verifiedOnly bool) ([]storage.ScoreEntry, error)
}

// Config holds the HTTP server settings.
type Config struct {
	// Address is the host:port to listen on.
	Address string

	// MaxBodyBytes caps the size of an uploaded replay.
	MaxBodyBytes int64

	// MaxFrames rejects replays claiming to run longer than this.
	MaxFrames int

	// Release switches gin to release mode.
	Release bool

	// Rules is the only rule set the leaderboard ranks. Uploads recorded
	// under other rules are rejected.
	Rules engine.Rules
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:      ":8080",
		MaxBodyBytes: 4 << 20,
		MaxFrames:    60 * 60 * 60, // one hour at 60 ticks per second
		Rules:        engine.DefaultRules(),
	}
}

// Server is the leaderboard HTTP service.
type Server struct {
	config Config
	store  Store
	logger *log.Logger
	router *gin.Engine
	http   *http.Server
}

// NewServer builds the router. A nil logger gets a default one.
func NewServer(cfg Config, store Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "leaderboard",
		})
	}
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg.Rules = cfg.Rules.Normalize()
	s := &Server{
		config: cfg,
		store:  store,
		logger: logger,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())

	api := router.Group("/api")
	{
		api.POST("/replays", s.submitReplay)
		api.GET("/replays/:id", s.getReplay)
		api.GET("/scores", s.topScores)
	}
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.router = router
	s.http = &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestLogger logs one line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client", c.ClientIP(),
		)
	}
}

// ListenAndServe starts the server and blocks until SIGINT or SIGTERM.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting leaderboard", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		return err
	}
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
