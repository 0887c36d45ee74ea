package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sandeepkv93/dayly/internal/schedule"
	"github.com/sandeepkv93/dayly/internal/summary"
)

// SummaryRunner runs the notifying summary job on demand.
type SummaryRunner interface {
	RunSummary(ctx context.Context) (summary.Summary, bool, error)
}

// Server exposes the schedule store over JSON.
type Server struct {
	engine *gin.Engine
	store  *schedule.Store
	runner SummaryRunner
	logger *slog.Logger
}

func New(store *schedule.Store, runner SummaryRunner, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	srv := &Server{
		engine: router,
		store:  store,
		runner: runner,
		logger: logger,
	}
	srv.registerRoutes()
	return srv
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		activities := api.Group("/activities")
		{
			activities.GET("", s.handleListActivities)
			activities.POST("", s.handleCreateActivity)
			activities.PUT(":id/completion", s.handleSetCompletion)
			activities.DELETE(":id", s.handleDeleteActivity)
		}

		api.GET("/summary", s.handleSummary)
		api.POST("/summary/run", s.handleRunSummary)
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http listening", slog.String("addr", addr))
		errCh <- httpSrv.ListenAndServe()
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
		return httpSrv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("took", time.Since(start)),
		)
	}
}

func (s *Server) respondError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
