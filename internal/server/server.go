// Package server implements the replay and match-runner server.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"battlecode-client/internal/config"
	"battlecode-client/internal/database"
	"battlecode-client/internal/runner"
	"battlecode-client/pkg/logger"
)

// MatchRunner plays a run request and returns the replay path it wrote.
type MatchRunner interface {
	Run(ctx context.Context, req runner.Request, onLine func(string)) (string, error)
}

// Server owns the HTTP router, the live hub and background runs.
type Server struct {
	cfg      config.Config
	db       *database.DB
	hub      *Hub
	runner   MatchRunner
	upgrader websocket.Upgrader
	router   *gin.Engine
	server   *http.Server
	log      *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc
	runs   sync.WaitGroup
}

// New creates a server. The hub starts immediately so that Handler can be
// served by tests without Start.
func New(cfg config.Config, db *database.DB, r MatchRunner) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:    cfg,
		db:     db,
		runner: r,
		log:    logger.Component("server"),
		ctx:    ctx,
		cancel: cancel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.hub = NewHub()
	go s.hub.Run(ctx)

	gin.SetMode(cfg.GinMode)
	s.router = s.routes()
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the live broadcast hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.log))
	router.MaxMultipartMemory = s.cfg.MaxUploadBytes()

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := router.Group("/api")
	{
		api.GET("/version", s.handleVersion)

		api.GET("/replays", s.handleListReplays)
		api.POST("/replays", s.handleUploadReplay)
		api.GET("/replays/:id", s.handleDownloadReplay)
		api.GET("/replays/:id/summary", s.handleReplaySummary)
		api.DELETE("/replays/:id", s.handleDeleteReplay)

		api.GET("/maps", s.handleListMaps)
		api.GET("/maps/builtin", s.handleBuiltinMaps)
		api.POST("/maps", s.handleUploadMap)
		api.GET("/maps/:id", s.handleDownloadMap)
		api.DELETE("/maps/:id", s.handleDeleteMap)

		api.GET("/runs", s.handleListRuns)
		api.POST("/runs", s.handleCreateRun)
		api.GET("/runs/:id", s.handleGetRun)
	}

	ws := router.Group("/ws")
	{
		ws.GET("/replays/:id", s.handleStreamReplay)
		ws.GET("/live", s.handleLive)
	}
	return router
}

// requestLogger logs one line per request.
func requestLogger(log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": c.Writer.Status(),
			"took":   time.Since(start).Round(time.Microsecond),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request")
	}
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.WithFields(logrus.Fields{
		"address":  "http://localhost" + s.cfg.Addr(),
		"database": s.cfg.DBDriver,
		"scaffold": s.cfg.ScaffoldPath,
	}).Info("battlecode server listening")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts down the listener, cancels running matches and closes the
// database.
func (s *Server) Stop(ctx context.Context) error {
	var err error
	if s.server != nil {
		err = s.server.Shutdown(ctx)
	}
	s.cancel()
	s.runs.Wait()
	if s.db != nil {
		if cerr := s.db.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
