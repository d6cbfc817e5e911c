package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/denysvitali/meshscan/internal/models"
	"github.com/denysvitali/meshscan/pkg/config"
	"github.com/denysvitali/meshscan/pkg/scanner"
	"github.com/denysvitali/meshscan/pkg/telemetry"
)

// Server exposes the scanner over HTTP
type Server struct {
	config  *config.Config
	logger  *logrus.Logger
	scanner *scanner.Scanner
	engine  *gin.Engine
	server  *http.Server

	mu           sync.RWMutex
	startTime    time.Time
	lastScanTime time.Time
	scanCount    int64
}

// New creates a new server instance
func New(cfg *config.Config, logger *logrus.Logger, s *scanner.Scanner) *Server {
	if logger.Level == logrus.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(ginLogger(logger))

	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware("meshscan"))
	}

	if cfg.Server.APIKey != "" {
		engine.Use(authMiddleware(cfg.Server.APIKey))
	}

	now := time.Now()
	srv := &Server{
		config:       cfg,
		logger:       logger,
		scanner:      s,
		engine:       engine,
		startTime:    now,
		lastScanTime: now,
	}
	srv.setupRoutes()

	return srv
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Infof("Starting server on port %d", s.config.Server.Port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Engine returns the gin engine for testing purposes
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) setupRoutes() {
	s.engine.GET("/alive", s.handleAlive)
	s.engine.GET("/server_info", s.handleServerInfo)
	s.engine.POST("/scan", s.handleScan)
}

func (s *Server) handleAlive(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleServerInfo(c *gin.Context) {
	now := time.Now()

	s.mu.RLock()
	uptime := now.Sub(s.startTime).Seconds()
	idleTime := now.Sub(s.lastScanTime).Seconds()
	scanCount := s.scanCount
	s.mu.RUnlock()

	response := models.ServerInfoResponse{
		Uptime:    uptime,
		IdleTime:  idleTime,
		ScanCount: scanCount,
		Extension: s.scanner.Extension(),
		Resources: s.systemResources(),
	}

	s.logger.Debugf("Server info: uptime=%.2fs, idle_time=%.2fs, scans=%d", uptime, idleTime, scanCount)
	c.JSON(http.StatusOK, response)
}

func (s *Server) handleScan(c *gin.Context) {
	ctx, span := otel.Tracer("meshscan").Start(c.Request.Context(), "handle_scan")
	defer span.End()

	var req models.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error(), ErrorType: "BadRequest"})
		return
	}

	span.SetAttributes(attribute.String("scan.root", req.Path))
	if s.config.Telemetry.Enabled {
		telemetry.ReportScanRequest(ctx, s.logger, req)
	}

	sc, err := s.scanner.WithExtension(req.Extension)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error(), ErrorType: "BadRequest"})
		return
	}

	s.mu.Lock()
	s.lastScanTime = time.Now()
	s.scanCount++
	s.mu.Unlock()

	meshes, err := sc.Scan(ctx, req.Path)
	if err != nil {
		span.RecordError(err)
		s.logger.Errorf("Scan of %s failed: %v", req.Path, err)

		resp := models.ErrorResponse{Error: err.Error(), ErrorType: "ScanError"}
		var dirErr *scanner.DirectoryReadError
		if errors.As(err, &dirErr) {
			resp.ErrorType = "DirectoryReadError"
			resp.Path = dirErr.Path
		}
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	resp := models.ScanResponse{
		Root:      req.Path,
		Extension: sc.Extension(),
		Meshes:    meshes,
		Count:     len(meshes),
	}
	if s.config.Telemetry.Enabled {
		telemetry.ReportScanResponse(ctx, s.logger, resp)
	}

	s.logger.Infof("Scanned %s: %d meshes found", req.Path, len(meshes))
	c.JSON(http.StatusOK, resp)
}

// ginLogger creates a gin logger middleware using logrus
func ginLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		statusCode := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"status":     statusCode,
			"method":     c.Request.Method,
			"path":       path,
			"ip":         c.ClientIP(),
			"latency":    time.Since(start),
			"user_agent": c.Request.UserAgent(),
		})

		if raw != "" {
			entry = entry.WithField("query", raw)
		}

		switch {
		case statusCode >= 500:
			entry.Error("Server error")
		case statusCode >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request completed")
		}
	}
}

// authMiddleware validates API key
func authMiddleware(expectedAPIKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-Session-API-Key") != expectedAPIKey {
			c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Invalid API Key"})
			c.Abort()
			return
		}
		c.Next()
	}
}
