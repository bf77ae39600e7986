// Package api serves the grading service over HTTP.
package api

import (
	"net/http"

	"github.com/borzacchiello/goconcolic/grading"
	"github.com/borzacchiello/goconcolic/logging"
	"github.com/gin-gonic/gin"
)

type Option func(*Server)

// WithMetrics exposes h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

func WithLogger(l *logging.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// Server holds the state for the REST API server.
type Server struct {
	grading *grading.Service
	metrics http.Handler
	logger  *logging.Logger
	router  *gin.Engine
}

func NewServer(svc *grading.Service, opts ...Option) *Server {
	s := &Server{
		grading: svc,
		logger:  logging.GlobalLogger.NewSubLogger(logging.SERVICE_KEY, logging.API_SERVICE),
		router:  gin.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router.Use(gin.Recovery(), s.logRequests)
	s.setupRoutes()
	return s
}

// Handler is the router, for mounting under another server or for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the server on the specified address.
func (s *Server) Run(addr string) error {
	s.logger.Info("listening on ", addr)
	return s.router.Run(addr)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/v1/programs", s.handlePrograms)
	s.router.GET("/v1/programs/:name/counterexamples", s.handleCounterexamples)
	s.router.POST("/v1/explore", s.handleExplore)
	s.router.POST("/v1/check", s.handleCheck)
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics))
	}
}

func (s *Server) logRequests(c *gin.Context) {
	c.Next()
	s.logger.Debug(c.Request.Method, " ", c.Request.URL.Path, " ", c.Writer.Status())
	for _, e := range c.Errors {
		s.logger.Error(c.Request.URL.Path, ": ", e.Err)
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}
