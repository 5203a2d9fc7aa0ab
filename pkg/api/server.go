package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ppasini/fraudrank/pkg/jobs"
)

// Server is the HTTP collaborator layer around the rank engine. It
// owns the graph registry and, when a queue is configured, the async
// job path; the engine itself stays free of any HTTP or storage
// concern.
type Server struct {
	echo      *echo.Echo
	registry  *Registry
	publisher *jobs.Publisher
	results   *jobs.ResultStore

	statsMutex sync.Mutex
	stats      analysisStats
}

type analysisStats struct {
	TotalAnalyses  int
	ConvergedCount int
	TotalTimeMs    float64
	LastGraphID    string
	LastIterations int
	LastConverged  bool
	LastAt         time.Time
}

// NewServer wires the routes. publisher and results may be nil, in
// which case the async endpoints report the queue as unavailable.
func NewServer(publisher *jobs.Publisher, results *jobs.ResultStore) *Server {
	s := &Server{
		echo:      echo.New(),
		registry:  NewRegistry(),
		publisher: publisher,
		results:   results,
	}
	s.echo.HideBanner = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(metricsMiddleware)

	s.echo.GET("/", s.handleRoot)
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.POST("/graph/create", s.handleCreateGraph)
	s.echo.GET("/graph/current", s.handleCurrentGraph)
	s.echo.GET("/graph/demo", s.handleDemoGraph)
	s.echo.POST("/nodes/suspicious", s.handleMarkSuspicious)
	s.echo.POST("/pagerank/compute", s.handleCompute)
	s.echo.POST("/pagerank/submit", s.handleSubmit)
	s.echo.GET("/pagerank/result/:id", s.handleResult)
	s.echo.GET("/analysis/summary", s.handleSummary)
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks serving HTTP on addr.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		path := c.Path()
		if path == "" {
			path = c.Request().URL.Path
		}
		method := c.Request().Method
		status := strconv.Itoa(c.Response().Status)
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		return nil
	}
}

func (s *Server) recordAnalysis(graphID string, iterations int, converged bool, elapsedMs float64) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()
	s.stats.TotalAnalyses++
	if converged {
		s.stats.ConvergedCount++
	}
	s.stats.TotalTimeMs += elapsedMs
	s.stats.LastGraphID = graphID
	s.stats.LastIterations = iterations
	s.stats.LastConverged = converged
	s.stats.LastAt = time.Now()
}
