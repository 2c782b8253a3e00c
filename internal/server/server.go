// Package server exposes the simulation engine over HTTP. It mirrors the
// shape of the dashboard API: JSON in, JSON out, with Prometheus metrics on
// /metrics. Collaborators (run store, notifier, outcome predictor) are
// optional and injected at construction; routes that need a missing one
// answer 503.
package server

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/sanket200511/CrisisForge-AI/internal/alerts"
	"github.com/sanket200511/CrisisForge-AI/internal/store"
	"github.com/sanket200511/CrisisForge-AI/sim"
)

// Version is reported by the root and health endpoints.
const Version = "1.0.0"

// Server holds the HTTP surface and its collaborators.
type Server struct {
	cfg      *Config
	log      *logrus.Entry
	engine   *gin.Engine
	registry *prometheus.Registry
	metrics  *apiMetrics

	runs      *store.Store
	notifier  alerts.Notifier
	predictor OutcomePredictor

	thresholds alerts.Thresholds
	demoSeed   int64
}

// Option wires an optional collaborator into the server.
type Option func(*Server)

// WithStore enables run persistence on /api/simulate and the /api/runs routes.
func WithStore(st *store.Store) Option {
	return func(s *Server) { s.runs = st }
}

// WithNotifier enables alert delivery on /api/alerts/send.
func WithNotifier(n alerts.Notifier) Option {
	return func(s *Server) { s.notifier = n }
}

// WithPredictor enables /api/predict.
func WithPredictor(p OutcomePredictor) Option {
	return func(s *Server) { s.predictor = p }
}

// New builds the server and registers all routes.
func New(cfg *Config, opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		cfg:        cfg,
		log:        logrus.WithField("component", "api"),
		registry:   prometheus.NewRegistry(),
		thresholds: alerts.DefaultThresholds,
		demoSeed:   cfg.DemoSeed,
	}
	if s.demoSeed == 0 {
		s.demoSeed = time.Now().UnixNano()
	}
	for _, opt := range opts {
		opt(s)
	}

	s.metrics = newAPIMetrics(s.registry)
	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.metrics.middleware())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/", s.handleRoot)
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api")
	api.GET("/hospitals", s.handleHospitals)
	api.GET("/scenarios", s.handleScenarios)
	api.GET("/strategies", s.handleStrategies)
	api.GET("/historical", s.handleHistorical)
	api.GET("/dashboard-summary", s.handleDashboardSummary)
	api.POST("/forecast", s.handleForecast)
	api.POST("/simulate", s.handleSimulate)
	api.GET("/transfers", s.handleTransfers)
	api.GET("/alerts/status", s.handleAlertStatus)
	api.GET("/alerts/preview", s.handleAlertPreview)
	api.POST("/alerts/send", s.handleAlertSend)
	api.POST("/predict", s.handlePredict)
	api.POST("/ml/predict", s.handlePredict)
	api.GET("/ml/status", s.handleMLStatus)
	api.GET("/runs", s.handleListRuns)
	api.GET("/runs/:id", s.handleGetRun)

	s.engine.GET("/metrics", s.handleMetrics)
}

// Handler returns the full HTTP handler with CORS applied outside the router.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(s.engine)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Infof("listening on %s", s.cfg.ListenAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// demoRNG returns a fresh fixture-data RNG. Deriving it per request keeps
// demo endpoints stable for the lifetime of one server process.
func (s *Server) demoRNG() *rand.Rand {
	prng := sim.NewPartitionedRNG(sim.NewSimulationKey(s.demoSeed))
	return prng.ForSubsystem(sim.SubsystemDemo)
}
