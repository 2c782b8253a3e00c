package server

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanket200511/CrisisForge-AI/internal/alerts"
	"github.com/sanket200511/CrisisForge-AI/sim"
	"github.com/sanket200511/CrisisForge-AI/sim/demo"
	"github.com/sanket200511/CrisisForge-AI/sim/transfer"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "CrisisForge AI",
		"status":  "operational",
		"version": Version,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"version":   Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// intQuery parses an integer query parameter with a default.
func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func (s *Server) handleHospitals(c *gin.Context) {
	count, err := intQuery(c, "count", demo.MaxHospitals)
	if err != nil || count < 1 || count > demo.MaxHospitals {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count must be an integer in [1,8]"})
		return
	}
	hospitals := demo.Hospitals(count, s.demoRNG())
	c.JSON(http.StatusOK, gin.H{"hospitals": hospitals, "count": len(hospitals)})
}

func (s *Server) handleScenarios(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"scenarios": demo.PresetScenarios()})
}

var policyDescriptions = map[string]string{
	sim.PolicyFCFS:      "Patients are treated strictly in arrival order regardless of condition.",
	sim.PolicySeverity:  "Critical patients are prioritized; highest severity scores treated first.",
	sim.PolicyEquity:    "Resources are distributed proportionally across age groups.",
	sim.PolicyOptimized: "Severity-led allocation tuned to maximize expected lives saved.",
}

func (s *Server) handleStrategies(c *gin.Context) {
	type strategyInfo struct {
		Key         string `json:"key"`
		Name        string `json:"name"`
		Color       string `json:"color"`
		Description string `json:"description"`
	}
	strategies := make([]strategyInfo, 0, len(sim.AllocationPolicyKeys))
	for _, key := range sim.AllocationPolicyKeys {
		p := sim.NewAllocationPolicy(key)
		strategies = append(strategies, strategyInfo{
			Key:         p.Key(),
			Name:        p.Name(),
			Color:       p.Color(),
			Description: policyDescriptions[key],
		})
	}
	c.JSON(http.StatusOK, gin.H{"strategies": strategies})
}

func (s *Server) handleHistorical(c *gin.Context) {
	days, err := intQuery(c, "days", 30)
	if err != nil || days < 7 || days > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer in [7,365]"})
		return
	}
	c.JSON(http.StatusOK, demo.HistoricalData(days, s.demoRNG()))
}

func (s *Server) handleDashboardSummary(c *gin.Context) {
	hospitals := demo.Hospitals(demo.MaxHospitals, s.demoRNG())
	overview := alerts.Overview(hospitals)
	active := alerts.CapacityAlerts(hospitals, s.thresholds)

	critical := 0
	for _, a := range active {
		if a.Level == alerts.LevelCritical {
			critical++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"overview":        overview,
		"alert_count":     len(active),
		"critical_alerts": critical,
		"hospitals":       hospitals,
	})
}

type forecastRequest struct {
	sim.ForecastConfig
	Seed int64 `json:"seed"`
}

func (s *Server) handleForecast(c *gin.Context) {
	var req forecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ForecastConfig.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	prng := sim.NewPartitionedRNG(sim.NewSimulationKey(req.Seed))
	series, err := sim.Forecast(req.ForecastConfig, prng.ForSubsystem(sim.SubsystemForecast))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, series)
}

type simulateRequest struct {
	sim.ScenarioConfig
	Seed int64 `json:"seed"`
}

func (s *Server) handleSimulate(c *gin.Context) {
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ScenarioConfig.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	result, err := sim.RunSimulation(req.ScenarioConfig, sim.NewSimulationKey(req.Seed))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.metrics.simulationDuration.Observe(time.Since(start).Seconds())

	if s.runs == nil {
		c.JSON(http.StatusOK, result)
		return
	}

	summaries := make(map[string]sim.RunSummary, len(result.Policies))
	for key, run := range result.Policies {
		summaries[key] = run.Summary
	}
	id, err := s.runs.SaveRun(c.Request.Context(), req.CrisisType, req.ScenarioConfig, summaries)
	if err != nil {
		// Persistence is best effort; the simulation result still goes out.
		s.log.WithError(err).Warn("saving simulation run")
		c.JSON(http.StatusOK, result)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id":            id,
		"scenario":          result.Scenario,
		"hospital":          result.Hospital,
		"inflow_forecast":   result.InflowForecast,
		"resource_forecast": result.ResourceForecast,
		"strategies":        result.Policies,
	})
}

func (s *Server) handleTransfers(c *gin.Context) {
	count, err := intQuery(c, "hospital_count", 6)
	if err != nil || count < 3 || count > demo.MaxHospitals {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hospital_count must be an integer in [3,8]"})
		return
	}
	hospitals := demo.Hospitals(count, s.demoRNG())
	plan := transfer.Recommend(hospitals, transfer.DefaultOptions())
	c.JSON(http.StatusOK, plan)
}

// networkSnapshot bundles the demo network state used by the alert routes.
func (s *Server) networkSnapshot() ([]sim.Facility, []alerts.Alert, alerts.NetworkOverview) {
	hospitals := demo.Hospitals(demo.MaxHospitals, s.demoRNG())
	return hospitals, alerts.CapacityAlerts(hospitals, s.thresholds), alerts.Overview(hospitals)
}

func (s *Server) handleAlertStatus(c *gin.Context) {
	_, active, overview := s.networkSnapshot()
	configured := false
	if s.notifier != nil {
		if t, ok := s.notifier.(*alerts.TelegramNotifier); ok {
			configured = t.Configured()
		} else {
			configured = true
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"alerts":              active,
		"alert_count":         len(active),
		"overview":            overview,
		"thresholds":          s.thresholds,
		"notifier_configured": configured,
	})
}

func (s *Server) handleAlertPreview(c *gin.Context) {
	_, active, overview := s.networkSnapshot()
	c.JSON(http.StatusOK, gin.H{
		"message":     alerts.FormatAlertMessage(active, overview, time.Now()),
		"alert_count": len(active),
	})
}

func (s *Server) handleAlertSend(c *gin.Context) {
	if s.notifier == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notifier not configured"})
		return
	}
	_, active, overview := s.networkSnapshot()
	msg := alerts.FormatAlertMessage(active, overview, time.Now())
	if err := s.notifier.Send(c.Request.Context(), msg); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, alerts.ErrNotConfigured) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true, "alert_count": len(active)})
}

func (s *Server) handleMLStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"predictor_loaded": s.predictor != nil})
}

func (s *Server) handlePredict(c *gin.Context) {
	if s.predictor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "outcome predictor not loaded"})
		return
	}
	var features FeatureVector
	if err := c.ShouldBindJSON(&features); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	prediction, err := s.predictor.PredictOutcome(features)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, prediction)
}

func (s *Server) handleListRuns(c *gin.Context) {
	if s.runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run store not configured"})
		return
	}
	limit, err := intQuery(c, "limit", 20)
	if err != nil || limit < 1 || limit > 200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer in [1,200]"})
		return
	}
	recs, err := s.runs.ListRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": recs, "count": len(recs)})
}

func (s *Server) handleGetRun(c *gin.Context) {
	if s.runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run store not configured"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}
	rec, err := s.runs.GetRun(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleMetrics(c *gin.Context) {
	promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}).ServeHTTP(c.Writer, c.Request)
}
