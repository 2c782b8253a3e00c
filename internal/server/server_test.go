package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanket200511/CrisisForge-AI/sim"
)

func testServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	return New(&Config{
		ListenAddr:     ":0",
		AllowedOrigins: []string{"*"},
		DemoSeed:       42,
	}, opts...)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestServer_Health(t *testing.T) {
	srv := testServer(t)
	w := doJSON(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "healthy", body["status"])
}

func TestServer_Hospitals(t *testing.T) {
	srv := testServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/hospitals?count=4", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(4), body["count"])

	// Fixture data is stable for one server instance.
	w2 := doJSON(t, srv, http.MethodGet, "/api/hospitals?count=4", nil)
	assert.Equal(t, w.Body.String(), w2.Body.String())

	for _, q := range []string{"count=0", "count=9", "count=abc"} {
		w := doJSON(t, srv, http.MethodGet, "/api/hospitals?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestServer_Simulate(t *testing.T) {
	srv := testServer(t)
	req := map[string]any{
		"crisis_type":          "pandemic",
		"duration_days":        14,
		"surge_multiplier":     2.0,
		"base_daily_patients":  40,
		"hospital_beds":        200,
		"hospital_icu":         30,
		"hospital_ventilators": 20,
		"seed":                 7,
	}
	w := doJSON(t, srv, http.MethodPost, "/api/simulate", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result sim.SimulationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Policies, 4)
	for key, run := range result.Policies {
		assert.Len(t, run.Timeline, 14, "policy %s", key)
	}
	assert.Len(t, result.InflowForecast.Mean, 14)
}

func TestServer_SimulateDeterministicForSeed(t *testing.T) {
	srv := testServer(t)
	req := map[string]any{
		"crisis_type":          "earthquake",
		"duration_days":        10,
		"surge_multiplier":     3.0,
		"base_daily_patients":  30,
		"hospital_beds":        150,
		"hospital_icu":         20,
		"hospital_ventilators": 10,
		"seed":                 99,
	}
	a := doJSON(t, srv, http.MethodPost, "/api/simulate", req)
	b := doJSON(t, srv, http.MethodPost, "/api/simulate", req)
	assert.Equal(t, a.Body.String(), b.Body.String())
}

func TestServer_SimulateValidation(t *testing.T) {
	srv := testServer(t)
	req := map[string]any{
		"crisis_type":          "pandemic",
		"duration_days":        500, // out of range
		"surge_multiplier":     2.0,
		"base_daily_patients":  40,
		"hospital_beds":        200,
		"hospital_icu":         30,
		"hospital_ventilators": 20,
	}
	w := doJSON(t, srv, http.MethodPost, "/api/simulate", req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "days")
}

func TestServer_Forecast(t *testing.T) {
	srv := testServer(t)
	req := map[string]any{
		"days":             21,
		"base_daily":       40,
		"crisis_type":      "flood",
		"surge_multiplier": 2.0,
		"seed":             1,
	}
	w := doJSON(t, srv, http.MethodPost, "/api/forecast", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var series sim.DemandSeries
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &series))
	assert.Len(t, series.Mean, 21)
	assert.Len(t, series.P90, 21)
}

func TestServer_ScenariosAndStrategies(t *testing.T) {
	srv := testServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["scenarios"])

	w = doJSON(t, srv, http.MethodGet, "/api/strategies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	strategies := decodeBody(t, w)["strategies"].([]any)
	assert.Len(t, strategies, 4)
}

func TestServer_Transfers(t *testing.T) {
	srv := testServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/transfers?hospital_count=6", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body, "network_summary")
	assert.Contains(t, body, "hospital_status")
	assert.Contains(t, body, "recommended_transfers")

	w = doJSON(t, srv, http.MethodGet, "/api/transfers?hospital_count=2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_PredictWithoutPredictor(t *testing.T) {
	srv := testServer(t)
	w := doJSON(t, srv, http.MethodPost, "/api/predict", map[string]any{
		"age": 60, "severity_score": 7,
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

type stubPredictor struct{}

func (stubPredictor) PredictOutcome(f FeatureVector) (OutcomePrediction, error) {
	label := "recovered"
	if f.SeverityScore >= 8 {
		label = "critical"
	}
	return OutcomePrediction{
		OutcomeLabel:          label,
		Probabilities:         map[string]float64{label: 0.9},
		ResourceHoursEstimate: f.SeverityScore * 24,
	}, nil
}

func TestServer_PredictWithStub(t *testing.T) {
	srv := testServer(t, WithPredictor(stubPredictor{}))
	w := doJSON(t, srv, http.MethodPost, "/api/predict", map[string]any{
		"age": 60, "gender": 1, "severity_score": 9,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "critical", body["predicted_outcome"])
}

func TestServer_MLStatus(t *testing.T) {
	srv := testServer(t)
	w := doJSON(t, srv, http.MethodGet, "/api/ml/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["predictor_loaded"])

	srv = testServer(t, WithPredictor(stubPredictor{}))
	w = doJSON(t, srv, http.MethodGet, "/api/ml/status", nil)
	assert.Equal(t, true, decodeBody(t, w)["predictor_loaded"])
}

func TestServer_RunsWithoutStore(t *testing.T) {
	srv := testServer(t)
	w := doJSON(t, srv, http.MethodGet, "/api/runs", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestServer_AlertRoutes(t *testing.T) {
	srv := testServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/alerts/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body, "alert_count")
	assert.Equal(t, false, body["notifier_configured"])

	w = doJSON(t, srv, http.MethodGet, "/api/alerts/preview", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeBody(t, w)["message"], "CrisisForge")

	w = doJSON(t, srv, http.MethodPost, "/api/alerts/send", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestServer_Metrics(t *testing.T) {
	srv := testServer(t)
	doJSON(t, srv, http.MethodGet, "/health", nil)

	w := doJSON(t, srv, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "crisisforge_http_requests_total")
}

func TestServer_CORSHeaders(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
