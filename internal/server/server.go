// File: internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/archeblow/riskcore/internal/analyst"
	"github.com/archeblow/riskcore/internal/analyzer"
	"github.com/archeblow/riskcore/internal/explorer"
	"github.com/archeblow/riskcore/internal/metrics"
	"github.com/archeblow/riskcore/internal/models"
	"github.com/archeblow/riskcore/internal/monitoring"
	"github.com/archeblow/riskcore/internal/store"
	"github.com/archeblow/riskcore/pkg/utils"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port          int           `json:"port"`
	Host          string        `json:"host"`
	ReadTimeout   time.Duration `json:"read_timeout"`
	WriteTimeout  time.Duration `json:"write_timeout"`
	EnableMetrics bool          `json:"enable_metrics"`
	EnableHealth  bool          `json:"enable_health"`
}

// HTTPServer exposes the analysis engine over a JSON API
type HTTPServer struct {
	config     *ServerConfig
	server     *http.Server
	router     *mux.Router
	analyzer   *analyzer.Analyzer
	analyst    *analyst.Analyst
	monitoring *monitoring.Service
	store      *store.AnalysisStore
	metrics    *metrics.Metrics
	logger     *logrus.Logger
}

// NewHTTPServer creates a new HTTP server
func NewHTTPServer(
	config *ServerConfig,
	riskAnalyzer *analyzer.Analyzer,
	riskAnalyst *analyst.Analyst,
	monitoringService *monitoring.Service,
	analysisStore *store.AnalysisStore,
	metricsRegistry *metrics.Metrics,
) *HTTPServer {
	server := &HTTPServer{
		config:     config,
		analyzer:   riskAnalyzer,
		analyst:    riskAnalyst,
		monitoring: monitoringService,
		store:      analysisStore,
		metrics:    metricsRegistry,
		logger:     utils.GetLogger(),
	}

	server.setupRouter()

	server.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      server.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return server
}

// setupRouter sets up the HTTP routes
func (s *HTTPServer) setupRouter() {
	s.router = mux.NewRouter()

	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.corsMiddleware)
	if s.metrics != nil {
		s.router.Use(s.metricsMiddleware)
	}

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/watches", s.handleListWatches).Methods(http.MethodGet)
	api.HandleFunc("/watches", s.handleScheduleWatch).Methods(http.MethodPost)
	api.HandleFunc("/events", s.handleListEvents).Methods(http.MethodGet)
	api.HandleFunc("/providers", s.handleProviderStatus).Methods(http.MethodGet)
	api.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)

	if s.config.EnableHealth {
		s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	}
	if s.config.EnableMetrics {
		s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}
}

// Start starts the HTTP server
func (s *HTTPServer) Start() error {
	s.logger.WithField("addr", s.server.Addr).Info("Starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

type analyzeRequest struct {
	Address string `json:"address"`
	Network string `json:"network"`
}

type analyzeResponse struct {
	Result   *models.AddressAnalysisResult `json:"result"`
	Briefing *models.AnalystBriefing       `json:"briefing"`
}

// handleAnalyze runs one full analysis and reports the provider outcome to
// the monitoring service
func (s *HTTPServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "request body must be JSON with address and network")
		return
	}
	if req.Address == "" {
		s.writeAnalysisError(w, utils.NewAppError(utils.ErrCodeValidation, "address is required"))
		return
	}
	network, err := models.ParseNetwork(req.Network)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	client, clientErr := s.analyzer.ExplorerFor(network)

	started := time.Now()
	result, err := s.analyzer.Analyze(r.Context(), req.Address, network)
	if err != nil {
		if clientErr == nil {
			s.monitoring.RecordAPIError(client.ServiceID(), err.Error(), map[string]interface{}{
				"address": req.Address,
				"network": network.String(),
			})
			if s.metrics != nil {
				s.metrics.ExplorerRequestsTotal.WithLabelValues(client.ServiceID(), "error").Inc()
			}
		}
		s.writeAnalysisError(w, err)
		return
	}

	if clientErr == nil {
		if s.metrics != nil {
			s.metrics.ExplorerRequestsTotal.WithLabelValues(client.ServiceID(), "ok").Inc()
		}
		s.monitoring.RecordAPISuccess(client.ServiceID(),
			fmt.Sprintf("Fetched %d hops for %s", len(result.Hops), utils.ShortAddress(req.Address)),
			map[string]interface{}{
				"address": req.Address,
				"network": network.String(),
			})
	}

	if s.metrics != nil {
		s.metrics.AnalysesTotal.WithLabelValues(network.String(), string(result.RiskLevel)).Inc()
		s.metrics.AnalysisDuration.Observe(time.Since(started).Seconds())
		if len(result.Mixers) > 0 {
			s.metrics.MixerMatchesTotal.Add(float64(len(result.Mixers)))
		}
	}

	s.store.Add(result)
	briefing := s.analyst.GenerateBriefing(result)

	s.writeJSON(w, http.StatusOK, analyzeResponse{Result: result, Briefing: briefing})
}

type scheduleWatchRequest struct {
	Address string `json:"address"`
	Network string `json:"network"`
	Days    int    `json:"days"`
	Comment string `json:"comment"`
}

func (s *HTTPServer) handleScheduleWatch(w http.ResponseWriter, r *http.Request) {
	var req scheduleWatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "request body must be JSON")
		return
	}
	if req.Address == "" {
		s.writeAnalysisError(w, utils.NewAppError(utils.ErrCodeValidation, "address is required"))
		return
	}
	network, err := models.ParseNetwork(req.Network)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Days <= 0 {
		req.Days = 30
	}

	watch := s.monitoring.ScheduleWatch(req.Address, network, req.Days, req.Comment)
	s.writeJSON(w, http.StatusCreated, watch)
}

func (s *HTTPServer) handleListWatches(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"watches": s.monitoring.ActiveWatches(),
	})
}

func (s *HTTPServer) handleListEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": s.monitoring.RecentEvents(limit),
	})
}

func (s *HTTPServer) handleProviderStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"providers": s.monitoring.APIStatusSnapshot(),
		"summary":   s.monitoring.StatusSummary(),
	})
}

func (s *HTTPServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"metrics":      s.store.Metrics(),
		"distribution": s.store.RiskDistribution(),
		"recent_notes": s.store.RecentNotes(10),
		"api_status":   s.monitoring.StatusSummary(),
	})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Unix(),
	})
}

// writeAnalysisError maps the engine's error taxonomy onto the API failure
// surfaces: unsupported network, upstream API error with status, and generic
// network failure.
func (s *HTTPServer) writeAnalysisError(w http.ResponseWriter, err error) {
	var unsupported *explorer.UnsupportedNetworkError
	if errors.As(err, &unsupported) {
		s.writeError(w, http.StatusUnprocessableEntity, "unsupported_network", unsupported.Error())
		return
	}

	var apiErr *explorer.APIError
	if errors.As(err, &apiErr) {
		payload := map[string]interface{}{
			"error":   "upstream_api_error",
			"message": apiErr.Error(),
		}
		if apiErr.StatusCode != 0 {
			payload["upstream_status"] = apiErr.StatusCode
		}
		s.writeJSON(w, http.StatusBadGateway, payload)
		return
	}

	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case utils.ErrCodeValidation:
			s.writeError(w, http.StatusBadRequest, "invalid_request", appErr.Message)
			return
		case utils.ErrCodeNotFound:
			s.writeError(w, http.StatusNotFound, "no_provider_for_network", appErr.Message)
			return
		}
	}

	s.writeError(w, http.StatusInternalServerError, "network_failure", err.Error())
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}
