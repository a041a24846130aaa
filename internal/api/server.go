// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/wealth-analytics/internal/models"
)

// Service interfaces for dependency injection and testing

// KPIServiceInterface serves the firm-level KPI snapshot
type KPIServiceInterface interface {
	Snapshot(ctx context.Context) *models.KPISnapshot
}

// ClientAnalyticsInterface groups the client-facing engines
type ClientAnalyticsInterface interface {
	Segments(ctx context.Context) []*models.WealthSegmentRow
	Engagement(ctx context.Context) []*models.EngagementRow
}

// PortfolioAnalyticsInterface groups the portfolio-facing engines
type PortfolioAnalyticsInterface interface {
	SuitabilityAlerts(ctx context.Context) []*models.SuitabilityAlert
	ConcentrationBreaches(ctx context.Context, thresholdPct float64) []*models.ConcentrationBreach
}

// DriftServiceInterface serves allocation drift rows
type DriftServiceInterface interface {
	DriftAnalysis(ctx context.Context) []*models.DriftRow
}

// CashSweepServiceInterface serves idle-cash rows
type CashSweepServiceInterface interface {
	IdleCash(ctx context.Context) []*models.CashSweepRow
}

// AnomalyServiceInterface serves flagged transactions
type AnomalyServiceInterface interface {
	TransactionAnomalies(ctx context.Context, windowDays int) []*models.AnomalyRow
}

// ChurnServiceInterface serves attrition-risk rows
type ChurnServiceInterface interface {
	ChurnRisk(ctx context.Context) []*models.ChurnRow
}

// OutreachServiceInterface serves the outreach queue
type OutreachServiceInterface interface {
	OutreachPriorities(ctx context.Context) []*models.OutreachRow
}

// SentimentServiceInterface serves labeled interaction notes
type SentimentServiceInterface interface {
	Sentiment(ctx context.Context, windowDays int) []*models.SentimentRow
}

// GeoServiceInterface serves geographic rollups
type GeoServiceInterface interface {
	GeographicDistribution(ctx context.Context) []*models.GeoRollupRow
	ZipRollup(ctx context.Context, state string) []*models.GeoRollupRow
}

// AdvisorServiceInterface serves advisor productivity rows
type AdvisorServiceInterface interface {
	AdvisorProductivity(ctx context.Context, windowDays int) []*models.AdvisorProductivityRow
}

// ActionServiceInterface serves next-best-action recommendations
type ActionServiceInterface interface {
	NextBestActions(ctx context.Context) []*models.NextBestActionRow
}

// ComplianceServiceInterface serves the review queue
type ComplianceServiceInterface interface {
	ComplianceReviews(ctx context.Context) []*models.ComplianceReviewRow
}

// BriefingServiceInterface serves per-client briefings
type BriefingServiceInterface interface {
	ClientBriefing(ctx context.Context, clientID string) (*models.ClientBriefing, error)
}

// Services bundles every engine the server routes to
type Services struct {
	KPI        KPIServiceInterface
	Clients    ClientAnalyticsInterface
	Portfolios PortfolioAnalyticsInterface
	Drift      DriftServiceInterface
	CashSweep  CashSweepServiceInterface
	Anomaly    AnomalyServiceInterface
	Churn      ChurnServiceInterface
	Outreach   OutreachServiceInterface
	Sentiment  SentimentServiceInterface
	Geo        GeoServiceInterface
	Advisors   AdvisorServiceInterface
	Actions    ActionServiceInterface
	Compliance ComplianceServiceInterface
	Briefing   BriefingServiceInterface
}

// Server represents the HTTP API server.
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	services   *Services
	config     *ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host              string
	Port              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	RequestsPerSecond int
	Burst             int
}

// NewServer creates a new API server instance.
func NewServer(config *ServerConfig, services *Services) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		services: services,
		config:   config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.RequestsPerSecond, s.config.Burst)

	// Middleware order matters
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)
	s.router.Use(RateLimitMiddleware(rateLimiter))
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	// Firm-level KPIs
	api.HandleFunc("/kpis", s.handleKPIs).Methods("GET")

	// Client analytics
	api.HandleFunc("/clients/segments", s.handleSegments).Methods("GET")
	api.HandleFunc("/clients/engagement", s.handleEngagement).Methods("GET")
	api.HandleFunc("/clients/churn-risk", s.handleChurnRisk).Methods("GET")
	api.HandleFunc("/clients/outreach", s.handleOutreach).Methods("GET")
	api.HandleFunc("/clients/sentiment", s.handleSentiment).Methods("GET")
	api.HandleFunc("/clients/next-best-actions", s.handleNextBestActions).Methods("GET")
	api.HandleFunc("/clients/compliance-reviews", s.handleComplianceReviews).Methods("GET")
	api.HandleFunc("/clients/{id}/briefing", s.handleClientBriefing).Methods("GET")

	// Portfolio analytics
	api.HandleFunc("/portfolios/suitability-alerts", s.handleSuitabilityAlerts).Methods("GET")
	api.HandleFunc("/portfolios/concentration", s.handleConcentration).Methods("GET")
	api.HandleFunc("/portfolios/drift", s.handleDrift).Methods("GET")
	api.HandleFunc("/portfolios/idle-cash", s.handleIdleCash).Methods("GET")

	// Transaction analytics
	api.HandleFunc("/transactions/anomalies", s.handleAnomalies).Methods("GET")

	// Advisor analytics
	api.HandleFunc("/advisors/productivity", s.handleAdvisorProductivity).Methods("GET")

	// Geographic analytics
	api.HandleFunc("/geo/states", s.handleGeoStates).Methods("GET")
	api.HandleFunc("/geo/states/{state}/zips", s.handleGeoZips).Methods("GET")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "wealth-analytics",
	})
}

// Router exposes the configured router, used by tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	logrus.WithField("addr", s.httpServer.Addr).Info("Starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logrus.Info("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}
