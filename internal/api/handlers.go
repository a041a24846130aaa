package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// parseWindowDays reads an optional windowDays query parameter. Zero means
// "use the engine default"; negative or malformed values are rejected.
func parseWindowDays(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("windowDays")
	if raw == "" {
		return 0, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return 0, false
	}
	return days, true
}

// handleKPIs handles GET /api/kpis
func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.services.KPI.Snapshot(r.Context()))
}

// handleSegments handles GET /api/clients/segments
func (s *Server) handleSegments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.services.Clients.Segments(r.Context()))
}

// handleEngagement handles GET /api/clients/engagement
func (s *Server) handleEngagement(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.services.Clients.Engagement(r.Context()))
}

// handleChurnRisk handles GET /api/clients/churn-risk
func (s *Server) handleChurnRisk(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.services.Churn.ChurnRisk(r.Context()))
}

// handleOutreach handles GET /api/clients/outreach
func (s *Server) handleOutreach(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.services.Outreach.OutreachPriorities(r.Context()))
}

// handleSentiment handles GET /api/clients/sentiment?windowDays=30
func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	windowDays, ok := parseWindowDays(r)
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "windowDays must be a non-negative integer", nil)
		return
	}
	respondJSON(w, http.StatusOK, s.services.Sentiment.Sentiment(r.Context(), windowDays))
}

// handleNextBestActions handles GET /api/clients/next-best-actions
func (s *Server) handleNextBestActions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.services.Actions.NextBestActions(r.Context()))
}

// handleComplianceReviews handles GET /api/clients/compliance-reviews
func (s *Server) handleComplianceReviews(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.services.Compliance.ComplianceReviews(r.Context()))
}

// handleClientBriefing handles GET /api/clients/{id}/briefing
func (s *Server) handleClientBriefing(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["id"]

	briefing, err := s.services.Briefing.ClientBriefing(r.Context(), clientID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, briefing)
}

// handleSuitabilityAlerts handles GET /api/portfolios/suitability-alerts
func (s *Server) handleSuitabilityAlerts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.services.Portfolios.SuitabilityAlerts(r.Context()))
}

// handleConcentration handles GET /api/portfolios/concentration?thresholdPct=30
func (s *Server) handleConcentration(w http.ResponseWriter, r *http.Request) {
	var thresholdPct float64
	if raw := r.URL.Query().Get("thresholdPct"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 100 {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "thresholdPct must be between 0 and 100", nil)
			return
		}
		thresholdPct = parsed
	}
	respondJSON(w, http.StatusOK, s.services.Portfolios.ConcentrationBreaches(r.Context(), thresholdPct))
}

// handleDrift handles GET /api/portfolios/drift
func (s *Server) handleDrift(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.services.Drift.DriftAnalysis(r.Context()))
}

// handleIdleCash handles GET /api/portfolios/idle-cash
func (s *Server) handleIdleCash(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.services.CashSweep.IdleCash(r.Context()))
}

// handleAnomalies handles GET /api/transactions/anomalies?windowDays=90
func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	windowDays, ok := parseWindowDays(r)
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "windowDays must be a non-negative integer", nil)
		return
	}
	respondJSON(w, http.StatusOK, s.services.Anomaly.TransactionAnomalies(r.Context(), windowDays))
}

// handleAdvisorProductivity handles GET /api/advisors/productivity?windowDays=30
func (s *Server) handleAdvisorProductivity(w http.ResponseWriter, r *http.Request) {
	windowDays, ok := parseWindowDays(r)
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "windowDays must be a non-negative integer", nil)
		return
	}
	respondJSON(w, http.StatusOK, s.services.Advisors.AdvisorProductivity(r.Context(), windowDays))
}

// handleGeoStates handles GET /api/geo/states
func (s *Server) handleGeoStates(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.services.Geo.GeographicDistribution(r.Context()))
}

// handleGeoZips handles GET /api/geo/states/{state}/zips
func (s *Server) handleGeoZips(w http.ResponseWriter, r *http.Request) {
	state := mux.Vars(r)["state"]
	if state == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "state is required", nil)
		return
	}
	respondJSON(w, http.StatusOK, s.services.Geo.ZipRollup(r.Context(), state))
}
