package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wealthpilot/advisor/internal/models"
)

// ChatRequest is the inbound body for the chat endpoint. Profile and history
// are optional; market data enrichment defaults to on.
type ChatRequest struct {
	Message           string                    `json:"message"`
	Profile           *models.UserProfile       `json:"profile,omitempty"`
	History           []models.ConversationTurn `json:"history,omitempty"`
	IncludeMarketData *bool                     `json:"include_market_data,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	includeMarketData := true
	if req.IncludeMarketData != nil {
		includeMarketData = *req.IncludeMarketData
	}
	s.logger.Debug("chat request",
		zap.Int("message_len", len(req.Message)),
		zap.Int("history", len(req.History)),
		zap.Bool("market_data", includeMarketData))
	result, err := s.orchestrator.Answer(r.Context(), req.Message, req.Profile, req.History, includeMarketData)
	if err != nil {
		s.logger.Error("answer failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleKnowledgeInit(w http.ResponseWriter, r *http.Request) {
	count, err := s.orchestrator.InitializeKnowledgeBase(r.Context(), true)
	if err != nil {
		s.logger.Error("knowledge init failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]int{"documents": count})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.orchestrator.IsReady(r.Context()))
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	profile := profileFromQuery(r.URL.Query().Get("risk_tolerance"), r.URL.Query().Get("age"), r.URL.Query().Get("has_emergency_fund"))
	suggestions := s.orchestrator.Suggestions(profile)
	s.respondJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

// profileFromQuery builds a partial profile from suggestion query parameters.
// Returns nil when no parameter is set so the base list is served.
func profileFromQuery(risk, age, emergencyFund string) *models.UserProfile {
	if risk == "" && age == "" && emergencyFund == "" {
		return nil
	}
	profile := &models.UserProfile{
		RiskTolerance: models.RiskTolerance(strings.ToLower(risk)),
	}
	if n, err := strconv.Atoi(age); err == nil {
		profile.Age = n
	}
	if b, err := strconv.ParseBool(emergencyFund); err == nil {
		profile.HasEmergencyFund = b
	}
	return profile
}

type validateRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondJSON(w, http.StatusOK, s.guard.Validate(req.Text))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
