package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/napatsn/riko/internal/config"
	"github.com/napatsn/riko/internal/observability"
)

// UpdateHandler processes one decoded Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

type Server struct {
	cfg     config.Config
	handler UpdateHandler
	metrics *observability.Metrics
}

func New(cfg config.Config, handler UpdateHandler, metrics *observability.Metrics) *Server {
	return &Server{cfg: cfg, handler: handler, metrics: metrics}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/telegram/webhook", s.handleWebhook)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

// handleWebhook is the inbound binding: one webhook invocation handles one
// update as a single sequential task. Telegram retries on non-2xx, so a
// handled update always answers 200 even when the turn itself degraded.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed update"})
		return
	}

	s.handler.HandleUpdate(r.Context(), update)
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
