// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/models"
)

const maxBodyBytes = 1 << 20

// Answerer turns one normalized question into a response envelope.
type Answerer interface {
	Answer(ctx context.Context, req *models.ChatRequest) *models.Envelope
}

// ReadinessChecker reports whether the backing stores are reachable.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

type Server struct {
	answerer Answerer
	ready    ReadinessChecker
	logger   logger.Logger
}

func New(answerer Answerer, ready ReadinessChecker, log logger.Logger) *Server {
	return &Server{answerer: answerer, ready: ready, logger: log}
}

// Handler wires the routes and middleware. Outermost middleware is applied last.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.Chat)
	mux.HandleFunc("GET /health", s.Health)
	mux.HandleFunc("GET /ready", s.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	var h http.Handler = mux
	h = Logging(s.logger)(h)
	h = RequestID(h)
	h = Recovery(s.logger)(h)
	return h
}

// Chat answers one question. The body is normalized from the field names
// the different clients send.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var body chatBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	req := body.normalize()
	req.RequestID = requestIDFrom(r.Context())

	env := s.answerer.Answer(r.Context(), req)
	writeJSON(w, StatusFor(env), env)
}

func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Ready fails with 503 while any required backend is unreachable.
func (s *Server) Ready(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready.Ready(r.Context()); err != nil {
			s.logger.Warn("readiness check failed", map[string]interface{}{"error": err})
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
