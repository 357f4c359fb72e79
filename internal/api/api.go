package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phishshield/phishscore/internal/config"
	"github.com/phishshield/phishscore/internal/types"
)

// MaxBodyBytes caps the /predict request body.
const MaxBodyBytes = 1 << 20

// Scorer is the part of usecase.Usecase the handlers need.
type Scorer interface {
	ScoreMessage(req types.PredictRequest) types.PredictResponse
}

type Options struct {
	AllowedOrigins []string
	Metrics        *Metrics
	Logger         *slog.Logger
}

type handler struct {
	scorer  Scorer
	metrics *Metrics
	logger  *slog.Logger
}

// NewRouter builds the HTTP surface around s.
func NewRouter(s Scorer, o Options) http.Handler {
	if o.Metrics == nil {
		o.Metrics = NewMetrics()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	h := &handler{scorer: s, metrics: o.Metrics, logger: o.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(corsMiddleware(o.AllowedOrigins))

	r.Get("/health", h.health)
	r.Post("/predict", h.predict)
	r.Method(http.MethodGet, "/metrics", o.Metrics.Handler())
	return r
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) predict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	var req types.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("bad predict request", "err", err, "request_id", middleware.GetReqID(r.Context()))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp := h.scorer.ScoreMessage(req)
	h.metrics.Observe(resp.ScoreResult)
	h.logger.Debug("scored",
		"request_id", middleware.GetReqID(r.Context()),
		"model_version", resp.ModelVersion,
		"phish_prob", resp.PhishProb,
		"highlights", len(resp.Highlights),
	)
	writeJSON(w, http.StatusOK, resp)
}

// corsMiddleware answers preflight requests itself. A "*" entry allows any
// origin; otherwise the request origin is echoed only when listed.
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	wildcard := len(origins) == 0 || slices.Contains(origins, "*")
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		allowed = append(allowed, config.NormalizeOrigin(o))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(allowed, config.NormalizeOrigin(origin)):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
