// Package server exposes diagnosis over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hejijunhao/diagnose/internal/schema"
)

// maxBodyBytes caps the /predict request body.
const maxBodyBytes = 1 << 20

// Diagnoser is the inference capability the handlers serve.
type Diagnoser interface {
	Diagnose(symptoms []string) (string, error)
	Symptoms() []string
}

// Handler serves the symptom listing and prediction endpoints.
type Handler struct {
	diag   Diagnoser
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(d Diagnoser, logger *slog.Logger) *Handler {
	return &Handler{diag: d, logger: logger}
}

// Router builds the chi router with middleware and routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("pong"))
	})
	r.Get("/symptoms", h.ListSymptoms)
	r.Post("/predict", h.Predict)
	return r
}

// Client-facing error messages.
const (
	msgInvalidInput     = "Input gejala tidak valid"
	msgPredictionFailed = "Gagal memproses prediksi"
)

type predictRequest struct {
	Symptoms json.RawMessage `json:"symptoms"`
}

type response struct {
	Success    bool     `json:"success"`
	Prediction string   `json:"prediction,omitempty"`
	Symptoms   []string `json:"symptoms,omitempty"`
	Error      string   `json:"error,omitempty"`
	Details    string   `json:"details,omitempty"`
}

// ListSymptoms handles GET /symptoms and returns the known-symptom list.
func (h *Handler) ListSymptoms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Success: true, Symptoms: h.diag.Symptoms()})
}

// Predict handles POST /predict with body {"symptoms": [...]}.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	symptoms, err := decodeSymptoms(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.logger.Info("invalid symptom input", "request_id", middleware.GetReqID(r.Context()), "err", err)
		writeJSON(w, http.StatusBadRequest, response{Error: msgInvalidInput})
		return
	}

	label, err := h.diag.Diagnose(symptoms)
	if err != nil {
		h.logger.Error("prediction failed",
			"request_id", middleware.GetReqID(r.Context()),
			"symptoms", len(symptoms),
			"err", err)
		writeJSON(w, http.StatusInternalServerError, response{
			Error:   msgPredictionFailed,
			Details: err.Error(),
		})
		return
	}

	h.logger.Info("prediction",
		"request_id", middleware.GetReqID(r.Context()),
		"symptoms", len(symptoms),
		"prediction", label)
	writeJSON(w, http.StatusOK, response{Success: true, Prediction: label})
}

// decodeSymptoms reads {"symptoms": [...]} and requires a non-empty array
// of strings.
func decodeSymptoms(body io.Reader) ([]string, error) {
	var req predictRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return nil, err
	}
	if req.Symptoms == nil {
		return nil, errors.New("missing symptoms field")
	}
	symptoms, err := schema.DecodeSymptoms(req.Symptoms)
	if err != nil {
		return nil, err
	}
	if len(symptoms) == 0 {
		return nil, errors.New("empty symptom list")
	}
	return symptoms, nil
}

// Run serves h on addr until ctx is cancelled, then shuts down gracefully
// within shutdownTimeout.
func Run(ctx context.Context, addr string, h http.Handler, readTimeout, shutdownTimeout time.Duration, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     h,
		ReadTimeout: readTimeout,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// corsMiddleware allows any origin, matching the browser frontend's needs.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
