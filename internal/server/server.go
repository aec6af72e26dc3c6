package server

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iwvelando/bpo-report/internal/app"
	"github.com/iwvelando/bpo-report/internal/store"
	"github.com/iwvelando/bpo-report/internal/theorem"
	"github.com/iwvelando/bpo-report/pkg/constants"
	"github.com/iwvelando/bpo-report/pkg/optimization"
	"github.com/iwvelando/bpo-report/pkg/output"
	"github.com/iwvelando/bpo-report/pkg/validation"
	"go.uber.org/zap"
)

type handler struct {
	logger *zap.Logger
	app    *app.App
	cfg    *Config
}

type endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

var endpoints = []endpoint{
	{http.MethodGet, "/health", "liveness and capabilities"},
	{http.MethodGet, "/api/version", "service version"},
	{http.MethodGet, "/api/theorems", "theorem table"},
	{http.MethodGet, "/api/theorems/{id}", "one theorem"},
	{http.MethodPost, "/api/optimize", "savings report for monthly_cost, agent_count, calls_per_month"},
	{http.MethodGet, "/api/business-case", "precomputed business case report"},
	{http.MethodGet, "/api/reports", "archived reports (bearer token)"},
	{http.MethodGet, "/api/reports/{id}", "one archived report (bearer token)"},
	{http.MethodGet, "/api/demo/tickets", "synthetic tickets"},
	{http.MethodGet, "/api/demo/trend", "daily ticket volume trend"},
}

// NewHandler constructs the HTTP handler that serves the report API.
func NewHandler(logger *zap.Logger, a *app.App, cfg *Config) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &Config{}
		_ = cfg.normalize()
	}

	h := &handler{logger: logger, app: a, cfg: cfg}

	if cfg.AuthToken == "" {
		logger.Warn("no auth token configured, archived report endpoints are open",
			zap.String("op", "server.NewHandler"),
		)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.accessLog)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"}, "server.NotFound")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": http.StatusText(http.StatusMethodNotAllowed)}, "server.MethodNotAllowed")
	})

	r.Get("/", h.handleIndex)
	r.Get("/health", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)
		r.Get("/theorems", h.handleTheorems)
		r.Get("/theorems/{id}", h.handleTheorem)
		r.Post("/optimize", h.handleOptimize)
		r.Get("/business-case", h.handleBusinessCase)

		r.Group(func(r chi.Router) {
			r.Use(h.requireToken)
			r.Get("/reports", h.handleReports)
			r.Get("/reports/{id}", h.handleReport)
		})

		r.Route("/demo", func(r chi.Router) {
			r.Get("/tickets", h.handleDemoTickets)
			r.Get("/trend", h.handleDemoTrend)
		})
	})

	return r
}

// NewHTTPServer wraps the handler in an http.Server with conservative timeouts.
func NewHTTPServer(cfg *Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func (h *handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		h.logger.Info("request served",
			zap.String("op", "server.accessLog"),
			zap.String("requestID", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (h *handler) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.cfg.AuthToken == "" {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(h.cfg.AuthToken)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="bpo-report"`)
			h.respondErrorWithOp(w, http.StatusUnauthorized, "missing or invalid bearer token", "server.requireToken")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":   "bpo-report",
		"version":   app.Version,
		"endpoints": endpoints,
	}, "server.handleIndex")
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.app.Health(r.Context()), "server.handleHealth")
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": app.Version,
	}, "server.handleVersion")
}

func (h *handler) handleTheorems(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.app.Theorems(), "server.handleTheorems")
}

func (h *handler) handleTheorem(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid theorem id %q", raw), "server.handleTheorem")
		return
	}

	entry, err := h.app.Theorem(id)
	if errors.Is(err, theorem.ErrNotFound) {
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), "server.handleTheorem")
		return
	}
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.handleTheorem")
		return
	}
	h.writeJSON(w, http.StatusOK, entry, "server.handleTheorem")
}

func (h *handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleOptimize"

	outputFormat, ok := h.requestFormat(w, r, op)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.BodySizeBytes())
	var in optimization.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.cfg.BodySizeBytes()), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err), op)
		return
	}

	rep, err := h.app.Optimize(r.Context(), in)
	if errors.Is(err, optimization.ErrInvalidInput) {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	w.Header().Set("X-Report-ID", rep.ID)
	h.writeReport(w, outputFormat, rep, op)
}

func (h *handler) handleBusinessCase(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBusinessCase"

	outputFormat, ok := h.requestFormat(w, r, op)
	if !ok {
		return
	}
	h.writeReport(w, outputFormat, optimization.Report{Summary: h.app.BusinessCase()}, op)
}

func (h *handler) handleReports(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReports"

	limit, ok := h.queryLimit(w, r, constants.DefaultListLimit, op)
	if !ok {
		return
	}

	reports, err := h.app.Reports(r.Context(), limit)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, reports, op)
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReport"

	rep, err := h.app.Report(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
		return
	}
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, rep, op)
}

func (h *handler) handleDemoTickets(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.queryLimit(w, r, 0, "server.handleDemoTickets")
	if !ok {
		return
	}

	tickets := h.app.DemoTickets(limit)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(tickets),
		"by_status": h.app.DemoTicketsByStatus(),
		"tickets":   tickets,
	}, "server.handleDemoTickets")
}

func (h *handler) handleDemoTrend(w http.ResponseWriter, r *http.Request) {
	trend, volume, err := h.app.DemoTrend()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.handleDemoTrend")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"trend":        trend,
		"daily_volume": volume,
	}, "server.handleDemoTrend")
}

// requestFormat reads ?format=, defaulting to JSON.
func (h *handler) requestFormat(w http.ResponseWriter, r *http.Request, op string) (string, bool) {
	outputFormat := r.URL.Query().Get("format")
	if outputFormat == "" {
		return constants.OutputFormatJSON, true
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return "", false
	}
	return outputFormat, true
}

func (h *handler) queryLimit(w http.ResponseWriter, r *http.Request, fallback int, op string) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw), op)
		return 0, false
	}
	return limit, true
}

// writeReport serves the summary as JSON, or the whole report in another
// output format.
func (h *handler) writeReport(w http.ResponseWriter, outputFormat string, rep optimization.Report, op string) {
	rep.Summary = h.app.Present(rep.Summary)

	if outputFormat == constants.OutputFormatJSON {
		h.writeJSON(w, http.StatusOK, rep.Summary, op)
		return
	}

	var buf bytes.Buffer
	if err := output.Write(&buf, outputFormat, rep, h.app.Formatter()); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	switch outputFormat {
	case constants.OutputFormatYAML:
		w.Header().Set("Content-Type", "application/yaml")
	case constants.OutputFormatCSV:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write response", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	} else {
		h.logger.Debug("request rejected",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg}, op)
}

// writeJSON encodes the payload before writing the status, so an encoding
// failure is answered with a 500 instead of a truncated 200.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}, op string) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response",
			zap.String("op", op),
			zap.Int("status", status),
			zap.Error(err),
		)
		buf.Reset()
		buf.WriteString(`{"error":"failed to encode response"}` + "\n")
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", op), zap.Error(err))
	}
}
