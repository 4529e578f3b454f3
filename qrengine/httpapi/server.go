// Package httpapi exposes the dialogue engine over HTTP.
//
// This is the boundary the chat transport integrates against: one endpoint
// accepting raw user text events and returning the resulting action with
// its display text already resolved for the user's locale.
package httpapi

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/quickmark-labs/qrbot/qrengine/dialogue"
)

// maxBodyBytes caps event request bodies. User text is capped far lower
// by validation; this only guards the parser.
const maxBodyBytes = 64 << 10

// Logger is the minimal logging interface the API needs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Texts resolves catalog keys to display strings for a locale.
type Texts interface {
	Get(locale, key string) string
}

// Handler serves the event API.
type Handler struct {
	ctrl           *dialogue.Controller
	texts          Texts
	logger         Logger
	requestTimeout time.Duration
	tracer         trace.Tracer
}

// NewHandler wires the API handler.
func NewHandler(ctrl *dialogue.Controller, texts Texts, logger Logger, requestTimeout time.Duration) *Handler {
	return &Handler{
		ctrl:           ctrl,
		texts:          texts,
		logger:         logger,
		requestTimeout: requestTimeout,
		tracer:         otel.Tracer("qrbot/httpapi"),
	}
}

// Router builds the chi router with the standard middleware stack.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/v1/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/v1/events", h.handleEvent)

	return r
}

// =============================================================================
// Handlers
// =============================================================================

type eventRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

// eventResponse is a dialogue action with display strings resolved for
// the user's locale. Key fields are kept so transports may re-resolve.
type eventResponse struct {
	dialogue.Action
	Text string `json:"text"`
}

func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	ctx, span := h.tracer.Start(ctx, "httpapi.handleEvent")
	defer span.End()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "body read failed")
		return
	}

	var req eventRequest
	if err := sonic.Unmarshal(body, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		h.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	span.SetAttributes(attribute.String("event.user_id", req.UserID))

	action := h.ctrl.HandleEvent(ctx, req.UserID, req.Text)

	resp := eventResponse{
		Action: action,
		Text:   h.texts.Get(action.Locale, action.TextKey),
	}
	// Choice labels resolve through the catalog unless already display-ready.
	for i, c := range resp.Choices {
		if c.Label == "" && c.LabelKey != "" {
			resp.Choices[i].Label = h.texts.Get(action.Locale, c.LabelKey)
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Plumbing
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		h.logger.Error("response_marshal_failed", "error", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Info("http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}
