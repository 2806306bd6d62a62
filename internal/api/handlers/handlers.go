package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/commerce-insights/internal/analytics"
	"github.com/dvloznov/commerce-insights/internal/api/middleware"
)

// AnalyticsHandler serves the analytics operations over HTTP.
type AnalyticsHandler struct {
	engine *analytics.Engine
	log    zerolog.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(engine *analytics.Engine, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{engine: engine, log: log}
}

// ServeOperation handles GET /api/analytics/{operation}. Query
// parameters map one-to-one onto the operation's declared parameters;
// everything else in the envelope contract is untouched, so HTTP
// clients see exactly what the agent sees.
func (h *AnalyticsHandler) ServeOperation(w http.ResponseWriter, r *http.Request, operation string) {
	d, ok := analytics.Lookup(operation)
	if !ok {
		middleware.WriteError(w, http.StatusNotFound, "Unknown operation: "+operation)
		return
	}

	args, err := queryArgs(d, r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	env := d.Invoke(h.engine, args)
	status := statusFor(env)
	if !env.OK() {
		h.log.Warn().
			Str("operation", operation).
			Str("error_type", string(env.Err.Type)).
			Str("message", env.Err.Message).
			Msg("Operation returned error envelope")
	}
	middleware.WriteJSON(w, status, env)
}

// queryArgs converts URL query parameters into the loose argument map
// the registry adapters expect, honoring each parameter's declared
// type.
func queryArgs(d analytics.Descriptor, r *http.Request) (map[string]any, error) {
	q := r.URL.Query()
	args := map[string]any{}
	for _, p := range d.Params {
		raw := q.Get(p.Name)
		if raw == "" {
			continue
		}
		switch p.Type {
		case "integer":
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, &badParamError{name: p.Name, value: raw}
			}
			args[p.Name] = n
		case "array":
			parts := strings.Split(raw, ",")
			items := make([]any, 0, len(parts))
			for _, part := range parts {
				if s := strings.TrimSpace(part); s != "" {
					items = append(items, s)
				}
			}
			args[p.Name] = items
		default:
			args[p.Name] = raw
		}
	}
	return args, nil
}

type badParamError struct {
	name  string
	value string
}

func (e *badParamError) Error() string {
	return "Parameter " + e.name + " must be an integer, got: " + e.value
}

// statusFor maps the envelope outcome onto an HTTP status code.
func statusFor(env analytics.Envelope) int {
	if env.OK() {
		return http.StatusOK
	}
	switch env.Err.Type {
	case analytics.ErrorInvalidInput:
		return http.StatusBadRequest
	case analytics.ErrorNoData:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Router builds the HTTP routing table. Split out of main so tests can
// exercise it with httptest.
func Router(engine *analytics.Engine, log zerolog.Logger) *http.ServeMux {
	analyticsHandler := NewAnalyticsHandler(engine, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/analytics/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		operation := strings.TrimPrefix(r.URL.Path, "/api/analytics/")
		if operation == "" || strings.Contains(operation, "/") {
			middleware.WriteError(w, http.StatusBadRequest, "Operation name is required")
			return
		}
		analyticsHandler.ServeOperation(w, r, operation)
	})

	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		anchor := engine.Anchor()
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status":     "healthy",
			"data_as_of": anchor.DataEnd.Format("2006-01-02"),
			"time":       time.Now().Format(time.RFC3339),
		})
	})

	return mux
}
