// Package handler exposes the validation engine over HTTP for the browser
// client collector. The collector posts serialized form values and expects
// the per-field result mapping back: validation failures travel in a 200
// response with success=false, while fatal configuration or transport
// problems surface as JSON error envelopes with non-2xx statuses.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saikojosh/Foval"
	"github.com/saikojosh/Foval/pkg/logger"
)

// FormFactory builds a form definition over one request's raw values. Each
// request gets its own Form; factories must not share mutable state.
type FormFactory func(values foval.Values) (*foval.Form, error)

// Response is the wire shape the client collector consumes.
type Response struct {
	Success bool                          `json:"success"`
	Errors  map[string]*foval.FieldResult `json:"errors,omitempty"`
	Values  map[string]any                `json:"values,omitempty"`
	Error   *ErrorDetail                  `json:"error,omitempty"`
}

// ErrorDetail describes a fatal failure.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type options struct {
	log *slog.Logger
}

// Option configures the handler.
type Option func(*options)

// WithLogger attaches a logger; requests log with a generated request id.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// Validate returns an http.HandlerFunc that extracts the raw value bag,
// builds a form through the factory and runs validation.
func Validate(factory FormFactory, opts ...Option) http.HandlerFunc {
	o := &options{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(o)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		log := o.log.With(logger.RequestID(requestID))

		values, err := ExtractValues(r)
		if err != nil {
			log.Warn("rejected request body", logger.Error(err))
			writeFatal(w, http.StatusBadRequest, "bad-request", err)
			return
		}

		form, err := factory(values)
		if err != nil {
			log.Error("form definition failed", logger.Error(err))
			writeFatal(w, http.StatusInternalServerError, "form-definition", err)
			return
		}

		result, err := form.Validate(r.Context())
		if err != nil {
			status, code := http.StatusInternalServerError, "validation-aborted"
			if errors.Is(err, foval.ErrStaleClient) {
				status, code = http.StatusConflict, "stale-client"
			}
			log.Error("validation aborted", logger.Error(err))
			writeFatal(w, status, code, err)
			return
		}

		log.Info("form validated", slog.Bool("valid", result.Valid))
		writeJSON(w, http.StatusOK, Response{
			Success: result.Valid,
			Errors:  result.Fields,
			Values:  jsonSafeValues(result.Values),
		})
	}
}

// Routes mounts the validation endpoint on a chi router under POST /validate.
func Routes(factory FormFactory, opts ...Option) chi.Router {
	r := chi.NewRouter()
	r.Post("/validate", Validate(factory, opts...))
	return r
}

// jsonSafeValues replaces non-finite numbers, which numeric coercion uses
// for unanswered or unparseable fields, with null so the envelope stays
// encodable.
func jsonSafeValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for name, value := range values {
		if n, ok := value.(float64); ok && (math.IsNaN(n) || math.IsInf(n, 0)) {
			out[name] = nil
			continue
		}
		out[name] = value
	}
	return out
}

func writeFatal(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, Response{
		Success: false,
		Error:   &ErrorDetail{Code: code, Message: err.Error()},
	})
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
