package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	internalerrors "github.com/myrjola/fitcore/internal/errors"
	"github.com/myrjola/fitcore/internal/metrics"
	"github.com/myrjola/fitcore/internal/plan"
	"github.com/myrjola/fitcore/internal/progress"
)

const maxRequestBody = 1 << 20

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", internalerrors.SlogError(err))
	app.writeError(w, r, http.StatusInternalServerError, "internal server error")
}

// handleError maps domain sentinels to HTTP status codes and writes the
// response. Unknown errors become opaque 500s.
func (app *application) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, metrics.ErrInvalidInput),
		errors.Is(err, progress.ErrInvalidEvent),
		errors.Is(err, plan.ErrIncompletePlanInput):
		app.writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, progress.ErrNotFound), errors.Is(err, plan.ErrNotFound):
		app.writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, progress.ErrConcurrencyConflict):
		app.writeError(w, r, http.StatusConflict, err.Error())
	default:
		app.serverError(w, r, err)
	}
}

func (app *application) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeJSON(w, r, status, map[string]string{"error": message})
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode response", slog.Any("error", err))
	}
}

// readJSON decodes the request body into v, rejecting unknown fields and
// oversized bodies.
func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// subjectIDParam extracts the subjectID path parameter. On failure a 404 is
// already written.
func subjectIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	subjectID := r.PathValue("subjectID")
	if subjectID == "" {
		http.NotFound(w, r)
		return "", false
	}
	return subjectID, true
}
