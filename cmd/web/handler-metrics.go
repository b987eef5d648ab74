package main

import (
	"fmt"
	"net/http"

	"github.com/myrjola/fitcore/internal/metrics"
)

// metricsGET computes derived metrics from the subject's latest sample. The
// activityLevel query parameter is required; an unknown level is an error,
// never a silently assumed factor.
func (app *application) metricsGET(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := subjectIDParam(w, r)
	if !ok {
		return
	}

	level, err := metrics.ParseActivityLevel(r.URL.Query().Get("activityLevel"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	derived, err := app.progressService.Metrics(r.Context(), subjectID, level)
	if err != nil {
		app.handleError(w, r, fmt.Errorf("compute metrics: %w", err))
		return
	}

	app.writeJSON(w, r, http.StatusOK, derived)
}
