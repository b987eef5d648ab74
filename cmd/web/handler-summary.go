package main

import (
	"fmt"
	"net/http"
	"strconv"
)

const defaultSummaryWindowDays = 30

// summaryGET builds the progress summary over the past days window.
func (app *application) summaryGET(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := subjectIDParam(w, r)
	if !ok {
		return
	}

	windowDays := defaultSummaryWindowDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			app.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid days parameter %q", daysStr))
			return
		}
		windowDays = days
	}

	summary, err := app.progressService.Summarize(r.Context(), subjectID, windowDays)
	if err != nil {
		app.handleError(w, r, fmt.Errorf("summarize: %w", err))
		return
	}

	app.writeJSON(w, r, http.StatusOK, summary)
}
