package main

import (
	"fmt"
	"net/http"

	"github.com/myrjola/fitcore/internal/profile"
)

type profileRequest struct {
	Tests      profile.PerformanceTests `json:"tests"`
	Background profile.Background       `json:"background"`
}

// profilePOST classifies the subject's athletic profile from their latest
// sample and the optional performance tests in the request body.
func (app *application) profilePOST(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := subjectIDParam(w, r)
	if !ok {
		return
	}

	var req profileRequest
	if err := readJSON(w, r, &req); err != nil {
		app.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sample, err := app.progressService.LatestSample(r.Context(), subjectID)
	if err != nil {
		app.handleError(w, r, fmt.Errorf("latest sample: %w", err))
		return
	}

	athleticProfile, err := profile.Classify(sample, req.Tests, req.Background)
	if err != nil {
		app.handleError(w, r, fmt.Errorf("classify profile: %w", err))
		return
	}

	app.writeJSON(w, r, http.StatusOK, athleticProfile)
}
