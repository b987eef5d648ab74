package main

import (
	"fmt"
	"net/http"

	"github.com/myrjola/fitcore/internal/metrics"
)

// samplesPOST appends a physiological sample for the subject.
func (app *application) samplesPOST(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := subjectIDParam(w, r)
	if !ok {
		return
	}

	var sample metrics.Sample
	if err := readJSON(w, r, &sample); err != nil {
		app.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	sample.SubjectID = subjectID

	if err := app.progressService.AppendSample(r.Context(), sample); err != nil {
		app.handleError(w, r, fmt.Errorf("append sample: %w", err))
		return
	}

	app.writeJSON(w, r, http.StatusCreated, sample)
}
