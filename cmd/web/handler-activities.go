package main

import (
	"fmt"
	"net/http"

	"github.com/myrjola/fitcore/internal/progress"
)

type activityResponse struct {
	State    progress.ProgressState `json:"state"`
	Unlocked []string               `json:"unlocked_achievements"`
}

// activitiesPOST records an activity event and returns the post-mutation
// state with any newly unlocked achievements.
func (app *application) activitiesPOST(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := subjectIDParam(w, r)
	if !ok {
		return
	}

	var event progress.ActivityEvent
	if err := readJSON(w, r, &event); err != nil {
		app.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	state, unlocked, err := app.progressService.RecordActivity(r.Context(), subjectID, event)
	if err != nil {
		app.handleError(w, r, fmt.Errorf("record activity: %w", err))
		return
	}

	app.writeJSON(w, r, http.StatusOK, activityResponse{
		State:    state,
		Unlocked: unlocked,
	})
}
