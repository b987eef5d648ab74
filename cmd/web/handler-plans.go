package main

import (
	"fmt"
	"net/http"

	"github.com/myrjola/fitcore/internal/plan"
	"github.com/myrjola/fitcore/internal/profile"
)

type planRequest struct {
	Goal       plan.Goal                `json:"goal"`
	Tests      profile.PerformanceTests `json:"tests"`
	Background profile.Background       `json:"background"`
}

// plansPOST generates and persists a new plan version for the subject.
func (app *application) plansPOST(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := subjectIDParam(w, r)
	if !ok {
		return
	}

	var req planRequest
	if err := readJSON(w, r, &req); err != nil {
		app.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	generated, err := app.planService.Generate(r.Context(), plan.GenerateRequest{
		SubjectID:  subjectID,
		Goal:       req.Goal,
		Tests:      req.Tests,
		Background: req.Background,
	})
	if err != nil {
		app.handleError(w, r, fmt.Errorf("generate plan: %w", err))
		return
	}

	app.writeJSON(w, r, http.StatusCreated, generated)
}

// plansLatestGET returns the latest plan. The format query parameter selects
// the representation: json (default), markdown, or html.
func (app *application) plansLatestGET(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := subjectIDParam(w, r)
	if !ok {
		return
	}

	latest, err := app.planService.Latest(r.Context(), subjectID)
	if err != nil {
		app.handleError(w, r, fmt.Errorf("latest plan: %w", err))
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		app.writeJSON(w, r, http.StatusOK, latest)
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(plan.Markdown(latest)))
	case "html":
		html, renderErr := plan.HTML(latest)
		if renderErr != nil {
			app.serverError(w, r, fmt.Errorf("render plan html: %w", renderErr))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	default:
		app.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("unknown format %q", format))
	}
}

// plansListGET returns all plan versions for the subject, newest first.
func (app *application) plansListGET(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := subjectIDParam(w, r)
	if !ok {
		return
	}

	plans, err := app.planService.History(r.Context(), subjectID)
	if err != nil {
		app.handleError(w, r, fmt.Errorf("plan history: %w", err))
		return
	}

	app.writeJSON(w, r, http.StatusOK, plans)
}
