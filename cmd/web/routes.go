package main

import (
	"net/http"
)

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	api := func(next http.Handler) http.Handler {
		return app.recoverPanic(app.logAndTraceRequest(secureHeaders(app.timeout(next))))
	}

	mux.Handle("POST /api/subjects/{subjectID}/samples", api(http.HandlerFunc(app.samplesPOST)))
	mux.Handle("GET /api/subjects/{subjectID}/metrics", api(http.HandlerFunc(app.metricsGET)))
	mux.Handle("POST /api/subjects/{subjectID}/profile", api(http.HandlerFunc(app.profilePOST)))

	mux.Handle("POST /api/subjects/{subjectID}/plans", api(http.HandlerFunc(app.plansPOST)))
	mux.Handle("GET /api/subjects/{subjectID}/plans/latest", api(http.HandlerFunc(app.plansLatestGET)))
	mux.Handle("GET /api/subjects/{subjectID}/plans", api(http.HandlerFunc(app.plansListGET)))

	mux.Handle("POST /api/subjects/{subjectID}/activities", api(http.HandlerFunc(app.activitiesPOST)))
	mux.Handle("GET /api/subjects/{subjectID}/summary", api(http.HandlerFunc(app.summaryGET)))

	mux.Handle("GET /api/healthy", api(http.HandlerFunc(app.healthy)))

	return mux
}
