package scorehandlers

import "net/http"

// Handlers serves the score HTTP surface.
type Handlers interface {
	HandleSubmitScore(w http.ResponseWriter, r *http.Request)
	HandleGetScore(w http.ResponseWriter, r *http.Request)
	HandleDeleteScore(w http.ResponseWriter, r *http.Request)
	HandleFinalizeScore(w http.ResponseWriter, r *http.Request)
	HandleListScores(w http.ResponseWriter, r *http.Request)
	HandleExportScores(w http.ResponseWriter, r *http.Request)
	HandleLeaderboardChart(w http.ResponseWriter, r *http.Request)

	HandleLeaderboardPage(w http.ResponseWriter, r *http.Request)
	HandleScorePage(w http.ResponseWriter, r *http.Request)
	HandlePendingPage(w http.ResponseWriter, r *http.Request)
	StaticHandler() http.Handler
}
