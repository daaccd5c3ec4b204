package scorerouter

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	scorehandlers "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

type recordingHandlers struct {
	called string
}

func (h *recordingHandlers) mark(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.called = name
		w.WriteHeader(http.StatusOK)
	}
}

func (h *recordingHandlers) HandleSubmitScore(w http.ResponseWriter, r *http.Request) {
	h.mark("submit")(w, r)
}

func (h *recordingHandlers) HandleGetScore(w http.ResponseWriter, r *http.Request) {
	h.mark("get")(w, r)
}

func (h *recordingHandlers) HandleDeleteScore(w http.ResponseWriter, r *http.Request) {
	h.mark("delete")(w, r)
}

func (h *recordingHandlers) HandleFinalizeScore(w http.ResponseWriter, r *http.Request) {
	h.mark("finalize")(w, r)
}

func (h *recordingHandlers) HandleListScores(w http.ResponseWriter, r *http.Request) {
	h.mark("list")(w, r)
}

func (h *recordingHandlers) HandleExportScores(w http.ResponseWriter, r *http.Request) {
	h.mark("export")(w, r)
}

func (h *recordingHandlers) HandleLeaderboardChart(w http.ResponseWriter, r *http.Request) {
	h.mark("chart")(w, r)
}

func (h *recordingHandlers) HandleLeaderboardPage(w http.ResponseWriter, r *http.Request) {
	h.mark("leaderboard_page")(w, r)
}

func (h *recordingHandlers) HandleScorePage(w http.ResponseWriter, r *http.Request) {
	h.mark("score_page")(w, r)
}

func (h *recordingHandlers) HandlePendingPage(w http.ResponseWriter, r *http.Request) {
	h.mark("pending_page")(w, r)
}

func (h *recordingHandlers) StaticHandler() http.Handler {
	return h.mark("static")
}

var _ scorehandlers.Handlers = (*recordingHandlers)(nil)

func TestConfigureRoutes(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodPost, "/api/score", "submit"},
		{http.MethodGet, "/api/score/1", "get"},
		{http.MethodDelete, "/api/score/1", "delete"},
		{http.MethodPatch, "/api/score/1", "finalize"},
		{http.MethodGet, "/api/scores", "list"},
		{http.MethodGet, "/api/scores/export.xlsx", "export"},
		{http.MethodGet, "/leaderboard.png", "chart"},
		{http.MethodGet, "/", "leaderboard_page"},
		{http.MethodGet, "/score/3", "score_page"},
		{http.MethodGet, "/pending", "pending_page"},
		{http.MethodGet, "/static/style.css", "static"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			h := &recordingHandlers{}
			r := chi.NewRouter()
			NewScoreRouter(logger, h, nil).Configure(r)

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.want, h.called)
		})
	}
}

func TestSubmitIsRateLimited(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &recordingHandlers{}
	r := chi.NewRouter()
	NewScoreRouter(logger, h, scorehandlers.NewIPRateLimiter(rate.Every(time.Hour), 1)).Configure(r)

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/score", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/score", nil))
	reads := httptest.NewRecorder()
	r.ServeHTTP(reads, httptest.NewRequest(http.MethodGet, "/api/scores", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, http.StatusOK, reads.Code)
}
