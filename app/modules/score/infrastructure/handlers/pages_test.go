package scorehandlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	scoredb "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleLeaderboardPage(t *testing.T) {
	var gotLimit int
	svc := NewFakeService()
	svc.LeaderboardFunc = func(ctx context.Context, limit int) ([]scoredb.Score, error) {
		gotLimit = limit
		return []scoredb.Score{
			{ID: 2, Score: 20, Username: ptrString("bob"), ScoredAt: fixedNow},
			{ID: 1, Score: 10, Username: ptrString("<alice>"), ScoredAt: fixedNow},
		}, nil
	}

	rr := do(t, newTestRouter(svc), http.MethodGet, "/", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 10, gotLimit)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	body := rr.Body.String()
	assert.Contains(t, body, `href="/score/2"`)
	assert.Contains(t, body, "&lt;alice&gt;")
	assert.Less(t, strings.Index(body, "bob"), strings.Index(body, "&lt;alice&gt;"))
}

func TestHandleLeaderboardPageUncappedByDefault(t *testing.T) {
	for _, size := range []int{0, -1} {
		gotLimit := -100
		svc := NewFakeService()
		svc.LeaderboardFunc = func(ctx context.Context, limit int) ([]scoredb.Score, error) {
			gotLimit = limit
			return []scoredb.Score{}, nil
		}
		h := NewScoreHandlers(svc, nil, nil, size)

		rr := do(t, http.HandlerFunc(h.HandleLeaderboardPage), http.MethodGet, "/", "", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 0, gotLimit, "size %d", size)
	}
}

func TestHandleLeaderboardPageEmpty(t *testing.T) {
	rr := do(t, newTestRouter(NewFakeService()), http.MethodGet, "/", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No scores yet.")
}

func TestHandleScorePage(t *testing.T) {
	svc := NewFakeService()
	svc.GetScoreFunc = func(ctx context.Context, id int64) (*scoredb.Score, error) {
		if id == 4 {
			return &scoredb.Score{ID: 4, Score: 99, Username: ptrString("erin"), ScoredAt: fixedNow}, nil
		}
		if id == 5 {
			return nil, errors.New("down")
		}
		return nil, scoredb.ErrNotFound
	}
	router := newTestRouter(svc)

	rr := do(t, router, http.MethodGet, "/score/4", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Score #4")
	assert.Contains(t, rr.Body.String(), "erin")

	rr = do(t, router, http.MethodGet, "/score/6", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "No such score.")

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/score/abc", "", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, do(t, router, http.MethodGet, "/score/5", "", nil).Code)
}

func TestHandlePendingPage(t *testing.T) {
	svc := NewFakeService()
	router := newTestRouter(svc)

	rr := do(t, router, http.MethodGet, "/pending", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "No pending score.")

	svc.GetLatestPendingFunc = func(ctx context.Context) (*scoredb.Score, error) {
		return &scoredb.Score{ID: 8, Score: 30, Pending: true, ScoredAt: fixedNow}, nil
	}
	rr = do(t, router, http.MethodGet, "/pending", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "unclaimed")
	assert.Contains(t, rr.Body.String(), "/api/score/8")
}

func TestStaticHandler(t *testing.T) {
	rr := do(t, newTestRouter(NewFakeService()), http.MethodGet, "/static/style.css", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/css")
}
