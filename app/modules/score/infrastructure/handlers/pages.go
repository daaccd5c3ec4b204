package scorehandlers

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	scoreservice "github.com/Black-And-White-Club/meishu/app/modules/score/application"
	scoredb "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/repositories"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageTemplates = template.Must(template.New("pages").Funcs(template.FuncMap{
	"when": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04:05 MST") },
	"inc":  func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/*.html"))

type leaderboardPage struct {
	Scores []scoredb.Score
}

type scorePage struct {
	Score *scoredb.Score
}

type notFoundPage struct {
	Message string
}

// HandleLeaderboardPage handles GET /.
func (h *ScoreHandlers) HandleLeaderboardPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ScoreHandlers.LeaderboardPage")
	defer span.End()

	scores, err := h.service.Leaderboard(ctx, h.leaderboardSize)
	if err != nil {
		h.logger.ErrorContext(ctx, "Leaderboard page failed", attr.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.render(w, r, http.StatusOK, "leaderboard.html", leaderboardPage{Scores: scores})
}

// HandleScorePage handles GET /score/{id}.
func (h *ScoreHandlers) HandleScorePage(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ScoreHandlers.ScorePage")
	defer span.End()

	id, err := parseID(r)
	if err != nil {
		h.render(w, r, http.StatusNotFound, "notfound.html", notFoundPage{Message: "No such score."})
		return
	}

	score, err := h.service.GetScore(ctx, id)
	h.renderScore(w, r, "score.html", score, err, "No such score.")
}

// HandlePendingPage handles GET /pending.
func (h *ScoreHandlers) HandlePendingPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ScoreHandlers.PendingPage")
	defer span.End()

	score, err := h.service.GetLatestPending(ctx)
	h.renderScore(w, r, "pending.html", score, err, "No pending score.")
}

// StaticHandler serves the embedded stylesheet under /static/.
func (h *ScoreHandlers) StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

func (h *ScoreHandlers) renderScore(w http.ResponseWriter, r *http.Request, page string, score *scoredb.Score, err error, missing string) {
	switch {
	case errors.Is(err, scoreservice.ErrNotFound):
		h.render(w, r, http.StatusNotFound, "notfound.html", notFoundPage{Message: missing})
	case err != nil:
		h.logger.ErrorContext(r.Context(), "Score page failed", attr.String("page", page), attr.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	default:
		h.render(w, r, http.StatusOK, page, scorePage{Score: score})
	}
}

// render executes into a buffer first so a template error still yields a clean 500.
func (h *ScoreHandlers) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "Template render failed", attr.String("template", name), attr.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
