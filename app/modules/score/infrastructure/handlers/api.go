package scorehandlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	scoreservice "github.com/Black-And-White-Club/meishu/app/modules/score/application"
)

const (
	// UsernameHeader may carry the username on finalize requests.
	UsernameHeader = "username"

	maxBodyBytes = 1 << 16

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type submitRequest struct {
	Username *string `json:"username"`
	Score    *int64  `json:"score"`
}

type submitResponse struct {
	ID int64 `json:"id"`
}

type finalizeRequest struct {
	Username string `json:"username"`
}

// HandleSubmitScore handles POST /api/score.
func (h *ScoreHandlers) HandleSubmitScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ScoreHandlers.SubmitScore")
	defer span.End()

	var req submitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "Malformed submit body", attr.Error(err))
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Score == nil {
		writeError(w, http.StatusBadRequest, "score is required")
		return
	}

	id, err := h.service.SubmitScore(ctx, req.Username, *req.Score)
	if err != nil {
		h.logger.ErrorContext(ctx, "Submit score failed", attr.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create score")
		return
	}

	writeJSON(w, http.StatusCreated, submitResponse{ID: id})
}

// HandleGetScore handles GET /api/score/{id}.
func (h *ScoreHandlers) HandleGetScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ScoreHandlers.GetScore")
	defer span.End()

	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	score, err := h.service.GetScore(ctx, id)
	switch {
	case errors.Is(err, scoreservice.ErrNotFound):
		writeError(w, http.StatusNotFound, "score does not exist")
		return
	case err != nil:
		h.logger.ErrorContext(ctx, "Get score failed", attr.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get score")
		return
	}

	writeJSON(w, http.StatusOK, score)
}

// HandleDeleteScore handles DELETE /api/score/{id}. Failures other than a
// missing id answer 304 since nothing changed.
func (h *ScoreHandlers) HandleDeleteScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ScoreHandlers.DeleteScore")
	defer span.End()

	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.service.DeleteScore(ctx, id)
	switch {
	case errors.Is(err, scoreservice.ErrNotFound):
		writeError(w, http.StatusNotFound, "score does not exist")
		return
	case err != nil:
		h.logger.ErrorContext(ctx, "Delete score failed", attr.Error(err), attr.Any("id", id))
		w.WriteHeader(http.StatusNotModified)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleFinalizeScore handles PATCH /api/score/{id}. The username header
// wins over a JSON body.
func (h *ScoreHandlers) HandleFinalizeScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ScoreHandlers.FinalizeScore")
	defer span.End()

	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	username := strings.TrimSpace(r.Header.Get(UsernameHeader))
	if username == "" {
		var req finalizeRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		username = strings.TrimSpace(req.Username)
	}
	if username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	err = h.service.FinalizeScore(ctx, id, username)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": "finalized"})
	case errors.Is(err, scoreservice.ErrNotFound):
		writeError(w, http.StatusNotFound, "score does not exist")
	case errors.Is(err, scoreservice.ErrAlreadyFinalized):
		writeError(w, http.StatusConflict, "score already finalized")
	case scoreservice.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(ctx, "Finalize score failed", attr.Error(err), attr.Any("id", id))
		w.WriteHeader(http.StatusNotModified)
	}
}

// HandleListScores handles GET /api/scores.
func (h *ScoreHandlers) HandleListScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ScoreHandlers.ListScores")
	defer span.End()

	filter, err := h.parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	scores, err := h.service.ListScores(ctx, filter)
	if err != nil {
		h.writeServiceError(w, r, "List scores failed", err)
		return
	}

	writeJSON(w, http.StatusOK, scores)
}

// HandleExportScores handles GET /api/scores/export.xlsx.
func (h *ScoreHandlers) HandleExportScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ScoreHandlers.ExportScores")
	defer span.End()

	filter, err := h.parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.service.ExportScores(ctx, filter)
	if err != nil {
		h.writeServiceError(w, r, "Export scores failed", err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="scores.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// HandleLeaderboardChart handles GET /leaderboard.png.
func (h *ScoreHandlers) HandleLeaderboardChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ScoreHandlers.LeaderboardChart")
	defer span.End()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	png, err := h.service.LeaderboardChart(ctx, limit)
	if err != nil {
		h.writeServiceError(w, r, "Leaderboard chart failed", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *ScoreHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if scoreservice.IsValidation(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.ErrorContext(r.Context(), msg, attr.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
