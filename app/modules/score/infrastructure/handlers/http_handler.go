package scorehandlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	scoreservice "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/application"
	scoredomain "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	// maxBodyBytes caps a POST body.
	maxBodyBytes = 1 << 20

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePNG  = "image/png"
)

// HandleHTTPGetScores serves GET /api/scores?game=&limit=.
func (h *ScoreHandlers) HandleHTTPGetScores(w http.ResponseWriter, r *http.Request) {
	ctx := withHTTPRequestID(r)
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleHTTPGetScores")
	defer span.End()

	res, err := h.service.GetScores(ctx, readEvent(r.URL.Query(), nil))
	h.writeLeaderboard(w, res, err)
}

// HandleHTTPPostScore serves POST /api/scores. The request body is the
// score object.
func (h *ScoreHandlers) HandleHTTPPostScore(w http.ResponseWriter, r *http.Request) {
	ctx := withHTTPRequestID(r)
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleHTTPPostScore")
	defer span.End()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.logger.WarnContext(ctx, "Failed to read request body", slog.Any("error", err))
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	res, err := h.service.PostScore(ctx, scoredomain.NewWriteEvent(body))
	h.writeLeaderboard(w, res, err)
}

// HandleHTTPExport serves GET /api/scores/{game}/export.xlsx.
func (h *ScoreHandlers) HandleHTTPExport(w http.ResponseWriter, r *http.Request) {
	ctx := withHTTPRequestID(r)
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleHTTPExport")
	defer span.End()

	game := chi.URLParam(r, "game")
	res, err := h.service.ExportLeaderboard(ctx, readEvent(r.URL.Query(), map[string]string{"game": game}))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, serverReply(err))
		return
	}
	if res.IsFailure() {
		writeJSON(w, http.StatusBadRequest, validationReply(res.Failure))
		return
	}

	w.Header().Set("Content-Type", contentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", game+"-leaderboard.xlsx"))
	w.WriteHeader(http.StatusOK)
	w.Write(*res.Success)
}

// HandleHTTPChart serves GET /api/scores/{game}/chart.png.
func (h *ScoreHandlers) HandleHTTPChart(w http.ResponseWriter, r *http.Request) {
	ctx := withHTTPRequestID(r)
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleHTTPChart")
	defer span.End()

	res, err := h.service.LeaderboardChart(ctx, readEvent(r.URL.Query(), map[string]string{"game": chi.URLParam(r, "game")}))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, serverReply(err))
		return
	}
	if res.IsFailure() {
		writeJSON(w, http.StatusBadRequest, validationReply(res.Failure))
		return
	}

	w.Header().Set("Content-Type", contentTypePNG)
	w.WriteHeader(http.StatusOK)
	w.Write(*res.Success)
}

func (h *ScoreHandlers) writeLeaderboard(w http.ResponseWriter, res scoreservice.LeaderboardResult, err error) {
	switch {
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, serverReply(err))
	case res.IsFailure():
		writeJSON(w, http.StatusBadRequest, validationReply(res.Failure))
	default:
		writeJSON(w, http.StatusOK, ScoresReply{Scores: *res.Success})
	}
}

func withHTTPRequestID(r *http.Request) context.Context {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return scoreservice.WithRequestID(r.Context(), id)
	}
	return r.Context()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
