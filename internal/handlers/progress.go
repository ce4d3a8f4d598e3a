package handlers

import (
	"context"
	"net/http"

	"github.com/ethos-app/ethos-backend/internal/dto"
	"github.com/ethos-app/ethos-backend/internal/middleware"
	"github.com/ethos-app/ethos-backend/internal/response"
)

type ProgressService interface {
	GetProgress(ctx context.Context, uid string) (*dto.ProgressResponse, error)
}

type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, viewerUID, period string) (*dto.LeaderboardResponse, error)
}

type progressHandlers struct {
	ResponseHandler response.ResponseHandler
	ProgressSvc     ProgressService
	LeaderboardSvc  LeaderboardService
}

func NewProgressHandlers(deps *Deps) *progressHandlers {
	return &progressHandlers{
		ResponseHandler: deps.ResponseHandler,
		ProgressSvc:     deps.ProgressSvc,
		LeaderboardSvc:  deps.LeaderboardSvc,
	}
}

func (h *progressHandlers) GetProgress(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	res, err := h.ProgressSvc.GetProgress(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

// GetLeaderboard takes an optional period query: cadence (default), day,
// week, month or year.
func (h *progressHandlers) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	res, err := h.LeaderboardSvc.GetLeaderboard(r.Context(), uid, r.URL.Query().Get("period"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}
