package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ethos-app/ethos-backend/internal/dto"
	"github.com/ethos-app/ethos-backend/internal/errs"
	"github.com/ethos-app/ethos-backend/internal/middleware"
	"github.com/ethos-app/ethos-backend/internal/models"
	"github.com/ethos-app/ethos-backend/internal/response"
)

type TrackService interface {
	ListTracks(ctx context.Context, uid string, activeOnly bool) ([]models.Track, error)
	CreateTrack(ctx context.Context, uid string, req dto.TrackRequest) (*dto.CreateTrackResult, error)
	UpdateTrack(ctx context.Context, uid, trackID string, req dto.TrackRequest) (*models.Track, error)
	DeactivateTrack(ctx context.Context, uid, trackID string) error
	DeleteTrack(ctx context.Context, uid, trackID string) error
	SeedDefaults(ctx context.Context, uid string) (*dto.SeedResult, error)
	AddFromTemplate(ctx context.Context, uid, templateID string) (*dto.CreateTrackResult, error)
}

type trackHandlers struct {
	ResponseHandler response.ResponseHandler
	TrackSvc        TrackService
}

func NewTrackHandlers(deps *Deps) *trackHandlers {
	return &trackHandlers{
		ResponseHandler: deps.ResponseHandler,
		TrackSvc:        deps.TrackSvc,
	}
}

func (h *trackHandlers) TrackRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTracks)
	r.Post("/", h.CreateTrack)
	r.Post("/seed", h.SeedDefaults) // must be before /{trackId}
	r.Put("/{trackId}", h.UpdateTrack)
	r.Post("/{trackId}/deactivate", h.DeactivateTrack)
	r.Delete("/{trackId}", h.DeleteTrack)
	return r
}

func (h *trackHandlers) ListTracks(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if v := r.URL.Query().Get("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("active must be true or false"))
			return
		}
		activeOnly = b
	}
	uid := middleware.UID(r.Context())
	tracks, err := h.TrackSvc.ListTracks(r.Context(), uid, activeOnly)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tracks)
}

func (h *trackHandlers) CreateTrack(w http.ResponseWriter, r *http.Request) {
	var req dto.TrackRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	res, err := h.TrackSvc.CreateTrack(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	status := http.StatusCreated
	if res.Reactivated {
		status = http.StatusOK
	}
	h.ResponseHandler.WriteSuccess(w, r, status, res)
}

func (h *trackHandlers) UpdateTrack(w http.ResponseWriter, r *http.Request) {
	trackID := chi.URLParam(r, "trackId")
	var req dto.TrackRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	track, err := h.TrackSvc.UpdateTrack(r.Context(), uid, trackID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, track)
}

func (h *trackHandlers) DeactivateTrack(w http.ResponseWriter, r *http.Request) {
	trackID := chi.URLParam(r, "trackId")
	uid := middleware.UID(r.Context())
	if err := h.TrackSvc.DeactivateTrack(r.Context(), uid, trackID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *trackHandlers) DeleteTrack(w http.ResponseWriter, r *http.Request) {
	trackID := chi.URLParam(r, "trackId")
	uid := middleware.UID(r.Context())
	if err := h.TrackSvc.DeleteTrack(r.Context(), uid, trackID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *trackHandlers) SeedDefaults(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	res, err := h.TrackSvc.SeedDefaults(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}
