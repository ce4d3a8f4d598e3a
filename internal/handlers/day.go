package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ethos-app/ethos-backend/internal/dto"
	"github.com/ethos-app/ethos-backend/internal/middleware"
	"github.com/ethos-app/ethos-backend/internal/models"
	"github.com/ethos-app/ethos-backend/internal/response"
)

type LogService interface {
	LogEntries(ctx context.Context, uid string, req dto.LogEntriesRequest) (*dto.LogResult, error)
	GetDay(ctx context.Context, uid, dayKey string) (*dto.DayResponse, error)
	ListEntries(ctx context.Context, uid, dayKey, trackID string) ([]models.Entry, error)
	RebuildDay(ctx context.Context, uid, dayKey string) (*dto.RebuildResult, error)
}

type dayHandlers struct {
	ResponseHandler response.ResponseHandler
	LogSvc          LogService
}

func NewDayHandlers(deps *Deps) *dayHandlers {
	return &dayHandlers{
		ResponseHandler: deps.ResponseHandler,
		LogSvc:          deps.LogSvc,
	}
}

func (h *dayHandlers) DayRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/entries", h.LogEntries)
	r.Get("/{dayKey}", h.GetDay)
	r.Get("/{dayKey}/tracks/{trackId}/entries", h.ListEntries)
	r.Post("/{dayKey}/rebuild", h.RebuildDay)
	return r
}

// LogEntries saves a batch of values. A batch with nothing to save is not
// an error; the result says so.
func (h *dayHandlers) LogEntries(w http.ResponseWriter, r *http.Request) {
	var req dto.LogEntriesRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	res, err := h.LogSvc.LogEntries(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	status := http.StatusCreated
	if !res.Saved {
		status = http.StatusOK
	}
	h.ResponseHandler.WriteSuccess(w, r, status, res)
}

func (h *dayHandlers) GetDay(w http.ResponseWriter, r *http.Request) {
	dayKey := chi.URLParam(r, "dayKey")
	uid := middleware.UID(r.Context())
	day, err := h.LogSvc.GetDay(r.Context(), uid, dayKey)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, day)
}

func (h *dayHandlers) ListEntries(w http.ResponseWriter, r *http.Request) {
	dayKey := chi.URLParam(r, "dayKey")
	trackID := chi.URLParam(r, "trackId")
	uid := middleware.UID(r.Context())
	entries, err := h.LogSvc.ListEntries(r.Context(), uid, dayKey, trackID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, entries)
}

func (h *dayHandlers) RebuildDay(w http.ResponseWriter, r *http.Request) {
	dayKey := chi.URLParam(r, "dayKey")
	uid := middleware.UID(r.Context())
	res, err := h.LogSvc.RebuildDay(r.Context(), uid, dayKey)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}
