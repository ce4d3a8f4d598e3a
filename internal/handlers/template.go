package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ethos-app/ethos-backend/internal/middleware"
	"github.com/ethos-app/ethos-backend/internal/models"
	"github.com/ethos-app/ethos-backend/internal/response"
)

type TemplateService interface {
	ListTemplates(ctx context.Context) ([]models.TrackTemplate, error)
}

type templateHandlers struct {
	ResponseHandler response.ResponseHandler
	TemplateSvc     TemplateService
	TrackSvc        TrackService
}

func NewTemplateHandlers(deps *Deps) *templateHandlers {
	return &templateHandlers{
		ResponseHandler: deps.ResponseHandler,
		TemplateSvc:     deps.TemplateSvc,
		TrackSvc:        deps.TrackSvc,
	}
}

func (h *templateHandlers) TemplateRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTemplates)
	r.Post("/{templateId}/add", h.AddFromTemplate)
	return r
}

func (h *templateHandlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.TemplateSvc.ListTemplates(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, templates)
}

func (h *templateHandlers) AddFromTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateId")
	uid := middleware.UID(r.Context())
	res, err := h.TrackSvc.AddFromTemplate(r.Context(), uid, templateID)
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
