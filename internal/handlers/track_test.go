package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethos-app/ethos-backend/internal/dto"
	"github.com/ethos-app/ethos-backend/internal/errs"
	"github.com/ethos-app/ethos-backend/internal/models"
)

type stubTrackService struct {
	activeOnly     bool
	lastReq        dto.TrackRequest
	lastTrackID    string
	lastTemplateID string
	createResult   *dto.CreateTrackResult
	err            error
}

func (s *stubTrackService) ListTracks(_ context.Context, _ string, activeOnly bool) ([]models.Track, error) {
	s.activeOnly = activeOnly
	return []models.Track{}, s.err
}

func (s *stubTrackService) CreateTrack(_ context.Context, _ string, req dto.TrackRequest) (*dto.CreateTrackResult, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.createResult, nil
}

func (s *stubTrackService) UpdateTrack(_ context.Context, _, trackID string, req dto.TrackRequest) (*models.Track, error) {
	s.lastTrackID, s.lastReq = trackID, req
	if s.err != nil {
		return nil, s.err
	}
	return &models.Track{TrackID: trackID, Name: req.Name}, nil
}

func (s *stubTrackService) DeactivateTrack(_ context.Context, _, trackID string) error {
	s.lastTrackID = trackID
	return s.err
}

func (s *stubTrackService) DeleteTrack(_ context.Context, _, trackID string) error {
	s.lastTrackID = trackID
	return s.err
}

func (s *stubTrackService) SeedDefaults(_ context.Context, _ string) (*dto.SeedResult, error) {
	return &dto.SeedResult{Created: 4}, s.err
}

func (s *stubTrackService) AddFromTemplate(_ context.Context, _, templateID string) (*dto.CreateTrackResult, error) {
	s.lastTemplateID = templateID
	if s.err != nil {
		return nil, s.err
	}
	return s.createResult, nil
}

type stubTemplateService struct {
	templates []models.TrackTemplate
	err       error
}

func (s *stubTemplateService) ListTemplates(_ context.Context) ([]models.TrackTemplate, error) {
	return s.templates, s.err
}

func TestListTracksActiveQuery(t *testing.T) {
	svc := &stubTrackService{}
	resp := &stubResponseHandler{}
	h := NewTrackHandlers(&Deps{ResponseHandler: resp, TrackSvc: svc})

	h.ListTracks(httptest.NewRecorder(), withUID(httptest.NewRequest(http.MethodGet, "/tracks?active=true", nil), "u1"))
	if !svc.activeOnly || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("activeOnly=%v status=%d", svc.activeOnly, resp.writeSuccessStatus)
	}

	resp = &stubResponseHandler{}
	h = NewTrackHandlers(&Deps{ResponseHandler: resp, TrackSvc: svc})
	h.ListTracks(httptest.NewRecorder(), withUID(httptest.NewRequest(http.MethodGet, "/tracks?active=maybe", nil), "u1"))
	var v *errs.ValidationError
	if !errors.As(resp.handleError, &v) {
		t.Fatalf("expected ValidationError, got %v", resp.handleError)
	}
}

func TestCreateTrackStatus(t *testing.T) {
	tests := []struct {
		name        string
		reactivated bool
		want        int
	}{
		{"new track", false, http.StatusCreated},
		{"existing track returned", true, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubTrackService{createResult: &dto.CreateTrackResult{Track: &models.Track{TrackID: "t1"}, Reactivated: tt.reactivated}}
			resp := &stubResponseHandler{}
			h := NewTrackHandlers(&Deps{ResponseHandler: resp, TrackSvc: svc})

			body := `{"name":"Water","type":"COUNTER_INCREMENT","cadence":"daily","unit":"ml","config":{"incrementStep":250}}`
			h.CreateTrack(httptest.NewRecorder(), withUID(httptest.NewRequest(http.MethodPost, "/tracks", strings.NewReader(body)), "u1"))

			if resp.writeSuccessStatus != tt.want {
				t.Fatalf("status = %d, want %d", resp.writeSuccessStatus, tt.want)
			}
			if svc.lastReq.Type != models.TrackCounter || svc.lastReq.Config.IncrementStep == nil || *svc.lastReq.Config.IncrementStep != 250 {
				t.Fatalf("request not decoded: %+v", svc.lastReq)
			}
		})
	}
}

func TestCreateTrackInvalidConfig(t *testing.T) {
	svcErr := errs.NewInvalidTrackConfigError("unit", "unit is required for counters")
	svc := &stubTrackService{err: svcErr}
	resp := &stubResponseHandler{}
	h := NewTrackHandlers(&Deps{ResponseHandler: resp, TrackSvc: svc})

	h.CreateTrack(httptest.NewRecorder(), withUID(httptest.NewRequest(http.MethodPost, "/tracks", strings.NewReader(`{"name":"x"}`)), "u1"))
	if resp.handleError != svcErr {
		t.Fatalf("expected service error passed through, got %v", resp.handleError)
	}
}

func TestUpdateAndDeactivateTrack(t *testing.T) {
	svc := &stubTrackService{}
	resp := &stubResponseHandler{}
	h := NewTrackHandlers(&Deps{ResponseHandler: resp, TrackSvc: svc})

	req := httptest.NewRequest(http.MethodPut, "/tracks/t9", strings.NewReader(`{"name":"Steps"}`))
	h.UpdateTrack(httptest.NewRecorder(), withUID(withChiParam(req, "trackId", "t9"), "u1"))
	if svc.lastTrackID != "t9" || svc.lastReq.Name != "Steps" {
		t.Fatalf("UpdateTrack args: id=%q req=%+v", svc.lastTrackID, svc.lastReq)
	}

	req = httptest.NewRequest(http.MethodPost, "/tracks/t7/deactivate", nil)
	h.DeactivateTrack(httptest.NewRecorder(), withUID(withChiParam(req, "trackId", "t7"), "u1"))
	if svc.lastTrackID != "t7" || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("DeactivateTrack: id=%q status=%d", svc.lastTrackID, resp.writeSuccessStatus)
	}
}

func TestTemplateHandlers(t *testing.T) {
	tmplSvc := &stubTemplateService{templates: []models.TrackTemplate{{TemplateID: "seed_water"}}}
	trackSvc := &stubTrackService{createResult: &dto.CreateTrackResult{Track: &models.Track{TrackID: "t1"}}}
	resp := &stubResponseHandler{}
	h := NewTemplateHandlers(&Deps{ResponseHandler: resp, TemplateSvc: tmplSvc, TrackSvc: trackSvc})

	h.ListTemplates(httptest.NewRecorder(), withUID(httptest.NewRequest(http.MethodGet, "/templates", nil), "u1"))
	if got, ok := resp.writeSuccessData.([]models.TrackTemplate); !ok || len(got) != 1 {
		t.Fatalf("unexpected templates: %#v", resp.writeSuccessData)
	}

	req := httptest.NewRequest(http.MethodPost, "/templates/seed_steps/add", nil)
	h.AddFromTemplate(httptest.NewRecorder(), withUID(withChiParam(req, "templateId", "seed_steps"), "u1"))
	if trackSvc.lastTemplateID != "seed_steps" || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("AddFromTemplate: id=%q status=%d", trackSvc.lastTemplateID, resp.writeSuccessStatus)
	}
}
