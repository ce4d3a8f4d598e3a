package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethos-app/ethos-backend/internal/dto"
)

type stubProgressService struct {
	err error
}

func (s *stubProgressService) GetProgress(_ context.Context, _ string) (*dto.ProgressResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ProgressResponse{DayKey: "2024-03-10"}, nil
}

type stubLeaderboardService struct {
	viewer, period string
	err            error
}

func (s *stubLeaderboardService) GetLeaderboard(_ context.Context, viewerUID, period string) (*dto.LeaderboardResponse, error) {
	s.viewer, s.period = viewerUID, period
	if s.err != nil {
		return nil, s.err
	}
	return &dto.LeaderboardResponse{Period: period, Groups: []dto.LeaderboardGroup{}, Empty: true}, nil
}

func TestGetProgress(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewProgressHandlers(&Deps{ResponseHandler: resp, ProgressSvc: &stubProgressService{}})

	h.GetProgress(httptest.NewRecorder(), withUID(httptest.NewRequest(http.MethodGet, "/progress", nil), "u1"))
	got, ok := resp.writeSuccessData.(*dto.ProgressResponse)
	if !ok || got.DayKey != "2024-03-10" {
		t.Fatalf("unexpected data: %#v", resp.writeSuccessData)
	}
}

func TestGetProgressError(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewProgressHandlers(&Deps{ResponseHandler: resp, ProgressSvc: &stubProgressService{err: errors.New("db")}})

	h.GetProgress(httptest.NewRecorder(), withUID(httptest.NewRequest(http.MethodGet, "/progress", nil), "u1"))
	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError to be called")
	}
}

func TestGetLeaderboardPassesPeriod(t *testing.T) {
	lb := &stubLeaderboardService{}
	resp := &stubResponseHandler{}
	h := NewProgressHandlers(&Deps{ResponseHandler: resp, LeaderboardSvc: lb})

	h.GetLeaderboard(httptest.NewRecorder(), withUID(httptest.NewRequest(http.MethodGet, "/leaderboard?period=week", nil), "viewer"))
	if lb.viewer != "viewer" || lb.period != "week" {
		t.Fatalf("args: viewer=%q period=%q", lb.viewer, lb.period)
	}
	if resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.writeSuccessStatus)
	}
}
