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

type UserService interface {
	CreateUser(ctx context.Context, uid, email, displayName, timeZone string) (*models.User, error)
	UpdateProfile(ctx context.Context, uid string, req dto.UpdateProfileRequest) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
	AddFriend(ctx context.Context, uid, friendUID string) error
	RemoveFriend(ctx context.Context, uid, friendUID string) error
	ListFriends(ctx context.Context, uid string) ([]dto.Friend, error)
}

type userHandlers struct {
	ResponseHandler response.ResponseHandler
	UserSvc         UserService
}

func NewUserHandlers(deps *Deps) *userHandlers {
	return &userHandlers{
		ResponseHandler: deps.ResponseHandler,
		UserSvc:         deps.UserSvc,
	}
}

func (h *userHandlers) UserRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateUser)
	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
	r.Get("/me/friends", h.ListFriends)
	r.Post("/me/friends", h.AddFriend)
	r.Delete("/me/friends/{friendUid}", h.RemoveFriend)
	return r
}

// CreateUser registers the caller. The display name defaults to the name
// claim of the ID token.
func (h *userHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	ctx := r.Context()
	name := req.DisplayName
	if name == "" {
		name = middleware.DisplayName(ctx)
	}
	user, err := h.UserSvc.CreateUser(ctx, middleware.UID(ctx), middleware.Email(ctx), name, req.TimeZone)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, user)
}

func (h *userHandlers) GetMe(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	user, err := h.UserSvc.GetUser(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}

func (h *userHandlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	if err := h.UserSvc.UpdateProfile(r.Context(), uid, req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *userHandlers) ListFriends(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	friends, err := h.UserSvc.ListFriends(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, friends)
}

func (h *userHandlers) AddFriend(w http.ResponseWriter, r *http.Request) {
	var req dto.AddFriendRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	if err := h.UserSvc.AddFriend(r.Context(), uid, req.UID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, nil)
}

func (h *userHandlers) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	friendUID := chi.URLParam(r, "friendUid")
	uid := middleware.UID(r.Context())
	if err := h.UserSvc.RemoveFriend(r.Context(), uid, friendUID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
