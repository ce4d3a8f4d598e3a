package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"firebase.google.com/go/v4/auth"

	"github.com/ethos-app/ethos-backend/internal/errs"
	"github.com/ethos-app/ethos-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Firebase        *auth.Client
	UserSvc         UserService
	TrackSvc        TrackService
	TemplateSvc     TemplateService
	LogSvc          LogService
	ProgressSvc     ProgressService
	LeaderboardSvc  LeaderboardService
}

// decodeJSON reads the request body into v. Malformed bodies are reported
// as validation errors.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.NewValidationError("malformed request body")
	}
	return nil
}
