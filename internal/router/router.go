package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ethos-app/ethos-backend/internal/handlers"
	"github.com/ethos-app/ethos-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	lm := middleware.NewLoggerMiddleware(deps.Log)
	am := middleware.NewMiddleware(deps.Firebase)

	r.Use(chimiddleware.RequestID)
	r.Use(lm.LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	ush := handlers.NewUserHandlers(deps)
	trh := handlers.NewTrackHandlers(deps)
	tmh := handlers.NewTemplateHandlers(deps)
	dyh := handlers.NewDayHandlers(deps)
	prh := handlers.NewProgressHandlers(deps)

	r.Group(func(r chi.Router) {
		r.Use(am.FirebaseAuth)

		r.Mount("/users", ush.UserRoutes())
		r.Mount("/tracks", trh.TrackRoutes())
		r.Mount("/templates", tmh.TemplateRoutes())
		r.Mount("/days", dyh.DayRoutes())
		r.Get("/progress", prh.GetProgress)
		r.Get("/leaderboard", prh.GetLeaderboard)
	})
	return r
}
