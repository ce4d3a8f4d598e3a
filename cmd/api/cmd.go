package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/ethos-app/ethos-backend/internal/bootstrap"
	"github.com/ethos-app/ethos-backend/internal/config"
	"github.com/ethos-app/ethos-backend/internal/handlers"
	"github.com/ethos-app/ethos-backend/internal/response"
	"github.com/ethos-app/ethos-backend/internal/router"
	"github.com/ethos-app/ethos-backend/internal/services"
	"github.com/ethos-app/ethos-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	trstore := store.NewTrackStore(bs.Firestore)
	tmstore := store.NewTemplateStore(bs.Firestore)
	dstore := store.NewDayStore(bs.Firestore)

	// services
	userv := services.NewUserService(ustore, cfg.DefaultTimeZone)
	tmserv := services.NewTemplateService(tmstore, ustore)
	trserv := services.NewTrackService(trstore, tmserv)
	lgserv := services.NewLogService(trstore, dstore, ustore, cfg.DefaultTimeZone, cfg.RetentionDays, cfg.EntryPageSize)
	prserv := services.NewProgressService(ustore, trstore, dstore, cfg.DefaultTimeZone, cfg.LeaderboardMaxDays)
	lbserv := services.NewLeaderboardService(ustore, trstore, dstore, cfg.DefaultTimeZone,
		cfg.LeaderboardExcludedTypes, cfg.LeaderboardPriority, cfg.LeaderboardMaxDays)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.UserSvc = userv
	deps.TrackSvc = trserv
	deps.TemplateSvc = tmserv
	deps.LogSvc = lgserv
	deps.ProgressSvc = prserv
	deps.LeaderboardSvc = lbserv

	// router
	r := router.NewRouter(deps)
	bs.Log.Info("listening", "port", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
