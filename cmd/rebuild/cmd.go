// Command rebuild recomputes a user's day aggregates from their entry logs.
//
//	REBUILDUID=abc REBUILDFROM=2024-03-01 REBUILDTO=2024-03-31 rebuild
//
// REBUILDTO defaults to REBUILDFROM.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ethos-app/ethos-backend/internal/bootstrap"
	"github.com/ethos-app/ethos-backend/internal/calendar"
	"github.com/ethos-app/ethos-backend/internal/config"
	"github.com/ethos-app/ethos-backend/internal/services"
	"github.com/ethos-app/ethos-backend/internal/store"
	"github.com/ethos-app/ethos-backend/pkg/logger"
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
	bs, err := bootstrap.RunJob(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	from, to, err := rebuildRange(cfg)
	exitOnError("invalid rebuild range", err, bs.Log)

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	trstore := store.NewTrackStore(bs.Firestore)
	dstore := store.NewDayStore(bs.Firestore)

	// services
	lgserv := services.NewLogService(trstore, dstore, ustore, cfg.DefaultTimeZone, cfg.RetentionDays, cfg.EntryPageSize)

	log, ctx := logger.With(logger.ToContext(context.Background(), bs.Log), "uid", cfg.RebuildUID)
	var tracks, entries int
	for day := from; day <= to; day = calendar.Shift(day, 1) {
		res, err := lgserv.RebuildDay(ctx, cfg.RebuildUID, day)
		exitOnError("rebuild failed", err, log.With("day_key", day))
		tracks += res.Tracks
		entries += res.Entries
	}
	log.Info("rebuild complete", "from", from, "to", to, "tracks", tracks, "entries", entries)
}

func rebuildRange(cfg *config.Config) (string, string, error) {
	if cfg.RebuildUID == "" {
		return "", "", fmt.Errorf("REBUILDUID is required")
	}
	from, to := cfg.RebuildFrom, cfg.RebuildTo
	if to == "" {
		to = from
	}
	if !calendar.Valid(from) || !calendar.Valid(to) {
		return "", "", fmt.Errorf("REBUILDFROM and REBUILDTO must be YYYY-MM-DD, got %q and %q", from, to)
	}
	if to < from {
		return "", "", fmt.Errorf("REBUILDTO %s is before REBUILDFROM %s", to, from)
	}
	return from, to, nil
}
