package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"

	"github.com/ethos-app/ethos-backend/internal/config"
	"github.com/ethos-app/ethos-backend/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
}

// Run initialises everything the API needs.
func Run(cfg *config.Config) (*Bootstrap, error) {
	bs, err := RunJob(cfg)
	if err != nil {
		return bs, err
	}
	bs.Firebase, err = InitFirebase(context.Background(), cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	return bs, nil
}

// RunJob initialises logging and Firestore only, for one-shot jobs that
// do not verify ID tokens.
func RunJob(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	return bs, nil
}

func (bs *Bootstrap) Close() {
	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Warn("failed to close firestore client", "error", err)
		}
	}
}
