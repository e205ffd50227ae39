package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"arcanist/internal/check"
	"arcanist/internal/config"
	"arcanist/internal/dice"
	apperrors "arcanist/internal/errors"
	"arcanist/internal/format"
	"arcanist/internal/logging"
	"arcanist/internal/observability"
	"arcanist/internal/service"
	"arcanist/internal/store"
)

// app is everything a command needs once the project config is loaded.
type app struct {
	cfg    *config.ProjectConfig
	logger *zap.Logger
	db     store.Store
	svc    *service.Service
}

type appOptions struct {
	surface string
	metrics *observability.Metrics
	// shared sources are needed when handlers run concurrently
	shared bool
}

func openApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	fmtr, err := format.ByName(cfg.Format.Style)
	if err != nil {
		return nil, err
	}

	seed, err := dieSeed(cfg)
	if err != nil {
		return nil, err
	}
	var src dice.Source = dice.NewSeededSource(seed)
	if opts.shared {
		src = dice.NewLockedSource(src)
	}
	roller, err := dice.NewRoller(src, fmtr)
	if err != nil {
		return nil, err
	}
	resolver, err := check.NewResolver(roller, fmtr)
	if err != nil {
		return nil, err
	}

	db, err := openStore(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStore, "opening character store", err)
	}

	svc, err := service.New(service.Options{
		Roller:         roller,
		Resolver:       resolver,
		Store:          db,
		Metrics:        opts.metrics,
		Logger:         logger,
		Surface:        opts.surface,
		MaxRepetitions: cfg.Checks.MaxRepetitions,
	})
	if err != nil {
		db.Close(ctx)
		return nil, err
	}

	logger.Debug("project loaded",
		zap.String("project", cfg.Project),
		zap.String("surface", opts.surface),
		zap.Bool("seeded", cfg.Random.Seed != nil),
	)
	return &app{cfg: cfg, logger: logger, db: db, svc: svc}, nil
}

func (a *app) Close(ctx context.Context) {
	if err := a.db.Close(ctx); err != nil {
		a.logger.Warn("closing store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func (a *app) user() service.User {
	return service.User{ID: userID, Name: userName}
}

func dieSeed(cfg *config.ProjectConfig) (int64, error) {
	if cfg.Random.Seed != nil {
		return *cfg.Random.Seed, nil
	}
	seed, err := dice.NewSeed()
	if err != nil {
		return 0, fmt.Errorf("seeding dice: %w", err)
	}
	return seed, nil
}

// userError swaps internal detail for the player-facing message where one exists.
func userError(err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Code == apperrors.CodeTokenDecode {
		return errors.New(appErr.Code.UserMessage())
	}
	return err
}
