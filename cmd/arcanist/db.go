package main

import (
	"context"
	"fmt"
	"strings"

	"arcanist/internal/store"
	"arcanist/internal/store/postgres"
	"arcanist/internal/store/sqlite"
)

func openStore(ctx context.Context, dsn string) (store.Store, error) {
	var (
		db  store.Store
		err error
	)
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		db, err = sqlite.New(ctx, dsn)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		db, err = postgres.New(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported database DSN %q", dsn)
	}
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close(ctx)
		return nil, err
	}
	return db, nil
}
