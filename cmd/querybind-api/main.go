package main

import (
	"context"

	"querybind/internal/convertkit"
	"querybind/internal/platform/config"
	"querybind/internal/platform/logger"
	phttp "querybind/internal/platform/net/http"
	"querybind/internal/platform/store"
	"querybind/internal/repokit"

	catalogmod "querybind/internal/services/catalog/module"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	catalog := catalogmod.NewFromStore(root, st)

	// conversion service with builtin rules, then the domain resolver on top
	conversions := convertkit.New()
	resolver := repokit.New(conversions)
	if err := resolver.Initialize(catalog.Source()); err != nil {
		l.Panic().Err(err).Msg("resolver initialization failed")
	}

	srv := phttp.NewServer(apiCfg)
	catalog.MountRoutes(srv.Router(), resolver)

	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
