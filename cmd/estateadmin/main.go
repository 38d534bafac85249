package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estateadmin/frontend/login"
	projectspage "estateadmin/frontend/projects"
	"estateadmin/infrastructure/api"
	"estateadmin/infrastructure/audit"
	"estateadmin/infrastructure/cache"
	"estateadmin/infrastructure/config"
	httpserver "estateadmin/infrastructure/http"
	"estateadmin/infrastructure/kvstore"
	"estateadmin/infrastructure/logging"
	projectinfra "estateadmin/infrastructure/project"
	"estateadmin/infrastructure/session"
	"estateadmin/infrastructure/sqlite"
)

const sessionSweepInterval = 15 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.New(cfg.Log, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("estateadmin stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	loc, err := cfg.Display.Location()
	if err != nil {
		return err
	}

	db, err := sqlite.OpenDB(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := sqlite.ApplyEmbeddedMigrations(ctx, db); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	store, closeStore, err := kvstore.Open(ctx, cfg.Cache, db)
	if err != nil {
		return fmt.Errorf("open cache store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			slog.Warn("close cache store failed", slog.Any("err", err))
		}
	}()

	policy, err := cache.ParseRefreshPolicy(cfg.Cache.RefreshPolicy)
	if err != nil {
		return err
	}

	client := api.NewClient(api.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout,
	})

	sessions := cache.NewUserSessionCache()
	tables := projectspage.NewTableCache()
	server := httpserver.NewServer(cfg.Server.Addr, httpserver.Deps{
		DB:           db,
		SessionCache: sessions,
		Tables:       tables,
		Dropdowns:    cache.NewDropdownCache(cache.ClientQuerier{Client: client}, store, policy),
		Projects:     projectinfra.NewRepository(client),
		Audit:        audit.NewService(),
		Session:      session.NewPolicy(cfg.Session),
		Location:     loc,

		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	if err := server.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	slog.Info("estateadmin listening",
		slog.String("addr", cfg.Server.Addr),
		slog.String("api", cfg.API.BaseURL),
		slog.String("cache_backend", cfg.Cache.Backend),
	)

	go sweepExpiredSessions(ctx, db, sessions, tables)

	<-ctx.Done()
	slog.Info("shutting down")
	return server.Stop()
}

// sweepExpiredSessions drops expired sessions from the database, the session
// cache and the per-session table state.
func sweepExpiredSessions(ctx context.Context, db *sqlite.DB, sessions *cache.UserSessionCache, tables *projectspage.TableCache) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, token := range sessions.EvictExpired(now) {
				tables.Delete(token)
			}
			removed, err := login.DeleteExpiredSessions(ctx, db, now)
			if err != nil {
				slog.Warn("expired session sweep failed", slog.Any("err", err))
				continue
			}
			if removed > 0 {
				slog.Debug("expired sessions removed", slog.Int64("count", removed))
			}
		}
	}
}
