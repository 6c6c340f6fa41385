package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// A readyCheck reports whether one of the service's backing stores is
// reachable.
type readyCheck func(ctx context.Context) error

func mysqlReadyCheck(db *gorm.DB) readyCheck {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func redisReadyCheck(rdb redis.UniversalClient) readyCheck {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

// healthCheckMux serves the liveness and readiness probes. Readiness fails
// as soon as any backing store is unreachable.
func healthCheckMux(checks ...readyCheck) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				slog.Debug("readiness check failed", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	return mux
}

// startHealthCheckServer listens on its own address so the probes stay
// reachable without the admin API key.
func startHealthCheckServer(addr string, checks ...readyCheck) {
	if err := http.ListenAndServe(addr, healthCheckMux(checks...)); err != nil {
		slog.Error("health check server stopped", "error", err)
	}
}
