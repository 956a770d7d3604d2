package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/ziksirlabs/ziksir-backend/api/responses"
	"github.com/ziksirlabs/ziksir-backend/pkg/config"
	"github.com/ziksirlabs/ziksir-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Ziksir-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores. Any failure returns 503 with the
// per-dependency status so operators can see which one is down.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP pinger) http.HandlerFunc {
	deps := map[string]pinger{
		"postgres": dbP,
		"redis":    redisP,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Ziksir-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true
		for name, dep := range deps {
			if dep == nil {
				checks[name] = "not configured"
				healthy = false
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = err.Error()
				healthy = false
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "dependency", name), "readiness check failed")
				}
				continue
			}
			checks[name] = "ok"
		}

		if !healthy {
			writeReadiness(w, http.StatusServiceUnavailable, "degraded", checks)
			return
		}
		writeReadiness(w, http.StatusOK, "ready", checks)
	}
}

func writeReadiness(w http.ResponseWriter, status int, state string, checks map[string]string) {
	responses.WriteSuccessStatus(w, status, map[string]any{"status": state, "checks": checks})
}
