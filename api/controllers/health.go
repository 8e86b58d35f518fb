package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/pedidos-storefront/api/responses"
	"github.com/angelmondragon/pedidos-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/pedidos-storefront/pkg/errors"
	"github.com/angelmondragon/pedidos-storefront/pkg/logger"
	"github.com/angelmondragon/pedidos-storefront/pkg/redis"
)

const (
	envHeader    = "X-Pedidos-Env"
	readyTimeout = 2 * time.Second
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings redis when it is configured; a nil pinger reports ready.
func HealthReady(cfg *config.Config, pinger redis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if pinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			defer cancel()
			if err := pinger.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
