package handlers

import (
	"context"
	"net/http"
	"time"

	httperrors "github.com/dropDatabas3/castingagency/internal/http/errors"
	"github.com/dropDatabas3/castingagency/internal/http/helpers"
	"github.com/dropDatabas3/castingagency/internal/observability/logger"
)

// Pinger es lo que /healthz necesita del store (y del cache, si es remoto).
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler responde {"success": true, "status": "ok"} si todas las dependencias responden.
func NewHealthHandler(version string, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if version != "" {
			w.Header().Set("X-Service-Version", version)
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		for name, p := range deps {
			if p == nil {
				continue
			}
			if err := p.Ping(ctx); err != nil {
				logger.From(r.Context()).Error("health check failed", logger.Component(name), logger.Err(err))
				httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithMessage(name+" unavailable"))
				return
			}
		}
		helpers.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "status": "ok"})
	}
}
