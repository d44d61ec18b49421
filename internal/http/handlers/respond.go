// Package handlers implementa los endpoints CRUD de movies, actors, genders y
// castings. Los permisos se aplican en el router; acá sólo hay validación,
// llamadas al repositorio y armado del envelope.
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	httperrors "github.com/dropDatabas3/castingagency/internal/http/errors"
	"github.com/dropDatabas3/castingagency/internal/http/helpers"
	"github.com/dropDatabas3/castingagency/internal/observability/logger"
	"github.com/dropDatabas3/castingagency/internal/store/core"
)

// writeList: {"success": true, "<resource>": [...]}
func writeList(w http.ResponseWriter, resource string, items any) {
	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		resource:  items,
	})
}

// writeMutation agrega "created" | "modified" | "deleted" con el id afectado.
func writeMutation(w http.ResponseWriter, resource, key string, id int64, items any) {
	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		key:       id,
		resource:  items,
	})
}

// fail loguea y escribe el envelope. 5xx a error, rollbacks a warn, el resto a debug.
func fail(w http.ResponseWriter, r *http.Request, resource string, err error) {
	appErr := httperrors.FromError(err)
	log := logger.From(r.Context()).With(logger.Resource(resource), logger.Status(appErr.Status), logger.Err(err))
	switch {
	case appErr.Status >= 500:
		log.Error("request error")
	case errors.Is(err, core.ErrMutationFailed):
		log.Warn("mutation failed")
	default:
		log.Debug("request rejected")
	}
	httperrors.WriteError(w, appErr)
}

// idOr404 lee {id}; si no es un entero positivo responde 404.
func idOr404(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := helpers.IDParam(r)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	}
	return id, ok
}

// Los campos del body son punteros: nil = ausente.

func requiredString(field string, v *string) (string, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return "", httperrors.Missing(field)
	}
	return strings.TrimSpace(*v), nil
}

func requiredDate(field string, v *string) (time.Time, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return time.Time{}, httperrors.Missing(field)
	}
	return helpers.ParseDate(field, *v)
}

// requiredID sólo verifica presencia; un id inexistente lo rechaza el store (422).
func requiredID(field string, v *int64) (int64, error) {
	if v == nil {
		return 0, httperrors.Missing(field)
	}
	return *v, nil
}
