// Package router arma el chi.Router de la API: middlewares globales, rutas
// de operación (/healthz, /metrics) y el CRUD protegido por permisos.
package router

import (
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/castingagency/internal/authz"
	httperrors "github.com/dropDatabas3/castingagency/internal/http/errors"
	"github.com/dropDatabas3/castingagency/internal/http/handlers"
	mw "github.com/dropDatabas3/castingagency/internal/http/middlewares"
	"github.com/dropDatabas3/castingagency/internal/rate"
	"github.com/dropDatabas3/castingagency/internal/store/core"
)

// Deps son las dependencias del router. Metrics, Health y Limiter son opcionales.
type Deps struct {
	Store          core.Store
	Verifier       mw.TokenVerifier
	Metrics        http.Handler
	Health         http.Handler
	CORSOrigins    []string
	Limiter        rate.Limiter
	// TrustedProxies habilita X-Forwarded-For para logs y rate limit.
	TrustedProxies []netip.Prefix
}

// crud son los handlers de un recurso.
type crud interface {
	List(http.ResponseWriter, *http.Request)
	Get(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		mw.WithRequestID(),
		mw.WithLogging(d.TrustedProxies...),
		mw.WithRecover(),
		mw.WithMetrics(),
		mw.WithCORS(d.CORSOrigins),
		mw.WithRateLimit(mw.RateLimitConfig{
			Limiter:        d.Limiter,
			TrustedProxies: d.TrustedProxies,
			Whitelist:      []string{"/healthz", "/metrics"},
		}),
	)

	// antes de Route: chi propaga estos handlers a los subrouters
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	if d.Health != nil {
		r.Method(http.MethodGet, "/healthz", d.Health)
	}
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	mountResource(r, d.Verifier, "movies", handlers.NewMoviesHandler(d.Store.Movies()))
	mountResource(r, d.Verifier, "actors", handlers.NewActorsHandler(d.Store.Actors()))
	mountResource(r, d.Verifier, "genders", handlers.NewGendersHandler(d.Store.Genders()))
	mountResource(r, d.Verifier, "castings", handlers.NewCastingsHandler(d.Store.Castings()))
	return r
}

// mountResource registra /<name> y /<name>/{id}, cada ruta con "<verbo>:<name>".
func mountResource(r chi.Router, v mw.TokenVerifier, name string, h crud) {
	guard := func(verb string, fn http.HandlerFunc) http.Handler {
		return mw.RequirePermission(v, authz.Permission(verb, name))(fn)
	}
	r.Route("/"+name, func(r chi.Router) {
		r.Method(http.MethodGet, "/", guard("get", h.List))
		r.Method(http.MethodPost, "/", guard("post", h.Create))
		r.Method(http.MethodGet, "/{id}", guard("get", h.Get))
		r.Method(http.MethodPatch, "/{id}", guard("patch", h.Update))
		r.Method(http.MethodDelete, "/{id}", guard("delete", h.Delete))
	})
}
