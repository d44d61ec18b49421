// Package metrics define las métricas Prometheus del servicio. Viven en un paquete
// propio para que jwt, store y http puedan reportar sin ciclos de imports.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Número total de requests procesadas",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de los requests HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_inflight_requests",
		Help: "Requests en vuelo",
	})

	AuthFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_failures_total",
		Help: "Requests rechazadas por el middleware de autorización, por tipo de fallo",
	}, []string{"kind"})

	JWKSFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jwks_fetches_total",
		Help: "Descargas del JWKS remoto por resultado (ok|error)",
	}, []string{"result"})

	JWKSCacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jwks_cache_lookups_total",
		Help: "Lecturas del JWKS cacheado (hit|miss)",
	}, []string{"result"})

	MutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_mutations_total",
		Help: "Mutaciones por recurso, operación y resultado (ok|not_found|rolled_back|error)",
	}, []string{"resource", "op", "result"})
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPInflight,
		AuthFailuresTotal,
		JWKSFetchesTotal,
		JWKSCacheLookupsTotal,
		MutationsTotal,
	}
}

// Register registra las métricas en reg (o en el default si es nil) y devuelve
// el handler para /metrics. Registrar dos veces no es error.
func Register(reg *prometheus.Registry, extra ...prometheus.Collector) (http.Handler, error) {
	var (
		r prometheus.Registerer = prometheus.DefaultRegisterer
		g prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if reg != nil {
		r, g = reg, reg
	}
	for _, c := range append(collectors(), extra...) {
		if err := registerCollector(r, c); err != nil {
			return nil, err
		}
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{}), nil
}

func registerCollector(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

func RecordAuthFailure(kind string) { AuthFailuresTotal.WithLabelValues(kind).Inc() }
func RecordJWKSFetch(result string) { JWKSFetchesTotal.WithLabelValues(result).Inc() }
func RecordJWKSCache(result string) { JWKSCacheLookupsTotal.WithLabelValues(result).Inc() }

// RecordMutation cuenta el resultado de un envelope de mutación.
func RecordMutation(resource, op, result string) {
	MutationsTotal.WithLabelValues(resource, op, result).Inc()
}
