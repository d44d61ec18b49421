package jwt

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/castingagency/internal/cache"
	"github.com/dropDatabas3/castingagency/internal/metrics"
	"github.com/dropDatabas3/castingagency/internal/observability/logger"
)

// CachedSource guarda el documento JWKS en un cache.Client durante ttl.
// Los misses concurrentes comparten una sola descarga.
type CachedSource struct {
	fetcher *Fetcher
	cache   cache.Client
	ttl     time.Duration
	key     string
	sf      singleflight.Group

	// lastFetch (unix nano) y minRefresh limitan los refetch por kid desconocido.
	lastFetch  atomic.Int64
	minRefresh time.Duration
}

// DefaultMinRefresh es el intervalo mínimo entre refetch forzados por kid desconocido.
const DefaultMinRefresh = 30 * time.Second

// NewCachedSource: ttl <= 0 desactiva el cache y descarga en cada llamada.
func NewCachedSource(f *Fetcher, c cache.Client, ttl time.Duration) *CachedSource {
	return &CachedSource{
		fetcher: f,
		cache:   c,
		ttl:     ttl,
		key:     "jwks:" + f.URL,

		minRefresh: DefaultMinRefresh,
	}
}

// KeySet retorna el set cacheado o lo descarga.
func (s *CachedSource) KeySet(ctx context.Context) (KeySet, error) {
	if s.ttl <= 0 || s.cache == nil {
		return s.fetcher.KeySet(ctx)
	}
	raw, err := s.cache.Get(ctx, s.key)
	switch {
	case err == nil:
		if ks, decErr := decodeKeySet(raw); decErr == nil {
			metrics.RecordJWKSCache("hit")
			return ks, nil
		}
		// documento corrupto en cache: se descarga de nuevo
	case !cache.IsNotFound(err):
		logger.From(ctx).Warn("jwks cache read failed", logger.Component("jwt"), logger.Err(err))
	}
	metrics.RecordJWKSCache("miss")
	return s.Refresh(ctx)
}

// RefreshForKID se llama cuando kid no está en el set cacheado (posible rotación).
// Sólo descarga si la última descarga tiene más de minRefresh.
func (s *CachedSource) RefreshForKID(ctx context.Context, kid string) (KeySet, error) {
	if s.ttl <= 0 || s.cache == nil {
		// sin cache el set ya es fresco
		return s.fetcher.KeySet(ctx)
	}
	last := time.Unix(0, s.lastFetch.Load())
	if time.Since(last) < s.minRefresh {
		return s.KeySet(ctx)
	}
	logger.From(ctx).Debug("unknown kid, refreshing jwks", logger.Component("jwt"), logger.KID(kid))
	return s.Refresh(ctx)
}

// Refresh fuerza la descarga y reescribe el cache.
func (s *CachedSource) Refresh(ctx context.Context) (KeySet, error) {
	v, err, _ := s.sf.Do(s.key, func() (any, error) {
		// la descarga es compartida: no depende de que el primer request siga vivo.
		// El timeout del Fetcher la acota.
		ctx := context.WithoutCancel(ctx)
		raw, err := s.fetcher.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.lastFetch.Store(time.Now().UnixNano())
		if s.ttl > 0 && s.cache != nil {
			if err := s.cache.Set(ctx, s.key, raw, s.ttl); err != nil {
				logger.From(ctx).Warn("jwks cache write failed", logger.Component("jwt"), logger.Err(err))
			}
		}
		return raw, nil
	})
	if err != nil {
		return KeySet{}, err
	}
	return decodeKeySet(v.([]byte))
}
