// Package cache provee un cliente key/value con TTL y dos backends:
//   - memory (go-cache, in-process; desarrollo, tests y réplica única)
//   - redis (compartido entre réplicas)
//
// Hoy lo usa el key source del verifier para guardar el documento JWKS.
package cache

import (
	"context"
	"errors"
	"time"
)

// Client define las operaciones de cache.
type Client interface {
	// Get retorna ErrNotFound si la key no existe o expiró.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set guarda value; ttl 0 = sin expiración.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// ErrNotFound indica miss.
var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si err es un miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
