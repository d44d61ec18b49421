package jwt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dropDatabas3/castingagency/internal/metrics"
)

// maxJWKSBytes limita el body del JWKS remoto.
const maxJWKSBytes = 1 << 20

// KeySource entrega el key set vigente.
type KeySource interface {
	KeySet(ctx context.Context) (KeySet, error)
}

// Fetcher descarga el JWKS en cada llamada (sin cache).
type Fetcher struct {
	URL    string
	Client *http.Client
}

// NewFetcher crea un Fetcher con timeout propio; el ctx del request también corta.
func NewFetcher(url string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Fetcher{URL: url, Client: &http.Client{Timeout: timeout}}
}

// Fetch hace GET al endpoint y devuelve el documento crudo ya validado como JSON.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	raw, err := f.fetch(ctx)
	if err != nil {
		metrics.RecordJWKSFetch("error")
		return nil, err
	}
	metrics.RecordJWKSFetch("ok")
	return raw, nil
}

func (f *Fetcher) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("jwt: build jwks request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jwt: jwks request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwt: jwks endpoint returned status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxJWKSBytes))
	if err != nil {
		return nil, fmt.Errorf("jwt: read jwks: %w", err)
	}
	if _, err := decodeKeySet(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// KeySet descarga y decodifica.
func (f *Fetcher) KeySet(ctx context.Context) (KeySet, error) {
	raw, err := f.Fetch(ctx)
	if err != nil {
		return KeySet{}, err
	}
	return decodeKeySet(raw)
}

func decodeKeySet(raw []byte) (KeySet, error) {
	var ks KeySet
	if err := json.Unmarshal(raw, &ks); err != nil {
		return KeySet{}, fmt.Errorf("jwt: parse jwks: %w", err)
	}
	return ks, nil
}
