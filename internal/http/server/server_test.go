package server

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/castingagency/internal/config"
	jwtx "github.com/dropDatabas3/castingagency/internal/jwt"
)

type staticKeys struct{ set jwtx.KeySet }

func (s staticKeys) KeySet(context.Context) (jwtx.KeySet, error) { return s.set, nil }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
app:
  env: test
auth:
  domain: casting.test
  audience: casting
rate:
  enabled: true
  max_requests: 1000
`), 0o600))
	cfg, err := config.Load(p)
	require.NoError(t, err)
	return cfg
}

func TestBuild_MemoryStack(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	cfg := testConfig(t)

	app, err := Build(context.Background(), cfg, Options{
		Version:  "test",
		Registry: prometheus.NewRegistry(),
		Keys:     staticKeys{set: jwtx.KeySet{Keys: []jwtx.KeyRecord{jwtx.RecordFromRSA("k1", &key.PublicKey)}}},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	assert.Nil(t, app.Store.PG)

	serve := func(method, path, token, body string) *httptest.ResponseRecorder {
		var r *http.Request
		if body != "" {
			r = httptest.NewRequest(method, path, strings.NewReader(body))
			r.Header.Set("Content-Type", "application/json")
		} else {
			r = httptest.NewRequest(method, path, nil)
		}
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		app.Handler.ServeHTTP(rec, r)
		return rec
	}

	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(http.MethodGet, "/movies", "", "").Code)

	tok := jwtv5.NewWithClaims(jwtv5.SigningMethodRS256, jwtv5.MapClaims{
		"iss":         cfg.IssuerURL(),
		"aud":         "casting",
		"sub":         "auth0|1",
		"exp":         time.Now().Add(time.Hour).Unix(),
		"permissions": []string{"get:movies", "post:movies"},
	})
	tok.Header["kid"] = "k1"
	signed, err := tok.SignedString(key)
	require.NoError(t, err)

	rec := serve(http.MethodPost, "/movies", signed, `{"title":"Heat","release_date":"1995-12-15"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = serve(http.MethodGet, "/movies", signed, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Heat"`)

	// la request de arriba ya registró métricas http
	rec = serve(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg, http.NotFoundHandler()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
