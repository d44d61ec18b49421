package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_ExposesCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	h, err := Register(reg)
	require.NoError(t, err)

	// registrar otra vez no falla
	_, err = Register(reg)
	require.NoError(t, err)

	before := testutil.ToFloat64(AuthFailuresTotal.WithLabelValues("expired"))
	RecordAuthFailure("expired")
	assert.Equal(t, before+1, testutil.ToFloat64(AuthFailuresTotal.WithLabelValues("expired")))

	RecordMutation("movies", "create", "committed")
	RecordJWKSFetch("ok")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "auth_failures_total"))
	assert.True(t, strings.Contains(body, `store_mutations_total{op="create",resource="movies",result="committed"}`))
}

func TestPoolCollector_NilStat(t *testing.T) {
	c := NewPoolCollector(nil)
	assert.Equal(t, 0, testutil.CollectAndCount(c))
}
