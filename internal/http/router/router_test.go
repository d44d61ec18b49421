package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/castingagency/internal/authz"
	"github.com/dropDatabas3/castingagency/internal/http/handlers"
	"github.com/dropDatabas3/castingagency/internal/store/memory"
)

// tokenVerifier interpreta el token como la lista de permisos separada por comas.
type tokenVerifier struct{}

func (tokenVerifier) Verify(_ context.Context, token string) (authz.Claims, error) {
	if token == "expired" {
		return nil, authz.Fail(authz.Expired, nil)
	}
	perms := make([]any, 0)
	for _, p := range strings.Split(token, ",") {
		perms = append(perms, p)
	}
	return authz.Claims{"sub": "auth0|test", "permissions": perms}, nil
}

const allPerms = "get:movies,post:movies,patch:movies,delete:movies," +
	"get:actors,post:actors,patch:actors,delete:actors," +
	"get:genders,post:genders,patch:genders,delete:genders," +
	"get:castings,post:castings,patch:castings,delete:castings"

type api struct {
	t *testing.T
	h http.Handler
}

func newAPI(t *testing.T) *api {
	st := memory.New()
	h := New(Deps{
		Store:    st,
		Verifier: tokenVerifier{},
		Health:   handlers.NewHealthHandler("test", map[string]handlers.Pinger{"store": st}),
	})
	return &api{t: t, h: h}
}

func (a *api) do(method, path, token, body string) (int, map[string]any) {
	a.t.Helper()
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
	a.h.ServeHTTP(rec, r)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func items(t *testing.T, body map[string]any, resource string) []any {
	t.Helper()
	list, ok := body[resource].([]any)
	require.True(t, ok, "missing %q in %v", resource, body)
	return list
}

func TestRoutes_RequireToken(t *testing.T) {
	a := newAPI(t)
	routes := []struct{ method, path, body string }{
		{http.MethodGet, "/movies", ""},
		{http.MethodGet, "/movies/1", ""},
		{http.MethodPost, "/movies", `{"title":"x","release_date":"2020-01-01"}`},
		{http.MethodPatch, "/movies/1", `{"title":"x","release_date":"2020-01-01"}`},
		{http.MethodDelete, "/movies/1", ""},
		{http.MethodGet, "/actors", ""},
		{http.MethodPost, "/actors", `{"name":"x"}`},
		{http.MethodDelete, "/actors/1", ""},
		{http.MethodGet, "/genders/1", ""},
		{http.MethodPost, "/genders", `{"name":"Female"}`},
		{http.MethodPatch, "/genders/1", `{"name":"Male"}`},
		{http.MethodGet, "/castings", ""},
		{http.MethodPost, "/castings", `{}`},
		{http.MethodDelete, "/castings/1", ""},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			code, body := a.do(rt.method, rt.path, "", rt.body)
			assert.Equal(t, http.StatusUnauthorized, code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, float64(401), body["error"])
			assert.Equal(t, "token not found.", body["message"])
		})
	}

	// ningún POST anónimo llegó al store
	code, body := a.do(http.MethodGet, "/genders", allPerms, "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, items(t, body, "genders"))
}

func TestRoutes_PermissionPerVerb(t *testing.T) {
	a := newAPI(t)

	code, body := a.do(http.MethodGet, "/movies", "get:actors", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "permission not found.", body["message"])

	code, _ = a.do(http.MethodGet, "/movies", "get:movies", "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = a.do(http.MethodPost, "/movies", "get:movies", `{"title":"x","release_date":"2020-01-01"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	// leer no habilita modificar, y el 401 no filtra el recurso
	code, body = a.do(http.MethodPatch, "/movies/5", "get:movies", `{"title":"y"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "permission not found.", body["message"])
	assert.NotContains(t, body, "movies")

	code, body = a.do(http.MethodGet, "/movies", "expired", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "token expired.", body["message"])
}

func TestGenders_CRUD(t *testing.T) {
	a := newAPI(t)

	code, body := a.do(http.MethodPost, "/genders", allPerms, `{"name":"Female"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["created"])
	assert.Equal(t, []any{map[string]any{"id": float64(1), "name": "Female"}}, body["genders"])

	code, body = a.do(http.MethodPatch, "/genders/1", allPerms, `{"name":"Woman"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["modified"])
	assert.Equal(t, "Woman", items(t, body, "genders")[0].(map[string]any)["name"])

	code, body = a.do(http.MethodGet, "/genders/1", allPerms, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, items(t, body, "genders"), 1)

	code, body = a.do(http.MethodDelete, "/genders/1", allPerms, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"success": true, "deleted": float64(1), "genders": []any{}}, body)

	code, body = a.do(http.MethodGet, "/genders/1", allPerms, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not found", body["message"])
}

func TestValidationAndLookupErrors(t *testing.T) {
	a := newAPI(t)
	code, _ := a.do(http.MethodPost, "/genders", allPerms, `{"name":"Female"}`)
	require.Equal(t, http.StatusOK, code)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"missing field", http.MethodPost, "/movies", `{"title":"Heat"}`, http.StatusBadRequest},
		{"blank field", http.MethodPost, "/genders", `{"name":"  "}`, http.StatusBadRequest},
		{"bad date", http.MethodPost, "/movies", `{"title":"Heat","release_date":"15/12/1995"}`, http.StatusBadRequest},
		{"invalid json", http.MethodPost, "/genders", `{"name":`, http.StatusBadRequest},
		{"wrong type", http.MethodPost, "/actors", `{"name":"A","dob":"1990-01-01","gender_id":"one"}`, http.StatusBadRequest},
		{"patch casting without recast", http.MethodPatch, "/castings/1", `{"actor_id":1,"movie_id":1,"casting_date":"2020-01-01"}`, http.StatusBadRequest},
		{"unknown id", http.MethodGet, "/movies/99", "", http.StatusNotFound},
		{"non numeric id", http.MethodGet, "/movies/abc", "", http.StatusNotFound},
		{"patch unknown", http.MethodPatch, "/genders/99", `{"name":"X"}`, http.StatusNotFound},
		{"delete unknown", http.MethodDelete, "/castings/99", "", http.StatusNotFound},
		{"casting without actor", http.MethodPost, "/castings", `{"movie_id":1,"casting_date":"2020-01-01"}`, http.StatusBadRequest},
		{"duplicate name", http.MethodPost, "/genders", `{"name":"Female"}`, http.StatusUnprocessableEntity},
		{"unknown gender fk", http.MethodPost, "/actors", `{"name":"A","dob":"1990-01-01","gender_id":7}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := a.do(tc.method, tc.path, allPerms, tc.body)
			assert.Equal(t, tc.status, code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, float64(tc.status), body["error"])
		})
	}

	// los rechazos no dejan filas a medias
	code, body := a.do(http.MethodGet, "/castings", allPerms, "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, items(t, body, "castings"))
}

func TestValidation_MessageNamesField(t *testing.T) {
	a := newAPI(t)
	code, body := a.do(http.MethodPost, "/castings", allPerms, `{"movie_id":1,"casting_date":"2020-01-01"}`)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "actor_id: is required", body["message"])

	code, body = a.do(http.MethodPost, "/movies", allPerms, `{"title":"Heat"}`)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "release_date: is required", body["message"])
}

func TestDelete_UnknownIsStable(t *testing.T) {
	a := newAPI(t)
	for i := 0; i < 2; i++ {
		code, body := a.do(http.MethodDelete, "/movies/42", allPerms, "")
		assert.Equal(t, http.StatusNotFound, code, "attempt %d", i+1)
		assert.Equal(t, false, body["success"])
	}
	code, body := a.do(http.MethodGet, "/movies", allPerms, "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, items(t, body, "movies"))
}

func TestContentTypeRequired(t *testing.T) {
	a := newAPI(t)
	r := httptest.NewRequest(http.MethodPost, "/genders", strings.NewReader(`{"name":"Female"}`))
	r.Header.Set("Authorization", "Bearer "+allPerms)
	r.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCastings_JoinAndRestrict(t *testing.T) {
	a := newAPI(t)
	steps := []struct{ path, body string }{
		{"/genders", `{"name":"Male"}`},
		{"/actors", `{"name":"Al Pacino","dob":"1940-04-25","gender_id":1}`},
		{"/movies", `{"title":"Heat","release_date":"1995-12-15"}`},
		{"/castings", `{"actor_id":1,"movie_id":1,"casting_date":"1995-01-10"}`},
	}
	for _, s := range steps {
		code, body := a.do(http.MethodPost, s.path, allPerms, s.body)
		require.Equal(t, http.StatusOK, code, "%s: %v", s.path, body)
	}

	code, body := a.do(http.MethodGet, "/castings", allPerms, "")
	require.Equal(t, http.StatusOK, code)
	list := items(t, body, "castings")
	require.Len(t, list, 1)
	c := list[0].(map[string]any)
	assert.Equal(t, "Al Pacino", c["actor"])
	assert.Equal(t, "Heat", c["movie"])
	assert.Equal(t, "1995-01-10", c["casting_date"])
	assert.Equal(t, false, c["recast_yn"])

	code, body = a.do(http.MethodGet, "/actors/1", allPerms, "")
	require.Equal(t, http.StatusOK, code)
	actor := items(t, body, "actors")[0].(map[string]any)
	assert.Equal(t, "1940-04-25", actor["dob"])
	assert.Greater(t, actor["age"].(float64), float64(80))

	// el actor está referenciado por un casting
	code, _ = a.do(http.MethodDelete, "/actors/1", allPerms, "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	// mismo actor, película y fecha
	code, _ = a.do(http.MethodPost, "/castings", allPerms, `{"actor_id":1,"movie_id":1,"casting_date":"1995-01-10"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, body = a.do(http.MethodPatch, "/castings/1", allPerms, `{"actor_id":1,"movie_id":1,"casting_date":"1995-01-10","recast_yn":true}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, items(t, body, "castings")[0].(map[string]any)["recast_yn"])

	code, _ = a.do(http.MethodDelete, "/castings/1", allPerms, "")
	require.Equal(t, http.StatusOK, code)
	code, _ = a.do(http.MethodDelete, "/actors/1", allPerms, "")
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_FallbacksAndHealth(t *testing.T) {
	a := newAPI(t)

	code, body := a.do(http.MethodGet, "/nope", allPerms, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not found", body["message"])

	code, body = a.do(http.MethodPut, "/movies/1", allPerms, `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, code)
	assert.Equal(t, "not allowed", body["message"])

	code, body = a.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}
