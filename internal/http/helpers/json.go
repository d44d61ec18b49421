// Package helpers tiene utilidades compartidas por los handlers: JSON, params y fechas.
package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/castingagency/internal/http/errors"
)

// MaxBodyBytes limita el body de los requests.
const MaxBodyBytes = 1 << 20

// ReadJSON decodifica un objeto JSON. Content-Type distinto de application/json,
// body vacío o JSON inválido devuelven *httperrors.ValidationError.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) error {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.Contains(ct, "application/json") {
		return &httperrors.ValidationError{Reason: "content-type must be application/json"}
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return &httperrors.ValidationError{Reason: "unreadable body"}
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return &httperrors.ValidationError{Reason: "empty body"}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &httperrors.ValidationError{Field: typeErr.Field, Reason: "wrong type"}
		}
		return &httperrors.ValidationError{Reason: "invalid json"}
	}
	return nil
}

// WriteJSON escribe una respuesta JSON.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
