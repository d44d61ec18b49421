// Package errors define los errores HTTP de la API y el envelope
// {"success": false, "error": <status>, "message": "<lowercase>"}.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dropDatabas3/castingagency/internal/authz"
	"github.com/dropDatabas3/castingagency/internal/store/core"
)

// AppError es el error que ven los handlers. Message se expone tal cual.
type AppError struct {
	Status  int
	Message string
	// Kind es opcional: el motivo de un fallo de auth (logs y metrics).
	Kind string
	Err  error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Status, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func New(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

// WithMessage devuelve una COPIA con otro mensaje.
func (e *AppError) WithMessage(msg string) *AppError {
	n := *e
	n.Message = msg
	return &n
}

// WithCause devuelve una COPIA con la causa.
func (e *AppError) WithCause(err error) *AppError {
	n := *e
	n.Err = err
	return &n
}

// Mensajes por defecto (minúsculas).
var (
	ErrBadRequest         = New(http.StatusBadRequest, "bad request")
	ErrUnauthorized       = New(http.StatusUnauthorized, "unauthorized")
	ErrForbidden          = New(http.StatusForbidden, "forbidden")
	ErrNotFound           = New(http.StatusNotFound, "not found")
	ErrMethodNotAllowed   = New(http.StatusMethodNotAllowed, "not allowed")
	ErrUnprocessable      = New(http.StatusUnprocessableEntity, "unprocessable")
	ErrTooManyRequests    = New(http.StatusTooManyRequests, "too many requests")
	ErrInternal           = New(http.StatusInternalServerError, "server error")
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "service unavailable")
)

// ValidationError: body inválido o campo requerido faltante (400).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// Missing crea el ValidationError de campo requerido.
func Missing(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}

// FromError mapea errores de las otras capas a AppError.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var authErr *authz.Error
	if errors.As(err, &authErr) {
		return &AppError{Status: authErr.Status(), Message: authErr.Message, Kind: authErr.Kind.String(), Err: err}
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		// el campo y el motivo llegan al cliente: "actor_id: is required"
		e := ErrBadRequest.WithCause(err)
		if msg := strings.ToLower(strings.TrimSpace(vErr.Error())); msg != "" {
			e.Message = msg
		}
		return e
	}
	switch {
	case errors.Is(err, core.ErrNotFound):
		return ErrNotFound.WithCause(err)
	case errors.Is(err, core.ErrMutationFailed):
		return ErrUnprocessable.WithCause(err)
	}
	return ErrInternal.WithCause(err)
}
