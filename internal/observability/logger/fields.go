package logger

import (
	"time"

	"go.uber.org/zap"
)

// Field evita que los callers importen zap sólo para armar slices de campos.
type Field = zap.Field

// =================================================================================
// HTTP
// =================================================================================

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(d time.Duration) zap.Field {
	return zap.Int64("duration_ms", d.Milliseconds())
}

// =================================================================================
// AUTORIZACIÓN
// =================================================================================

// Subject es el "sub" del token verificado.
func Subject(v string) zap.Field { return zap.String("sub", v) }

// Permission es el permiso requerido por la ruta (ej: post:movies).
func Permission(v string) zap.Field { return zap.String("permission", v) }

// AuthKind es el tipo de fallo de autorización (missing_token, key_not_found, ...).
func AuthKind(v string) zap.Field { return zap.String("auth_kind", v) }

// KID identifica la key de firma.
func KID(v string) zap.Field { return zap.String("kid", v) }

// =================================================================================
// DATOS
// =================================================================================

// Resource es el nombre de la colección (movies, actors, genders, castings).
func Resource(v string) zap.Field { return zap.String("resource", v) }

// EntityID es el id numérico de una fila.
func EntityID(v int64) zap.Field { return zap.Int64("entity_id", v) }

// Stage es la etapa del envelope de mutación (staged, applied, ...).
func Stage(v string) zap.Field { return zap.String("stage", v) }

func Op(v string) zap.Field        { return zap.String("op", v) }
func Component(v string) zap.Field { return zap.String("component", v) }
func Count(v int) zap.Field        { return zap.Int("count", v) }
func Err(err error) zap.Field      { return zap.Error(err) }

func Any(key string, v any) zap.Field { return zap.Any(key, v) }
func String(key, v string) zap.Field  { return zap.String(key, v) }
