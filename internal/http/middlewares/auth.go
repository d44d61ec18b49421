package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dropDatabas3/castingagency/internal/authz"
	httperrors "github.com/dropDatabas3/castingagency/internal/http/errors"
	"github.com/dropDatabas3/castingagency/internal/metrics"
	"github.com/dropDatabas3/castingagency/internal/observability/logger"
)

// TokenVerifier valida un bearer token (implementado por jwt.Verifier).
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (authz.Claims, error)
}

// RequirePermission: extraer token -> verificar -> chequear permiso -> next.
// Ante cualquier fallo responde con el status del Kind y no llama a next.
// Las claims quedan en el contexto (authz.ClaimsFrom).
func RequirePermission(v TokenVerifier, permission string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authorize(r.Context(), v, r.Header.Get("Authorization"), permission)
			if err != nil {
				kind := authz.KindOf(err)
				metrics.RecordAuthFailure(kind.String())
				logger.From(r.Context()).Warn("authorization failed",
					logger.Permission(permission),
					logger.AuthKind(kind.String()),
					logger.Err(err),
				)
				if h := challenge(err); h != "" {
					w.Header().Set("WWW-Authenticate", h)
				}
				httperrors.WriteError(w, err)
				return
			}

			ctx := authz.WithClaims(r.Context(), claims)
			if sub := claims.Subject(); sub != "" {
				ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.Subject(sub)))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authorize(ctx context.Context, v TokenVerifier, header, permission string) (authz.Claims, error) {
	token, err := authz.BearerToken(header)
	if err != nil {
		return nil, err
	}
	claims, err := v.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := authz.CheckPermission(permission, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// challenge arma el header WWW-Authenticate (RFC 6750). Vacío si el fallo no es del token.
func challenge(err error) string {
	var ae *authz.Error
	if !errors.As(err, &ae) {
		return ""
	}
	code := "invalid_token"
	switch ae.Kind {
	case authz.MissingToken:
		return `Bearer realm="api"`
	case authz.MalformedHeader:
		code = "invalid_request"
	case authz.PermissionsClaimMissing, authz.PermissionDenied:
		code = "insufficient_scope"
	case authz.KeySetUnavailable:
		return ""
	}
	desc := strings.ReplaceAll(ae.Message, `"`, `'`)
	return `Bearer realm="api", error="` + code + `", error_description="` + desc + `"`
}
