// Package jwt verifica access tokens RS256 contra un JWKS remoto (Auth0).
package jwt

import (
	"context"
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/castingagency/internal/authz"
)

// Config de validación de claims.
type Config struct {
	Audience string
	Issuer   string
	// Algorithms permitidos; vacío = RS256.
	Algorithms []string
	Leeway     time.Duration
}

// kidRefresher es opcional: sources que saben refrescar ante rotación de keys.
type kidRefresher interface {
	RefreshForKID(ctx context.Context, kid string) (KeySet, error)
}

// Verifier valida la firma y las claims estándar de un token.
type Verifier struct {
	keys KeySource
	cfg  Config
}

func NewVerifier(keys KeySource, cfg Config) *Verifier {
	if len(cfg.Algorithms) == 0 {
		cfg.Algorithms = []string{"RS256"}
	}
	return &Verifier{keys: keys, cfg: cfg}
}

// Verify devuelve las claims del token o un *authz.Error con el Kind del fallo.
func (v *Verifier) Verify(ctx context.Context, token string) (authz.Claims, error) {
	if token == "" {
		return nil, authz.Fail(authz.MissingToken, nil)
	}

	// header sin verificar, sólo para elegir la key
	unverified, _, err := jwtv5.NewParser().ParseUnverified(token, jwtv5.MapClaims{})
	if err != nil {
		return nil, authz.Fail(authz.ParseError, err)
	}
	kid, _ := unverified.Header["kid"].(string)
	if kid == "" {
		return nil, authz.Fail(authz.MalformedToken, nil)
	}

	rec, err := v.lookup(ctx, kid)
	if err != nil {
		return nil, err
	}
	pub, err := rec.RSAPublicKey()
	if err != nil {
		return nil, authz.Fail(authz.ParseError, err)
	}

	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods(v.cfg.Algorithms),
		jwtv5.WithExpirationRequired(),
	}
	if v.cfg.Audience != "" {
		opts = append(opts, jwtv5.WithAudience(v.cfg.Audience))
	}
	if v.cfg.Issuer != "" {
		opts = append(opts, jwtv5.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.Leeway > 0 {
		opts = append(opts, jwtv5.WithLeeway(v.cfg.Leeway))
	}

	mc := jwtv5.MapClaims{}
	_, err = jwtv5.ParseWithClaims(token, mc, func(*jwtv5.Token) (any, error) { return pub, nil }, opts...)
	if err != nil {
		return nil, classify(err)
	}

	out := make(authz.Claims, len(mc))
	for k, val := range mc {
		out[k] = val
	}
	return out, nil
}

func (v *Verifier) lookup(ctx context.Context, kid string) (KeyRecord, error) {
	ks, err := v.keys.KeySet(ctx)
	if err != nil {
		return KeyRecord{}, authz.Fail(authz.KeySetUnavailable, err)
	}
	if rec, ok := ks.Find(kid); ok {
		return rec, nil
	}
	r, ok := v.keys.(kidRefresher)
	if !ok {
		return KeyRecord{}, authz.Fail(authz.KeyNotFound, nil)
	}
	ks, err = r.RefreshForKID(ctx, kid)
	if err != nil {
		return KeyRecord{}, authz.Fail(authz.KeySetUnavailable, err)
	}
	if rec, ok := ks.Find(kid); ok {
		return rec, nil
	}
	return KeyRecord{}, authz.Fail(authz.KeyNotFound, nil)
}

// classify mapea errores de golang-jwt a la taxonomía de authz.
// Expirado se evalúa antes que audience/issuer.
func classify(err error) *authz.Error {
	switch {
	case errors.Is(err, jwtv5.ErrTokenExpired):
		return authz.Fail(authz.Expired, err)
	case errors.Is(err, jwtv5.ErrTokenInvalidAudience), errors.Is(err, jwtv5.ErrTokenInvalidIssuer):
		return authz.Fail(authz.ClaimsInvalid, err)
	default:
		return authz.Fail(authz.ParseError, err)
	}
}
