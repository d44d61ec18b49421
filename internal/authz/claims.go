package authz

import "context"

// Claims es el payload decodificado de un token verificado.
type Claims map[string]any

// Subject retorna el claim "sub" o "".
func (c Claims) Subject() string {
	s, _ := c["sub"].(string)
	return s
}

// Permissions retorna el claim "permissions". ok es false si falta o no es un array.
func (c Claims) Permissions() (perms []string, ok bool) {
	v, present := c["permissions"]
	if !present {
		return nil, false
	}
	switch arr := v.(type) {
	case []string:
		return arr, true
	case []any:
		out := make([]string, 0, len(arr))
		for _, item := range arr {
			if s, isStr := item.(string); isStr {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}

type ctxKey struct{}

// WithClaims inyecta las claims verificadas en el contexto del request.
func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// ClaimsFrom obtiene las claims del contexto; nil si la ruta no pasó por el middleware.
func ClaimsFrom(ctx context.Context) Claims {
	c, _ := ctx.Value(ctxKey{}).(Claims)
	return c
}
