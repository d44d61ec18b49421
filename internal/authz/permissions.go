// Package authz contiene la taxonomía de fallos de autorización, las claims
// verificadas y el chequeo de permisos "<verbo>:<recurso>".
package authz

import (
	"strings"
)

// Permission arma "<verb>:<resource>", ej: Permission("post", "movies") = "post:movies".
func Permission(verb, resource string) string {
	return strings.ToLower(verb) + ":" + strings.ToLower(resource)
}

// CheckPermission confirma que las claims incluyen required.
// Un required vacío siempre pasa.
func CheckPermission(required string, c Claims) error {
	perms, ok := c.Permissions()
	if !ok {
		if required == "" {
			return nil
		}
		return Fail(PermissionsClaimMissing, nil)
	}
	if required == "" {
		return nil
	}
	for _, p := range perms {
		if p == required {
			return nil
		}
	}
	return Fail(PermissionDenied, nil)
}

// BearerToken extrae el token de un header Authorization.
func BearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", Fail(MissingToken, nil)
	}
	parts := strings.Fields(header)
	if !strings.EqualFold(parts[0], "bearer") {
		return "", &Error{Kind: MalformedHeader, Message: msgHeaderNotBearer}
	}
	if len(parts) != 2 {
		return "", &Error{Kind: MalformedHeader, Message: msgHeaderNotTwoParts}
	}
	return parts[1], nil
}
