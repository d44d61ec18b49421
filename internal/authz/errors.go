package authz

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifica el motivo de un fallo de autorización.
type Kind int

const (
	MissingToken Kind = iota + 1
	MalformedHeader
	MalformedToken
	KeyNotFound
	Expired
	ClaimsInvalid
	ParseError
	KeySetUnavailable
	PermissionsClaimMissing
	PermissionDenied
)

var kindNames = map[Kind]string{
	MissingToken:            "missing_token",
	MalformedHeader:         "malformed_header",
	MalformedToken:          "malformed_token",
	KeyNotFound:             "key_not_found",
	Expired:                 "expired",
	ClaimsInvalid:           "claims_invalid",
	ParseError:              "parse_error",
	KeySetUnavailable:       "key_set_unavailable",
	PermissionsClaimMissing: "permissions_claim_missing",
	PermissionDenied:        "permission_denied",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Status es el código HTTP de cada Kind.
// KeyNotFound responde 403; los fallos de permisos responden 401.
func (k Kind) Status() int {
	switch k {
	case KeyNotFound:
		return http.StatusForbidden
	case KeySetUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnauthorized
	}
}

// Error es el fallo tipado que devuelven el verifier y el permission checker.
// Message ya está en minúsculas y es seguro para exponer al cliente.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authz: %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("authz: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Status delega en Kind.Status.
func (e *Error) Status() int { return e.Kind.Status() }

// Is permite errors.Is(err, &authz.Error{Kind: authz.Expired}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

const (
	msgTokenNotFound     = "token not found."
	msgHeaderNotBearer   = `authorization header must start with "bearer".`
	msgHeaderNotTwoParts = "authorization header must be bearer token."
	msgMalformed         = "authorization malformed."
	msgKeyNotFound       = "unable to find the appropriate key."
	msgExpired           = "token expired."
	msgClaims            = "incorrect claims. please, check the audience and issuer."
	msgParse             = "unable to parse authentication token."
	msgKeySet            = "unable to fetch signing keys."
	msgNoPermissions     = "permissions not included in jwt."
	msgPermission        = "permission not found."
)

var defaultMessages = map[Kind]string{
	MissingToken:            msgTokenNotFound,
	MalformedHeader:         msgHeaderNotTwoParts,
	MalformedToken:          msgMalformed,
	KeyNotFound:             msgKeyNotFound,
	Expired:                 msgExpired,
	ClaimsInvalid:           msgClaims,
	ParseError:              msgParse,
	KeySetUnavailable:       msgKeySet,
	PermissionsClaimMissing: msgNoPermissions,
	PermissionDenied:        msgPermission,
}

// Fail crea un *Error con el mensaje por defecto del Kind.
func Fail(k Kind, cause error) *Error {
	return &Error{Kind: k, Message: defaultMessages[k], Err: cause}
}

// KindOf extrae el Kind de err, o 0 si err no es un *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}
