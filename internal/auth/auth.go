package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrUnauthenticated is returned for every failed credential check. Callers
// cannot tell a missing header from a wrong key.
var ErrUnauthenticated = errors.New("unauthenticated")

// Principal identifies the authenticated caller.
type Principal struct {
	ID     string
	Method string
}

// Authenticator decides whether request metadata carries a valid credential.
type Authenticator interface {
	Authenticate(h http.Header) (Principal, error)
}

// AuthenticatorFunc adapts a plain function to Authenticator.
type AuthenticatorFunc func(h http.Header) (Principal, error)

func (f AuthenticatorFunc) Authenticate(h http.Header) (Principal, error) { return f(h) }

// APIClient is the fixed principal every valid shared key maps to.
var APIClient = Principal{ID: "api-client", Method: "api_key"}

// StaticKeyAuthenticator accepts a single shared secret in a configured header.
type StaticKeyAuthenticator struct {
	header string
	secret []byte
}

// NewStaticKeyAuthenticator returns an authenticator checking header against secret.
func NewStaticKeyAuthenticator(header, secret string) *StaticKeyAuthenticator {
	return &StaticKeyAuthenticator{
		header: http.CanonicalHeaderKey(header),
		secret: []byte(secret),
	}
}

func (a *StaticKeyAuthenticator) Authenticate(h http.Header) (Principal, error) {
	presented := h.Get(a.header)
	if presented == "" || len(a.secret) == 0 {
		return Principal{}, ErrUnauthenticated
	}
	if subtle.ConstantTimeCompare([]byte(presented), a.secret) != 1 {
		return Principal{}, ErrUnauthenticated
	}
	return APIClient, nil
}

const principalKey = "auth.principal"

// WithPrincipal stores p on the request context.
func WithPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal stored by the auth middleware.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
