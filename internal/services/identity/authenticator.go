package identity

import (
	"context"
	"net/http"
)

// Authenticator validates one kind of credential and resolves the user
// it belongs to.
//
// Implementations:
//   - TokenAuthenticator: validates Authorization: Bearer tokens
//   - SessionAuthenticator: validates session cookies
//
// Return values:
//   - (user, nil): credential present and valid
//   - (nil, nil): credential not present, try the next authenticator
//   - (nil, error): credential present but did not resolve
//
// An authenticator never attaches anything to the context and never
// writes to the request; resolution is a pure read. Errors carry an
// Outcome (see OutcomeOf) for observability, but callers treat every
// error the same way: the credential did not resolve.
type Authenticator interface {
	Authenticate(ctx context.Context, req AuthRequest) (*Resolution, error)
}

// AuthRequest wraps the parts of an HTTP request that carry
// credentials. The abstraction keeps authenticators independent of how
// the request arrived (API handler, page render, websocket upgrade).
type AuthRequest struct {
	// Headers contains HTTP headers (including Authorization)
	Headers http.Header

	// Cookies contains parsed cookies
	Cookies []*http.Cookie
}

// NewAuthRequest extracts credential material from an HTTP request.
func NewAuthRequest(r *http.Request) AuthRequest {
	return AuthRequest{
		Headers: r.Header,
		Cookies: r.Cookies(),
	}
}

// Cookie returns the named cookie value, or "" when absent.
func (r AuthRequest) Cookie(name string) string {
	for _, cookie := range r.Cookies {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}
