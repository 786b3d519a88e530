package identity

import (
	"context"
	"errors"
	"time"

	"github.com/ChasLui/dokploy/internal/auth"
	"github.com/ChasLui/dokploy/internal/repository"
)

// SessionAuthenticator authenticates requests using session cookies.
//
// Validation steps:
//  1. Extract the session cookie
//  2. Return (nil, nil) if not present
//  3. Hash the cookie value
//  4. Look up the session by hash
//  5. Validate: not revoked, not expired
//  6. Look up the user
//  7. Validate: not disabled
//
// Validation is a pure read. The same cookie validated twice in one
// request (API gateway plus page guard) yields the same result with no
// side effects; last-used bookkeeping happens elsewhere.
//
// This authenticator is stateless and safe for concurrent use.
type SessionAuthenticator struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
}

// NewSessionAuthenticator creates a session cookie authenticator.
func NewSessionAuthenticator(users repository.UserRepository, sessions repository.SessionRepository) *SessionAuthenticator {
	return &SessionAuthenticator{users: users, sessions: sessions}
}

// Authenticate extracts and validates the session cookie.
func (a *SessionAuthenticator) Authenticate(ctx context.Context, req AuthRequest) (*Resolution, error) {
	cookie := req.Cookie(auth.SessionCookieName)
	if cookie == "" {
		// No credentials for this authenticator, try next
		return nil, nil
	}

	tokenHash := auth.HashToken(cookie)

	session, err := a.sessions.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newCredentialError(OutcomeNotFound, "session not recognized")
		}
		return nil, newCredentialError(OutcomeUnavailable, "session lookup: %w", err)
	}

	if session.Revoked {
		return nil, newCredentialError(OutcomeRevoked, "session has been revoked")
	}
	if session.ExpiresAt.Before(time.Now()) {
		return nil, newCredentialError(OutcomeExpired, "session has expired")
	}

	user, err := a.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newCredentialError(OutcomeNotFound, "session user not found")
		}
		return nil, newCredentialError(OutcomeUnavailable, "session user lookup: %w", err)
	}
	if user.DisabledAt != nil {
		return nil, newCredentialError(OutcomeRevoked, "session user is disabled")
	}

	return &Resolution{
		User:      user,
		Source:    SourceSession,
		SessionID: session.ID,
	}, nil
}
