package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ChasLui/dokploy/internal/auth"
	"github.com/ChasLui/dokploy/internal/repository"
)

// TokenAuthenticator authenticates requests using API tokens supplied
// in the Authorization header. It is tried before the session
// authenticator so programmatic clients get a deterministic path even
// when a stray browser cookie is attached to the request.
//
// Validation steps:
//  1. Extract "Authorization: Bearer <token>"
//  2. Return (nil, nil) if the header is absent
//  3. Hash the token value
//  4. Look up the API token by hash
//  5. Validate: not revoked, not expired
//  6. Look up the owning user
//  7. Validate: not disabled
//
// This authenticator is stateless and safe for concurrent use.
type TokenAuthenticator struct {
	users  repository.UserRepository
	tokens repository.APITokenRepository
}

// NewTokenAuthenticator creates a bearer token authenticator.
func NewTokenAuthenticator(users repository.UserRepository, tokens repository.APITokenRepository) *TokenAuthenticator {
	return &TokenAuthenticator{users: users, tokens: tokens}
}

// Authenticate extracts and validates the bearer token.
func (a *TokenAuthenticator) Authenticate(ctx context.Context, req AuthRequest) (*Resolution, error) {
	header := req.Headers.Get("Authorization")
	if header == "" {
		// No credentials for this authenticator, try next
		return nil, nil
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return nil, newCredentialError(OutcomeMalformed, "authorization header is not a bearer token")
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if raw == "" {
		return nil, newCredentialError(OutcomeMalformed, "bearer token is empty")
	}

	tokenHash := auth.HashToken(raw)

	token, err := a.tokens.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newCredentialError(OutcomeNotFound, "api token not recognized")
		}
		return nil, newCredentialError(OutcomeUnavailable, "api token lookup: %w", err)
	}

	if token.Revoked {
		return nil, newCredentialError(OutcomeRevoked, "api token has been revoked")
	}
	if token.ExpiresAt != nil && token.ExpiresAt.Before(time.Now()) {
		return nil, newCredentialError(OutcomeExpired, "api token has expired")
	}

	user, err := a.users.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newCredentialError(OutcomeNotFound, "api token owner not found")
		}
		return nil, newCredentialError(OutcomeUnavailable, "api token owner lookup: %w", err)
	}
	if user.DisabledAt != nil {
		return nil, newCredentialError(OutcomeRevoked, "api token owner is disabled")
	}

	return &Resolution{
		User:        user,
		Source:      SourceBearer,
		TokenID:     token.ID,
		Fingerprint: token.Fingerprint,
	}, nil
}
