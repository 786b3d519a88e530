package identity

import (
	"errors"
	"fmt"

	"github.com/ChasLui/dokploy/internal/db/models"
)

// Source names the credential kind that authenticated a request.
type Source string

const (
	// SourceBearer marks requests authenticated by an API token.
	SourceBearer Source = "bearer"

	// SourceSession marks requests authenticated by a session cookie.
	SourceSession Source = "session"
)

// Resolution is the result of a successful credential validation.
//
// The struct is immutable after construction. The user is fully loaded
// and active; there is no partially resolved state.
type Resolution struct {
	// User is the account the credential belongs to.
	User *models.User

	// Source identifies which credential kind resolved.
	Source Source

	// SessionID references the active session (session source only).
	SessionID string

	// TokenID references the API token record (bearer source only).
	TokenID string

	// Fingerprint is the short display identifier of the bearer token
	// (bearer source only).
	Fingerprint string
}

// Outcome classifies why a credential did or did not resolve. Outcomes
// feed metrics and trace events; they are never exposed to clients,
// which only ever observe authenticated or not.
type Outcome string

const (
	OutcomeResolved    Outcome = "resolved"
	OutcomeMissing     Outcome = "missing"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeExpired     Outcome = "expired"
	OutcomeRevoked     Outcome = "revoked"
	OutcomeMalformed   Outcome = "malformed"
	OutcomeUnavailable Outcome = "unavailable"
)

// credentialError carries an Outcome alongside the underlying cause.
type credentialError struct {
	outcome Outcome
	err     error
}

func (e *credentialError) Error() string { return e.err.Error() }
func (e *credentialError) Unwrap() error { return e.err }

func newCredentialError(outcome Outcome, format string, args ...interface{}) error {
	return &credentialError{outcome: outcome, err: fmt.Errorf(format, args...)}
}

// OutcomeOf extracts the Outcome from an authenticator error. Errors
// without a classification are treated as infrastructure failures.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeResolved
	}
	var ce *credentialError
	if errors.As(err, &ce) {
		return ce.outcome
	}
	return OutcomeUnavailable
}
