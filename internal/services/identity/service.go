package identity

import (
	"context"
	"log"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ChasLui/dokploy/internal/telemetry"
)

const tracerName = "dokploy/services/identity"

// Service resolves request credentials through an ordered authenticator
// chain. It is the single entry point for both the API gateway and the
// page guard, so every surface shares one validation path.
type Service struct {
	authenticators []Authenticator
	sources        []Source
	metrics        *telemetry.Metrics
}

// NewService creates the identity service with the standard chain:
// bearer tokens first, then session cookies. Bearer precedence keeps
// programmatic clients deterministic even when a browser cookie rides
// along on the request.
func NewService(tokenAuth *TokenAuthenticator, sessionAuth *SessionAuthenticator, metrics *telemetry.Metrics) *Service {
	return &Service{
		authenticators: []Authenticator{tokenAuth, sessionAuth},
		sources:        []Source{SourceBearer, SourceSession},
		metrics:        metrics,
	}
}

// AuthenticateRequest tries each authenticator in order.
//
// Algorithm:
//   - (resolution, nil): success, stop and return the resolution
//   - (nil, nil): no credentials for that authenticator, try next
//   - (nil, error): the credential did not resolve; record the outcome
//     and fall through to the next authenticator
//   - all misses: return (nil, nil) for an unauthenticated request
//
// Errors never propagate to the caller. A credential that fails to
// resolve, for whatever internal reason, leaves the request exactly as
// unauthenticated as a request with no credentials at all; the
// distinction lives only in metrics and trace events.
func (s *Service) AuthenticateRequest(ctx context.Context, req AuthRequest) *Resolution {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "identity.AuthenticateRequest")
	defer span.End()

	for i, authenticator := range s.authenticators {
		source := s.sources[i]

		resolution, err := authenticator.Authenticate(ctx, req)
		if err != nil {
			outcome := OutcomeOf(err)
			s.count(source, outcome)
			telemetry.AddEvent(span, "credential.miss",
				attribute.String(telemetry.AttrAuthSource, string(source)),
				attribute.String(telemetry.AttrAuthOutcome, string(outcome)),
			)
			if outcome == OutcomeUnavailable {
				// Surface infrastructure trouble to operators; the
				// client still just sees an unauthenticated request.
				log.Printf("identity: %s credential check unavailable: %v", source, err)
				telemetry.RecordError(span, err)
			}
			continue
		}
		if resolution != nil {
			s.count(source, OutcomeResolved)
			span.SetAttributes(
				attribute.String(telemetry.AttrAuthSource, string(source)),
				attribute.String(telemetry.AttrUserID, resolution.User.ID),
				attribute.String(telemetry.AttrUserRole, string(resolution.User.Role)),
			)
			return resolution
		}
		// resolution == nil && err == nil: credential absent, try next
		s.count(source, OutcomeMissing)
	}

	telemetry.AddEvent(span, "credential.none")
	return nil
}

func (s *Service) count(source Source, outcome Outcome) {
	if s.metrics == nil {
		return
	}
	s.metrics.AuthAttempts.WithLabelValues(string(source), string(outcome)).Inc()
}
