package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartSpan creates a new span for a service operation.
// This is a convenience wrapper around otel.Tracer().Start() with common patterns.
//
// Usage in services:
//
//	ctx, span := telemetry.StartSpan(ctx, "dokploy/services/identity", "identity.AuthenticateRequest",
//	    attribute.String("auth.source", source),
//	)
//	defer span.End()
func StartSpan(ctx context.Context, tracerName, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	return tracer.Start(ctx, spanName, trace.WithAttributes(attrs...))
}

// RecordError records an error on the span and sets the span status to error.
// This is a convenience wrapper to ensure consistent error recording.
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// AddEvent adds a named event to the span with optional attributes.
// Use for business events like credential misses, guard redirects, etc.
//
// Example:
//
//	telemetry.AddEvent(span, "credential.miss",
//	    attribute.String("reason", "session expired"),
//	)
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// Common attribute keys for Dokploy services
const (
	// Identity service attributes
	AttrAuthSource       = "auth.source"
	AttrAuthOutcome      = "auth.outcome"
	AttrUserID           = "user.id"
	AttrUserRole         = "user.role"
	AttrTokenFingerprint = "token.fingerprint"

	// Procedure router attributes
	AttrProcedureName = "procedure.name"
	AttrProcedureKind = "procedure.kind"

	// Platform service attributes
	AttrRegistryID  = "registry.id"
	AttrDatabaseID  = "database.id"
	AttrDatabaseApp = "database.app_name"
	AttrClusterNode = "cluster.node_id"
)
