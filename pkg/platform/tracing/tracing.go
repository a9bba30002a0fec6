// Package tracing wraps the global OpenTelemetry tracer with the span helpers
// and attribute keys used by the service layer. Without an installed provider
// the spans are no-ops.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	dErrors "wellbuddie/pkg/domain-errors"
)

const instrumentationName = "wellbuddie"

// Attribute keys. Never attach subject IDs or answers to spans.
var (
	AttrInstrument = attribute.Key("wellbuddie.assessment.instrument")
	AttrBucket     = attribute.Key("wellbuddie.assessment.bucket")
	AttrRiskLevel  = attribute.Key("wellbuddie.privacy.risk_level")
	AttrRecordKind = attribute.Key("wellbuddie.privacy.record_kind")
	AttrOutcome    = attribute.Key("wellbuddie.outcome")
	AttrErrorCode  = attribute.Key("wellbuddie.error.code")
	AttrPurged     = attribute.Key("wellbuddie.retention.purged")
)

// Start opens a span named "<component>.<operation>".
func Start(ctx context.Context, component, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, component+"."+operation,
		trace.WithAttributes(attrs...))
}

// End closes span, recording err and its domain code when non-nil.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(AttrErrorCode.String(string(dErrors.CodeOf(err))))
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
