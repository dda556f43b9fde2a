package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("clinic-reviews")

// GetTracer returns the shared application tracer:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "match-review")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
