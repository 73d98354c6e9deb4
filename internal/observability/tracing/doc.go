// Package tracing wires OpenTelemetry into the forum reader: a named
// tracer for spans around store and rendering work, a provider setup for
// the process, and HTTP middleware that opens a server span per request.
//
// Example usage:
//
//	shutdown, err := tracing.Setup(ctx, tracing.Config{SampleRatio: 0.1})
//	if err != nil { ... }
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.GetTracer().Start(ctx, "listing.Questions")
//	defer span.End()
package tracing
