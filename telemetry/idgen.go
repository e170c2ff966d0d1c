package telemetry

import (
	"context"
	crand "crypto/rand"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

type traceIDKey struct{}

// WithTraceID returns a context that forces the next root span started
// from it to use the given 32-character hex trace ID. This lets scores be
// attached to traces by a deterministic ID computed before the run.
func WithTraceID(ctx context.Context, hexID string) context.Context {
	tid, err := oteltrace.TraceIDFromHex(hexID)
	if err != nil {
		return ctx
	}
	return context.WithValue(ctx, traceIDKey{}, tid)
}

// idGenerator generates random span IDs, honoring a trace ID preset on the
// context via WithTraceID.
type idGenerator struct{}

func newIDGenerator() sdktrace.IDGenerator {
	return idGenerator{}
}

func (idGenerator) NewIDs(ctx context.Context) (oteltrace.TraceID, oteltrace.SpanID) {
	var tid oteltrace.TraceID
	if preset, ok := ctx.Value(traceIDKey{}).(oteltrace.TraceID); ok {
		tid = preset
	} else {
		crand.Read(tid[:])
	}
	var sid oteltrace.SpanID
	crand.Read(sid[:])
	return tid, sid
}

func (idGenerator) NewSpanID(ctx context.Context, traceID oteltrace.TraceID) oteltrace.SpanID {
	var sid oteltrace.SpanID
	crand.Read(sid[:])
	return sid
}
