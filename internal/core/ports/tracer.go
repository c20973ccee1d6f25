package ports

import "context"

// Span represents a single traced operation.
type Span interface {
	// End completes the span.
	End()

	// RecordError marks the span as failed with the given error.
	RecordError(err error)

	// SetAttribute attaches a key/value pair to the span.
	SetAttribute(key, value string)
}

// Tracer creates spans around engine operations.
//
//go:generate mockgen -source=tracer.go -destination=mocks/mock_tracer.go -package=mocks
type Tracer interface {
	Start(ctx context.Context, name string) (context.Context, Span)
}
