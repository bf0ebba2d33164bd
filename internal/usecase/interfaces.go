package usecase

import "github.com/iho/payengine/internal/domain"

// EventSource produces typed events in input order, one at a time.
// Next returns io.EOF when the stream is exhausted; any other error is
// a fatal input error and aborts the run.
type EventSource interface {
	Next() (domain.Event, error)
}

// MetricsRecorder receives per-event outcomes from the runner.
type MetricsRecorder interface {
	EventApplied(eventType string)
	EventRejected(eventType, reason string)
}
