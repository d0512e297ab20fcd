// Package buffer holds telemetry events between emission and flush.
package buffer

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/lakeroad/sparktel/pkg/domain"
)

// EventBuffer is an in-process queue of pending telemetry events, safe for
// concurrent producers. Events are appended in arrival order and removed
// only by an atomic drain, so across a drain nothing is lost and nothing
// is sent twice. The buffer lives for the whole process and is logically
// reset on every flush.
type EventBuffer struct {
	mu      sync.Mutex
	pending []domain.BufferedEvent

	logger *zap.Logger

	// OTEL instrumentation - optional, nil-safe
	recordedCounter metric.Int64Counter
	drainedCounter  metric.Int64Counter
	drainsCounter   metric.Int64Counter
}

// NewEventBuffer creates an event buffer. The logger is required.
func NewEventBuffer(logger *zap.Logger) (*EventBuffer, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	b := &EventBuffer{
		logger: logger,
	}
	b.initializeMetrics()
	return b, nil
}

func (b *EventBuffer) initializeMetrics() {
	meter := otel.Meter("sparktel.buffer")
	var err error

	b.recordedCounter, err = meter.Int64Counter(
		"sparktel_events_recorded_total",
		metric.WithDescription("Total telemetry events recorded into the buffer"),
		metric.WithUnit("1"),
	)
	if err != nil {
		b.logger.Debug("Failed to create recorded counter", zap.Error(err))
		b.recordedCounter = nil
	}

	b.drainedCounter, err = meter.Int64Counter(
		"sparktel_events_drained_total",
		metric.WithDescription("Total telemetry events drained for transmission"),
		metric.WithUnit("1"),
	)
	if err != nil {
		b.logger.Debug("Failed to create drained counter", zap.Error(err))
		b.drainedCounter = nil
	}

	b.drainsCounter, err = meter.Int64Counter(
		"sparktel_drains_total",
		metric.WithDescription("Total drain operations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		b.logger.Debug("Failed to create drains counter", zap.Error(err))
		b.drainsCounter = nil
	}
}

// Record appends an event with its timestamp to the pending list. Safe
// under concurrent callers; the critical section covers only the append.
func (b *EventBuffer) Record(event domain.StructuredEvent, timestampMillis int64) {
	b.mu.Lock()
	b.pending = append(b.pending, domain.BufferedEvent{
		Event:           event,
		TimestampMillis: timestampMillis,
	})
	b.mu.Unlock()

	if b.recordedCounter != nil {
		b.recordedCounter.Add(context.Background(), 1)
	}
}

// Drain atomically swaps the pending list for an empty one and returns the
// snapshot in chronological order. Records racing with the swap land in
// the new list and are picked up by the next drain. Draining an empty
// buffer returns nil.
func (b *EventBuffer) Drain() []domain.BufferedEvent {
	b.mu.Lock()
	drained := b.pending
	b.pending = nil
	b.mu.Unlock()

	if b.drainsCounter != nil {
		b.drainsCounter.Add(context.Background(), 1)
	}
	if len(drained) > 0 && b.drainedCounter != nil {
		b.drainedCounter.Add(context.Background(), int64(len(drained)))
	}
	return drained
}

// Len reports the number of pending events.
func (b *EventBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
