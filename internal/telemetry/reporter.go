// Package telemetry emits structured diagnostic events for the Spark
// connector: canonicalized query plans, pushdown failures, and client
// metadata. Everything here is a best-effort side channel; no call ever
// fails the query path.
package telemetry

import (
	"fmt"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lakeroad/sparktel/internal/buffer"
	"github.com/lakeroad/sparktel/internal/canonical"
	"github.com/lakeroad/sparktel/internal/transport"
	"github.com/lakeroad/sparktel/pkg/domain"
)

// Reporter is the process-scoped telemetry component: it owns the event
// buffer, the sent-once client-info gate, and the transport. Construct one
// per process and share it across query executions.
type Reporter struct {
	logger    *zap.Logger
	buf       *buffer.EventBuffer
	transport transport.Transport

	version   string
	sessionID string

	clientInfoSent atomic.Bool

	// now is swappable for tests
	now func() time.Time
}

// Option tweaks Reporter construction.
type Option func(*Reporter)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) { r.now = now }
}

// NewReporter creates a reporter. Logger and transport are required;
// version is the connector version stamped into events.
func NewReporter(logger *zap.Logger, tr transport.Transport, version string, opts ...Option) (*Reporter, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if tr == nil {
		return nil, fmt.Errorf("transport is required")
	}

	buf, err := buffer.NewEventBuffer(logger)
	if err != nil {
		return nil, err
	}

	r := &Reporter{
		logger:    logger,
		buf:       buf,
		transport: tr,
		version:   version,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Emit wraps data as a structured event of the given kind and records it
// into the buffer. It does not flush.
func (r *Reporter) Emit(kind domain.TelemetryEventKind, data domain.Document) {
	event := domain.NewStructuredEvent(kind, data)
	r.buf.Record(event, r.now().UnixMilli())
}

// Flush atomically drains the buffer, hands each drained event with its
// timestamp to the transport in chronological order, and triggers one
// asynchronous batch send. Fire-and-forget: delivery is not awaited and
// failures stay inside the transport.
func (r *Reporter) Flush() {
	drained := r.buf.Drain()
	if len(drained) == 0 {
		r.transport.SendBatchAsync()
		return
	}

	for _, buffered := range drained {
		r.transport.AddToBatch(buffered.Event, buffered.TimestampMillis)
	}
	r.transport.SendBatchAsync()

	r.logger.Debug("Flushed telemetry events", zap.Int("count", len(drained)))
}

// Pending reports the number of buffered events, for introspection.
func (r *Reporter) Pending() int {
	return r.buf.Len()
}

// ReportPlan canonicalizes a query plan and buffers a SPARK_PLAN event.
// Nothing is emitted unless the root is the terminal whole-query node and
// the plan actually touches the backend: partial plans and plans handled
// entirely by Spark are noise.
func (r *Reporter) ReportPlan(plan *domain.PlanNode) {
	backendRelevant, doc, ok := canonical.Root(plan)
	if !ok || !backendRelevant {
		return
	}
	r.Emit(domain.EventKindPlan, doc)
}

// ReportPushdownFailure buffers a SPARK_PUSHDOWN_FAIL event for an
// operation the connector could not push down. Known limitations are
// logged locally and suppressed: they are not worth telemetry volume.
// The plan dump is stored as an opaque string, not canonicalized.
func (r *Reporter) ReportPushdownFailure(plan *domain.PlanNode, failure domain.PushdownFailure) {
	if failure.Known {
		r.logger.Debug("Known unsupported pushdown operation",
			zap.String("operation", failure.Operation),
			zap.String("message", failure.Message))
		return
	}

	r.Emit(domain.EventKindPushdownFail, domain.Object(
		domain.F("version", domain.String(r.version)),
		domain.F("operation", domain.String(failure.Operation)),
		domain.F("message", domain.String(failure.Message)),
		domain.F("details", domain.String(failure.Details)),
		domain.F("plan", domain.String(plan.String())),
	))
}

// ReportClientInfo emits one SPARK_CLIENT_INFO event for the life of the
// process and flushes immediately. The first caller wins; every later
// invocation is a no-op. The event is not retried if the send fails.
func (r *Reporter) ReportClientInfo(extra map[string]string) {
	if !r.clientInfoSent.CompareAndSwap(false, true) {
		return
	}

	fields := []domain.Field{
		domain.F("version", domain.String(r.version)),
		domain.F("runtime", domain.String(runtime.Version())),
		domain.F("sessionId", domain.String(r.sessionID)),
	}

	// Extra keys in sorted order so the document is deterministic.
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, domain.F(k, domain.String(extra[k])))
	}

	r.Emit(domain.EventKindClientInfo, domain.Object(fields...))
	r.Flush()
}

// ReportStreamingStart buffers a SPARK_STREAMING_START event.
func (r *Reporter) ReportStreamingStart(data domain.Document) {
	r.Emit(domain.EventKindStreamingStart, data)
}

// ReportStreamingEnd buffers a SPARK_STREAMING_END event.
func (r *Reporter) ReportStreamingEnd(data domain.Document) {
	r.Emit(domain.EventKindStreamingEnd, data)
}

// ReportStreaming buffers a SPARK_STREAMING progress event.
func (r *Reporter) ReportStreaming(data domain.Document) {
	r.Emit(domain.EventKindStreaming, data)
}

// ReportEgress buffers a SPARK_EGRESS event.
func (r *Reporter) ReportEgress(data domain.Document) {
	r.Emit(domain.EventKindEgress, data)
}

// Reset discards buffered events and re-arms the client-info gate. Meant
// for tests; production code never resets a reporter.
func (r *Reporter) Reset() {
	r.buf.Drain()
	r.clientInfoSent.Store(false)
}
