// Package transport delivers batches of telemetry events to their
// destination. The reporter only sequences AddToBatch calls followed by
// one SendBatchAsync per flush; delivery is best-effort and never blocks
// or fails the query path.
package transport

import (
	"github.com/lakeroad/sparktel/pkg/domain"
)

// Transport accumulates telemetry events and ships them asynchronously.
type Transport interface {
	// AddToBatch stages one event with its record timestamp for the next
	// send. Implementations must be safe for use from the flush path.
	AddToBatch(event domain.StructuredEvent, timestampMillis int64)

	// SendBatchAsync ships everything staged so far, best-effort. It may
	// send in the background; callers must not expect delivery to have
	// happened, or to hear about failures, when it returns. Failures are
	// logged by the implementation and swallowed.
	SendBatchAsync()
}
