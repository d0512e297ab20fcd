package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/lakeroad/sparktel/pkg/domain"
)

// StdoutTransport writes batched events as JSON lines to a writer. It is
// the zero-dependency default, used by the CLI and in development when no
// telemetry endpoint is configured.
type StdoutTransport struct {
	logger *zap.Logger
	writer io.Writer

	mu    sync.Mutex
	batch []stagedEvent
}

type stagedEvent struct {
	TimestampMillis int64                  `json:"timestamp"`
	Event           domain.StructuredEvent `json:"event"`
}

// NewStdoutTransport creates a stdout transport. A nil writer defaults to
// os.Stdout.
func NewStdoutTransport(logger *zap.Logger, writer io.Writer) (*StdoutTransport, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &StdoutTransport{
		logger: logger,
		writer: writer,
	}, nil
}

// AddToBatch stages an event for the next send.
func (t *StdoutTransport) AddToBatch(event domain.StructuredEvent, timestampMillis int64) {
	t.mu.Lock()
	t.batch = append(t.batch, stagedEvent{
		TimestampMillis: timestampMillis,
		Event:           event,
	})
	t.mu.Unlock()
}

// SendBatchAsync writes the staged batch as one JSON line per event. The
// write happens inline: the writer is local, so there is nothing to gain
// from a goroutine here.
func (t *StdoutTransport) SendBatchAsync() {
	t.mu.Lock()
	batch := t.batch
	t.batch = nil
	t.mu.Unlock()

	for _, staged := range batch {
		line, err := json.Marshal(staged)
		if err != nil {
			t.logger.Warn("Failed to marshal telemetry event", zap.Error(err))
			continue
		}
		if _, err := fmt.Fprintf(t.writer, "%s\n", line); err != nil {
			t.logger.Warn("Failed to write telemetry event", zap.Error(err))
		}
	}
}
