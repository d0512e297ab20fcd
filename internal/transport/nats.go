package transport

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/lakeroad/sparktel/pkg/config"
	"github.com/lakeroad/sparktel/pkg/domain"
)

// timestampHeader carries the record time of each event so the receiving
// service can order events without parsing payloads.
const timestampHeader = "Sparktel-Timestamp"

// NATSTransport ships telemetry events to a NATS subject, one message per
// event, fire-and-forget. Delivery failures are logged and dropped:
// telemetry loss must never affect query processing.
type NATSTransport struct {
	logger  *zap.Logger
	conn    *nats.Conn
	subject string

	mu    sync.Mutex
	batch []*nats.Msg

	sends sync.WaitGroup
}

// NewNATSTransport connects to NATS with the configured options.
func NewNATSTransport(logger *zap.Logger, cfg config.NATSConfig) (*NATSTransport, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid NATS config: %w", err)
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectionTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.URL, err)
	}

	logger.Info("Connected to NATS telemetry endpoint",
		zap.String("url", cfg.URL),
		zap.String("subject", cfg.Subject))

	return &NATSTransport{
		logger:  logger,
		conn:    conn,
		subject: cfg.Subject,
	}, nil
}

// AddToBatch stages one event as a NATS message for the next send.
func (t *NATSTransport) AddToBatch(event domain.StructuredEvent, timestampMillis int64) {
	payload, err := json.Marshal(event)
	if err != nil {
		t.logger.Warn("Failed to marshal telemetry event",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return
	}

	msg := nats.NewMsg(t.subject)
	msg.Data = payload
	msg.Header.Set(timestampHeader, strconv.FormatInt(timestampMillis, 10))

	t.mu.Lock()
	t.batch = append(t.batch, msg)
	t.mu.Unlock()
}

// SendBatchAsync publishes the staged batch in a background goroutine and
// returns immediately. nats.Conn is safe for concurrent use, and publish
// itself is buffered, so the goroutine only isolates callers from
// reconnect stalls.
func (t *NATSTransport) SendBatchAsync() {
	t.mu.Lock()
	batch := t.batch
	t.batch = nil
	t.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	t.sends.Add(1)
	go func() {
		defer t.sends.Done()
		for _, msg := range batch {
			if err := t.conn.PublishMsg(msg); err != nil {
				t.logger.Warn("Failed to publish telemetry event",
					zap.String("subject", t.subject),
					zap.Error(err))
			}
		}
		if err := t.conn.Flush(); err != nil {
			t.logger.Warn("Failed to flush NATS connection", zap.Error(err))
		}
	}()
}

// Close waits for in-flight sends and closes the connection.
func (t *NATSTransport) Close() {
	t.sends.Wait()
	if t.conn != nil && !t.conn.IsClosed() {
		t.conn.Close()
	}
}
