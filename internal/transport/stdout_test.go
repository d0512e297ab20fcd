package transport

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lakeroad/sparktel/pkg/domain"
)

func TestNewStdoutTransportRequiresLogger(t *testing.T) {
	_, err := NewStdoutTransport(nil, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestStdoutTransportWritesJSONLines(t *testing.T) {
	var out bytes.Buffer
	tr, err := NewStdoutTransport(zaptest.NewLogger(t), &out)
	require.NoError(t, err)

	tr.AddToBatch(domain.NewStructuredEvent(domain.EventKindPlan,
		domain.Object(domain.F("action", domain.String("Filter")))), 111)
	tr.AddToBatch(domain.NewStructuredEvent(domain.EventKindEgress,
		domain.Object(domain.F("rows", domain.Int(2)))), 222)
	tr.SendBatchAsync()

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var first struct {
		TimestampMillis int64                  `json:"timestamp"`
		Event           domain.StructuredEvent `json:"event"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, int64(111), first.TimestampMillis)
	assert.Equal(t, domain.EventKindPlan, first.Event.Type)
	assert.Equal(t, domain.EventSource, first.Event.Source)
}

func TestStdoutTransportEmptyBatchWritesNothing(t *testing.T) {
	var out bytes.Buffer
	tr, err := NewStdoutTransport(zaptest.NewLogger(t), &out)
	require.NoError(t, err)

	tr.SendBatchAsync()
	assert.Empty(t, out.String())
}

func TestStdoutTransportBatchIsClearedAfterSend(t *testing.T) {
	var out bytes.Buffer
	tr, err := NewStdoutTransport(zaptest.NewLogger(t), &out)
	require.NoError(t, err)

	tr.AddToBatch(domain.NewStructuredEvent(domain.EventKindEgress, domain.Object()), 1)
	tr.SendBatchAsync()
	firstLen := out.Len()

	tr.SendBatchAsync()
	assert.Equal(t, firstLen, out.Len(), "second send must not repeat the first batch")
}
