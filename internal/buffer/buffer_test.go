package buffer

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lakeroad/sparktel/pkg/domain"
)

func event(tag string) domain.StructuredEvent {
	return domain.NewStructuredEvent(domain.EventKindPlan, domain.Object(
		domain.F("tag", domain.String(tag)),
	))
}

func TestNewEventBufferRequiresLogger(t *testing.T) {
	_, err := NewEventBuffer(nil)
	assert.Error(t, err)
}

func TestRecordAndDrainChronologicalOrder(t *testing.T) {
	buf, err := NewEventBuffer(zaptest.NewLogger(t))
	require.NoError(t, err)

	buf.Record(event("first"), 100)
	buf.Record(event("second"), 200)
	buf.Record(event("third"), 300)
	assert.Equal(t, 3, buf.Len())

	drained := buf.Drain()
	require.Len(t, drained, 3)
	assert.Equal(t, int64(100), drained[0].TimestampMillis)
	assert.Equal(t, int64(200), drained[1].TimestampMillis)
	assert.Equal(t, int64(300), drained[2].TimestampMillis)
	assert.Equal(t, 0, buf.Len())
}

func TestDrainEmptyBufferIsIdempotent(t *testing.T) {
	buf, err := NewEventBuffer(zaptest.NewLogger(t))
	require.NoError(t, err)

	buf.Record(event("only"), 1)
	require.Len(t, buf.Drain(), 1)

	assert.Empty(t, buf.Drain())
	assert.Empty(t, buf.Drain())
}

func TestConcurrentRecordsNoneLostNoneDuplicated(t *testing.T) {
	buf, err := NewEventBuffer(zaptest.NewLogger(t))
	require.NoError(t, err)

	const producers = 8
	const perProducer = 250

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				buf.Record(event(fmt.Sprintf("p%d-%d", p, i)), int64(i))
			}
		}(p)
	}
	wg.Wait()

	drained := buf.Drain()
	require.Len(t, drained, producers*perProducer)

	seen := make(map[string]bool, len(drained))
	for _, buffered := range drained {
		tag, ok := buffered.Event.Data.Get("tag")
		require.True(t, ok)
		assert.False(t, seen[tag.StringValue()], "event %s drained twice", tag.StringValue())
		seen[tag.StringValue()] = true
	}
}

func TestRecordsDuringDrainLandInNextBatch(t *testing.T) {
	buf, err := NewEventBuffer(zaptest.NewLogger(t))
	require.NoError(t, err)

	const total = 1000
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < total; i++ {
			buf.Record(event(fmt.Sprintf("e%d", i)), int64(i))
		}
	}()

	// Drain repeatedly while the producer runs; every event must show up
	// in exactly one batch.
	seen := make(map[string]bool, total)
	collect := func(batch []domain.BufferedEvent) {
		for _, buffered := range batch {
			tag, _ := buffered.Event.Data.Get("tag")
			require.False(t, seen[tag.StringValue()])
			seen[tag.StringValue()] = true
		}
	}

	for {
		select {
		case <-done:
			collect(buf.Drain())
			require.Len(t, seen, total)
			return
		default:
			collect(buf.Drain())
		}
	}
}
