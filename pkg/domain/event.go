package domain

// TelemetryEventKind identifies the type of a telemetry event. The string
// values are the wire representation and must not change: the receiving
// telemetry service matches on them.
type TelemetryEventKind string

const (
	EventKindPlan           TelemetryEventKind = "SPARK_PLAN"
	EventKindStreaming      TelemetryEventKind = "SPARK_STREAMING"
	EventKindStreamingStart TelemetryEventKind = "SPARK_STREAMING_START"
	EventKindStreamingEnd   TelemetryEventKind = "SPARK_STREAMING_END"
	EventKindEgress         TelemetryEventKind = "SPARK_EGRESS"
	EventKindClientInfo     TelemetryEventKind = "SPARK_CLIENT_INFO"
	EventKindPushdownFail   TelemetryEventKind = "SPARK_PUSHDOWN_FAIL"
)

// EventSource tags every event this connector emits.
const EventSource = "spark_connector"

// StructuredEvent is one telemetry event as it leaves the process. Field
// order matters: the wire shape is {"type", "source", "data"}, bit-exact
// for compatibility with the receiving service. Events are immutable once
// constructed and are owned by the buffer until drained.
type StructuredEvent struct {
	Type   TelemetryEventKind `json:"type"`
	Source string             `json:"source"`
	Data   Document           `json:"data"`
}

// NewStructuredEvent wraps a canonical document with its kind and the
// connector source tag.
func NewStructuredEvent(kind TelemetryEventKind, data Document) StructuredEvent {
	return StructuredEvent{
		Type:   kind,
		Source: EventSource,
		Data:   data,
	}
}

// BufferedEvent pairs a StructuredEvent with the wall-clock time it was
// recorded. The buffer stores these in arrival order.
type BufferedEvent struct {
	Event           StructuredEvent
	TimestampMillis int64
}
