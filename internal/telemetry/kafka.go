package telemetry

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	kgo "github.com/segmentio/kafka-go"
)

// KafkaSink publishes events to a Kafka topic. Delivery runs with a short
// timeout and errors are logged, never returned: the sink contract is
// fire-and-forget.
type KafkaSink struct {
	writer  *kgo.Writer
	log     *slog.Logger
	timeout time.Duration
}

type eventMessage struct {
	Event string         `json:"event"`
	At    time.Time      `json:"at"`
	Props map[string]any `json:"props,omitempty"`
}

func NewKafkaSink(brokers []string, topic string, log *slog.Logger) *KafkaSink {
	if log == nil {
		log = slog.Default()
	}
	w := &kgo.Writer{
		Addr:         kgo.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kgo.LeastBytes{},
		RequiredAcks: kgo.RequireOne,
	}
	return &KafkaSink{writer: w, log: log, timeout: 3 * time.Second}
}

func (s *KafkaSink) Emit(ctx context.Context, event string, props Props) {
	b, err := json.Marshal(eventMessage{Event: event, At: time.Now().UTC(), Props: props})
	if err != nil {
		s.log.Warn("telemetry marshal failed", "event", event, "error", err)
		return
	}
	// Short timeout so the API does not hang if the broker is down.
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	if err := s.writer.WriteMessages(cctx, kgo.Message{
		Key:   []byte(event),
		Value: b,
		Time:  time.Now(),
	}); err != nil {
		s.log.Warn("telemetry publish failed", "event", event, "error", err)
	}
}

func (s *KafkaSink) Close() error { return s.writer.Close() }
