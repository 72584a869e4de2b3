package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/turtacn/netmodel/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/netmodel/pkg/errors"
)

// Run kinds.
const (
	RunKindMatch  = "match"
	RunKindFormat = "format"
)

// RunEvent announces a finished match or format run.
type RunEvent struct {
	RunID       string         `json:"run_id"`
	Kind        string         `json:"kind"`
	Comparisons int            `json:"comparisons,omitempty"`
	Matches     int            `json:"matches,omitempty"`
	Counts      map[string]int `json:"counts,omitempty"`
	Cached      bool           `json:"cached,omitempty"`
	OutputPath  string         `json:"output_path,omitempty"`
	DurationMs  int64          `json:"duration_ms"`
	FinishedAt  time.Time      `json:"finished_at"`
}

// RunPublisher publishes run events.
type RunPublisher interface {
	PublishRun(ctx context.Context, ev *RunEvent) error
}

type runPublisher struct {
	producer *Producer
	topic    string
	logger   logging.Logger
}

// NewRunPublisher publishes events to topic, keyed by run ID.
func NewRunPublisher(p *Producer, topic string, logger logging.Logger) RunPublisher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &runPublisher{producer: p, topic: topic, logger: logger}
}

func (r *runPublisher) PublishRun(ctx context.Context, ev *RunEvent) error {
	if ev.FinishedAt.IsZero() {
		ev.FinishedAt = time.Now().UTC()
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode run event")
	}
	err = r.producer.Publish(ctx, &Message{
		Topic:   r.topic,
		Key:     []byte(ev.RunID),
		Value:   value,
		Headers: map[string]string{"kind": ev.Kind},
		Time:    ev.FinishedAt,
	})
	if err != nil {
		return err
	}
	r.logger.Debug("Run event published", logging.String("run_id", ev.RunID), logging.String("kind", ev.Kind))
	return nil
}

// NopRunPublisher discards all events.
type NopRunPublisher struct{}

func (NopRunPublisher) PublishRun(context.Context, *RunEvent) error { return nil }
