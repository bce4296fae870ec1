// Package telemetry publishes the physics response batches to outside
// consumers: a writer as JSON lines, TCP clients, or websocket clients.
package telemetry

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"physbridge/internal/physics"
)

// Sink receives one batch per tick that produced events. Delivery is
// at-most-once: a sink that fails a publish loses that batch.
type Sink interface {
	Publish(batch physics.ResponseBatch) error
	Close() error
}

// Attach subscribes s to the world's responses. Publish errors are logged.
func Attach(w *physics.PhysicsWorld, s Sink, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	w.Responses.AddListener(func(b physics.ResponseBatch) {
		if err := s.Publish(b); err != nil {
			logger.Warn("telemetry publish failed", "tick", b.Tick, "err", err)
		}
	})
}

// JSONLines writes each batch as one JSON object followed by a newline.
type JSONLines struct {
	mu  sync.Mutex
	enc *json.Encoder
	c   io.Closer
}

func NewJSONLines(w io.Writer) *JSONLines {
	j := &JSONLines{enc: json.NewEncoder(w)}
	if c, ok := w.(io.Closer); ok {
		j.c = c
	}
	return j
}

func (j *JSONLines) Publish(batch physics.ResponseBatch) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.enc.Encode(batch)
}

func (j *JSONLines) Close() error {
	if j.c == nil {
		return nil
	}
	return j.c.Close()
}

// encodeLine renders a batch once for fan-out sinks.
func encodeLine(batch physics.ResponseBatch) ([]byte, error) {
	b, err := json.Marshal(batch)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
