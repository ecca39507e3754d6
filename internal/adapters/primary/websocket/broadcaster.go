package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lorrc/scan-relay/internal/core/domain"
	apperrors "github.com/lorrc/scan-relay/internal/core/errors"
	"github.com/lorrc/scan-relay/internal/core/ports"
	"github.com/lorrc/scan-relay/internal/infrastructure/metrics"
)

// Broadcaster fans scan events out to every registered session.
type Broadcaster struct {
	registry *Registry
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Ensure Broadcaster implements the EventBroadcaster interface.
var _ ports.EventBroadcaster = (*Broadcaster)(nil)

// NewBroadcaster creates a broadcaster over the given registry.
func NewBroadcaster(registry *Registry, m *metrics.Metrics, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		registry: registry,
		metrics:  m,
		logger:   logger.With("component", "broadcaster"),
	}
}

// Broadcast delivers the event to every session in a registry snapshot.
// Each delivery is independent: a failing session is counted and skipped.
func (b *Broadcaster) Broadcast(ctx context.Context, event domain.ScanEvent) domain.DeliveryReport {
	// Encode once so every session receives identical bytes
	data, err := json.Marshal(domain.NewScanMessage(event))
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to encode scan event", "error", err)
		return domain.DeliveryReport{}
	}

	sessions := b.registry.Snapshot()
	report := domain.DeliveryReport{Attempted: len(sessions)}

	for _, session := range sessions {
		if err := b.deliver(session, data); err != nil {
			b.logger.DebugContext(ctx, "delivery failed",
				"session_id", session.ID(),
				"error", err,
			)
			continue
		}
		report.Succeeded++
	}

	b.metrics.ObserveBroadcast(report.Attempted, report.Succeeded)
	b.logger.DebugContext(ctx, "broadcast complete",
		"data_type", event.DataType,
		"attempted", report.Attempted,
		"succeeded", report.Succeeded,
	)

	return report
}

// deliver sends to one session. A session whose buffer is full is too slow
// to keep up and is dropped.
func (b *Broadcaster) deliver(session Session, data []byte) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("session panicked: %v", p)
		}
	}()

	err = session.Deliver(data)
	if errors.Is(err, apperrors.ErrSendBufferFull) {
		b.logger.Warn("session send buffer full, unregistering",
			"session_id", session.ID(),
		)
		b.registry.Unregister(session.ID())
		session.Close()
	}
	return err
}
