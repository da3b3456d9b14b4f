package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
	"notify-gate.backend/internal/domain/entities"
	"notify-gate.backend/pkg/logger"
	"notify-gate.backend/pkg/metrics"
)

// Handler consumes a single audit event. Handlers must not mutate the event.
type Handler interface {
	Name() string
	Handle(ctx context.Context, event *entities.AuditEvent) error
}

// Sink is the interface the validation pipeline emits through. Emit never
// returns an error: auditing must not affect request outcomes.
type Sink interface {
	Emit(ctx context.Context, event *entities.AuditEvent)
}

// Dispatcher routes events to the handlers registered for their type. The
// registry is fixed at construction and never modified afterwards, so Emit
// is safe for concurrent use without locking.
type Dispatcher struct {
	handlers map[entities.AuditEventType][]Handler
}

// NewDispatcher copies the registry so later changes to the caller's map
// cannot leak into a running dispatcher.
func NewDispatcher(registry map[entities.AuditEventType][]Handler) *Dispatcher {
	handlers := make(map[entities.AuditEventType][]Handler, len(registry))
	for eventType, hs := range registry {
		handlers[eventType] = append([]Handler(nil), hs...)
	}
	return &Dispatcher{handlers: handlers}
}

// Emit delivers the event to every handler registered for its type. A
// failing handler is counted and logged, then skipped; remaining handlers
// still run. Events with no registered handlers are dropped silently.
func (d *Dispatcher) Emit(ctx context.Context, event *entities.AuditEvent) {
	if event == nil {
		return
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	for _, h := range d.handlers[event.EventType] {
		if err := h.Handle(ctx, event); err != nil {
			metrics.AuditDropped.WithLabelValues(h.Name()).Inc()
			logger.Warn(ctx, "Audit handler failed",
				zap.String("handler", h.Name()),
				zap.String("event_type", string(event.EventType)),
				zap.Error(err),
			)
		}
	}
}
