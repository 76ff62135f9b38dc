package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-scheduler/internal/events"
)

const queueSize = 100

type Event struct {
	UserID   *uint  `json:"user_id,omitempty"`
	Action   string `json:"action"`
	Entity   string `json:"entity"`
	EntityID *uint  `json:"entity_id,omitempty"`
	Metadata any    `json:"metadata,omitempty"`
}

// Dispatcher records audit events off the request path. Every event is
// persisted and then published on "audit.<action>".
type Dispatcher struct {
	logger    *Logger
	publisher events.Publisher
	log       zerolog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

func NewDispatcher(logger *Logger, publisher events.Publisher, log zerolog.Logger) *Dispatcher {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	d := &Dispatcher{
		logger:    logger,
		publisher: publisher,
		log:       log.With().Str("component", "audit").Logger(),
		queue:     make(chan Event, queueSize),
		done:      make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		if err := d.logger.Log(ctx, ev); err != nil {
			d.log.Error().Err(err).Str("action", ev.Action).Msg("audit write failed")
		}
		if err := d.publisher.Publish(ctx, "audit."+ev.Action, ev); err != nil {
			d.log.Warn().Err(err).Str("action", ev.Action).Msg("audit publish failed")
		}

		cancel()
	}
}

// Dispatch never blocks the caller. When the queue is full the event is
// dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

// Close stops accepting events and waits for the queued ones to be written.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}
