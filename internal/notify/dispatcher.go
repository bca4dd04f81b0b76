package notify

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	defaultBuffer    = 100
	defaultBatchSize = 10
	defaultFlush     = time.Second
)

// Dispatcher delivers published events to its sinks from a background worker.
// Events are batched and flushed when the batch is full or on every tick.
type Dispatcher struct {
	sinks     []Sink
	events    chan Event
	batchSize int
	interval  time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewDispatcher starts the worker. Call Close to flush and stop it.
func NewDispatcher(sinks ...Sink) *Dispatcher {
	return newDispatcher(defaultBuffer, defaultBatchSize, defaultFlush, sinks...)
}

func newDispatcher(buffer, batchSize int, interval time.Duration, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks:     sinks,
		events:    make(chan Event, buffer),
		batchSize: batchSize,
		interval:  interval,
		done:      make(chan struct{}),
	}
	go d.worker()
	return d
}

// Publish queues the event. When the queue is full the event is delivered synchronously.
func (d *Dispatcher) Publish(ctx context.Context, event Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.WithField("type", event.Type).Warn("event published after dispatcher shutdown")
		return
	}

	select {
	case d.events <- event:
	default:
		d.deliver(context.WithoutCancel(ctx), []Event{event})
	}
}

// Close stops accepting events and waits until queued events are delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.events)
	d.mu.Unlock()
	<-d.done
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	ctx := context.Background()
	batch := make([]Event, 0, d.batchSize)
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-d.events:
			if !ok {
				if len(batch) > 0 {
					d.deliver(ctx, batch)
				}
				return
			}
			batch = append(batch, event)
			if len(batch) >= d.batchSize {
				d.deliver(ctx, batch)
				batch = make([]Event, 0, d.batchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				d.deliver(ctx, batch)
				batch = make([]Event, 0, d.batchSize)
			}
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, batch []Event) {
	for _, sink := range d.sinks {
		if err := sink.Handle(ctx, batch); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"sink":   sink.Name(),
				"events": len(batch),
			}).Error("event delivery failed")
		}
	}
}
