package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrQueueFull is returned by Publish when the event could not be enqueued.
var ErrQueueFull = errors.New("event queue full")

// ErrDispatcherClosed is returned by Publish after Shutdown.
var ErrDispatcherClosed = errors.New("event dispatcher closed")

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// AsyncOptions configures the queued dispatcher.
type AsyncOptions struct {
	QueueSize      int
	Workers        int
	HandlerTimeout time.Duration
	// OnDrop is called when an event is rejected because the queue is full.
	OnDrop func(Event)
}

// AsyncDispatcher hands events to a bounded queue consumed by worker
// goroutines. Publish never blocks; handlers run detached from the
// publishing request, each under its own timeout.
type AsyncDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler

	queue   chan Event
	opts    AsyncOptions
	logger  *zap.Logger
	wg      sync.WaitGroup
	closeMu sync.RWMutex
	closed  bool
	once    sync.Once
}

// NewAsyncDispatcher creates a dispatcher and starts its workers.
func NewAsyncDispatcher(opts AsyncOptions, logger *zap.Logger) *AsyncDispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &AsyncDispatcher{
		listeners: make(map[EventType][]EventHandler),
		queue:     make(chan Event, opts.QueueSize),
		opts:      opts,
		logger:    logger,
	}
	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

// Publish enqueues the event. A full queue drops it with a warning.
func (d *AsyncDispatcher) Publish(_ context.Context, event Event) error {
	d.closeMu.RLock()
	defer d.closeMu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- event:
		return nil
	default:
		d.logger.Warn("event queue full, dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		if d.opts.OnDrop != nil {
			d.opts.OnDrop(event)
		}
		return ErrQueueFull
	}
}

// Subscribe registers a handler for the given event type.
func (d *AsyncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// Shutdown stops accepting events and waits for queued ones to be handled,
// or for ctx to expire.
func (d *AsyncDispatcher) Shutdown(ctx context.Context) error {
	d.once.Do(func() {
		d.closeMu.Lock()
		d.closed = true
		close(d.queue)
		d.closeMu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *AsyncDispatcher) work() {
	defer d.wg.Done()
	for event := range d.queue {
		d.dispatch(event)
	}
}

func (d *AsyncDispatcher) dispatch(event Event) {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		d.run(handler, event)
	}
}

func (d *AsyncDispatcher) run(handler EventHandler, event Event) {
	ctx := context.Background()
	if d.opts.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.HandlerTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event handler panicked",
				zap.String("event_id", event.ID),
				zap.Any("panic", r))
		}
	}()

	if err := handler(ctx, event); err != nil {
		d.logger.Warn("event handler failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}
