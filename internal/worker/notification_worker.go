package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ecyclehub/ecyclehub/internal/events"
	"github.com/ecyclehub/ecyclehub/internal/service"
)

const defaultQueueSize = 256

// NotificationWorker delivers notifications off the request path. Events
// are queued by the dispatcher and drained by a single goroutine; when the
// queue is full the event is dropped and logged.
type NotificationWorker struct {
	svc    *service.NotificationService
	logger *zap.Logger
	queue  chan events.Event
	wg     sync.WaitGroup
}

// NewNotificationWorker builds a worker with a bounded queue.
func NewNotificationWorker(svc *service.NotificationService, logger *zap.Logger, queueSize int) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &NotificationWorker{svc: svc, logger: logger, queue: make(chan events.Event, queueSize)}
}

// Subscribe routes the notification events through the worker queue.
func (w *NotificationWorker) Subscribe(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventAccountCreated, w.enqueue)
	dispatcher.Subscribe(events.EventRegistrationRecorded, w.enqueue)
}

func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full; dropping event",
			zap.String("event_id", event.ID), zap.String("event_type", string(event.Type)))
	}
	return nil
}

// Start drains the queue until ctx is cancelled. Queued events are flushed
// before the goroutine exits.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case event := <-w.queue:
				w.deliver(event)
			case <-ctx.Done():
				for {
					select {
					case event := <-w.queue:
						w.deliver(event)
					default:
						return
					}
				}
			}
		}
	}()
}

// Wait blocks until the worker goroutine has exited.
func (w *NotificationWorker) Wait() {
	w.wg.Wait()
}

func (w *NotificationWorker) deliver(event events.Event) {
	if err := w.svc.Handle(context.Background(), event); err != nil {
		w.logger.Error("notification delivery failed",
			zap.String("event_id", event.ID), zap.Error(err))
	}
}
