package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"fitFlowAPI/internal/metrics"
	"fitFlowAPI/internal/notification"

	log "github.com/sirupsen/logrus"
)

var (
	ErrDispatcherStopped = errors.New("notification dispatcher stopped")
	ErrQueueFull         = errors.New("notification queue full")
)

// NotificationDispatcher queues notifications and delivers them through the
// wrapped Notifier on a small worker pool, so a slow push provider never
// holds up a check-in.
type NotificationDispatcher struct {
	next     Notifier
	metrics  *metrics.Manager
	workers  int
	jobQueue chan notification.Notification
	stopChan chan struct{}
	wg       sync.WaitGroup

	// mu orders enqueues before Stop closes stopChan, so nothing is queued
	// after the workers drained
	mu      sync.RWMutex
	stopped bool

	enqueueTimeout time.Duration
	sendTimeout    time.Duration
}

func NewNotificationDispatcher(next Notifier, m *metrics.Manager, workers, queueSize int) *NotificationDispatcher {
	if workers < 1 {
		workers = 1
	}
	if m == nil {
		m = metrics.NewTestManager()
	}
	d := &NotificationDispatcher{
		next:           next,
		metrics:        m,
		workers:        workers,
		jobQueue:       make(chan notification.Notification, queueSize),
		stopChan:       make(chan struct{}),
		enqueueTimeout: 5 * time.Second,
		sendTimeout:    10 * time.Second,
	}
	d.startWorkers()
	return d
}

func (d *NotificationDispatcher) startWorkers() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *NotificationDispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case n := <-d.jobQueue:
			d.send(n)
		case <-d.stopChan:
			// deliver whatever is still buffered
			for {
				select {
				case n := <-d.jobQueue:
					d.send(n)
				default:
					return
				}
			}
		}
	}
}

func (d *NotificationDispatcher) send(n notification.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	if err := d.next.Notify(ctx, n); err != nil {
		log.Warnf("Dispatcher: %s for %s failed: %v", n.Type, n.UserID, err)
		d.metrics.CounterNotifyFailures.Inc()
	}
}

// Notify queues n for delivery. It only blocks when the queue is full.
func (d *NotificationDispatcher) Notify(ctx context.Context, n notification.Notification) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrDispatcherStopped
	}

	timer := time.NewTimer(d.enqueueTimeout)
	defer timer.Stop()

	select {
	case d.jobQueue <- n:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrQueueFull
	}
}

// Stop waits for the workers to flush the queue and exit. Safe to call twice.
func (d *NotificationDispatcher) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		log.Infoln("Stopping notification dispatcher...")
		close(d.stopChan)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
