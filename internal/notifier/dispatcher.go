package notifier

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
	"github.com/GlebRadaev/rewardsengine/internal/metrics"
	"github.com/GlebRadaev/rewardsengine/pkg/clock"
)

const (
	enqueueTimeout  = 100 * time.Millisecond
	deliveryTimeout = 10 * time.Second
	queuePerWorker  = 64
)

// Dispatcher hands events to a sink on a bounded worker pool.
type Dispatcher struct {
	sink   Sink
	clock  clock.Clock
	pool   *WorkerPool
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sink Sink, clk clock.Clock, workers int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		sink:  sink,
		clock: clk,
		pool:  NewWorkerPool(workers, workers*queuePerWorker),
	}
}

func (d *Dispatcher) Notify(ctx context.Context, accountID string, kind domain.EventKind, payload map[string]any) {
	event := domain.Event{
		AccountID:  accountID,
		Kind:       kind,
		Payload:    payload,
		OccurredAt: d.clock.Now(),
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		zap.L().Warn("notifier closed, event dropped", zap.String("kind", string(kind)))
		metrics.NotificationsFailed.WithLabelValues(d.sink.Name()).Inc()
		return
	}

	enqueueCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), enqueueTimeout)
	defer cancel()
	err := d.pool.AddTask(enqueueCtx, func() error {
		defer metrics.NotificationQueueDepth.Set(float64(d.pool.Pending()))
		return d.deliver(event)
	})
	if err != nil {
		zap.L().Warn("notification queue full, event dropped",
			zap.String("account", accountID),
			zap.String("kind", string(kind)))
		metrics.NotificationsFailed.WithLabelValues(d.sink.Name()).Inc()
		return
	}
	metrics.NotificationQueueDepth.Set(float64(d.pool.Pending()))
}

func (d *Dispatcher) deliver(event domain.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	if err := d.sink.Deliver(ctx, event); err != nil {
		metrics.NotificationsFailed.WithLabelValues(d.sink.Name()).Inc()
		return err
	}
	metrics.NotificationsDelivered.WithLabelValues(d.sink.Name()).Inc()
	return nil
}

// Close drains queued events. Later Notify calls are dropped.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.pool.Close()
	metrics.NotificationQueueDepth.Set(0)
}
