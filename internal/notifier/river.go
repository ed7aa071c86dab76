package notifier

import (
	"context"
	"fmt"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"go.uber.org/zap"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
	"github.com/GlebRadaev/rewardsengine/internal/metrics"
	"github.com/GlebRadaev/rewardsengine/pkg/clock"
)

const eventMaxAttempts = 10

// EventArgs is the River job carrying one event.
type EventArgs struct {
	Event domain.Event `json:"event"`
}

func (EventArgs) Kind() string { return "ledger_event" }

func (EventArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{MaxAttempts: eventMaxAttempts}
}

// EventWorker delivers queued events; a failed delivery is retried by River.
type EventWorker struct {
	river.WorkerDefaults[EventArgs]
	sink Sink
}

func NewEventWorker(sink Sink) *EventWorker {
	return &EventWorker{sink: sink}
}

func (w *EventWorker) Work(ctx context.Context, job *river.Job[EventArgs]) error {
	if err := w.sink.Deliver(ctx, job.Args.Event); err != nil {
		metrics.NotificationsFailed.WithLabelValues(w.sink.Name()).Inc()
		return fmt.Errorf("deliver %s event: %w", job.Args.Event.Kind, err)
	}
	metrics.NotificationsDelivered.WithLabelValues(w.sink.Name()).Inc()
	return nil
}

//go:generate mockgen -source=river.go -destination=mock_river.go -package=notifier

type Inserter interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// Queue stores events as River jobs so they survive restarts.
type Queue struct {
	inserter Inserter
	clock    clock.Clock
}

func NewQueue(inserter Inserter, clk clock.Clock) *Queue {
	return &Queue{inserter: inserter, clock: clk}
}

func (q *Queue) Notify(ctx context.Context, accountID string, kind domain.EventKind, payload map[string]any) {
	args := EventArgs{Event: domain.Event{
		AccountID:  accountID,
		Kind:       kind,
		Payload:    payload,
		OccurredAt: q.clock.Now(),
	}}
	if _, err := q.inserter.Insert(context.WithoutCancel(ctx), args, nil); err != nil {
		zap.L().Error("failed to enqueue event",
			zap.String("account", accountID),
			zap.String("kind", string(kind)),
			zap.Error(err))
		metrics.NotificationsFailed.WithLabelValues("river").Inc()
	}
}
