package pubsub

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/lifecycle"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

const publishTimeout = 10 * time.Second

type dispatchJob struct {
	ctx   context.Context
	event *service.MailEvent
}

// Dispatcher is the bounded in-process queue in front of the EventPublisher.
// Enqueue never blocks the caller: a full queue drops the event and logs it.
type Dispatcher struct {
	publisher service.EventPublisher
	logger    *slog.Logger
	workers   int

	mu     sync.RWMutex
	closed bool
	jobs   chan dispatchJob
	group  *errgroup.Group

	outcomes *prometheus.CounterVec
}

// DispatcherParams holds dependencies for the Dispatcher, injected by Fx
type DispatcherParams struct {
	fx.In

	Lc         fx.Lifecycle
	Config     *config.Config
	Logger     *slog.Logger
	Publisher  service.EventPublisher
	Registerer prometheus.Registerer `optional:"true"`
}

// NewDispatcher builds the dispatcher and ties its workers to the fx lifecycle.
func NewDispatcher(params DispatcherParams) (service.Notifier, error) {
	d := newDispatcher(params.Publisher, params.Logger, params.Config.Notification.Workers, params.Config.Notification.QueueSize)

	if params.Registerer != nil {
		if err := params.Registerer.Register(d.outcomes); err != nil {
			return nil, err
		}
	}

	params.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			d.Start()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
			defer cancel()

			return d.Stop(stopCtx)
		},
	})

	return d, nil
}

func newDispatcher(publisher service.EventPublisher, logger *slog.Logger, workers, queueSize int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}

	return &Dispatcher{
		publisher: publisher,
		logger:    logger,
		workers:   workers,
		jobs:      make(chan dispatchJob, queueSize),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "notifier",
			Name:      "events_total",
			Help:      "Mail events handled by the dispatcher, by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
}

// Start launches the worker pool.
func (d *Dispatcher) Start() {
	d.group = &errgroup.Group{}
	for range d.workers {
		d.group.Go(func() error {
			for job := range d.jobs {
				d.publish(job)
			}

			return nil
		})
	}
}

// Enqueue stamps the event with an ID and the caller's request ID and queues it.
func (d *Dispatcher) Enqueue(ctx context.Context, event *service.MailEvent) {
	if event == nil {
		return
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.RequestID == "" {
		event.RequestID = deliverycontext.GetRequestIDFromContext(ctx)
	}

	logger := deliverycontext.GetLoggerOrDefault(ctx, d.logger)

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.outcomes.WithLabelValues(event.Kind, "dropped").Inc()
		logger.Warn("Notifier stopped, dropping mail event", slog.String("event_id", event.EventID))

		return
	}

	// Detach from the request's cancellation but keep its values for logging.
	job := dispatchJob{ctx: context.WithoutCancel(ctx), event: event}

	select {
	case d.jobs <- job:
		d.outcomes.WithLabelValues(event.Kind, "queued").Inc()
	default:
		d.outcomes.WithLabelValues(event.Kind, "dropped").Inc()
		logger.Warn("Notifier queue full, dropping mail event",
			slog.String("event_id", event.EventID),
			slog.String("kind", event.Kind),
		)
	}
}

func (d *Dispatcher) publish(job dispatchJob) {
	ctx, cancel := context.WithTimeout(job.ctx, publishTimeout)
	defer cancel()

	logger := deliverycontext.GetLoggerOrDefault(job.ctx, d.logger)

	if err := d.publisher.PublishMailEvent(ctx, job.event); err != nil {
		d.outcomes.WithLabelValues(job.event.Kind, "failed").Inc()
		logger.Error("Failed to publish mail event",
			slog.String("event_id", job.event.EventID),
			slog.String("kind", job.event.Kind),
			slog.Any("error", err),
		)

		return
	}

	d.outcomes.WithLabelValues(job.event.Kind, "published").Inc()
}

// Stop refuses new events, drains the queue and waits for the workers or ctx.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()

		return nil
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	if d.group == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- d.group.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		d.logger.Warn("Notifier drain timed out", slog.Int("pending", len(d.jobs)))

		return ctx.Err()
	}
}
