package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/constants"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	cdkpubsub "gocloud.dev/pubsub"
	"gocloud.dev/pubsub/mempubsub"
)

const (
	memoryAckDeadline     = time.Minute
	memoryRedeliveryDelay = time.Second
)

// memoryPublisher keeps a gocloud in-process topic and consumes it in the same
// process, so a single binary can run without a broker or a separate worker.
type memoryPublisher struct {
	topic   *cdkpubsub.Topic
	sub     *cdkpubsub.Subscription
	handler service.MailEventHandler
	logger  *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMemoryPublisher starts the consumer loop immediately; Close stops it.
func NewMemoryPublisher(handler service.MailEventHandler, logger *slog.Logger) service.EventPublisher {
	topic := mempubsub.NewTopic()
	ctx, cancel := context.WithCancel(context.Background())

	p := &memoryPublisher{
		topic:   topic,
		sub:     mempubsub.NewSubscription(topic, memoryAckDeadline),
		handler: handler,
		logger:  logger,
		cancel:  cancel,
	}

	p.wg.Add(1)
	go p.consume(ctx)

	return p
}

func (p *memoryPublisher) PublishMailEvent(ctx context.Context, event *service.MailEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := p.topic.Send(ctx, &cdkpubsub.Message{
		Body:     data,
		Metadata: eventAttributes(event),
	}); err != nil {
		return errors.Wrap(err, "failed to send to in-memory topic")
	}

	return nil
}

func (p *memoryPublisher) consume(ctx context.Context) {
	defer p.wg.Done()

	for {
		msg, err := p.sub.Receive(ctx)
		if err != nil {
			if ctx.Err() == nil {
				p.logger.Error("[MemoryPubSub] Receive failed, consumer stopped", slog.Any("error", err))
			}

			return
		}

		p.handle(ctx, msg)
	}
}

func (p *memoryPublisher) handle(ctx context.Context, msg *cdkpubsub.Message) {
	var event service.MailEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		p.logger.Error("[MemoryPubSub] Dropping malformed mail event", slog.Any("error", err))
		msg.Ack()

		return
	}

	logger := p.logger.With(slog.String(constants.AttrRequestID, event.RequestID))
	ctx = deliverycontext.WithLogger(ctx, logger)
	ctx = deliverycontext.WithRequestID(ctx, event.RequestID)

	if p.handler == nil {
		logger.Warn("[MemoryPubSub] No mail handler registered, dropping event", slog.String("event_id", event.EventID))
		msg.Ack()

		return
	}

	err := p.handler.HandleMailEvent(ctx, &event)
	switch {
	case err == nil:
		msg.Ack()
	case domainerrors.KindOf(err) == domainerrors.KindExternal && msg.Nackable():
		logger.Warn("[MemoryPubSub] Mail delivery failed, redelivering",
			slog.String("event_id", event.EventID),
			slog.Any("error", err),
		)
		select {
		case <-time.After(memoryRedeliveryDelay):
		case <-ctx.Done():
		}
		msg.Nack()
	default:
		logger.Error("[MemoryPubSub] Mail delivery failed permanently",
			slog.String("event_id", event.EventID),
			slog.Any("error", err),
		)
		msg.Ack()
	}
}

// Close stops the consumer and shuts the topic down.
func (p *memoryPublisher) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), memoryAckDeadline)
	defer cancel()

	topicErr := p.topic.Shutdown(ctx)
	p.cancel()
	p.wg.Wait()
	subErr := p.sub.Shutdown(ctx)

	if topicErr != nil {
		return errors.WithStack(topicErr)
	}

	return errors.WithStack(subErr)
}
