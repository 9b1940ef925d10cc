package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"

	"authsvc/internal/domain/entity"
	"authsvc/internal/domain/service"

	"github.com/pkg/errors"
	"gocloud.dev/pubsub"
	_ "gocloud.dev/pubsub/mempubsub" // mem://
)

// topicPublisher sends events to any topic gocloud.dev can open by URL.
type topicPublisher struct {
	topic  *pubsub.Topic
	logger *slog.Logger
}

// NewTopicPublisher opens the topic at url.
func NewTopicPublisher(ctx context.Context, url string, logger *slog.Logger) (service.EventPublisher, error) {
	topic, err := pubsub.OpenTopic(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open topic %s", url)
	}

	return &topicPublisher{topic: topic, logger: logger}, nil
}

func (p *topicPublisher) PublishUserEvent(ctx context.Context, event *entity.UserEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := p.topic.Send(ctx, &pubsub.Message{Body: data, Metadata: eventAttributes(event)}); err != nil {
		return errors.WithStack(err)
	}

	p.logger.Debug("[TopicPubSub] Event published",
		slog.String("event_type", string(event.Type)),
	)

	return nil
}

// Close flushes and shuts down the topic.
func (p *topicPublisher) Close() error {
	return errors.WithStack(p.topic.Shutdown(context.Background()))
}
