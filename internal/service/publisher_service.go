package service

import (
	"context"
	"encoding/json"
	"time"

	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IPublisherService interface {
	// Publish never fails the caller: a lost event is logged, the request still succeeds.
	Publish(ctx context.Context, event events.BaseEvent)
}

type publisherService struct {
	topicName string
	publisher message.Publisher
	logger    logger.ILogger
}

func NewPublisherService(topicName string, publisher message.Publisher, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
		logger:    log,
	}
}

func (p *publisherService) Publish(ctx context.Context, event events.BaseEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Publisher", "Failed to marshal event", map[string]interface{}{"type": event.Type, "error": err})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("type", event.Type)

	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		p.logger.Error("Publisher", "Failed to publish event", map[string]interface{}{"type": event.Type, "error": err})
	}
}

func newEvent(eventType string, userID, entityID uuid.UUID, at time.Time, data map[string]interface{}) events.BaseEvent {
	return events.BaseEvent{
		Type:       eventType,
		UserId:     userID.String(),
		EntityId:   entityID.String(),
		Data:       data,
		OccurredAt: at,
	}
}
