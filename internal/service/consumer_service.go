package service

import (
	"context"
	"encoding/json"
	"time"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/metrics"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/internal/websocket"
	"notekeeper-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventRelay forwards events outside the process (NATS JetStream).
type EventRelay interface {
	Publish(ctx context.Context, event events.BaseEvent) error
}

// NoteSyncDelivery pushes frames to a user's live-sync clients.
type NoteSyncDelivery interface {
	SendToUser(ctx context.Context, userID uuid.UUID, frame websocket.Frame) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	relay      EventRelay       // optional
	delivery   NoteSyncDelivery // optional
	metrics    *metrics.Collector
	logger     logger.ILogger

	// Backs off between store attempts; the bus redelivers a nacked message at once.
	retry middleware.Retry
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	relay EventRelay,
	delivery NoteSyncDelivery,
	collector *metrics.Collector,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		relay:      relay,
		delivery:   delivery,
		metrics:    collector,
		logger:     log,
		retry: middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     time.Second,
			Multiplier:      2,
			Logger:          watermill.NopLogger{},
		},
	}
}

// Consume subscribes and processes messages in the background until ctx is done.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var event events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil || event.Type == "" {
		cs.logger.Warn("Consumer", "Dropping malformed message", map[string]interface{}{"message_id": msg.UUID, "error": err})
		cs.observe("unknown", "malformed")
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	userID, err := uuid.Parse(event.UserId)
	if err != nil {
		cs.logger.Warn("Consumer", "Dropping event without user", map[string]interface{}{"type": event.Type, "message_id": msg.UUID})
		cs.observe(event.Type, "malformed")
		msg.Ack()
		return
	}

	activity := &entity.NoteActivity{
		Id:        uuid.New(),
		UserId:    userID,
		Type:      event.Type,
		CreatedAt: event.OccurredAt.UTC(),
	}
	if entityID, err := uuid.Parse(event.EntityId); err == nil {
		activity.EntityId = &entityID
	}
	if event.Data != nil {
		activity.Payload, _ = json.Marshal(event.Data)
	}

	store := cs.retry.Middleware(func(*message.Message) ([]*message.Message, error) {
		return nil, cs.uowFactory.NewUnitOfWork(ctx).NoteActivityRepository().Create(ctx, activity)
	})
	if _, err := store(msg); err != nil {
		cs.logger.Error("Consumer", "Failed to store activity", map[string]interface{}{"type": event.Type, "error": err})
		cs.observe(event.Type, "failed")
		msg.Nack() // Nack for retriable errors
		return
	}

	if cs.relay != nil {
		if err := cs.relay.Publish(ctx, event); err != nil {
			cs.logger.Warn("Consumer", "Failed to relay event to NATS", map[string]interface{}{"type": event.Type, "error": err})
		}
	}

	if cs.delivery != nil && event.IsNoteEvent() {
		frame := websocket.Frame{Type: event.Type, Data: event.Data}
		if err := cs.delivery.SendToUser(ctx, userID, frame); err != nil {
			cs.logger.Warn("Consumer", "Failed to push note sync frame", map[string]interface{}{"type": event.Type, "error": err})
		}
	}

	cs.logger.Info("Consumer", "Event processed", map[string]interface{}{"type": event.Type, "user_id": userID})
	cs.observe(event.Type, "ok")
	msg.Ack()
}

func (cs *consumerService) observe(eventType, outcome string) {
	if cs.metrics != nil {
		cs.metrics.ObserveEvent(eventType, outcome)
	}
}
