package service

import (
	"context"
	"encoding/json"

	"notebook-core/internal/dto"
	"notebook-core/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService writes every lifecycle event to the event log.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		logger:     logger,
	}
}

// Consume subscribes and processes messages in the background until ctx is
// cancelled.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.PublishNotebookEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("EVENTS", "Failed to unmarshal event", map[string]interface{}{
			"message_uuid": msg.UUID,
			"error":        err.Error(),
		})
		msg.Ack() // no redelivery for invalid payloads
		return
	}

	details := payload.Data
	if details == nil {
		details = map[string]interface{}{}
	}
	details["occurred_at"] = payload.OccurredAt
	cs.logger.Info("EVENTS", payload.Type, details)
	msg.Ack()
}
