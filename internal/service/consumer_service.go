package service

import (
	"context"
	"encoding/json"

	"abend-assist-be/internal/dto"
	"abend-assist-be/internal/entity"
	"abend-assist-be/internal/pkg/logger"
	"abend-assist-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService persists published chat turns.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     log,
	}
}

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
	var payload dto.ChatTurnMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ChatTurns", "Dropping undecodable turn", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err,
		})
		msg.Ack() // retrying cannot fix a bad payload
		return
	}

	turn := &entity.ChatTurn{
		SessionId:  payload.SessionId,
		Utterance:  payload.Utterance,
		Reply:      payload.Reply,
		Intent:     payload.Intent,
		PromptKind: payload.PromptKind,
		Outcome:    payload.Outcome,
		Entities: entity.ChatTurnEntities{
			Greeting: payload.Greeting,
			Code:     payload.Code,
			Name:     payload.Name,
		},
		CreatedAt: payload.OccurredAt,
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatTurnRepository().Create(ctx, turn); err != nil {
		cs.logger.Error("ChatTurns", "Failed to persist turn", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err,
		})
		msg.Nack()
		return
	}
	msg.Ack()
}
