package service

import (
	"context"
	"encoding/json"
	"time"

	"abend-assist-be/internal/dto"
	"abend-assist-be/internal/pkg/logger"
	"abend-assist-be/pkg/dialogue"
	"abend-assist-be/pkg/events"
	"abend-assist-be/pkg/nlu"

	"github.com/google/uuid"
)

const redacted = "[redacted]"

type IChatbotService interface {
	Send(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	Reset(ctx context.Context, req *dto.ResetChatRequest) error
}

type chatbotService struct {
	engine    ChatEngine
	publisher IPublisherService
	events    EventPublisher
	chatLog   logger.ILogger
}

func NewChatbotService(
	engine ChatEngine,
	publisher IPublisherService,
	events EventPublisher,
	chatLog logger.ILogger,
) IChatbotService {
	return &chatbotService{
		engine:    engine,
		publisher: publisher,
		events:    events,
		chatLog:   chatLog,
	}
}

func (s *chatbotService) Send(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	sessionId := req.SessionId
	if sessionId == "" {
		sessionId = uuid.NewString()
	}

	reply := s.engine.Resolve(ctx, sessionId, req.Message)

	s.record(ctx, req.Message, reply)
	s.emit(ctx, reply)

	return &dto.ChatResponse{
		SessionId:  sessionId,
		Reply:      reply.Text,
		PromptKind: string(reply.Prompt),
		Intent:     string(reply.Intent),
	}, nil
}

func (s *chatbotService) Reset(ctx context.Context, req *dto.ResetChatRequest) error {
	return s.engine.Reset(ctx, req.SessionId)
}

// record logs the turn and hands it to the persistence pipeline. Identity
// and code answers never leave the engine in clear text.
func (s *chatbotService) record(ctx context.Context, utterance string, reply dialogue.Reply) {
	if reply.Intent == nlu.IntentCredentialStep {
		utterance = redacted
	}

	s.chatLog.Info("Chat", "Turn resolved", map[string]interface{}{
		"session_id":  reply.SessionID,
		"utterance":   utterance,
		"intent":      reply.Intent,
		"outcome":     reply.Outcome,
		"prompt_kind": reply.Prompt,
	})

	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(dto.ChatTurnMessage{
		SessionId:  reply.SessionID,
		Utterance:  utterance,
		Reply:      reply.Text,
		Intent:     string(reply.Intent),
		PromptKind: string(reply.Prompt),
		Outcome:    string(reply.Outcome),
		Greeting:   reply.Entities.Greeting,
		Code:       reply.Entities.Code,
		Name:       reply.Entities.Name,
		OccurredAt: time.Now(),
	})
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.chatLog.Warn("Chat", "Failed to publish turn", map[string]interface{}{
			"session_id": reply.SessionID,
			"error":      err,
		})
	}
}

func (s *chatbotService) emit(ctx context.Context, reply dialogue.Reply) {
	if s.events == nil {
		return
	}
	var event events.Event
	switch reply.Outcome {
	case dialogue.OutcomeCodeIssued:
		event = events.OneTimeCodeIssued(reply.SessionID, reply.Identity)
	case dialogue.OutcomeCredentialReset:
		event = events.CredentialReset(reply.SessionID, reply.Identity)
	default:
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.chatLog.Warn("Chat", "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err,
		})
	}
}
