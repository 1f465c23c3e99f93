package service

import (
	"context"
	"fmt"

	"abend-assist-be/internal/pkg/logger"
	"abend-assist-be/pkg/events"
	pktNats "abend-assist-be/pkg/nats"
)

// NoticeDelivery pushes a notice to every open chat socket.
// Implemented by the WebSocket Hub.
type NoticeDelivery interface {
	Broadcast(ctx context.Context, message string)
}

// EventSubscriber is satisfied by *nats.Subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

const noticeDurable = "chat-notice-worker"

// NoticeService turns bus events into socket notices and an audit trail.
type NoticeService struct {
	subscriber EventSubscriber
	delivery   NoticeDelivery
	logger     logger.ILogger
}

func NewNoticeService(sub EventSubscriber, delivery NoticeDelivery, log logger.ILogger) *NoticeService {
	return &NoticeService{subscriber: sub, delivery: delivery, logger: log}
}

// Start begins listening to the event bus.
func (s *NoticeService) Start(ctx context.Context) error {
	if err := s.subscriber.Subscribe(ctx, pktNats.Subject(">"), noticeDurable, s.handleEvent); err != nil {
		return err
	}
	s.logger.Info("NoticeService", "Notice service started", nil)
	return nil
}

func (s *NoticeService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	switch event.EventType() {
	case events.TypeAbendDataReloaded:
		count, _ := payload["count"].(float64)
		if s.delivery != nil {
			s.delivery.Broadcast(ctx, fmt.Sprintf("Abend reference data was refreshed (%d records).", int(count)))
		}
	case events.TypeOneTimeCodeIssued, events.TypeCredentialReset:
		s.logger.Info("Security", event.EventType(), map[string]interface{}{
			"session_id":  payload["session_id"],
			"identity":    payload["identity"],
			"occurred_at": event.Timestamp(),
		})
	default:
		s.logger.Debug("NoticeService", "Ignoring event", map[string]interface{}{"type": event.EventType()})
	}
	return nil
}
