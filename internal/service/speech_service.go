package service

import (
	"context"

	"abend-assist-be/internal/dto"
	"abend-assist-be/internal/pkg/logger"
	"abend-assist-be/pkg/speech"
)

type ISpeechService interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (*dto.SpeechToTextResponse, error)
}

type speechService struct {
	transcriber speech.Transcriber
	logger      logger.ILogger
}

func NewSpeechService(transcriber speech.Transcriber, log logger.ILogger) ISpeechService {
	return &speechService{transcriber: transcriber, logger: log}
}

func (s *speechService) Transcribe(ctx context.Context, audio []byte, contentType string) (*dto.SpeechToTextResponse, error) {
	text, err := s.transcriber.Transcribe(ctx, audio, contentType)
	if err != nil {
		s.logger.Warn("Speech", "Transcription failed", map[string]interface{}{
			"bytes": len(audio),
			"error": err,
		})
		return nil, err
	}
	return &dto.SpeechToTextResponse{RecognizedText: text}, nil
}
