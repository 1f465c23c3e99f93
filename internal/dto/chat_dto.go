package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatRequest struct {
	SessionId string `json:"session_id" validate:"omitempty,max=64"`
	Message   string `json:"message" validate:"max=2000"`
}

type ChatResponse struct {
	SessionId  string `json:"session_id"`
	Reply      string `json:"reply"`
	PromptKind string `json:"prompt_kind"`
	Intent     string `json:"intent"`
}

type ResetChatRequest struct {
	SessionId string `json:"session_id" validate:"required,max=64"`
}

// ChatTurnMessage is the payload published for every resolved turn.
type ChatTurnMessage struct {
	SessionId  string    `json:"session_id"`
	Utterance  string    `json:"utterance"`
	Reply      string    `json:"reply"`
	Intent     string    `json:"intent"`
	PromptKind string    `json:"prompt_kind"`
	Outcome    string    `json:"outcome"`
	Code       string    `json:"code,omitempty"`
	Name       string    `json:"name,omitempty"`
	Greeting   string    `json:"greeting,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ChatTurnResponse struct {
	Id         uuid.UUID `json:"id"`
	SessionId  string    `json:"session_id"`
	Utterance  string    `json:"utterance"`
	Reply      string    `json:"reply"`
	Intent     string    `json:"intent"`
	PromptKind string    `json:"prompt_kind"`
	Outcome    string    `json:"outcome"`
	Code       string    `json:"code,omitempty"`
	Name       string    `json:"name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
