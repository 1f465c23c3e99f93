package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatTurn is one resolved utterance and the reply it got.
type ChatTurn struct {
	Id         uuid.UUID
	SessionId  string
	Utterance  string
	Reply      string
	Intent     string
	PromptKind string
	Outcome    string
	Entities   ChatTurnEntities
	CreatedAt  time.Time
}

type ChatTurnEntities struct {
	Greeting string `json:"greeting,omitempty"`
	Code     string `json:"code,omitempty"`
	Name     string `json:"name,omitempty"`
}
