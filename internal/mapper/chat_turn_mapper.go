package mapper

import (
	"encoding/json"

	"abend-assist-be/internal/entity"
	"abend-assist-be/internal/model"

	"gorm.io/datatypes"
)

type ChatTurnMapper struct{}

func NewChatTurnMapper() *ChatTurnMapper {
	return &ChatTurnMapper{}
}

func (m *ChatTurnMapper) ToEntity(t *model.ChatTurn) *entity.ChatTurn {
	if t == nil {
		return nil
	}
	var ents entity.ChatTurnEntities
	if len(t.Entities) > 0 {
		// A malformed column leaves the entities empty rather than hiding the turn.
		_ = json.Unmarshal(t.Entities, &ents)
	}
	return &entity.ChatTurn{
		Id:         t.Id,
		SessionId:  t.SessionId,
		Utterance:  t.Utterance,
		Reply:      t.Reply,
		Intent:     t.Intent,
		PromptKind: t.PromptKind,
		Outcome:    t.Outcome,
		Entities:   ents,
		CreatedAt:  t.CreatedAt,
	}
}

func (m *ChatTurnMapper) ToModel(t *entity.ChatTurn) *model.ChatTurn {
	if t == nil {
		return nil
	}
	ents, _ := json.Marshal(t.Entities)
	return &model.ChatTurn{
		Id:         t.Id,
		SessionId:  t.SessionId,
		Utterance:  t.Utterance,
		Reply:      t.Reply,
		Intent:     t.Intent,
		PromptKind: t.PromptKind,
		Outcome:    t.Outcome,
		Entities:   datatypes.JSON(ents),
		CreatedAt:  t.CreatedAt,
	}
}

func (m *ChatTurnMapper) ToEntities(turns []*model.ChatTurn) []*entity.ChatTurn {
	entities := make([]*entity.ChatTurn, len(turns))
	for i, t := range turns {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
