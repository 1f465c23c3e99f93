package mapper

import (
	"time"

	"abend-assist-be/internal/entity"
	"abend-assist-be/internal/model"
	"abend-assist-be/pkg/abend"
)

type AbendRecordMapper struct{}

func NewAbendRecordMapper() *AbendRecordMapper {
	return &AbendRecordMapper{}
}

func (m *AbendRecordMapper) ToEntity(r *model.AbendRecord) *entity.AbendRecord {
	if r == nil {
		return nil
	}
	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}
	return &entity.AbendRecord{
		Code:      r.Code,
		Name:      r.Name,
		Solution:  r.Solution,
		CreatedAt: r.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *AbendRecordMapper) ToModel(r *entity.AbendRecord) *model.AbendRecord {
	if r == nil {
		return nil
	}
	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}
	return &model.AbendRecord{
		Code:      abend.CanonicalCode(r.Code),
		Name:      r.Name,
		Solution:  r.Solution,
		CreatedAt: r.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *AbendRecordMapper) ToEntities(records []*model.AbendRecord) []*entity.AbendRecord {
	entities := make([]*entity.AbendRecord, len(records))
	for i, r := range records {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

func (m *AbendRecordMapper) ToModels(records []*entity.AbendRecord) []*model.AbendRecord {
	models := make([]*model.AbendRecord, len(records))
	for i, r := range records {
		models[i] = m.ToModel(r)
	}
	return models
}

// ToRecords converts to the engine's record type, keeping order.
func (m *AbendRecordMapper) ToRecords(records []*entity.AbendRecord) []abend.Record {
	out := make([]abend.Record, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		out = append(out, abend.Record{Code: r.Code, Name: r.Name, Solution: r.Solution})
	}
	return out
}
