package contract

import (
	"context"

	"abend-assist-be/internal/entity"
	"abend-assist-be/internal/repository/specification"
)

type AbendRecordRepository interface {
	Upsert(ctx context.Context, record *entity.AbendRecord) error
	ReplaceAll(ctx context.Context, records []*entity.AbendRecord) error
	Delete(ctx context.Context, code string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AbendRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AbendRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
