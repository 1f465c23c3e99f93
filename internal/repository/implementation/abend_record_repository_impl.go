package implementation

import (
	"context"
	"errors"

	"abend-assist-be/internal/entity"
	"abend-assist-be/internal/mapper"
	"abend-assist-be/internal/model"
	"abend-assist-be/internal/repository/contract"
	"abend-assist-be/internal/repository/specification"
	"abend-assist-be/pkg/abend"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AbendRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AbendRecordMapper
}

func NewAbendRecordRepository(db *gorm.DB) contract.AbendRecordRepository {
	return &AbendRecordRepositoryImpl{
		db:     db,
		mapper: mapper.NewAbendRecordMapper(),
	}
}

func (r *AbendRecordRepositoryImpl) Upsert(ctx context.Context, record *entity.AbendRecord) error {
	m := r.mapper.ToModel(record)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "solution", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

// ReplaceAll swaps the whole table. Callers wrap it in a transaction.
func (r *AbendRecordRepositoryImpl) ReplaceAll(ctx context.Context, records []*entity.AbendRecord) error {
	db := r.db.WithContext(ctx)
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.AbendRecord{}).Error; err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	return db.CreateInBatches(r.mapper.ToModels(records), 500).Error
}

func (r *AbendRecordRepositoryImpl) Delete(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).Delete(&model.AbendRecord{}, "code = ?", abend.CanonicalCode(code)).Error
}

func (r *AbendRecordRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AbendRecord, error) {
	var m model.AbendRecord
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AbendRecordRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AbendRecord, error) {
	var models []*model.AbendRecord
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AbendRecordRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.AbendRecord{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
