package implementation

import (
	"context"
	"errors"
	"strings"

	"abend-assist-be/internal/entity"
	"abend-assist-be/internal/mapper"
	"abend-assist-be/internal/model"
	"abend-assist-be/internal/repository/contract"
	"abend-assist-be/internal/repository/specification"

	"gorm.io/gorm"
)

type SecurityUserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SecurityUserMapper
}

func NewSecurityUserRepository(db *gorm.DB) contract.SecurityUserRepository {
	return &SecurityUserRepositoryImpl{
		db:     db,
		mapper: mapper.NewSecurityUserMapper(),
	}
}

func (r *SecurityUserRepositoryImpl) Create(ctx context.Context, user *entity.SecurityUser) error {
	m := r.mapper.ToModel(user)
	m.UserId = strings.ToUpper(strings.TrimSpace(m.UserId))
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(m)
	return nil
}

func (r *SecurityUserRepositoryImpl) UpdatePassword(ctx context.Context, userId, passwordHash string) error {
	res := r.db.WithContext(ctx).
		Model(&model.SecurityUser{}).
		Scopes(specification.ByUserId{UserId: userId}.Apply).
		Updates(map[string]interface{}{
			"password":          passwordHash,
			"deactivation_date": gorm.Expr("NULL"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrUserNotFound
	}
	return nil
}

func (r *SecurityUserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SecurityUser, error) {
	var m model.SecurityUser
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SecurityUserRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.SecurityUser{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
