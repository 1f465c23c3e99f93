package mapper

import (
	"time"

	"abend-assist-be/internal/entity"
	"abend-assist-be/internal/model"
)

type SecurityUserMapper struct{}

func NewSecurityUserMapper() *SecurityUserMapper {
	return &SecurityUserMapper{}
}

func (m *SecurityUserMapper) ToEntity(u *model.SecurityUser) *entity.SecurityUser {
	if u == nil {
		return nil
	}
	var updatedAt *time.Time
	if !u.UpdatedAt.IsZero() {
		t := u.UpdatedAt
		updatedAt = &t
	}
	return &entity.SecurityUser{
		UserId:           u.UserId,
		PasswordHash:     u.Password,
		DeactivationDate: u.DeactivationDate,
		UpdatedAt:        updatedAt,
	}
}

func (m *SecurityUserMapper) ToModel(u *entity.SecurityUser) *model.SecurityUser {
	if u == nil {
		return nil
	}
	var updatedAt time.Time
	if u.UpdatedAt != nil {
		updatedAt = *u.UpdatedAt
	}
	return &model.SecurityUser{
		UserId:           u.UserId,
		Password:         u.PasswordHash,
		DeactivationDate: u.DeactivationDate,
		UpdatedAt:        updatedAt,
	}
}
