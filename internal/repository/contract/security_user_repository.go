package contract

import (
	"context"

	"abend-assist-be/internal/entity"
	"abend-assist-be/internal/repository/specification"
)

type SecurityUserRepository interface {
	Create(ctx context.Context, user *entity.SecurityUser) error
	// UpdatePassword stores the hash and clears the deactivation date.
	// It returns ErrUserNotFound when no row matches.
	UpdatePassword(ctx context.Context, userId, passwordHash string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SecurityUser, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
