package unitofwork

import (
	"context"

	"abend-assist-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AbendRecordRepository() contract.AbendRecordRepository
	SecurityUserRepository() contract.SecurityUserRepository
	ChatTurnRepository() contract.ChatTurnRepository
}
