package service

import (
	"context"
	"fmt"

	"abend-assist-be/internal/repository/specification"
	"abend-assist-be/internal/repository/unitofwork"
	"abend-assist-be/pkg/dialogue"

	"golang.org/x/crypto/bcrypt"
)

const credentialHashCost = 10

type credentialStore struct {
	uowFactory unitofwork.RepositoryFactory
}

// NewCredentialStore backs the password-reset flow with the security_users table.
func NewCredentialStore(uowFactory unitofwork.RepositoryFactory) dialogue.CredentialStore {
	return &credentialStore{uowFactory: uowFactory}
}

func (s *credentialStore) IdentityExists(ctx context.Context, identity string) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.SecurityUserRepository().Count(ctx, specification.ByUserId{UserId: identity})
	if err != nil {
		return false, fmt.Errorf("count security users: %w", err)
	}
	return count > 0, nil
}

func (s *credentialStore) UpdateCredential(ctx context.Context, identity, secret string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), credentialHashCost)
	if err != nil {
		return fmt.Errorf("hash credential: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := uow.SecurityUserRepository().UpdatePassword(ctx, identity, string(hash)); err != nil {
		_ = uow.Rollback()
		return fmt.Errorf("update password: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("commit password: %w", err)
	}
	return nil
}
