package user

import (
	"context"
	"fmt"
	"strings"
)

type Service interface {
	GetCurrentAccount(ctx context.Context) (Account, error)
	GetByUid(ctx context.Context, uid string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	Create(ctx context.Context, account Account) (Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Deactivate(ctx context.Context, id int) error
}

type ServiceImpl struct {
	repo Repo
}

func NewUserService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

// NormalizeEmail canonicalizes an email for storage and lookup. Uniqueness is
// case-insensitive, so every path through this package lowercases first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *ServiceImpl) GetCurrentAccount(ctx context.Context) (Account, error) {
	account, err := CurrentAccount(ctx)
	if err != nil {
		return Account{}, fmt.Errorf("failed to get current account: %w", err)
	}
	return account, nil
}

func (s *ServiceImpl) GetByUid(ctx context.Context, uid string) (Account, error) {
	return s.repo.GetByUid(ctx, uid)
}

func (s *ServiceImpl) GetByEmail(ctx context.Context, email string) (Account, error) {
	return s.repo.GetByEmail(ctx, NormalizeEmail(email))
}

func (s *ServiceImpl) Create(ctx context.Context, account Account) (Account, error) {
	account.Email = NormalizeEmail(account.Email)
	return s.repo.Create(ctx, account)
}

func (s *ServiceImpl) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.repo.EmailExists(ctx, NormalizeEmail(email))
}

func (s *ServiceImpl) Deactivate(ctx context.Context, id int) error {
	return s.repo.Deactivate(ctx, id)
}
