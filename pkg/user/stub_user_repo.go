package user

import (
	"context"
	"time"

	"github.com/centsible/centsible/internal/apperr"
)

// StubUserRepo is an in-memory Repo for tests.
type StubUserRepo struct {
	accounts []Account
	nextId   int
}

func NewStubUserRepo() *StubUserRepo {
	return &StubUserRepo{nextId: 1}
}

func (s *StubUserRepo) Create(_ context.Context, account Account) (Account, error) {
	for _, existing := range s.accounts {
		if existing.Email == account.Email {
			return Account{}, apperr.Conflict("email already registered")
		}
	}
	account.Id = s.nextId
	account.Active = true
	account.CreatedAt = time.Now().UTC()
	account.UpdatedAt = account.CreatedAt
	s.nextId++
	s.accounts = append(s.accounts, account)
	return account, nil
}

func (s *StubUserRepo) GetByUid(_ context.Context, uid string) (Account, error) {
	for _, account := range s.accounts {
		if account.Uid == uid {
			return account, nil
		}
	}
	return Account{}, ErrAccountNotFound
}

func (s *StubUserRepo) GetByEmail(_ context.Context, email string) (Account, error) {
	for _, account := range s.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return Account{}, ErrAccountNotFound
}

func (s *StubUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	for _, account := range s.accounts {
		if account.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *StubUserRepo) Deactivate(_ context.Context, id int) error {
	for i, account := range s.accounts {
		if account.Id == id {
			s.accounts[i].Active = false
			return nil
		}
	}
	return ErrAccountNotFound
}

func (s *StubUserRepo) Cleanup() {
	s.accounts = nil
	s.nextId = 1
}
