package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/centsible/centsible/internal/apperr"
	"github.com/centsible/centsible/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Registration carries the signup form fields before validation.
type Registration struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	Currency        string
}

type Service interface {
	// Register validates the form, persists a new account, and mints a session
	// token. The returned account never carries the password hash.
	Register(ctx context.Context, reg Registration) (user.Account, string, error)
	// Authenticate verifies credentials and mints a session token. All credential
	// failures return the same generic AuthError to prevent account enumeration.
	Authenticate(ctx context.Context, email, password string) (user.Account, string, error)
}

type ServiceImpl struct {
	users      user.Service
	tokens     *TokenService
	bcryptCost int
}

func NewAuthService(users user.Service, tokens *TokenService, bcryptCost int) *ServiceImpl {
	return &ServiceImpl{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

func (s *ServiceImpl) Register(ctx context.Context, reg Registration) (user.Account, string, error) {
	if err := validateRegistration(reg); err != nil {
		return user.Account{}, "", err
	}

	hash, err := HashPassword(reg.Password, s.bcryptCost)
	if err != nil {
		return user.Account{}, "", apperr.Internal("failed to process registration", err)
	}

	account := user.Account{
		Uid:          uuid.New().String(),
		Email:        reg.Email,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		PasswordHash: hash,
		Currency:     user.Currency(reg.Currency),
	}
	// The unique index on email is the real guard; the repo maps its violation
	// to a ConflictError, so a concurrent duplicate signup cannot slip through.
	created, err := s.users.Create(ctx, account)
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return user.Account{}, "", err
		}
		return user.Account{}, "", apperr.Internal("failed to create account", err)
	}
	log.Infof("registered account %s", created.Uid)

	token, err := s.tokens.Issue(created)
	if err != nil {
		return user.Account{}, "", err
	}
	created.PasswordHash = ""
	return created, token, nil
}

func (s *ServiceImpl) Authenticate(ctx context.Context, email, password string) (user.Account, string, error) {
	account, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrAccountNotFound) {
			return user.Account{}, "", apperr.Auth("invalid email or password")
		}
		return user.Account{}, "", apperr.Internal("failed to authenticate", err)
	}
	if !account.Active {
		log.Debugf("login attempt for inactive account %s", account.Uid)
		return user.Account{}, "", apperr.Auth("invalid email or password")
	}
	if !ComparePasswords(account.PasswordHash, password) {
		return user.Account{}, "", apperr.Auth("invalid email or password")
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return user.Account{}, "", err
	}
	account.PasswordHash = ""
	return account, token, nil
}

func validateRegistration(reg Registration) error {
	var fields []apperr.FieldError

	if reg.FirstName == "" {
		fields = append(fields, apperr.FieldError{Field: "firstName", Message: "first name is required"})
	}
	if reg.LastName == "" {
		fields = append(fields, apperr.FieldError{Field: "lastName", Message: "last name is required"})
	}
	// Validation judges the normalized email, the same value storage and lookups use.
	email := user.NormalizeEmail(reg.Email)
	switch {
	case email == "":
		fields = append(fields, apperr.FieldError{Field: "email", Message: "email is required"})
	case !emailPattern.MatchString(email):
		fields = append(fields, apperr.FieldError{Field: "email", Message: "email is not valid"})
	}
	switch {
	case reg.Password == "":
		fields = append(fields, apperr.FieldError{Field: "password", Message: "password is required"})
	case len(reg.Password) < minPasswordLength:
		fields = append(fields, apperr.FieldError{Field: "password",
			Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength)})
	case reg.Password != reg.ConfirmPassword:
		fields = append(fields, apperr.FieldError{Field: "confirmPassword", Message: "passwords do not match"})
	}
	if !user.Currency(reg.Currency).IsSupported() {
		fields = append(fields, apperr.FieldError{Field: "currency", Message: "currency is not supported"})
	}

	if len(fields) > 0 {
		return apperr.Validation("registration data is invalid", fields...)
	}
	return nil
}
