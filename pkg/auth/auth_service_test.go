package auth

import (
	"context"
	"testing"
	"time"

	"github.com/centsible/centsible/internal/apperr"
	"github.com/centsible/centsible/internal/utils"
	"github.com/centsible/centsible/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bcrypt cost 4 is the library minimum; production cost would dominate the test run.
const testBcryptCost = 4

func setupAuthServiceTest(t *testing.T) (*ServiceImpl, *user.StubUserRepo, *TokenService) {
	repo := user.NewStubUserRepo()
	t.Cleanup(repo.Cleanup)
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)}
	tokens := NewTokenService("test-secret", 7*24*time.Hour, clock)
	service := NewAuthService(user.NewUserService(repo), tokens, testBcryptCost)
	return service, repo, tokens
}

func validRegistration() Registration {
	return Registration{
		FirstName:       "Ana",
		LastName:        "Silva",
		Email:           "ana@example.com",
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
		Currency:        "USD",
	}
}

func TestRegister(t *testing.T) {
	t.Run("should create an account and issue a session token", func(t *testing.T) {
		// given
		service, _, tokens := setupAuthServiceTest(t)

		// when
		account, token, err := service.Register(context.Background(), validRegistration())

		// then
		require.NoError(t, err)
		assert.NotZero(t, account.Id)
		assert.NotEmpty(t, account.Uid)
		assert.Equal(t, "ana@example.com", account.Email)
		assert.True(t, account.Active)
		assert.Empty(t, account.PasswordHash)

		claims, err := tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, account.Uid, claims.Subject)
	})

	t.Run("should lowercase the email before storing", func(t *testing.T) {
		// given
		service, repo, _ := setupAuthServiceTest(t)
		reg := validRegistration()
		reg.Email = "Ana@Example.COM"

		// when
		account, _, err := service.Register(context.Background(), reg)

		// then
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", account.Email)
		_, err = repo.GetByEmail(context.Background(), "ana@example.com")
		assert.NoError(t, err)
	})

	t.Run("should accept an email with surrounding whitespace", func(t *testing.T) {
		// given
		service, _, _ := setupAuthServiceTest(t)
		reg := validRegistration()
		reg.Email = "  ana@example.com "

		// when
		account, _, err := service.Register(context.Background(), reg)

		// then
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", account.Email)
	})

	t.Run("should reject a duplicate email with a conflict", func(t *testing.T) {
		// given
		service, _, _ := setupAuthServiceTest(t)
		_, _, err := service.Register(context.Background(), validRegistration())
		require.NoError(t, err)

		// when
		_, _, err = service.Register(context.Background(), validRegistration())

		// then
		require.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("should treat differently-cased duplicates as the same email", func(t *testing.T) {
		// given
		service, _, _ := setupAuthServiceTest(t)
		_, _, err := service.Register(context.Background(), validRegistration())
		require.NoError(t, err)

		// when
		reg := validRegistration()
		reg.Email = "ANA@example.com"
		_, _, err = service.Register(context.Background(), reg)

		// then
		require.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("should list every violated field", func(t *testing.T) {
		// given
		service, repo, _ := setupAuthServiceTest(t)
		reg := Registration{Email: "not-an-email", Password: "short", ConfirmPassword: "short", Currency: "DOGE"}

		// when
		_, _, err := service.Register(context.Background(), reg)

		// then
		require.Error(t, err)
		appErr, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindValidation, appErr.Kind)

		violated := make([]string, 0, len(appErr.Fields))
		for _, field := range appErr.Fields {
			violated = append(violated, field.Field)
		}
		assert.ElementsMatch(t, []string{"firstName", "lastName", "email", "password", "currency"}, violated)

		exists, err := repo.EmailExists(context.Background(), "not-an-email")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("should reject mismatched password confirmation", func(t *testing.T) {
		// given
		service, _, _ := setupAuthServiceTest(t)
		reg := validRegistration()
		reg.ConfirmPassword = "different-pass"

		// when
		_, _, err := service.Register(context.Background(), reg)

		// then
		require.Error(t, err)
		appErr, _ := apperr.As(err)
		require.Len(t, appErr.Fields, 1)
		assert.Equal(t, "confirmPassword", appErr.Fields[0].Field)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("should verify credentials and issue a token", func(t *testing.T) {
		// given
		service, _, tokens := setupAuthServiceTest(t)
		registered, _, err := service.Register(context.Background(), validRegistration())
		require.NoError(t, err)

		// when
		account, token, err := service.Authenticate(context.Background(), "ana@example.com", "s3cret-pass")

		// then
		require.NoError(t, err)
		assert.Equal(t, registered.Uid, account.Uid)
		assert.Empty(t, account.PasswordHash)

		claims, err := tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, registered.Uid, claims.Subject)
	})

	t.Run("should accept a differently-cased email", func(t *testing.T) {
		// given
		service, _, _ := setupAuthServiceTest(t)
		_, _, err := service.Register(context.Background(), validRegistration())
		require.NoError(t, err)

		// when
		_, _, err = service.Authenticate(context.Background(), "ANA@Example.com", "s3cret-pass")

		// then
		assert.NoError(t, err)
	})

	t.Run("should return the same generic error for an unknown email", func(t *testing.T) {
		// given
		service, _, _ := setupAuthServiceTest(t)

		// when
		_, _, err := service.Authenticate(context.Background(), "nobody@example.com", "whatever")

		// then
		require.Error(t, err)
		assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
		assert.EqualError(t, err, "invalid email or password")
	})

	t.Run("should return the same generic error for a wrong password", func(t *testing.T) {
		// given
		service, _, _ := setupAuthServiceTest(t)
		_, _, err := service.Register(context.Background(), validRegistration())
		require.NoError(t, err)

		// when
		_, _, err = service.Authenticate(context.Background(), "ana@example.com", "wrong-pass")

		// then
		require.Error(t, err)
		assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
		assert.EqualError(t, err, "invalid email or password")
	})

	t.Run("should return the same generic error for a deactivated account", func(t *testing.T) {
		// given
		service, repo, _ := setupAuthServiceTest(t)
		account, _, err := service.Register(context.Background(), validRegistration())
		require.NoError(t, err)
		require.NoError(t, repo.Deactivate(context.Background(), account.Id))

		// when
		_, _, err = service.Authenticate(context.Background(), "ana@example.com", "s3cret-pass")

		// then
		require.Error(t, err)
		assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
		assert.EqualError(t, err, "invalid email or password")
	})
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", testBcryptCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, ComparePasswords(hash, "s3cret-pass"))
	assert.False(t, ComparePasswords(hash, "other-pass"))
}
