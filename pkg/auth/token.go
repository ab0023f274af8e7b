package auth

import (
	"time"

	"github.com/centsible/centsible/internal/apperr"
	"github.com/centsible/centsible/internal/utils"
	"github.com/centsible/centsible/pkg/user"
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenIssuer   = "centsible"
	TokenAudience = "centsible-app"

	// CookieName is the cookie carrying the session token for browser clients.
	CookieName = "token"
)

// Claims are the identity claims embedded in every session token. The token is
// the only session state; nothing is persisted server-side.
type Claims struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Currency  string `json:"currency"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies signed session tokens (HS256).
type TokenService struct {
	secret   []byte
	lifetime time.Duration
	clock    utils.Clock
}

func NewTokenService(secret string, lifetime time.Duration, clock utils.Clock) *TokenService {
	return &TokenService{secret: []byte(secret), lifetime: lifetime, clock: clock}
}

func (t *TokenService) Lifetime() time.Duration {
	return t.lifetime
}

// Issue mints a token for the account, valid for the configured lifetime.
func (t *TokenService) Issue(account user.Account) (string, error) {
	now := t.clock.Now().UTC()
	claims := Claims{
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Currency:  string(account.Currency),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.Uid,
			Issuer:    TokenIssuer,
			Audience:  jwt.ClaimStrings{TokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.lifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", apperr.Internal("failed to sign session token", err)
	}
	return signed, nil
}

// Verify checks signature, expiry, issuer, and audience. Any failure collapses
// into a single AuthError so callers cannot distinguish forgery from expiry.
func (t *TokenService) Verify(tokenString string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(token *jwt.Token) (any, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithTimeFunc(func() time.Time { return t.clock.Now() }),
	)
	if err != nil {
		return Claims{}, apperr.Auth("invalid or expired token")
	}
	return claims, nil
}
