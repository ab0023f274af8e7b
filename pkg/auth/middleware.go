package auth

import (
	"net/http"
	"strings"

	"github.com/centsible/centsible/internal/apperr"
	"github.com/centsible/centsible/internal/rest"
	"github.com/centsible/centsible/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Middleware is the access gate applied to protected routes. It resolves the
// session token to an active account and attaches it to the request context.
type Middleware struct {
	tokens *TokenService
	users  user.Service
}

func NewMiddleware(tokens *TokenService, users user.Service) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// RequireAuth rejects the request with 401 unless it carries a valid session
// token that resolves to an active account.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, err := m.authenticate(r)
		if err != nil {
			rest.WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(user.WithAccount(r.Context(), account)))
	})
}

// OptionalAuth attaches the account when a valid token is present and proceeds
// without identity otherwise. Used where authentication enriches but is not required.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, err := m.authenticate(r)
		if err != nil {
			log.Trace("optional auth: proceeding unauthenticated")
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(user.WithAccount(r.Context(), account)))
	})
}

func (m *Middleware) authenticate(r *http.Request) (user.Account, error) {
	token := ExtractToken(r)
	if token == "" {
		return user.Account{}, apperr.Auth("authentication required")
	}

	claims, err := m.tokens.Verify(token)
	if err != nil {
		return user.Account{}, err
	}

	account, err := m.users.GetByUid(r.Context(), claims.Subject)
	if err != nil {
		log.Debugf("token subject %s does not resolve to an account", claims.Subject)
		return user.Account{}, apperr.Auth("invalid or expired token")
	}
	if !account.Active {
		return user.Account{}, apperr.Auth("account is deactivated")
	}
	account.PasswordHash = ""
	return account, nil
}

// ExtractToken returns the session token from the Authorization header, falling
// back to the token cookie. Header wins when both are present.
func ExtractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok && after != "" {
		return after
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}
