package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/centsible/centsible/internal/apperr"
	"github.com/centsible/centsible/internal/rest"
	"github.com/centsible/centsible/pkg/user"
	log "github.com/sirupsen/logrus"
)

type AccountDTO struct {
	Uid       string    `json:"uid"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
}

type SignupDTO struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Currency        string `json:"currency"`
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionDTO struct {
	User  AccountDTO `json:"user"`
	Token string     `json:"token"`
}

type Handler struct {
	authService Service
	userService user.Service
	tokens      *TokenService
}

func NewHandler(authService Service, userService user.Service, tokens *TokenService) *Handler {
	return &Handler{
		authService: authService,
		userService: userService,
		tokens:      tokens,
	}
}

// Signup godoc
// @Summary Register a new account
// @Description Create an account and mint a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param signup body SignupDTO true "Signup form"
// @Success 201 {object} SessionDTO
// @Failure 400 {object} rest.ErrorResponse "Validation failure or duplicate email"
// @Router /api/auth/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new account")

	var dto SignupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, apperr.Validation("invalid request body format"))
		return
	}

	account, token, err := h.authService.Register(r.Context(), Registration{
		FirstName:       dto.FirstName,
		LastName:        dto.LastName,
		Email:           dto.Email,
		Password:        dto.Password,
		ConfirmPassword: dto.ConfirmPassword,
		Currency:        dto.Currency,
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	rest.WriteJSON(w, http.StatusCreated, SessionDTO{User: accountToDTO(account), Token: token})
}

// Login godoc
// @Summary Authenticate with email and password
// @Description Verify credentials and mint a session token, delivered both in the
// @Description response body and as an HttpOnly cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param login body LoginDTO true "Credentials"
// @Success 200 {object} SessionDTO
// @Failure 400 {object} rest.ErrorResponse "Missing or malformed fields"
// @Failure 401 {object} rest.ErrorResponse "Invalid credentials"
// @Router /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log.Debug("Authenticating account")

	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, apperr.Validation("invalid request body format"))
		return
	}
	var fields []apperr.FieldError
	switch {
	case dto.Email == "":
		fields = append(fields, apperr.FieldError{Field: "email", Message: "email is required"})
	case !emailPattern.MatchString(user.NormalizeEmail(dto.Email)):
		fields = append(fields, apperr.FieldError{Field: "email", Message: "email is not valid"})
	}
	if dto.Password == "" {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "password is required"})
	}
	if len(fields) > 0 {
		rest.WriteError(w, apperr.Validation("login data is invalid", fields...))
		return
	}

	account, token, err := h.authService.Authenticate(r.Context(), dto.Email, dto.Password)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	rest.WriteJSON(w, http.StatusOK, SessionDTO{User: accountToDTO(account), Token: token})
}

// Me godoc
// @Summary Get the authenticated account
// @Tags Auth
// @Produce json
// @Success 200 {object} AccountDTO
// @Failure 401 {object} rest.ErrorResponse
// @Router /api/auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	log.Trace("Getting current account")

	account, err := user.CurrentAccount(r.Context())
	if err != nil {
		rest.WriteError(w, apperr.Auth("authentication required"))
		return
	}
	rest.WriteJSON(w, http.StatusOK, map[string]AccountDTO{"user": accountToDTO(account)})
}

// CheckEmail godoc
// @Summary Check whether an email is already registered
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} object{exists=bool}
// @Failure 400 {object} rest.ErrorResponse "Missing email"
// @Router /api/auth/check-email [post]
func (h *Handler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	log.Trace("Checking email existence")

	var dto struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, apperr.Validation("invalid request body format"))
		return
	}
	if dto.Email == "" {
		rest.WriteError(w, apperr.Validation("email is required"))
		return
	}

	exists, err := h.userService.EmailExists(r.Context(), dto.Email)
	if err != nil {
		rest.WriteError(w, apperr.Internal("failed to check email", err))
		return
	}
	rest.WriteJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.Lifetime().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func accountToDTO(account user.Account) AccountDTO {
	return AccountDTO{
		Uid:       account.Uid,
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Currency:  string(account.Currency),
		CreatedAt: account.CreatedAt,
	}
}
