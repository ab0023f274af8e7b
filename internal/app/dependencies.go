package app

import (
	"time"

	"github.com/centsible/centsible/internal/config"
	"github.com/centsible/centsible/internal/utils"
	"github.com/centsible/centsible/pkg/auth"
	"github.com/centsible/centsible/pkg/budget"
	"github.com/centsible/centsible/pkg/user"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	UserRepo    user.Repo
	UserService user.Service

	TokenService   *auth.TokenService
	AuthService    auth.Service
	AuthMiddleware *auth.Middleware
	AuthHandler    *auth.Handler

	BudgetRepo    budget.Repo
	BudgetService budget.Service
	BudgetHandler *budget.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.UserRepo = user.NewUserRepo(db)
	deps.UserService = user.NewUserService(deps.UserRepo)

	tokenLifetime := time.Duration(cfg.Auth.TokenLifetimeSeconds) * time.Second
	deps.TokenService = auth.NewTokenService(cfg.Auth.Secret, tokenLifetime, deps.Clock)
	deps.AuthService = auth.NewAuthService(deps.UserService, deps.TokenService, cfg.Auth.BcryptCost)
	deps.AuthMiddleware = auth.NewMiddleware(deps.TokenService, deps.UserService)
	deps.AuthHandler = auth.NewHandler(deps.AuthService, deps.UserService, deps.TokenService)

	deps.BudgetRepo = budget.NewBudgetRepo(db)
	deps.BudgetService = budget.NewBudgetService(deps.BudgetRepo, deps.Clock)
	deps.BudgetHandler = budget.NewHandler(deps.BudgetService)

	return deps
}
