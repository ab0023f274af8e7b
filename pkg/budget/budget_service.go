package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/centsible/centsible/internal/apperr"
	"github.com/centsible/centsible/internal/utils"
	"github.com/centsible/centsible/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// FindCurrent resolves the active budget period for the authenticated
	// account and the current (UTC) calendar month. Returns NotFoundError when
	// no budget has been submitted for this month.
	FindCurrent(ctx context.Context) (BudgetPeriod, error)
	// Upsert creates the period for the month containing setup.StartDate, or
	// overwrites the planned figures of the existing one in place. The second
	// return value is true when a new period was created.
	Upsert(ctx context.Context, setup Setup) (BudgetPeriod, bool, error)
}

type ServiceImpl struct {
	repo  Repo
	clock utils.Clock
}

func NewBudgetService(repo Repo, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) FindCurrent(ctx context.Context) (BudgetPeriod, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return BudgetPeriod{}, fmt.Errorf("failed to get current account: %w", err)
	}

	year, month := PeriodOf(s.clock.Now())
	period, err := s.repo.FindActive(ctx, userId, year, month)
	if errors.Is(err, ErrNoActivePeriod) {
		return BudgetPeriod{}, apperr.NotFound("no active budget for the current month")
	} else if err != nil {
		return BudgetPeriod{}, apperr.Internal("failed to load current budget", err)
	}
	return period, nil
}

func (s *ServiceImpl) Upsert(ctx context.Context, setup Setup) (BudgetPeriod, bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return BudgetPeriod{}, false, fmt.Errorf("failed to get current account: %w", err)
	}

	// Validate before touching storage; a rejected submission must leave the
	// existing period untouched.
	if err := validateSetup(setup); err != nil {
		return BudgetPeriod{}, false, err
	}

	year, month := PeriodOf(setup.StartDate)

	existing, err := s.repo.FindActive(ctx, userId, year, month)
	if err == nil {
		updated, err := s.overwrite(ctx, existing, setup)
		return updated, false, err
	}
	if !errors.Is(err, ErrNoActivePeriod) {
		return BudgetPeriod{}, false, apperr.Internal("failed to look up budget period", err)
	}

	created, err := s.repo.Store(ctx, BudgetPeriod{
		UserId:        userId,
		Year:          year,
		Month:         month,
		MonthlyIncome: *setup.MonthlyIncome,
		SpendingLimit: *setup.SpendingLimit,
		SavingGoal:    *setup.SavingGoal,
		Currency:      setup.Currency,
		StartDate:     setup.StartDate,
	})
	if err == nil {
		log.Infof("created budget period %d-%02d for user %d", year, int(month), userId)
		return created, true, nil
	}

	// Two submissions raced past the lookup; the unique index rejected the
	// second insert. Re-read and fall back to an in-place update.
	if apperr.KindOf(err) == apperr.KindConflict {
		existing, findErr := s.repo.FindActive(ctx, userId, year, month)
		if findErr != nil {
			return BudgetPeriod{}, false, apperr.Internal("failed to resolve concurrent budget submission", findErr)
		}
		updated, err := s.overwrite(ctx, existing, setup)
		return updated, false, err
	}
	return BudgetPeriod{}, false, apperr.Internal("failed to create budget period", err)
}

func (s *ServiceImpl) overwrite(ctx context.Context, existing BudgetPeriod, setup Setup) (BudgetPeriod, error) {
	existing.MonthlyIncome = *setup.MonthlyIncome
	existing.SpendingLimit = *setup.SpendingLimit
	existing.SavingGoal = *setup.SavingGoal
	existing.Currency = setup.Currency
	existing.StartDate = setup.StartDate

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return BudgetPeriod{}, apperr.Internal("failed to update budget period", err)
	}
	log.Infof("updated budget period %d-%02d for user %d", updated.Year, int(updated.Month), updated.UserId)
	return updated, nil
}
