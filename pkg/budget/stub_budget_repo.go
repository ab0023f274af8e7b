package budget

import (
	"context"
	"time"

	"github.com/centsible/centsible/internal/apperr"
)

// StubBudgetRepo is an in-memory Repo for tests. It enforces the same
// single-active-period-per-month rule as the partial unique index.
type StubBudgetRepo struct {
	periods []BudgetPeriod
	nextId  int
	// StoreConflict, when set, makes the next Store call seed this period and
	// report a uniqueness conflict, simulating a concurrent insert that
	// committed between the caller's lookup and its insert.
	StoreConflict *BudgetPeriod
}

func NewStubBudgetRepo() *StubBudgetRepo {
	return &StubBudgetRepo{nextId: 1}
}

func (s *StubBudgetRepo) FindActive(_ context.Context, userId int, year int, month time.Month) (BudgetPeriod, error) {
	for _, period := range s.periods {
		if period.UserId == userId && period.Year == year && period.Month == month && period.Active {
			return period, nil
		}
	}
	return BudgetPeriod{}, ErrNoActivePeriod
}

func (s *StubBudgetRepo) Store(_ context.Context, period BudgetPeriod) (BudgetPeriod, error) {
	if s.StoreConflict != nil {
		s.Seed(*s.StoreConflict)
		s.StoreConflict = nil
		return BudgetPeriod{}, apperr.Conflict("budget for this month already exists")
	}
	for _, existing := range s.periods {
		if existing.UserId == period.UserId && existing.Year == period.Year &&
			existing.Month == period.Month && existing.Active {
			return BudgetPeriod{}, apperr.Conflict("budget for this month already exists")
		}
	}
	period.Id = s.nextId
	period.Active = true
	period.CreatedAt = time.Now().UTC()
	period.UpdatedAt = period.CreatedAt
	s.nextId++
	s.periods = append(s.periods, period)
	return period, nil
}

func (s *StubBudgetRepo) Update(_ context.Context, period BudgetPeriod) (BudgetPeriod, error) {
	for i, existing := range s.periods {
		if existing.Id == period.Id && existing.UserId == period.UserId {
			existing.MonthlyIncome = period.MonthlyIncome
			existing.SpendingLimit = period.SpendingLimit
			existing.SavingGoal = period.SavingGoal
			existing.Currency = period.Currency
			existing.StartDate = period.StartDate
			existing.UpdatedAt = time.Now().UTC()
			s.periods[i] = existing
			return existing, nil
		}
	}
	return BudgetPeriod{}, ErrNoActivePeriod
}

// Seed inserts a period directly, bypassing Store's conflict checks.
func (s *StubBudgetRepo) Seed(period BudgetPeriod) BudgetPeriod {
	period.Id = s.nextId
	s.nextId++
	s.periods = append(s.periods, period)
	return period
}

func (s *StubBudgetRepo) Cleanup() {
	s.periods = nil
	s.nextId = 1
	s.StoreConflict = nil
}
