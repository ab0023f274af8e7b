package budget

import (
	"time"

	"github.com/centsible/centsible/internal/apperr"
	"github.com/centsible/centsible/pkg/user"
)

// BudgetPeriod is the single active budget record for one account for one
// calendar month. CurrentSpent and CurrentSaved are running totals that survive
// in-place updates of the planned figures.
type BudgetPeriod struct {
	Id            int
	UserId        int
	Year          int
	Month         time.Month
	MonthlyIncome float64
	SpendingLimit float64
	SavingGoal    float64
	CurrentSpent  float64
	CurrentSaved  float64
	Currency      user.Currency
	StartDate     time.Time
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Setup carries a budget submission before validation. The numeric fields are
// pointers so a missing field can be told apart from an explicit zero.
type Setup struct {
	MonthlyIncome *float64
	StartDate     time.Time
	SpendingLimit *float64
	SavingGoal    *float64
	Currency      user.Currency
}

// PeriodOf maps an instant to its calendar month. All period arithmetic in this
// package is done in UTC so findCurrent and upsert can never disagree on which
// month an instant belongs to.
func PeriodOf(t time.Time) (int, time.Month) {
	utc := t.UTC()
	return utc.Year(), utc.Month()
}

func validateSetup(setup Setup) error {
	var fields []apperr.FieldError

	switch {
	case setup.MonthlyIncome == nil:
		fields = append(fields, apperr.FieldError{Field: "monthlyIncome", Message: "monthly income is required"})
	case *setup.MonthlyIncome <= 0:
		fields = append(fields, apperr.FieldError{Field: "monthlyIncome", Message: "monthly income must be greater than 0"})
	}
	switch {
	case setup.SpendingLimit == nil:
		fields = append(fields, apperr.FieldError{Field: "spendingLimit", Message: "spending limit is required"})
	case *setup.SpendingLimit <= 0:
		fields = append(fields, apperr.FieldError{Field: "spendingLimit", Message: "spending limit must be greater than 0"})
	}
	switch {
	case setup.SavingGoal == nil:
		fields = append(fields, apperr.FieldError{Field: "savingGoal", Message: "saving goal is required"})
	case *setup.SavingGoal < 0:
		fields = append(fields, apperr.FieldError{Field: "savingGoal", Message: "saving goal must not be negative"})
	}
	if setup.StartDate.IsZero() {
		fields = append(fields, apperr.FieldError{Field: "startDate", Message: "start date is required"})
	}
	if !setup.Currency.IsSupported() {
		fields = append(fields, apperr.FieldError{Field: "currency", Message: "currency is not supported"})
	}

	if setup.MonthlyIncome != nil && setup.SpendingLimit != nil && setup.SavingGoal != nil &&
		*setup.SpendingLimit+*setup.SavingGoal > *setup.MonthlyIncome {
		fields = append(fields, apperr.FieldError{Field: "spendingLimit",
			Message: "spending limit plus saving goal must not exceed monthly income"})
	}

	if len(fields) > 0 {
		return apperr.Validation("budget data is invalid", fields...)
	}
	return nil
}
