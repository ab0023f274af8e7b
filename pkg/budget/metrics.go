package budget

import "github.com/centsible/centsible/pkg/user"

// Summary holds the derived budget metrics. None of these values are stored;
// they are computed from the raw period fields at read time.
type Summary struct {
	TotalIncome      float64
	SpendingLimit    float64
	CurrentSpent     float64
	RemainingBudget  float64
	SavingGoal       float64
	CurrentSaved     float64
	SpendingProgress float64
	SavingsProgress  float64
	Currency         user.Currency
	IsOverBudget     bool
}

// Summarize derives the budget metrics for a period. Pure function: no I/O,
// no side effects. Progress values are percentages clamped to 100, and a zero
// denominator yields 0 progress rather than a division by zero.
func Summarize(period BudgetPeriod) Summary {
	return Summary{
		TotalIncome:      period.MonthlyIncome,
		SpendingLimit:    period.SpendingLimit,
		CurrentSpent:     period.CurrentSpent,
		RemainingBudget:  period.SpendingLimit - period.CurrentSpent,
		SavingGoal:       period.SavingGoal,
		CurrentSaved:     period.CurrentSaved,
		SpendingProgress: progress(period.CurrentSpent, period.SpendingLimit),
		SavingsProgress:  progress(period.CurrentSaved, period.SavingGoal),
		Currency:         period.Currency,
		IsOverBudget:     period.CurrentSpent > period.SpendingLimit,
	}
}

func progress(current, target float64) float64 {
	if target == 0 {
		return 0
	}
	p := current / target * 100
	if p > 100 {
		return 100
	}
	return p
}
