package budget

import (
	"context"
	"errors"
	"time"

	"github.com/centsible/centsible/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// ErrNoActivePeriod signals the absence of an active budget for the requested
// month. Absence is a valid state, not a failure.
var ErrNoActivePeriod = errors.New("no active budget period")

type Repo interface {
	FindActive(ctx context.Context, userId int, year int, month time.Month) (BudgetPeriod, error)
	// Store inserts a new period. A concurrent insert for the same
	// (user, year, month) surfaces as a ConflictError via the partial unique
	// index, never as a second active row.
	Store(ctx context.Context, period BudgetPeriod) (BudgetPeriod, error)
	// Update overwrites the planned figures of an existing period in place.
	// The running totals are not touched.
	Update(ctx context.Context, period BudgetPeriod) (BudgetPeriod, error)
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewBudgetRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

const periodColumns = `id, user_id, budget_year, budget_month, monthly_income, spending_limit, saving_goal,
			current_spent, current_saved, currency, start_date, is_active, created_at, updated_at`

func (r *RepoImpl) FindActive(ctx context.Context, userId int, year int, month time.Month) (BudgetPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM budget_periods
				WHERE user_id = $1 AND budget_year = $2 AND budget_month = $3 AND is_active`
	period, err := r.scanPeriod(r.db.QueryRow(ctx, query, userId, year, int(month)))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debugf("no active budget period for user %d in %d-%02d", userId, year, int(month))
		return BudgetPeriod{}, ErrNoActivePeriod
	} else if err != nil {
		log.Errorf("failed to find active budget period: %v", err)
		return BudgetPeriod{}, err
	}
	return period, nil
}

func (r *RepoImpl) Store(ctx context.Context, period BudgetPeriod) (BudgetPeriod, error) {
	query := `INSERT INTO budget_periods (user_id, budget_year, budget_month, monthly_income, spending_limit,
					saving_goal, current_spent, current_saved, currency, start_date)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				RETURNING id, is_active, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		period.UserId,
		period.Year,
		int(period.Month),
		period.MonthlyIncome,
		period.SpendingLimit,
		period.SavingGoal,
		period.CurrentSpent,
		period.CurrentSaved,
		period.Currency,
		period.StartDate,
	).Scan(&period.Id, &period.Active, &period.CreatedAt, &period.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrUniqueViolation {
			log.Debugf("concurrent budget period insert for user %d in %d-%02d", period.UserId, period.Year, int(period.Month))
			return BudgetPeriod{}, apperr.Conflict("budget for this month already exists")
		}
		log.Errorf("failed to store budget period: %v", err)
		return BudgetPeriod{}, err
	}
	return period, nil
}

func (r *RepoImpl) Update(ctx context.Context, period BudgetPeriod) (BudgetPeriod, error) {
	query := `UPDATE budget_periods SET
					monthly_income = $1,
					spending_limit = $2,
					saving_goal = $3,
					currency = $4,
					start_date = $5,
					updated_at = now()
				WHERE id = $6 AND user_id = $7
				RETURNING current_spent, current_saved, is_active, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		period.MonthlyIncome,
		period.SpendingLimit,
		period.SavingGoal,
		period.Currency,
		period.StartDate,
		period.Id,
		period.UserId,
	).Scan(&period.CurrentSpent, &period.CurrentSaved, &period.Active, &period.CreatedAt, &period.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return BudgetPeriod{}, ErrNoActivePeriod
	} else if err != nil {
		log.Errorf("failed to update budget period: %v", err)
		return BudgetPeriod{}, err
	}
	return period, nil
}

func (r *RepoImpl) scanPeriod(row pgx.Row) (BudgetPeriod, error) {
	var period BudgetPeriod
	var month int
	err := row.Scan(
		&period.Id,
		&period.UserId,
		&period.Year,
		&month,
		&period.MonthlyIncome,
		&period.SpendingLimit,
		&period.SavingGoal,
		&period.CurrentSpent,
		&period.CurrentSaved,
		&period.Currency,
		&period.StartDate,
		&period.Active,
		&period.CreatedAt,
		&period.UpdatedAt,
	)
	if err != nil {
		return BudgetPeriod{}, err
	}
	period.Month = time.Month(month)
	return period, nil
}

const pgerrUniqueViolation = "23505"
