package budget

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/centsible/centsible/internal/apperr"
	"github.com/centsible/centsible/internal/rest"
	"github.com/centsible/centsible/pkg/user"
	log "github.com/sirupsen/logrus"
)

type SetupDTO struct {
	MonthlyIncome *float64 `json:"monthlyIncome"`
	StartDate     string   `json:"startDate"`
	SpendingLimit *float64 `json:"spendingLimit"`
	SavingGoal    *float64 `json:"savingGoal"`
	Currency      string   `json:"currency"`
}

type SummaryDTO struct {
	TotalIncome      float64 `json:"totalIncome"`
	SpendingLimit    float64 `json:"spendingLimit"`
	CurrentSpent     float64 `json:"currentSpent"`
	RemainingBudget  float64 `json:"remainingBudget"`
	SavingGoal       float64 `json:"savingGoal"`
	CurrentSaved     float64 `json:"currentSaved"`
	SpendingProgress float64 `json:"spendingProgress"`
	SavingsProgress  float64 `json:"savingsProgress"`
	Currency         string  `json:"currency"`
	IsOverBudget     bool    `json:"isOverBudget"`
}

type Handler struct {
	budgetService Service
}

func NewHandler(budgetService Service) *Handler {
	return &Handler{budgetService: budgetService}
}

// GetCurrent godoc
// @Summary Get the current month's budget
// @Description Resolve the active budget period for the current calendar month
// @Description and return its derived metrics
// @Tags Budget
// @Produce json
// @Success 200 {object} object{budget=SummaryDTO}
// @Failure 401 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse "No active budget this month"
// @Router /api/budget/current [get]
func (h *Handler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	log.Trace("Getting current budget")

	period, err := h.budgetService.FindCurrent(r.Context())
	if err != nil {
		writeBudgetError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, map[string]SummaryDTO{"budget": summaryToDTO(Summarize(period))})
}

// Setup godoc
// @Summary Create or update the budget for a month
// @Description Upsert the budget period for the calendar month containing startDate.
// @Description Running totals are preserved across updates.
// @Tags Budget
// @Accept json
// @Produce json
// @Param budget body SetupDTO true "Budget figures"
// @Success 200 {object} object{budget=SummaryDTO} "Existing period updated"
// @Success 201 {object} object{budget=SummaryDTO} "New period created"
// @Failure 400 {object} rest.ErrorResponse "Validation failure"
// @Failure 401 {object} rest.ErrorResponse
// @Router /api/budget/setup [post]
func (h *Handler) Setup(w http.ResponseWriter, r *http.Request) {
	log.Debug("Submitting budget setup")

	var dto SetupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, apperr.Validation("invalid request body format"))
		return
	}

	setup, err := dtoToSetup(dto)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	period, created, err := h.budgetService.Upsert(r.Context(), setup)
	if err != nil {
		writeBudgetError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	rest.WriteJSON(w, status, map[string]SummaryDTO{"budget": summaryToDTO(Summarize(period))})
}

// writeBudgetError keeps the 401 contract when a handler is reached without an
// authenticated account in context.
func writeBudgetError(w http.ResponseWriter, err error) {
	if errors.Is(err, user.ErrNoAccount) {
		rest.WriteError(w, apperr.Auth("authentication required"))
		return
	}
	rest.WriteError(w, err)
}

func dtoToSetup(dto SetupDTO) (Setup, error) {
	var startDate time.Time
	if dto.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", dto.StartDate)
		if err != nil {
			return Setup{}, apperr.Validation("budget data is invalid",
				apperr.FieldError{Field: "startDate", Message: "start date must be formatted as YYYY-MM-DD"})
		}
		startDate = parsed
	}
	return Setup{
		MonthlyIncome: dto.MonthlyIncome,
		StartDate:     startDate,
		SpendingLimit: dto.SpendingLimit,
		SavingGoal:    dto.SavingGoal,
		Currency:      user.Currency(dto.Currency),
	}, nil
}

func summaryToDTO(summary Summary) SummaryDTO {
	return SummaryDTO{
		TotalIncome:      summary.TotalIncome,
		SpendingLimit:    summary.SpendingLimit,
		CurrentSpent:     summary.CurrentSpent,
		RemainingBudget:  summary.RemainingBudget,
		SavingGoal:       summary.SavingGoal,
		CurrentSaved:     summary.CurrentSaved,
		SpendingProgress: summary.SpendingProgress,
		SavingsProgress:  summary.SavingsProgress,
		Currency:         string(summary.Currency),
		IsOverBudget:     summary.IsOverBudget,
	}
}
