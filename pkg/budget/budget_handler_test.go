package budget

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/centsible/centsible/internal/utils"
	"github.com/centsible/centsible/pkg/user"
	"github.com/stretchr/testify/assert"
)

func setupBudgetHandlerTest(t *testing.T) (*Handler, *StubBudgetRepo) {
	repo := NewStubBudgetRepo()
	t.Cleanup(repo.Cleanup)
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)}
	service := NewBudgetService(repo, clock)
	return NewHandler(service), repo
}

func postSetup(handler *Handler, userId int, dto SetupDTO) *httptest.ResponseRecorder {
	body, _ := json.Marshal(dto)
	req := httptest.NewRequest(http.MethodPost, "/api/budget/setup", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ctx := user.WithAccount(req.Context(), user.Account{Id: userId, Active: true})
	handler.Setup(w, req.WithContext(ctx))
	return w
}

func marchSetupDTO() SetupDTO {
	return SetupDTO{
		MonthlyIncome: f(5000),
		StartDate:     "2024-03-01",
		SpendingLimit: f(3000),
		SavingGoal:    f(1000),
		Currency:      "USD",
	}
}

func TestSetup_CreatesThenUpdates(t *testing.T) {
	handler, _ := setupBudgetHandlerTest(t)

	// First submission creates the period
	w := postSetup(handler, 1, marchSetupDTO())
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var created struct {
		Budget SummaryDTO `json:"budget"`
	}
	err := json.NewDecoder(w.Body).Decode(&created)
	assert.NoError(t, err)
	assert.Equal(t, 5000.0, created.Budget.TotalIncome)
	assert.Equal(t, 3000.0, created.Budget.RemainingBudget)
	assert.Equal(t, 0.0, created.Budget.SpendingProgress)

	// Second submission for the same month updates in place
	revised := marchSetupDTO()
	revised.MonthlyIncome = f(5500)
	revised.SpendingLimit = f(3200)
	w = postSetup(handler, 1, revised)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated struct {
		Budget SummaryDTO `json:"budget"`
	}
	err = json.NewDecoder(w.Body).Decode(&updated)
	assert.NoError(t, err)
	assert.Equal(t, 5500.0, updated.Budget.TotalIncome)
	assert.Equal(t, 3200.0, updated.Budget.SpendingLimit)
}

func TestSetup_ValidationFailureListsFields(t *testing.T) {
	handler, repo := setupBudgetHandlerTest(t)

	dto := marchSetupDTO()
	dto.MonthlyIncome = nil
	dto.Currency = "DOGE"
	w := postSetup(handler, 1, dto)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResponse struct {
		Error  string `json:"error"`
		Fields []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"fields"`
	}
	err := json.NewDecoder(w.Body).Decode(&errResponse)
	assert.NoError(t, err)
	assert.Equal(t, "budget data is invalid", errResponse.Error)

	fields := make([]string, 0, len(errResponse.Fields))
	for _, field := range errResponse.Fields {
		fields = append(fields, field.Field)
	}
	assert.Contains(t, fields, "monthlyIncome")
	assert.Contains(t, fields, "currency")
	assert.Empty(t, repo.periods)
}

func TestSetup_MalformedDate(t *testing.T) {
	handler, _ := setupBudgetHandlerTest(t)

	dto := marchSetupDTO()
	dto.StartDate = "03/01/2024"
	w := postSetup(handler, 1, dto)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetup_MalformedBody(t *testing.T) {
	handler, _ := setupBudgetHandlerTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/budget/setup", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ctx := user.WithAccount(req.Context(), user.Account{Id: 1, Active: true})
	handler.Setup(w, req.WithContext(ctx))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetup_Unauthenticated(t *testing.T) {
	handler, _ := setupBudgetHandlerTest(t)

	body, _ := json.Marshal(marchSetupDTO())
	req := httptest.NewRequest(http.MethodPost, "/api/budget/setup", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.Setup(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetCurrent_ReturnsSummary(t *testing.T) {
	handler, repo := setupBudgetHandlerTest(t)
	w := postSetup(handler, 1, marchSetupDTO())
	assert.Equal(t, http.StatusCreated, w.Code)
	repo.periods[0].CurrentSpent = 1500
	repo.periods[0].CurrentSaved = 250

	req := httptest.NewRequest(http.MethodGet, "/api/budget/current", nil)
	w = httptest.NewRecorder()
	ctx := user.WithAccount(req.Context(), user.Account{Id: 1, Active: true})
	handler.GetCurrent(w, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Budget SummaryDTO `json:"budget"`
	}
	err := json.NewDecoder(w.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, 1500.0, response.Budget.CurrentSpent)
	assert.Equal(t, 1500.0, response.Budget.RemainingBudget)
	assert.Equal(t, 50.0, response.Budget.SpendingProgress)
	assert.Equal(t, 25.0, response.Budget.SavingsProgress)
	assert.False(t, response.Budget.IsOverBudget)
}

func TestGetCurrent_NoBudgetThisMonth(t *testing.T) {
	handler, _ := setupBudgetHandlerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/budget/current", nil)
	w := httptest.NewRecorder()
	ctx := user.WithAccount(req.Context(), user.Account{Id: 1, Active: true})
	handler.GetCurrent(w, req.WithContext(ctx))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var errResponse struct {
		Error string `json:"error"`
	}
	err := json.NewDecoder(w.Body).Decode(&errResponse)
	assert.NoError(t, err)
	assert.Equal(t, "no active budget for the current month", errResponse.Error)
}

func TestGetCurrent_Unauthenticated(t *testing.T) {
	handler, _ := setupBudgetHandlerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/budget/current", nil)
	w := httptest.NewRecorder()
	handler.GetCurrent(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
