package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	budgetingErrors "github.com/sebuszqo/BudgetManager/internal/budgeting/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type predictionFixture struct {
	budget   *domain.Budget
	period   *domain.BudgetingPeriod
	expense  *domain.TransferCategory
	income   *domain.TransferCategory
	personal *domain.TransferCategory
}

func newPredictionFixture(t *testing.T, env *testEnv) predictionFixture {
	t.Helper()
	ctx := context.Background()
	f := predictionFixture{budget: env.newBudget(t, "Home")}

	var err error
	f.period, err = env.periods.CreatePeriod(ctx, f.budget.ID,
		periodInput("2024_01", domain.NewDate(2024, time.January, 1), domain.NewDate(2024, time.January, 31), true))
	require.NoError(t, err)
	f.expense, err = env.categories.CreateCategory(ctx, f.budget.ID, expenseKind, categoryInput("Car", OptionalOwner{}))
	require.NoError(t, err)
	f.income, err = env.categories.CreateCategory(ctx, f.budget.ID, incomeKind, categoryInput("Tips", OptionalOwner{}))
	require.NoError(t, err)
	f.personal, err = env.categories.CreateCategory(ctx, f.budget.ID, expenseKind, categoryInput("Books", owner(memberID)))
	require.NoError(t, err)
	return f
}

func predictionInput(periodID, categoryID uuid.UUID, value string) PredictionInput {
	v := decimal.RequireFromString(value)
	return PredictionInput{PeriodID: &periodID, CategoryID: &categoryID, Value: &v}
}

func TestCreatePrediction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := newPredictionFixture(t, env)

	prediction, err := env.predictions.CreatePrediction(ctx, f.budget.ID, predictionInput(f.period.ID, f.expense.ID, "250.50"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("250.5").Equal(prediction.Value))

	_, err = env.predictions.CreatePrediction(ctx, f.budget.ID, predictionInput(f.period.ID, f.expense.ID, "10"))
	assertFieldError(t, err, budgetingErrors.NonFieldErrors, "Expense prediction for selected Period and Category already exists.")
}

func TestCreatePrediction_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := newPredictionFixture(t, env)
	other := env.newBudget(t, "Other")
	foreignPeriod, err := env.periods.CreatePeriod(ctx, other.ID,
		periodInput("2024_01", domain.NewDate(2024, time.January, 1), domain.NewDate(2024, time.January, 31), false))
	require.NoError(t, err)

	tests := []struct {
		name  string
		in    PredictionInput
		field string
		msg   string
	}{
		{"negative value", predictionInput(f.period.ID, f.expense.ID, "-1"), "value", "Ensure this value is greater than or equal to 0."},
		{"too many decimal places", predictionInput(f.period.ID, f.expense.ID, "1.005"), "value", "Ensure that there are no more than 2 decimal places."},
		{"too many digits", predictionInput(f.period.ID, f.expense.ID, "100000000"), "value", "Ensure that there are no more than 8 digits before the decimal point."},
		{"missing value", PredictionInput{PeriodID: &f.period.ID, CategoryID: &f.expense.ID}, "value", budgetingErrors.RequiredMsg()},
		{"income category", predictionInput(f.period.ID, f.income.ID, "1"), "category", "Expense prediction can be assigned only to ExpenseCategory."},
		{"unknown category", predictionInput(f.period.ID, uuid.New(), "1"), "category", "Category does not belong to Budget."},
		{"period of other budget", predictionInput(foreignPeriod.ID, f.expense.ID, "1"), "period", "Budgeting period does not belong to Budget."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.predictions.CreatePrediction(ctx, f.budget.ID, tt.in)
			assertFieldError(t, err, tt.field, tt.msg)
		})
	}

	_, err = env.predictions.CreatePrediction(ctx, f.budget.ID, predictionInput(f.period.ID, f.expense.ID, "99999999.99"))
	assert.NoError(t, err)
}

func TestUpdatePrediction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := newPredictionFixture(t, env)

	prediction, err := env.predictions.CreatePrediction(ctx, f.budget.ID, predictionInput(f.period.ID, f.expense.ID, "100"))
	require.NoError(t, err)
	_, err = env.predictions.CreatePrediction(ctx, f.budget.ID, predictionInput(f.period.ID, f.personal.ID, "20"))
	require.NoError(t, err)

	value := decimal.RequireFromString("120.00")
	updated, err := env.predictions.UpdatePrediction(ctx, f.budget.ID, prediction.ID, PredictionInput{Value: &value}, true)
	require.NoError(t, err)
	assert.True(t, value.Equal(updated.Value))
	assert.Equal(t, f.expense.ID, updated.CategoryID)

	_, err = env.predictions.UpdatePrediction(ctx, f.budget.ID, prediction.ID, PredictionInput{CategoryID: &f.personal.ID}, true)
	assertFieldError(t, err, budgetingErrors.NonFieldErrors, "Expense prediction for selected Period and Category already exists.")
}

func TestListPredictions_Filters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := newPredictionFixture(t, env)

	_, err := env.predictions.CreatePrediction(ctx, f.budget.ID, predictionInput(f.period.ID, f.expense.ID, "100"))
	require.NoError(t, err)
	_, err = env.predictions.CreatePrediction(ctx, f.budget.ID, predictionInput(f.period.ID, f.personal.ID, "20"))
	require.NoError(t, err)

	all, err := env.predictions.ListPredictions(ctx, f.budget.ID, domain.PredictionFilter{PeriodID: &f.period.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := env.predictions.ListPredictions(ctx, f.budget.ID, domain.PredictionFilter{OwnerID: ptr(memberID)})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.personal.ID, mine[0].CategoryID)

	// removing the period removes its predictions
	require.NoError(t, env.periods.DeletePeriod(ctx, f.budget.ID, f.period.ID))
	left, err := env.predictions.ListPredictions(ctx, f.budget.ID, domain.PredictionFilter{})
	require.NoError(t, err)
	assert.Empty(t, left)
}
