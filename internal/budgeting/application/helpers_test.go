package application

import (
	"context"
	"testing"

	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	budgetingErrors "github.com/sebuszqo/BudgetManager/internal/budgeting/errors"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/infrastructure"
	"github.com/sebuszqo/BudgetManager/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerID    = "7d3f2c1e-0000-4000-8000-000000000001"
	memberID   = "7d3f2c1e-0000-4000-8000-000000000002"
	outsiderID = "7d3f2c1e-0000-4000-8000-000000000003"
)

type testEnv struct {
	store       *infrastructure.MockStore
	publisher   *events.RecordingPublisher
	budgets     BudgetService
	periods     PeriodService
	deposits    DepositService
	entities    EntityService
	categories  CategoryService
	predictions PredictionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := infrastructure.NewMockStore(ownerID, memberID, outsiderID)
	publisher := &events.RecordingPublisher{}
	return &testEnv{
		store:       store,
		publisher:   publisher,
		budgets:     NewBudgetService(store.Budgets(), store.Categories(), store.Users(), store, publisher),
		periods:     NewPeriodService(store.Periods(), publisher),
		deposits:    NewDepositService(store.Deposits(), store.Entities(), store.Budgets(), store, publisher),
		entities:    NewEntityService(store.Entities(), publisher),
		categories:  NewCategoryService(store.Categories(), store.Budgets(), publisher),
		predictions: NewPredictionService(store.Predictions(), store.Periods(), store.Categories(), publisher),
	}
}

// newBudget creates a budget owned by ownerID with memberID as its only member.
func (e *testEnv) newBudget(t *testing.T, name string) *domain.Budget {
	t.Helper()
	budget, err := e.budgets.CreateBudget(context.Background(), ownerID, BudgetInput{
		Name:    ptr(name),
		Members: &[]string{memberID},
	})
	require.NoError(t, err)
	return budget
}

func ptr[T any](v T) *T {
	return &v
}

func owner(id string) OptionalOwner {
	return OptionalOwner{Set: true, ID: &id}
}

// assertFieldError checks err is a validation error carrying msg on field.
func assertFieldError(t *testing.T, err error, field, msg string) {
	t.Helper()
	verr, ok := budgetingErrors.AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Contains(t, verr.Fields[field], msg)
}
