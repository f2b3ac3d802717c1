package application

import (
	"context"
	"testing"
	"time"

	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	budgetingErrors "github.com/sebuszqo/BudgetManager/internal/budgeting/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func periodInput(name string, start, end domain.Date, active bool) PeriodInput {
	return PeriodInput{Name: &name, DateStart: &start, DateEnd: &end, IsActive: &active}
}

func TestCreatePeriod_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	budget := env.newBudget(t, "Home")

	jan := periodInput("2024_01", domain.NewDate(2024, time.January, 1), domain.NewDate(2024, time.January, 31), true)
	_, err := env.periods.CreatePeriod(ctx, budget.ID, jan)
	require.NoError(t, err)

	tests := []struct {
		name  string
		in    PeriodInput
		field string
		msg   string
	}{
		{
			name:  "missing dates",
			in:    PeriodInput{Name: ptr("2024_02")},
			field: "date_start",
			msg:   budgetingErrors.RequiredMsg(),
		},
		{
			name:  "start after end",
			in:    periodInput("2024_02", domain.NewDate(2024, time.February, 28), domain.NewDate(2024, time.February, 1), false),
			field: budgetingErrors.NonFieldErrors,
			msg:   "Start date should be earlier than end date.",
		},
		{
			name:  "duplicated name",
			in:    periodInput("2024_01", domain.NewDate(2024, time.March, 1), domain.NewDate(2024, time.March, 31), false),
			field: "name",
			msg:   "Period with given name already exists in Budget.",
		},
		{
			name:  "overlapping range",
			in:    periodInput("2024_02", domain.NewDate(2024, time.January, 31), domain.NewDate(2024, time.February, 28), false),
			field: budgetingErrors.NonFieldErrors,
			msg:   "Budgeting period date range collides with other period in Budget.",
		},
		{
			name:  "second active period",
			in:    periodInput("2024_02", domain.NewDate(2024, time.February, 1), domain.NewDate(2024, time.February, 28), true),
			field: "is_active",
			msg:   "Active period already exists in Budget.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.periods.CreatePeriod(ctx, budget.ID, tt.in)
			assertFieldError(t, err, tt.field, tt.msg)
		})
	}

	feb := periodInput("2024_02", domain.NewDate(2024, time.February, 1), domain.NewDate(2024, time.February, 29), false)
	_, err = env.periods.CreatePeriod(ctx, budget.ID, feb)
	assert.NoError(t, err)
}

func TestUpdatePeriod_ExcludesItself(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	budget := env.newBudget(t, "Home")

	period, err := env.periods.CreatePeriod(ctx, budget.ID,
		periodInput("2024_01", domain.NewDate(2024, time.January, 1), domain.NewDate(2024, time.January, 31), true))
	require.NoError(t, err)

	updated, err := env.periods.UpdatePeriod(ctx, budget.ID, period.ID, PeriodInput{DateEnd: ptr(domain.NewDate(2024, time.February, 2))}, true)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-02", updated.DateEnd.String())
	assert.True(t, updated.IsActive)

	put, err := env.periods.UpdatePeriod(ctx, budget.ID, period.ID, PeriodInput{
		Name:      ptr("January"),
		DateStart: ptr(domain.NewDate(2024, time.January, 1)),
		DateEnd:   ptr(domain.NewDate(2024, time.January, 31)),
	}, false)
	require.NoError(t, err)
	assert.False(t, put.IsActive)
}

func TestPeriods_ScopedToBudget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	home := env.newBudget(t, "Home")
	trip := env.newBudget(t, "Trip")

	in := periodInput("2024_01", domain.NewDate(2024, time.January, 1), domain.NewDate(2024, time.January, 31), true)
	period, err := env.periods.CreatePeriod(ctx, home.ID, in)
	require.NoError(t, err)
	_, err = env.periods.CreatePeriod(ctx, trip.ID, in)
	require.NoError(t, err, "names and ranges are unique per budget")

	_, err = env.periods.GetPeriod(ctx, trip.ID, period.ID)
	assert.ErrorIs(t, err, budgetingErrors.ErrNotFound)
	assert.ErrorIs(t, env.periods.DeletePeriod(ctx, trip.ID, period.ID), budgetingErrors.ErrNotFound)
	assert.NoError(t, env.periods.DeletePeriod(ctx, home.ID, period.ID))
}
