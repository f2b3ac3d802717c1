package application

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	budgetingErrors "github.com/sebuszqo/BudgetManager/internal/budgeting/errors"
	"github.com/sebuszqo/BudgetManager/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depositInput(name string) DepositInput {
	return DepositInput{
		Name:        &name,
		Description: ptr("Main account"),
		DepositType: ptr(domain.DepositTypePersonal),
	}
}

func TestCreateDeposit_CreatesOneEntity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	budget := env.newBudget(t, "Home")

	deposit, err := env.deposits.CreateDeposit(ctx, budget.ID, depositInput("Bank account"))
	require.NoError(t, err)
	assert.True(t, deposit.IsActive)

	entities := env.store.EntitiesForDeposit(deposit.ID)
	require.Len(t, entities, 1)
	assert.Equal(t, "Bank account", entities[0].Name)
	assert.Equal(t, "Main account", entities[0].Description)
	assert.Equal(t, budget.ID, entities[0].BudgetID)
	assert.True(t, entities[0].IsDeposit())
	assert.Contains(t, env.publisher.Types(), events.DepositCreated)
}

func TestCreateDeposit_RollsBackWhenEntityFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	budget := env.newBudget(t, "Home")
	env.store.Fail["entities.Create"] = assert.AnError

	_, err := env.deposits.CreateDeposit(ctx, budget.ID, depositInput("Bank account"))
	assert.ErrorIs(t, err, assert.AnError)

	deposits, err := env.deposits.ListDeposits(ctx, budget.ID, domain.DepositFilter{})
	require.NoError(t, err)
	assert.Empty(t, deposits)
}

func TestCreateDeposit_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	budget := env.newBudget(t, "Home")

	_, err := env.deposits.CreateDeposit(ctx, budget.ID, depositInput("Bank account"))
	require.NoError(t, err)
	_, err = env.entities.CreateEntity(ctx, budget.ID, EntityInput{Name: ptr("Grocery store")})
	require.NoError(t, err)

	_, err = env.deposits.CreateDeposit(ctx, budget.ID, depositInput("Bank account"))
	assertFieldError(t, err, "name", "Deposit with given name already exists in Budget.")

	_, err = env.deposits.CreateDeposit(ctx, budget.ID, depositInput("Grocery store"))
	assertFieldError(t, err, "name", "Entity with given name already exists in Budget.")

	in := depositInput("Savings")
	in.DepositType = ptr(domain.DepositType(7))
	_, err = env.deposits.CreateDeposit(ctx, budget.ID, in)
	assertFieldError(t, err, "deposit_type", `"7" is not a valid choice.`)

	in = depositInput("Savings")
	in.DepositType = nil
	_, err = env.deposits.CreateDeposit(ctx, budget.ID, in)
	assertFieldError(t, err, "deposit_type", budgetingErrors.RequiredMsg())
}

func TestCreateDeposit_OwnerMustBelongToBudget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	budget := env.newBudget(t, "Home")

	for _, id := range []string{outsiderID, uuid.NewString()} {
		in := depositInput("Wallet")
		in.Owner = owner(id)
		_, err := env.deposits.CreateDeposit(ctx, budget.ID, in)
		assertFieldError(t, err, "owner", msgOwnerNotInBudget)
	}

	in := depositInput("Wallet")
	in.Owner = owner(memberID)
	deposit, err := env.deposits.CreateDeposit(ctx, budget.ID, in)
	require.NoError(t, err)
	require.NotNil(t, deposit.OwnerID)
	assert.Equal(t, memberID, *deposit.OwnerID)
}

func TestCreateDeposit_OwnerIDCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	budget := env.newBudget(t, "Home")

	in := depositInput("Wallet")
	in.Owner = owner(strings.ToUpper(memberID))
	deposit, err := env.deposits.CreateDeposit(ctx, budget.ID, in)
	require.NoError(t, err)
	require.NotNil(t, deposit.OwnerID)
	assert.Equal(t, memberID, *deposit.OwnerID)
}

func TestUpdateDeposit_OwnerRemovedFromBudget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	budget := env.newBudget(t, "Home")

	in := depositInput("Wallet")
	in.Owner = owner(memberID)
	deposit, err := env.deposits.CreateDeposit(ctx, budget.ID, in)
	require.NoError(t, err)
	_, err = env.budgets.UpdateBudget(ctx, budget.ID, BudgetInput{Members: &[]string{}}, true)
	require.NoError(t, err)

	updated, err := env.deposits.UpdateDeposit(ctx, budget.ID, deposit.ID, DepositInput{IsActive: ptr(false)}, true)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	require.NotNil(t, updated.OwnerID)
	assert.Equal(t, memberID, *updated.OwnerID)

	_, err = env.deposits.UpdateDeposit(ctx, budget.ID, deposit.ID, DepositInput{Owner: owner(memberID)}, true)
	assertFieldError(t, err, "owner", msgOwnerNotInBudget)

	_, err = env.deposits.UpdateDeposit(ctx, budget.ID, deposit.ID, DepositInput{Owner: owner(ownerID)}, true)
	assert.NoError(t, err)
}

func TestUpdateDeposit_SyncsEntity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	budget := env.newBudget(t, "Home")
	deposit, err := env.deposits.CreateDeposit(ctx, budget.ID, depositInput("Bank account"))
	require.NoError(t, err)

	updated, err := env.deposits.UpdateDeposit(ctx, budget.ID, deposit.ID, DepositInput{
		Name:     ptr("Savings account"),
		IsActive: ptr(false),
	}, true)
	require.NoError(t, err)
	assert.Equal(t, "Savings account", updated.Name)
	assert.Equal(t, "Main account", updated.Description)

	entities := env.store.EntitiesForDeposit(deposit.ID)
	require.Len(t, entities, 1)
	assert.Equal(t, "Savings account", entities[0].Name)
	assert.False(t, entities[0].IsActive)

	// keeping its own name does not collide with its entity
	_, err = env.deposits.UpdateDeposit(ctx, budget.ID, deposit.ID, DepositInput{Description: ptr("Renamed")}, true)
	assert.NoError(t, err)
}

func TestUpdateDeposit_RollsBackWhenEntityFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	budget := env.newBudget(t, "Home")
	deposit, err := env.deposits.CreateDeposit(ctx, budget.ID, depositInput("Bank account"))
	require.NoError(t, err)
	env.store.Fail["entities.Update"] = assert.AnError

	_, err = env.deposits.UpdateDeposit(ctx, budget.ID, deposit.ID, DepositInput{Name: ptr("Savings account")}, true)
	assert.ErrorIs(t, err, assert.AnError)

	stored, err := env.deposits.GetDeposit(ctx, budget.ID, deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bank account", stored.Name)
}

func TestDeleteDeposit_RemovesEntity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	budget := env.newBudget(t, "Home")
	deposit, err := env.deposits.CreateDeposit(ctx, budget.ID, depositInput("Bank account"))
	require.NoError(t, err)

	require.NoError(t, env.deposits.DeleteDeposit(ctx, budget.ID, deposit.ID))
	assert.Empty(t, env.store.EntitiesForDeposit(deposit.ID))

	_, err = env.deposits.GetDeposit(ctx, budget.ID, deposit.ID)
	assert.ErrorIs(t, err, budgetingErrors.ErrNotFound)
}
