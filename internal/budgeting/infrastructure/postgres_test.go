package infrastructure_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/application"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	budgetingErrors "github.com/sebuszqo/BudgetManager/internal/budgeting/errors"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/infrastructure"
	database "github.com/sebuszqo/BudgetManager/internal/db"
	"github.com/sebuszqo/BudgetManager/internal/db/dbtest"
	"github.com/sebuszqo/BudgetManager/internal/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertUser(t *testing.T, db *sql.DB) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO users (id, email, name, password_hash, hash_token) VALUES ($1, $2, '', 'x', 'y')`,
		id, id+"@example.com")
	require.NoError(t, err)
	return id
}

func ptr[T any](v T) *T {
	return &v
}

type pgEnv struct {
	budgets     application.BudgetService
	periods     application.PeriodService
	deposits    application.DepositService
	entities    application.EntityService
	categories  application.CategoryService
	predictions application.PredictionService

	categoryRepo domain.CategoryRepository
}

func newPgEnv(db *sql.DB) *pgEnv {
	budgetRepo := infrastructure.NewBudgetRepository(db)
	periodRepo := infrastructure.NewPeriodRepository(db)
	depositRepo := infrastructure.NewDepositRepository(db)
	entityRepo := infrastructure.NewEntityRepository(db)
	categoryRepo := infrastructure.NewCategoryRepository(db)
	predictionRepo := infrastructure.NewPredictionRepository(db)
	tx := database.NewTxManager(db)
	publisher := events.NoopPublisher{}

	return &pgEnv{
		budgets:      application.NewBudgetService(budgetRepo, categoryRepo, infrastructure.NewUserDirectory(db), tx, publisher),
		periods:      application.NewPeriodService(periodRepo, publisher),
		deposits:     application.NewDepositService(depositRepo, entityRepo, budgetRepo, tx, publisher),
		entities:     application.NewEntityService(entityRepo, publisher),
		categories:   application.NewCategoryService(categoryRepo, budgetRepo, publisher),
		predictions:  application.NewPredictionService(predictionRepo, periodRepo, categoryRepo, publisher),
		categoryRepo: categoryRepo,
	}
}

func TestPostgresRepositories(t *testing.T) {
	db := dbtest.NewPostgres(t)
	env := newPgEnv(db)
	ctx := context.Background()

	ownerID, memberID, outsiderID := insertUser(t, db), insertUser(t, db), insertUser(t, db)

	budget, err := env.budgets.CreateBudget(ctx, ownerID, application.BudgetInput{
		Name:     ptr("Home"),
		Currency: ptr("PLN"),
		Members:  &[]string{memberID},
	})
	require.NoError(t, err)

	t.Run("budget members and access", func(t *testing.T) {
		found, err := env.budgets.CheckAccess(ctx, budget.ID, memberID)
		require.NoError(t, err)
		assert.Equal(t, []string{memberID}, found.MemberIDs)

		_, err = env.budgets.CheckAccess(ctx, budget.ID, outsiderID)
		assert.ErrorIs(t, err, budgetingErrors.ErrNoBudgetAccess)

		owned, err := env.budgets.ListBudgets(ctx, memberID, domain.BudgetScopeOwned)
		require.NoError(t, err)
		assert.Empty(t, owned)
		membered, err := env.budgets.ListBudgets(ctx, memberID, domain.BudgetScopeMembered)
		require.NoError(t, err)
		assert.Len(t, membered, 1)

		_, err = env.budgets.CreateBudget(ctx, ownerID, application.BudgetInput{
			Name:    ptr("Broken"),
			Members: &[]string{uuid.NewString()},
		})
		assert.True(t, budgetingErrors.IsValidationError(err))
	})

	t.Run("default categories", func(t *testing.T) {
		all, err := env.categories.ListCategories(ctx, budget.ID, nil, domain.CategoryFilter{})
		require.NoError(t, err)
		assert.Len(t, all, len(domain.DefaultCategories(budget.ID)))
		for _, c := range all {
			assert.Nil(t, c.OwnerID)
		}
	})

	t.Run("category name scopes", func(t *testing.T) {
		expense := domain.CategoryTypeExpense
		in := application.CategoryInput{
			Name:  ptr("Gym"),
			Group: ptr(domain.ExpenseGroupOthers),
			Owner: application.OptionalOwner{Set: true, ID: &memberID},
		}
		_, err := env.categories.CreateCategory(ctx, budget.ID, &expense, in)
		require.NoError(t, err)

		_, err = env.categories.CreateCategory(ctx, budget.ID, &expense, in)
		assert.True(t, budgetingErrors.IsValidationError(err))

		in.Owner = application.OptionalOwner{Set: true, ID: &ownerID}
		_, err = env.categories.CreateCategory(ctx, budget.ID, &expense, in)
		assert.NoError(t, err)

		in.Owner = application.OptionalOwner{}
		_, err = env.categories.CreateCategory(ctx, budget.ID, &expense, in)
		assert.NoError(t, err, "a common category may share the name of personal ones")

		// the partial unique index backs the application check
		err = env.categoryRepo.Create(ctx, &domain.TransferCategory{
			ID: uuid.New(), BudgetID: budget.ID, Type: expense, Name: "Gym", Group: domain.ExpenseGroupOthers, IsActive: true,
		})
		assert.ErrorIs(t, err, budgetingErrors.ErrDuplicate)

		personal, err := env.categories.ListCategories(ctx, budget.ID, &expense, domain.CategoryFilter{
			Name:     "gy",
			OwnerID:  &memberID,
			Ordering: []domain.Ordering{{Field: "name", Desc: true}},
		})
		require.NoError(t, err)
		require.Len(t, personal, 1)
		assert.Equal(t, memberID, *personal[0].OwnerID)
	})

	t.Run("deposit keeps its entity in sync", func(t *testing.T) {
		deposit, err := env.deposits.CreateDeposit(ctx, budget.ID, application.DepositInput{
			Name:        ptr("Main account"),
			DepositType: ptr(domain.DepositTypePersonal),
			Owner:       application.OptionalOwner{Set: true, ID: &memberID},
		})
		require.NoError(t, err)

		isDeposit := true
		entities, err := env.entities.ListEntities(ctx, budget.ID, domain.EntityFilter{IsDeposit: &isDeposit})
		require.NoError(t, err)
		require.Len(t, entities, 1)
		assert.Equal(t, deposit.ID, *entities[0].DepositID)

		_, err = env.deposits.UpdateDeposit(ctx, budget.ID, deposit.ID, application.DepositInput{
			Name:     ptr("Savings account"),
			IsActive: ptr(false),
		}, true)
		require.NoError(t, err)

		entity, err := env.entities.GetEntity(ctx, budget.ID, entities[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "Savings account", entity.Name)
		assert.False(t, entity.IsActive)

		require.NoError(t, env.deposits.DeleteDeposit(ctx, budget.ID, deposit.ID))
		_, err = env.entities.GetEntity(ctx, budget.ID, entities[0].ID)
		assert.ErrorIs(t, err, budgetingErrors.ErrNotFound)
	})

	t.Run("periods and predictions", func(t *testing.T) {
		period, err := env.periods.CreatePeriod(ctx, budget.ID, application.PeriodInput{
			Name:      ptr("2024_01"),
			DateStart: ptr(domain.NewDate(2024, 1, 1)),
			DateEnd:   ptr(domain.NewDate(2024, 1, 31)),
			IsActive:  ptr(true),
		})
		require.NoError(t, err)

		_, err = env.periods.CreatePeriod(ctx, budget.ID, application.PeriodInput{
			Name:      ptr("2024_02"),
			DateStart: ptr(domain.NewDate(2024, 1, 31)),
			DateEnd:   ptr(domain.NewDate(2024, 2, 29)),
		})
		assert.True(t, budgetingErrors.IsValidationError(err), "touching ranges overlap")

		expense := domain.CategoryTypeExpense
		categories, err := env.categories.ListCategories(ctx, budget.ID, &expense, domain.CategoryFilter{CommonOnly: true})
		require.NoError(t, err)
		require.NotEmpty(t, categories)

		prediction, err := env.predictions.CreatePrediction(ctx, budget.ID, application.PredictionInput{
			PeriodID:   &period.ID,
			CategoryID: &categories[0].ID,
			Value:      ptr(decimal.RequireFromString("1234.56")),
		})
		require.NoError(t, err)

		found, err := env.predictions.GetPrediction(ctx, budget.ID, prediction.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("1234.56").Equal(found.Value))

		require.NoError(t, env.periods.DeletePeriod(ctx, budget.ID, period.ID))
		_, err = env.predictions.GetPrediction(ctx, budget.ID, prediction.ID)
		assert.ErrorIs(t, err, budgetingErrors.ErrNotFound)
	})

	t.Run("budget delete cascades", func(t *testing.T) {
		require.NoError(t, env.budgets.DeleteBudget(ctx, budget.ID))
		_, err := env.budgets.CheckAccess(ctx, budget.ID, ownerID)
		assert.ErrorIs(t, err, budgetingErrors.ErrNoBudgetAccess)

		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM transfer_categories WHERE budget_id = $1`, budget.ID).Scan(&n))
		assert.Zero(t, n)
	})
}
