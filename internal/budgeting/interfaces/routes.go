package interfaces

import (
	"net/http"

	"github.com/sebuszqo/BudgetManager/internal/budgeting/application"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
)

const budgetsPath = "/api/protected/budgets"

type Services struct {
	Budgets     application.BudgetService
	Periods     application.PeriodService
	Deposits    application.DepositService
	Entities    application.EntityService
	Categories  application.CategoryService
	Predictions application.PredictionService
}

type Handlers struct {
	Budgets           *BudgetHandler
	Periods           *PeriodHandler
	Deposits          *DepositHandler
	Entities          *EntityHandler
	Categories        *CategoryHandler
	IncomeCategories  *CategoryHandler
	ExpenseCategories *CategoryHandler
	Predictions       *PredictionHandler

	respondError RespondErrorFunc
}

func NewHandlers(services Services, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *Handlers {
	income, expense := domain.CategoryTypeIncome, domain.CategoryTypeExpense
	return &Handlers{
		Budgets:           NewBudgetHandler(services.Budgets, respondJSON, respondError),
		Periods:           NewPeriodHandler(services.Periods, respondJSON, respondError),
		Deposits:          NewDepositHandler(services.Deposits, respondJSON, respondError),
		Entities:          NewEntityHandler(services.Entities, respondJSON, respondError),
		Categories:        NewCategoryHandler(services.Categories, nil, respondJSON, respondError),
		IncomeCategories:  NewCategoryHandler(services.Categories, &income, respondJSON, respondError),
		ExpenseCategories: NewCategoryHandler(services.Categories, &expense, respondJSON, respondError),
		Predictions:       NewPredictionHandler(services.Predictions, respondJSON, respondError),
		respondError:      respondError,
	}
}

type resourceRoutes struct {
	list, create, get, update, patch, remove http.HandlerFunc
}

// RegisterRoutes mounts the budget API on mux. authenticate must put the
// user id in the request context; routes under {budgetID} additionally run
// the budget access check.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux, authenticate func(http.Handler) http.Handler) {
	access := BudgetAccessMiddleware(h.Budgets.service, h.respondError)
	protected := func(f http.HandlerFunc) http.Handler { return authenticate(f) }
	scoped := func(f http.HandlerFunc) http.Handler { return authenticate(access(f)) }

	mux.Handle("GET "+budgetsPath, protected(h.Budgets.ListBudgets))
	mux.Handle("POST "+budgetsPath, protected(h.Budgets.CreateBudget))
	mux.Handle("GET "+budgetsPath+"/owned", protected(h.Budgets.ListOwnedBudgets))
	mux.Handle("GET "+budgetsPath+"/membered", protected(h.Budgets.ListMemberedBudgets))

	budgetPath := budgetsPath + "/{budgetID}"
	mux.Handle("GET "+budgetPath, scoped(h.Budgets.GetBudget))
	mux.Handle("PUT "+budgetPath, scoped(h.Budgets.UpdateBudget))
	mux.Handle("PATCH "+budgetPath, scoped(h.Budgets.PatchBudget))
	mux.Handle("DELETE "+budgetPath, scoped(h.Budgets.DeleteBudget))

	resources := map[string]resourceRoutes{
		"periods": {
			h.Periods.ListPeriods, h.Periods.CreatePeriod, h.Periods.GetPeriod,
			h.Periods.UpdatePeriod, h.Periods.PatchPeriod, h.Periods.DeletePeriod,
		},
		"deposits": {
			h.Deposits.ListDeposits, h.Deposits.CreateDeposit, h.Deposits.GetDeposit,
			h.Deposits.UpdateDeposit, h.Deposits.PatchDeposit, h.Deposits.DeleteDeposit,
		},
		"entities": {
			h.Entities.ListEntities, h.Entities.CreateEntity, h.Entities.GetEntity,
			h.Entities.UpdateEntity, h.Entities.PatchEntity, h.Entities.DeleteEntity,
		},
		"categories":         categoryRoutes(h.Categories),
		"income_categories":  categoryRoutes(h.IncomeCategories),
		"expense_categories": categoryRoutes(h.ExpenseCategories),
		"expense_predictions": {
			h.Predictions.ListPredictions, h.Predictions.CreatePrediction, h.Predictions.GetPrediction,
			h.Predictions.UpdatePrediction, h.Predictions.PatchPrediction, h.Predictions.DeletePrediction,
		},
	}
	for name, rr := range resources {
		collection := budgetPath + "/" + name
		item := collection + "/{id}"
		mux.Handle("GET "+collection, scoped(rr.list))
		mux.Handle("POST "+collection, scoped(rr.create))
		mux.Handle("GET "+item, scoped(rr.get))
		mux.Handle("PUT "+item, scoped(rr.update))
		mux.Handle("PATCH "+item, scoped(rr.patch))
		mux.Handle("DELETE "+item, scoped(rr.remove))
	}
}

func categoryRoutes(h *CategoryHandler) resourceRoutes {
	return resourceRoutes{
		h.ListCategories, h.CreateCategory, h.GetCategory,
		h.UpdateCategory, h.PatchCategory, h.DeleteCategory,
	}
}
