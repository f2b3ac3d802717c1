package interfaces

import (
	"net/http"

	"github.com/sebuszqo/BudgetManager/internal/auth"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/application"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
)

type budgetRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Currency    *string   `json:"currency"`
	Members     *[]string `json:"members"`
}

func (req budgetRequest) input() application.BudgetInput {
	return application.BudgetInput{
		Name:        req.Name,
		Description: req.Description,
		Currency:    req.Currency,
		Members:     req.Members,
	}
}

type BudgetHandler struct {
	responder
	service application.BudgetService
}

func NewBudgetHandler(service application.BudgetService, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *BudgetHandler {
	return &BudgetHandler{
		responder: newResponder(respondJSON, respondError),
		service:   service,
	}
}

func (h *BudgetHandler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return userID, ok
}

func (h *BudgetHandler) list(w http.ResponseWriter, r *http.Request, scope domain.BudgetScope) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	budgets, err := h.service.ListBudgets(r.Context(), userID, scope)
	if err != nil {
		h.fail(w, r, err, "retrieve budgets")
		return
	}
	h.success(w, http.StatusOK, "Budgets retrieved successfully.", budgets)
}

func (h *BudgetHandler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.BudgetScopeAll)
}

func (h *BudgetHandler) ListOwnedBudgets(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.BudgetScopeOwned)
}

func (h *BudgetHandler) ListMemberedBudgets(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.BudgetScopeMembered)
}

func (h *BudgetHandler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req budgetRequest
	if !h.decode(w, r, &req) {
		return
	}
	budget, err := h.service.CreateBudget(r.Context(), userID, req.input())
	if err != nil {
		h.fail(w, r, err, "create budget")
		return
	}
	h.success(w, http.StatusCreated, "Budget successfully created.", budget)
}

func (h *BudgetHandler) GetBudget(w http.ResponseWriter, r *http.Request) {
	budget, ok := budgetFromContext(r.Context())
	if !ok {
		h.budgetID(w, r)
		return
	}
	h.success(w, http.StatusOK, "Budget retrieved successfully.", budget)
}

func (h *BudgetHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	var req budgetRequest
	if !h.decode(w, r, &req) {
		return
	}
	budget, err := h.service.UpdateBudget(r.Context(), budgetID, req.input(), partial)
	if err != nil {
		h.fail(w, r, err, "update budget")
		return
	}
	h.success(w, http.StatusOK, "Budget successfully updated.", budget)
}

func (h *BudgetHandler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *BudgetHandler) PatchBudget(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *BudgetHandler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteBudget(r.Context(), budgetID); err != nil {
		h.fail(w, r, err, "delete budget")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
