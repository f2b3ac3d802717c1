package interfaces

import (
	"net/http"

	"github.com/sebuszqo/BudgetManager/internal/budgeting/application"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
)

type depositRequest struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	DepositType *domain.DepositType `json:"deposit_type"`
	IsActive    *bool               `json:"is_active"`
	Owner       nullableOwner       `json:"owner"`
}

func (req depositRequest) input() application.DepositInput {
	return application.DepositInput{
		Name:        req.Name,
		Description: req.Description,
		DepositType: req.DepositType,
		IsActive:    req.IsActive,
		Owner:       req.Owner.input(),
	}
}

type DepositHandler struct {
	responder
	service application.DepositService
}

func NewDepositHandler(service application.DepositService, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *DepositHandler {
	return &DepositHandler{
		responder: newResponder(respondJSON, respondError),
		service:   service,
	}
}

func (h *DepositHandler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	q := newListQuery(r.URL.Query())
	filter := domain.DepositFilter{
		Name:     q.str("name"),
		OwnerID:  q.owner("owner"),
		IsActive: q.boolean("is_active"),
		Ordering: q.ordering("id", "name", "deposit_type"),
	}
	if t := q.integer("deposit_type"); t != nil {
		depositType := domain.DepositType(*t)
		filter.DepositType = &depositType
	}
	if q.err != nil {
		h.invalidQuery(w, q.err)
		return
	}

	deposits, err := h.service.ListDeposits(r.Context(), budgetID, filter)
	if err != nil {
		h.fail(w, r, err, "retrieve deposits")
		return
	}
	h.success(w, http.StatusOK, "Deposits retrieved successfully.", deposits)
}

func (h *DepositHandler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	var req depositRequest
	if !h.decode(w, r, &req) {
		return
	}
	deposit, err := h.service.CreateDeposit(r.Context(), budgetID, req.input())
	if err != nil {
		h.fail(w, r, err, "create deposit")
		return
	}
	h.success(w, http.StatusCreated, "Deposit successfully created.", deposit)
}

func (h *DepositHandler) GetDeposit(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	deposit, err := h.service.GetDeposit(r.Context(), budgetID, id)
	if err != nil {
		h.fail(w, r, err, "retrieve deposit")
		return
	}
	h.success(w, http.StatusOK, "Deposit retrieved successfully.", deposit)
}

func (h *DepositHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req depositRequest
	if !h.decode(w, r, &req) {
		return
	}
	deposit, err := h.service.UpdateDeposit(r.Context(), budgetID, id, req.input(), partial)
	if err != nil {
		h.fail(w, r, err, "update deposit")
		return
	}
	h.success(w, http.StatusOK, "Deposit successfully updated.", deposit)
}

func (h *DepositHandler) UpdateDeposit(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *DepositHandler) PatchDeposit(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *DepositHandler) DeleteDeposit(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteDeposit(r.Context(), budgetID, id); err != nil {
		h.fail(w, r, err, "delete deposit")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
