package interfaces

import (
	"net/http"

	"github.com/sebuszqo/BudgetManager/internal/budgeting/application"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
)

type entityRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type EntityHandler struct {
	responder
	service application.EntityService
}

func NewEntityHandler(service application.EntityService, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *EntityHandler {
	return &EntityHandler{
		responder: newResponder(respondJSON, respondError),
		service:   service,
	}
}

func (h *EntityHandler) ListEntities(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	q := newListQuery(r.URL.Query())
	filter := domain.EntityFilter{
		Name:      q.str("name"),
		IsActive:  q.boolean("is_active"),
		IsDeposit: q.boolean("is_deposit"),
		Ordering:  q.ordering("id", "name"),
	}
	if q.err != nil {
		h.invalidQuery(w, q.err)
		return
	}

	entities, err := h.service.ListEntities(r.Context(), budgetID, filter)
	if err != nil {
		h.fail(w, r, err, "retrieve entities")
		return
	}
	h.success(w, http.StatusOK, "Entities retrieved successfully.", entities)
}

func (h *EntityHandler) CreateEntity(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	var req entityRequest
	if !h.decode(w, r, &req) {
		return
	}
	entity, err := h.service.CreateEntity(r.Context(), budgetID, application.EntityInput(req))
	if err != nil {
		h.fail(w, r, err, "create entity")
		return
	}
	h.success(w, http.StatusCreated, "Entity successfully created.", entity)
}

func (h *EntityHandler) GetEntity(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	entity, err := h.service.GetEntity(r.Context(), budgetID, id)
	if err != nil {
		h.fail(w, r, err, "retrieve entity")
		return
	}
	h.success(w, http.StatusOK, "Entity retrieved successfully.", entity)
}

func (h *EntityHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req entityRequest
	if !h.decode(w, r, &req) {
		return
	}
	entity, err := h.service.UpdateEntity(r.Context(), budgetID, id, application.EntityInput(req), partial)
	if err != nil {
		h.fail(w, r, err, "update entity")
		return
	}
	h.success(w, http.StatusOK, "Entity successfully updated.", entity)
}

func (h *EntityHandler) UpdateEntity(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *EntityHandler) PatchEntity(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *EntityHandler) DeleteEntity(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteEntity(r.Context(), budgetID, id); err != nil {
		h.fail(w, r, err, "delete entity")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
