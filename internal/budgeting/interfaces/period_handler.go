package interfaces

import (
	"net/http"

	"github.com/sebuszqo/BudgetManager/internal/budgeting/application"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
)

type periodRequest struct {
	Name      *string      `json:"name"`
	DateStart *domain.Date `json:"date_start"`
	DateEnd   *domain.Date `json:"date_end"`
	IsActive  *bool        `json:"is_active"`
}

type PeriodHandler struct {
	responder
	service application.PeriodService
}

func NewPeriodHandler(service application.PeriodService, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *PeriodHandler {
	return &PeriodHandler{
		responder: newResponder(respondJSON, respondError),
		service:   service,
	}
}

func (h *PeriodHandler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	q := newListQuery(r.URL.Query())
	filter := domain.PeriodFilter{
		Name:     q.str("name"),
		IsActive: q.boolean("is_active"),
		Ordering: q.ordering("id", "name", "date_start", "date_end"),
	}
	if q.err != nil {
		h.invalidQuery(w, q.err)
		return
	}

	periods, err := h.service.ListPeriods(r.Context(), budgetID, filter)
	if err != nil {
		h.fail(w, r, err, "retrieve periods")
		return
	}
	h.success(w, http.StatusOK, "Periods retrieved successfully.", periods)
}

func (h *PeriodHandler) CreatePeriod(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	var req periodRequest
	if !h.decode(w, r, &req) {
		return
	}
	period, err := h.service.CreatePeriod(r.Context(), budgetID, application.PeriodInput(req))
	if err != nil {
		h.fail(w, r, err, "create period")
		return
	}
	h.success(w, http.StatusCreated, "Period successfully created.", period)
}

func (h *PeriodHandler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	period, err := h.service.GetPeriod(r.Context(), budgetID, id)
	if err != nil {
		h.fail(w, r, err, "retrieve period")
		return
	}
	h.success(w, http.StatusOK, "Period retrieved successfully.", period)
}

func (h *PeriodHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req periodRequest
	if !h.decode(w, r, &req) {
		return
	}
	period, err := h.service.UpdatePeriod(r.Context(), budgetID, id, application.PeriodInput(req), partial)
	if err != nil {
		h.fail(w, r, err, "update period")
		return
	}
	h.success(w, http.StatusOK, "Period successfully updated.", period)
}

func (h *PeriodHandler) UpdatePeriod(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *PeriodHandler) PatchPeriod(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *PeriodHandler) DeletePeriod(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeletePeriod(r.Context(), budgetID, id); err != nil {
		h.fail(w, r, err, "delete period")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
