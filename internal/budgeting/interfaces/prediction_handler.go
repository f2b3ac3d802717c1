package interfaces

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/application"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	"github.com/shopspring/decimal"
)

type predictionRequest struct {
	PeriodID    *uuid.UUID       `json:"period"`
	CategoryID  *uuid.UUID       `json:"category"`
	Value       *decimal.Decimal `json:"value"`
	Description *string          `json:"description"`
}

type PredictionHandler struct {
	responder
	service application.PredictionService
}

func NewPredictionHandler(service application.PredictionService, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *PredictionHandler {
	return &PredictionHandler{
		responder: newResponder(respondJSON, respondError),
		service:   service,
	}
}

func (h *PredictionHandler) ListPredictions(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	q := newListQuery(r.URL.Query())
	filter := domain.PredictionFilter{
		PeriodID:   q.id("period"),
		CategoryID: q.id("category"),
		OwnerID:    q.owner("owner"),
		Ordering:   q.ordering("id", "period", "category", "value"),
	}
	if q.err != nil {
		h.invalidQuery(w, q.err)
		return
	}

	predictions, err := h.service.ListPredictions(r.Context(), budgetID, filter)
	if err != nil {
		h.fail(w, r, err, "retrieve expense predictions")
		return
	}
	h.success(w, http.StatusOK, "Expense predictions retrieved successfully.", predictions)
}

func (h *PredictionHandler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	var req predictionRequest
	if !h.decode(w, r, &req) {
		return
	}
	prediction, err := h.service.CreatePrediction(r.Context(), budgetID, application.PredictionInput(req))
	if err != nil {
		h.fail(w, r, err, "create expense prediction")
		return
	}
	h.success(w, http.StatusCreated, "Expense prediction successfully created.", prediction)
}

func (h *PredictionHandler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	prediction, err := h.service.GetPrediction(r.Context(), budgetID, id)
	if err != nil {
		h.fail(w, r, err, "retrieve expense prediction")
		return
	}
	h.success(w, http.StatusOK, "Expense prediction retrieved successfully.", prediction)
}

func (h *PredictionHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req predictionRequest
	if !h.decode(w, r, &req) {
		return
	}
	prediction, err := h.service.UpdatePrediction(r.Context(), budgetID, id, application.PredictionInput(req), partial)
	if err != nil {
		h.fail(w, r, err, "update expense prediction")
		return
	}
	h.success(w, http.StatusOK, "Expense prediction successfully updated.", prediction)
}

func (h *PredictionHandler) UpdatePrediction(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *PredictionHandler) PatchPrediction(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *PredictionHandler) DeletePrediction(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeletePrediction(r.Context(), budgetID, id); err != nil {
		h.fail(w, r, err, "delete expense prediction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
