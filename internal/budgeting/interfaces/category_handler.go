package interfaces

import (
	"net/http"

	"github.com/sebuszqo/BudgetManager/internal/budgeting/application"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
)

type categoryRequest struct {
	Type        *domain.CategoryType `json:"category_type"`
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	IsActive    *bool                `json:"is_active"`
	Group       *int                 `json:"group"`
	Owner       nullableOwner        `json:"owner"`
}

func (req categoryRequest) input() application.CategoryInput {
	return application.CategoryInput{
		Type:        req.Type,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
		Group:       req.Group,
		Owner:       req.Owner.input(),
	}
}

// CategoryHandler serves one category endpoint. kind is nil for the generic
// endpoint that exposes both income and expense categories.
type CategoryHandler struct {
	responder
	service application.CategoryService
	kind    *domain.CategoryType
}

func NewCategoryHandler(service application.CategoryService, kind *domain.CategoryType, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *CategoryHandler {
	return &CategoryHandler{
		responder: newResponder(respondJSON, respondError),
		service:   service,
		kind:      kind,
	}
}

func (h *CategoryHandler) label() string {
	if h.kind == nil {
		return "Categories"
	}
	if *h.kind == domain.CategoryTypeIncome {
		return "Income categories"
	}
	return "Expense categories"
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	q := newListQuery(r.URL.Query())
	filter := domain.CategoryFilter{
		Name:     q.str("name"),
		Group:    q.integer("group"),
		OwnerID:  q.owner("owner"),
		IsActive: q.boolean("is_active"),
		Ordering: q.ordering("id", "group", "name"),
	}
	if commonOnly := q.boolean("common_only"); commonOnly != nil {
		filter.CommonOnly = *commonOnly
	}
	if h.kind == nil {
		if t := q.integer("category_type"); t != nil {
			categoryType := domain.CategoryType(*t)
			filter.Type = &categoryType
		}
	}
	if q.err != nil {
		h.invalidQuery(w, q.err)
		return
	}

	categories, err := h.service.ListCategories(r.Context(), budgetID, h.kind, filter)
	if err != nil {
		h.fail(w, r, err, "retrieve categories")
		return
	}
	h.success(w, http.StatusOK, h.label()+" retrieved successfully.", categories)
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	category, err := h.service.CreateCategory(r.Context(), budgetID, h.kind, req.input())
	if err != nil {
		h.fail(w, r, err, "create category")
		return
	}
	h.success(w, http.StatusCreated, "Category successfully created.", category)
}

func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	category, err := h.service.GetCategory(r.Context(), budgetID, h.kind, id)
	if err != nil {
		h.fail(w, r, err, "retrieve category")
		return
	}
	h.success(w, http.StatusOK, "Category retrieved successfully.", category)
}

func (h *CategoryHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	category, err := h.service.UpdateCategory(r.Context(), budgetID, h.kind, id, req.input(), partial)
	if err != nil {
		h.fail(w, r, err, "update category")
		return
	}
	h.success(w, http.StatusOK, "Category successfully updated.", category)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *CategoryHandler) PatchCategory(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := h.budgetID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteCategory(r.Context(), budgetID, h.kind, id); err != nil {
		h.fail(w, r, err, "delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
