package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	budgetingErrors "github.com/sebuszqo/BudgetManager/internal/budgeting/errors"
	"github.com/sebuszqo/BudgetManager/internal/events"
)

type CategoryInput struct {
	Type        *domain.CategoryType
	Name        *string
	Description *string
	IsActive    *bool
	Group       *int
	Owner       OptionalOwner
}

// CategoryService serves income, expense and generic transfer categories.
// A nil kind means any category type, otherwise only categories of that
// type are visible and the type is fixed.
type CategoryService interface {
	CreateCategory(ctx context.Context, budgetID uuid.UUID, kind *domain.CategoryType, in CategoryInput) (*domain.TransferCategory, error)
	GetCategory(ctx context.Context, budgetID uuid.UUID, kind *domain.CategoryType, categoryID uuid.UUID) (*domain.TransferCategory, error)
	ListCategories(ctx context.Context, budgetID uuid.UUID, kind *domain.CategoryType, filter domain.CategoryFilter) ([]domain.TransferCategory, error)
	UpdateCategory(ctx context.Context, budgetID uuid.UUID, kind *domain.CategoryType, categoryID uuid.UUID, in CategoryInput, partial bool) (*domain.TransferCategory, error)
	DeleteCategory(ctx context.Context, budgetID uuid.UUID, kind *domain.CategoryType, categoryID uuid.UUID) error
}

type categoryService struct {
	categories domain.CategoryRepository
	budgets    domain.BudgetRepository
	names      *ScopedNameValidator
	publisher  events.Publisher
}

func NewCategoryService(categories domain.CategoryRepository, budgets domain.BudgetRepository, publisher events.Publisher) CategoryService {
	return &categoryService{
		categories: categories,
		budgets:    budgets,
		names:      NewScopedNameValidator(categories),
		publisher:  publisher,
	}
}

func (s *categoryService) validate(ctx context.Context, category *domain.TransferCategory, in CategoryInput, partial bool, excludeID *uuid.UUID) error {
	v := &fieldValidator{}
	v.requiredString("name", in.Name, partial, domain.MaxNameLength)
	v.maxLength("description", in.Description, domain.MaxDescriptionLength)
	if excludeID == nil && category.Type == 0 {
		if v.required("category_type", in.Type != nil, false) && !in.Type.Valid() {
			v.add("category_type", budgetingErrors.InvalidChoiceMsg(int(*in.Type)))
		}
	}
	if err := v.err(); err != nil {
		return err
	}
	if category.Type == 0 {
		category.Type = *in.Type
	}

	if v.required("group", in.Group != nil, partial) && !category.Type.ValidGroup(*in.Group) {
		v.add("group", budgetingErrors.InvalidChoiceMsg(*in.Group))
	}
	if err := v.err(); err != nil {
		return err
	}

	budget, err := loadBudget(ctx, s.budgets, category.BudgetID)
	if err != nil {
		return err
	}

	category.Name = stringOr(in.Name, category.Name)
	category.Description = stringOr(in.Description, category.Description)
	category.IsActive = boolOr(in.IsActive, category.IsActive)
	if in.Group != nil {
		category.Group = *in.Group
	}
	category.OwnerID = mergeOwner(category.OwnerID, in.Owner)

	key := domain.CategoryNameKey{
		BudgetID:  category.BudgetID,
		Type:      category.Type,
		OwnerID:   category.OwnerID,
		Name:      category.Name,
		ExcludeID: excludeID,
	}
	// a stored owner may have left the budget since, only a newly sent one is checked
	if !in.Owner.Set {
		return s.names.ValidateName(ctx, key)
	}
	return s.names.Validate(ctx, budget, key)
}

func (s *categoryService) CreateCategory(ctx context.Context, budgetID uuid.UUID, kind *domain.CategoryType, in CategoryInput) (*domain.TransferCategory, error) {
	category := &domain.TransferCategory{ID: uuid.New(), BudgetID: budgetID, IsActive: true}
	if kind != nil {
		category.Type = *kind
	}
	if err := s.validate(ctx, category, in, false, nil); err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, duplicateAsValidation(err)
	}

	publish(ctx, s.publisher, events.CategoryCreated, budgetID, category.ID)
	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, budgetID uuid.UUID, kind *domain.CategoryType, categoryID uuid.UUID) (*domain.TransferCategory, error) {
	category, err := s.categories.FindByID(ctx, budgetID, categoryID)
	if err != nil {
		return nil, err
	}
	if kind != nil && category.Type != *kind {
		return nil, budgetingErrors.ErrNotFound
	}
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context, budgetID uuid.UUID, kind *domain.CategoryType, filter domain.CategoryFilter) ([]domain.TransferCategory, error) {
	if kind != nil {
		filter.Type = kind
	}
	return s.categories.List(ctx, budgetID, filter)
}

// UpdateCategory keeps the stored category type, it can not be changed.
func (s *categoryService) UpdateCategory(ctx context.Context, budgetID uuid.UUID, kind *domain.CategoryType, categoryID uuid.UUID, in CategoryInput, partial bool) (*domain.TransferCategory, error) {
	category, err := s.GetCategory(ctx, budgetID, kind, categoryID)
	if err != nil {
		return nil, err
	}
	if !partial {
		category.Description = ""
		category.IsActive = true
		category.OwnerID = nil
	}
	if err := s.validate(ctx, category, in, partial, &category.ID); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, duplicateAsValidation(err)
	}

	publish(ctx, s.publisher, events.CategoryUpdated, budgetID, category.ID)
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, budgetID uuid.UUID, kind *domain.CategoryType, categoryID uuid.UUID) error {
	if _, err := s.GetCategory(ctx, budgetID, kind, categoryID); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, budgetID, categoryID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	publish(ctx, s.publisher, events.CategoryDeleted, budgetID, categoryID)
	return nil
}
