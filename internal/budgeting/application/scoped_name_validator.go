package application

import (
	"context"
	"fmt"

	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	budgetingErrors "github.com/sebuszqo/BudgetManager/internal/budgeting/errors"
)

// ScopedNameValidator enforces category name uniqueness. A category with an
// owner is personal and its name must be unique for that owner; a category
// without one is common and its name must be unique among common ones.
type ScopedNameValidator struct {
	categories domain.CategoryRepository
}

func NewScopedNameValidator(categories domain.CategoryRepository) *ScopedNameValidator {
	return &ScopedNameValidator{categories: categories}
}

func (v *ScopedNameValidator) Validate(ctx context.Context, budget *domain.Budget, key domain.CategoryNameKey) error {
	// ownership is checked first, a foreign owner fails even without a name clash
	if !ownerBelongsToBudget(budget, key.OwnerID) {
		return budgetingErrors.NewNonFieldError(msgOwnerNotInBudget)
	}
	return v.ValidateName(ctx, key)
}

// ValidateName checks only the name scope, for writes that keep the stored owner.
func (v *ScopedNameValidator) ValidateName(ctx context.Context, key domain.CategoryNameKey) error {
	taken, err := v.categories.ExistsByName(ctx, key)
	if err != nil {
		return fmt.Errorf("check category name: %w", err)
	}
	if !taken {
		return nil
	}

	if key.OwnerID != nil {
		return budgetingErrors.NewNonFieldError(fmt.Sprintf(
			"Personal %s with given name already exists in Budget for provided owner.", key.Type.Label()))
	}
	return budgetingErrors.NewNonFieldError(fmt.Sprintf(
		"Common %s with given name already exists in Budget.", key.Type.Label()))
}
