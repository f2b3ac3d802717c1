package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	budgetingErrors "github.com/sebuszqo/BudgetManager/internal/budgeting/errors"
	"github.com/sebuszqo/BudgetManager/internal/events"
	"github.com/sebuszqo/BudgetManager/internal/logger"
)

type BudgetInput struct {
	Name        *string
	Description *string
	Currency    *string
	Members     *[]string
}

type BudgetService interface {
	CreateBudget(ctx context.Context, userID string, in BudgetInput) (*domain.Budget, error)
	GetBudget(ctx context.Context, budgetID uuid.UUID) (*domain.Budget, error)
	ListBudgets(ctx context.Context, userID string, scope domain.BudgetScope) ([]domain.Budget, error)
	UpdateBudget(ctx context.Context, budgetID uuid.UUID, in BudgetInput, partial bool) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, budgetID uuid.UUID) error
	CheckAccess(ctx context.Context, budgetID uuid.UUID, userID string) (*domain.Budget, error)
}

type budgetService struct {
	budgets    domain.BudgetRepository
	categories domain.CategoryRepository
	users      domain.UserDirectory
	tx         domain.Transactor
	publisher  events.Publisher
}

func NewBudgetService(budgets domain.BudgetRepository, categories domain.CategoryRepository, users domain.UserDirectory, tx domain.Transactor, publisher events.Publisher) BudgetService {
	return &budgetService{
		budgets:    budgets,
		categories: categories,
		users:      users,
		tx:         tx,
		publisher:  publisher,
	}
}

// CheckAccess returns the budget when userID is its owner or a member.
// A missing budget is reported as no access.
func (s *budgetService) CheckAccess(ctx context.Context, budgetID uuid.UUID, userID string) (*domain.Budget, error) {
	budget, err := loadBudget(ctx, s.budgets, budgetID)
	if err != nil {
		return nil, err
	}
	if !budget.HasAccess(userID) {
		return nil, budgetingErrors.ErrNoBudgetAccess
	}
	return budget, nil
}

func (s *budgetService) validate(ctx context.Context, budget *domain.Budget, in BudgetInput, partial bool) error {
	v := &fieldValidator{}
	v.requiredString("name", in.Name, partial, domain.MaxNameLength)
	v.maxLength("description", in.Description, domain.MaxDescriptionLength)
	v.maxLength("currency", in.Currency, domain.MaxCurrencyLength)

	if in.Members != nil {
		if err := s.validateMembers(ctx, budget.OwnerID, *in.Members, v); err != nil {
			return err
		}
	}
	if err := v.err(); err != nil {
		return err
	}

	name := stringOr(in.Name, budget.Name)
	var exclude *uuid.UUID
	if budget.ID != uuid.Nil {
		exclude = &budget.ID
	}
	taken, err := s.budgets.ExistsByName(ctx, budget.OwnerID, name, exclude)
	if err != nil {
		return fmt.Errorf("check budget name: %w", err)
	}
	if taken {
		return budgetingErrors.NewFieldError("name", "User already owns Budget with given name.")
	}
	return nil
}

func (s *budgetService) validateMembers(ctx context.Context, ownerID string, members []string, v *fieldValidator) error {
	existing, err := s.users.ExistingUserIDs(ctx, members)
	if err != nil {
		return fmt.Errorf("check members: %w", err)
	}
	for _, m := range members {
		switch {
		case m == ownerID:
			v.add("members", "Budget owner can not be a member of Budget.")
		case !existing[m]:
			v.add("members", fmt.Sprintf("Invalid pk \"%s\" - object does not exist.", m))
		}
	}
	return nil
}

func normalizeMembers(members *[]string) *[]string {
	if members == nil {
		return nil
	}
	out := make([]string, len(*members))
	for i, m := range *members {
		out[i] = normalizeUserID(m)
	}
	return &out
}

func uniqueMembers(members []string) []string {
	seen := make(map[string]bool, len(members))
	out := make([]string, 0, len(members))
	for _, m := range members {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func (s *budgetService) CreateBudget(ctx context.Context, userID string, in BudgetInput) (*domain.Budget, error) {
	budget := &domain.Budget{OwnerID: userID, MemberIDs: []string{}}
	in.Members = normalizeMembers(in.Members)
	if err := s.validate(ctx, budget, in, false); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	budget.ID = uuid.New()
	budget.Name = *in.Name
	budget.Description = stringOr(in.Description, "")
	budget.Currency = stringOr(in.Currency, "")
	if in.Members != nil {
		budget.MemberIDs = uniqueMembers(*in.Members)
	}
	budget.CreatedAt = now
	budget.UpdatedAt = now

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.budgets.Create(ctx, budget); err != nil {
			return err
		}
		for _, category := range domain.DefaultCategories(budget.ID) {
			if err := s.categories.Create(ctx, &category); err != nil {
				return fmt.Errorf("create default category %q: %w", category.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, duplicateAsValidation(err)
	}

	log := logger.FromContext(ctx)
	log.Info().Str("budget_id", budget.ID.String()).Msg("Budget created")
	publish(ctx, s.publisher, events.BudgetCreated, budget.ID, budget.ID)
	return budget, nil
}

func (s *budgetService) GetBudget(ctx context.Context, budgetID uuid.UUID) (*domain.Budget, error) {
	return loadBudget(ctx, s.budgets, budgetID)
}

func (s *budgetService) ListBudgets(ctx context.Context, userID string, scope domain.BudgetScope) ([]domain.Budget, error) {
	return s.budgets.ListForUser(ctx, userID, scope)
}

func (s *budgetService) UpdateBudget(ctx context.Context, budgetID uuid.UUID, in BudgetInput, partial bool) (*domain.Budget, error) {
	budget, err := loadBudget(ctx, s.budgets, budgetID)
	if err != nil {
		return nil, err
	}
	in.Members = normalizeMembers(in.Members)
	if err := s.validate(ctx, budget, in, partial); err != nil {
		return nil, err
	}

	budget.Name = stringOr(in.Name, budget.Name)
	if partial {
		budget.Description = stringOr(in.Description, budget.Description)
		budget.Currency = stringOr(in.Currency, budget.Currency)
	} else {
		budget.Description = stringOr(in.Description, "")
		budget.Currency = stringOr(in.Currency, "")
	}
	if in.Members != nil {
		budget.MemberIDs = uniqueMembers(*in.Members)
	} else if !partial {
		budget.MemberIDs = []string{}
	}
	budget.UpdatedAt = time.Now().UTC()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.budgets.Update(ctx, budget)
	})
	if err != nil {
		if errors.Is(err, budgetingErrors.ErrNotFound) {
			return nil, budgetingErrors.ErrNoBudgetAccess
		}
		return nil, duplicateAsValidation(err)
	}

	publish(ctx, s.publisher, events.BudgetUpdated, budget.ID, budget.ID)
	return budget, nil
}

func (s *budgetService) DeleteBudget(ctx context.Context, budgetID uuid.UUID) error {
	if err := s.budgets.Delete(ctx, budgetID); err != nil {
		if errors.Is(err, budgetingErrors.ErrNotFound) {
			return budgetingErrors.ErrNoBudgetAccess
		}
		return err
	}

	log := logger.FromContext(ctx)
	log.Info().Str("budget_id", budgetID.String()).Msg("Budget deleted")
	publish(ctx, s.publisher, events.BudgetDeleted, budgetID, budgetID)
	return nil
}
