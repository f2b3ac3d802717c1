package domain

import (
	"context"

	"github.com/google/uuid"
)

type CategoryType int

const (
	CategoryTypeIncome  CategoryType = 1
	CategoryTypeExpense CategoryType = 2
)

func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Label is the category kind name used in validation messages.
func (t CategoryType) Label() string {
	switch t {
	case CategoryTypeIncome:
		return "IncomeCategory"
	case CategoryTypeExpense:
		return "ExpenseCategory"
	default:
		return "TransferCategory"
	}
}

// Income groups.
const (
	IncomeGroupRegular   = 1
	IncomeGroupIrregular = 2
)

// Expense groups.
const (
	ExpenseGroupMostImportant = 1
	ExpenseGroupDebts         = 2
	ExpenseGroupSavings       = 3
	ExpenseGroupOthers        = 4
)

func (t CategoryType) ValidGroup(group int) bool {
	switch t {
	case CategoryTypeIncome:
		return group == IncomeGroupRegular || group == IncomeGroupIrregular
	case CategoryTypeExpense:
		return group >= ExpenseGroupMostImportant && group <= ExpenseGroupOthers
	default:
		return false
	}
}

type TransferCategory struct {
	ID          uuid.UUID    `json:"id"`
	BudgetID    uuid.UUID    `json:"budget"`
	Type        CategoryType `json:"category_type"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	IsActive    bool         `json:"is_active"`
	Group       int          `json:"group"`
	OwnerID     *string      `json:"owner"`
}

// IsPersonal reports whether the category belongs to a single member.
func (c *TransferCategory) IsPersonal() bool {
	return c.OwnerID != nil
}

// CategoryNameKey identifies a category name within its uniqueness scope:
// (budget, type, owner, name) for personal and (budget, type, name) among
// unowned categories for common ones.
type CategoryNameKey struct {
	BudgetID  uuid.UUID
	Type      CategoryType
	OwnerID   *string
	Name      string
	ExcludeID *uuid.UUID
}

func (k CategoryNameKey) Collides(c TransferCategory) bool {
	if k.ExcludeID != nil && *k.ExcludeID == c.ID {
		return false
	}
	return c.BudgetID == k.BudgetID &&
		c.Type == k.Type &&
		c.Name == k.Name &&
		sameOwner(c.OwnerID, k.OwnerID)
}

type CategoryFilter struct {
	Type       *CategoryType
	Name       string
	CommonOnly bool
	Group      *int
	OwnerID    *string
	IsActive   *bool
	Ordering   []Ordering
}

func (f CategoryFilter) Matches(c TransferCategory) bool {
	if f.Type != nil && c.Type != *f.Type {
		return false
	}
	if f.Name != "" && !containsFold(c.Name, f.Name) {
		return false
	}
	if f.CommonOnly && c.OwnerID != nil {
		return false
	}
	if f.Group != nil && c.Group != *f.Group {
		return false
	}
	if f.OwnerID != nil && !sameOwner(c.OwnerID, f.OwnerID) {
		return false
	}
	if f.IsActive != nil && c.IsActive != *f.IsActive {
		return false
	}
	return true
}

type CategoryRepository interface {
	Create(ctx context.Context, category *TransferCategory) error
	FindByID(ctx context.Context, budgetID, categoryID uuid.UUID) (*TransferCategory, error)
	List(ctx context.Context, budgetID uuid.UUID, filter CategoryFilter) ([]TransferCategory, error)
	Update(ctx context.Context, category *TransferCategory) error
	Delete(ctx context.Context, budgetID, categoryID uuid.UUID) error
	ExistsByName(ctx context.Context, key CategoryNameKey) (bool, error)
}

type defaultCategory struct {
	name  string
	group int
}

var defaultIncomeCategories = []defaultCategory{
	{"Salary", IncomeGroupRegular},
	{"Rental income", IncomeGroupRegular},
	{"Bonus", IncomeGroupIrregular},
	{"Gifts", IncomeGroupIrregular},
	{"Sale", IncomeGroupIrregular},
}

var defaultExpenseCategories = []defaultCategory{
	{"Rent", ExpenseGroupMostImportant},
	{"Bills", ExpenseGroupMostImportant},
	{"Groceries", ExpenseGroupMostImportant},
	{"Transport", ExpenseGroupMostImportant},
	{"Loans", ExpenseGroupDebts},
	{"Savings", ExpenseGroupSavings},
	{"Entertainment", ExpenseGroupOthers},
	{"Clothes", ExpenseGroupOthers},
}

// DefaultCategories returns the common categories every new budget starts with.
func DefaultCategories(budgetID uuid.UUID) []TransferCategory {
	out := make([]TransferCategory, 0, len(defaultIncomeCategories)+len(defaultExpenseCategories))
	add := func(t CategoryType, defaults []defaultCategory) {
		for _, d := range defaults {
			out = append(out, TransferCategory{
				ID:       uuid.New(),
				BudgetID: budgetID,
				Type:     t,
				Name:     d.name,
				IsActive: true,
				Group:    d.group,
			})
		}
	}
	add(CategoryTypeIncome, defaultIncomeCategories)
	add(CategoryTypeExpense, defaultExpenseCategories)
	return out
}
