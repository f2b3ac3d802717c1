package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	MaxNameLength        = 128
	MaxDescriptionLength = 255
	MaxCurrencyLength    = 3
)

type Budget struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Currency    string    `json:"currency"`
	OwnerID     string    `json:"owner"`
	MemberIDs   []string  `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (b *Budget) IsMember(userID string) bool {
	for _, m := range b.MemberIDs {
		if m == userID {
			return true
		}
	}
	return false
}

// HasAccess reports whether userID is the owner or one of the members.
func (b *Budget) HasAccess(userID string) bool {
	if userID == "" {
		return false
	}
	return b.OwnerID == userID || b.IsMember(userID)
}

type BudgetScope int

const (
	BudgetScopeAll BudgetScope = iota
	BudgetScopeOwned
	BudgetScopeMembered
)

type BudgetRepository interface {
	Create(ctx context.Context, budget *Budget) error
	FindByID(ctx context.Context, budgetID uuid.UUID) (*Budget, error)
	ListForUser(ctx context.Context, userID string, scope BudgetScope) ([]Budget, error)
	ExistsByName(ctx context.Context, ownerID, name string, excludeID *uuid.UUID) (bool, error)
	Update(ctx context.Context, budget *Budget) error
	Delete(ctx context.Context, budgetID uuid.UUID) error
}

// UserDirectory answers which of the given user IDs exist.
type UserDirectory interface {
	ExistingUserIDs(ctx context.Context, ids []string) (map[string]bool, error)
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
