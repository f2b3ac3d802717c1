package domain

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

type Entity struct {
	ID          uuid.UUID  `json:"id"`
	BudgetID    uuid.UUID  `json:"budget"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	IsActive    bool       `json:"is_active"`
	DepositID   *uuid.UUID `json:"deposit"`
}

func (e *Entity) IsDeposit() bool {
	return e.DepositID != nil
}

func (e Entity) MarshalJSON() ([]byte, error) {
	type entity Entity
	return json.Marshal(struct {
		entity
		IsDeposit bool `json:"is_deposit"`
	}{entity(e), e.IsDeposit()})
}

type EntityFilter struct {
	Name      string
	IsActive  *bool
	IsDeposit *bool
	Ordering  []Ordering
}

func (f EntityFilter) Matches(e Entity) bool {
	if f.Name != "" && !containsFold(e.Name, f.Name) {
		return false
	}
	if f.IsActive != nil && e.IsActive != *f.IsActive {
		return false
	}
	if f.IsDeposit != nil && e.IsDeposit() != *f.IsDeposit {
		return false
	}
	return true
}

type EntityRepository interface {
	Create(ctx context.Context, entity *Entity) error
	FindByID(ctx context.Context, budgetID, entityID uuid.UUID) (*Entity, error)
	FindByDepositID(ctx context.Context, depositID uuid.UUID) (*Entity, error)
	List(ctx context.Context, budgetID uuid.UUID, filter EntityFilter) ([]Entity, error)
	Update(ctx context.Context, entity *Entity) error
	Delete(ctx context.Context, budgetID, entityID uuid.UUID) error
	ExistsByName(ctx context.Context, budgetID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
}
