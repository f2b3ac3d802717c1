package domain

import (
	"context"

	"github.com/google/uuid"
)

type DepositType int

const (
	DepositTypePersonal DepositType = 1
	DepositTypeCommon   DepositType = 2
	DepositTypeReserves DepositType = 3
	DepositTypeSavings  DepositType = 4
)

func (t DepositType) Valid() bool {
	return t >= DepositTypePersonal && t <= DepositTypeSavings
}

type Deposit struct {
	ID          uuid.UUID   `json:"id"`
	BudgetID    uuid.UUID   `json:"budget"`
	OwnerID     *string     `json:"owner"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	DepositType DepositType `json:"deposit_type"`
	IsActive    bool        `json:"is_active"`
}

// ShadowEntity builds the entity that represents the deposit in transfers.
func (d *Deposit) ShadowEntity() *Entity {
	depositID := d.ID
	return &Entity{
		ID:          uuid.New(),
		BudgetID:    d.BudgetID,
		Name:        d.Name,
		Description: d.Description,
		IsActive:    d.IsActive,
		DepositID:   &depositID,
	}
}

type DepositFilter struct {
	Name        string
	DepositType *DepositType
	OwnerID     *string
	IsActive    *bool
	Ordering    []Ordering
}

func (f DepositFilter) Matches(d Deposit) bool {
	if f.Name != "" && !containsFold(d.Name, f.Name) {
		return false
	}
	if f.DepositType != nil && d.DepositType != *f.DepositType {
		return false
	}
	if f.OwnerID != nil && !sameOwner(d.OwnerID, f.OwnerID) {
		return false
	}
	if f.IsActive != nil && d.IsActive != *f.IsActive {
		return false
	}
	return true
}

type DepositRepository interface {
	Create(ctx context.Context, deposit *Deposit) error
	FindByID(ctx context.Context, budgetID, depositID uuid.UUID) (*Deposit, error)
	List(ctx context.Context, budgetID uuid.UUID, filter DepositFilter) ([]Deposit, error)
	Update(ctx context.Context, deposit *Deposit) error
	Delete(ctx context.Context, budgetID, depositID uuid.UUID) error
	ExistsByName(ctx context.Context, budgetID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
}
