package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	budgetingErrors "github.com/sebuszqo/BudgetManager/internal/budgeting/errors"
	"github.com/sebuszqo/BudgetManager/internal/events"
	"github.com/sebuszqo/BudgetManager/internal/logger"
)

type DepositInput struct {
	Name        *string
	Description *string
	DepositType *domain.DepositType
	IsActive    *bool
	Owner       OptionalOwner
}

type DepositService interface {
	CreateDeposit(ctx context.Context, budgetID uuid.UUID, in DepositInput) (*domain.Deposit, error)
	GetDeposit(ctx context.Context, budgetID, depositID uuid.UUID) (*domain.Deposit, error)
	ListDeposits(ctx context.Context, budgetID uuid.UUID, filter domain.DepositFilter) ([]domain.Deposit, error)
	UpdateDeposit(ctx context.Context, budgetID, depositID uuid.UUID, in DepositInput, partial bool) (*domain.Deposit, error)
	DeleteDeposit(ctx context.Context, budgetID, depositID uuid.UUID) error
}

type depositService struct {
	deposits  domain.DepositRepository
	entities  domain.EntityRepository
	budgets   domain.BudgetRepository
	tx        domain.Transactor
	publisher events.Publisher
}

func NewDepositService(deposits domain.DepositRepository, entities domain.EntityRepository, budgets domain.BudgetRepository, tx domain.Transactor, publisher events.Publisher) DepositService {
	return &depositService{
		deposits:  deposits,
		entities:  entities,
		budgets:   budgets,
		tx:        tx,
		publisher: publisher,
	}
}

// validate merges in into deposit and checks it. The deposit itself and its
// entity are skipped by the name checks on update.
func (s *depositService) validate(ctx context.Context, deposit *domain.Deposit, in DepositInput, partial bool, excludeDeposit, excludeEntity *uuid.UUID) error {
	v := &fieldValidator{}
	v.requiredString("name", in.Name, partial, domain.MaxNameLength)
	v.maxLength("description", in.Description, domain.MaxDescriptionLength)
	if v.required("deposit_type", in.DepositType != nil, partial) && !in.DepositType.Valid() {
		v.add("deposit_type", budgetingErrors.InvalidChoiceMsg(int(*in.DepositType)))
	}
	if err := v.err(); err != nil {
		return err
	}

	budget, err := loadBudget(ctx, s.budgets, deposit.BudgetID)
	if err != nil {
		return err
	}

	deposit.Name = stringOr(in.Name, deposit.Name)
	deposit.Description = stringOr(in.Description, deposit.Description)
	if in.DepositType != nil {
		deposit.DepositType = *in.DepositType
	}
	deposit.IsActive = boolOr(in.IsActive, deposit.IsActive)
	deposit.OwnerID = mergeOwner(deposit.OwnerID, in.Owner)

	if in.Owner.Set && !ownerBelongsToBudget(budget, deposit.OwnerID) {
		return budgetingErrors.NewFieldError("owner", msgOwnerNotInBudget)
	}

	taken, err := s.deposits.ExistsByName(ctx, deposit.BudgetID, deposit.Name, excludeDeposit)
	if err != nil {
		return fmt.Errorf("check deposit name: %w", err)
	}
	if taken {
		return budgetingErrors.NewFieldError("name", "Deposit with given name already exists in Budget.")
	}

	taken, err = s.entities.ExistsByName(ctx, deposit.BudgetID, deposit.Name, excludeEntity)
	if err != nil {
		return fmt.Errorf("check entity name: %w", err)
	}
	if taken {
		return budgetingErrors.NewFieldError("name", "Entity with given name already exists in Budget.")
	}
	return nil
}

// CreateDeposit stores the deposit together with the entity representing it.
func (s *depositService) CreateDeposit(ctx context.Context, budgetID uuid.UUID, in DepositInput) (*domain.Deposit, error) {
	deposit := &domain.Deposit{ID: uuid.New(), BudgetID: budgetID, IsActive: true}
	if err := s.validate(ctx, deposit, in, false, nil, nil); err != nil {
		return nil, err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.deposits.Create(ctx, deposit); err != nil {
			return err
		}
		return s.entities.Create(ctx, deposit.ShadowEntity())
	})
	if err != nil {
		return nil, duplicateAsValidation(err)
	}

	log := logger.FromContext(ctx)
	log.Info().Str("deposit_id", deposit.ID.String()).Msg("Deposit created")
	publish(ctx, s.publisher, events.DepositCreated, budgetID, deposit.ID)
	return deposit, nil
}

func (s *depositService) GetDeposit(ctx context.Context, budgetID, depositID uuid.UUID) (*domain.Deposit, error) {
	return s.deposits.FindByID(ctx, budgetID, depositID)
}

func (s *depositService) ListDeposits(ctx context.Context, budgetID uuid.UUID, filter domain.DepositFilter) ([]domain.Deposit, error) {
	return s.deposits.List(ctx, budgetID, filter)
}

// UpdateDeposit applies the change and mirrors name, description and
// is_active onto the linked entity.
func (s *depositService) UpdateDeposit(ctx context.Context, budgetID, depositID uuid.UUID, in DepositInput, partial bool) (*domain.Deposit, error) {
	deposit, err := s.deposits.FindByID(ctx, budgetID, depositID)
	if err != nil {
		return nil, err
	}
	entity, err := s.entities.FindByDepositID(ctx, deposit.ID)
	if err != nil && !errors.Is(err, budgetingErrors.ErrNotFound) {
		return nil, err
	}

	if !partial {
		deposit.Description = ""
		deposit.IsActive = true
		deposit.OwnerID = nil
	}
	var entityID *uuid.UUID
	if entity != nil {
		entityID = &entity.ID
	}
	if err := s.validate(ctx, deposit, in, partial, &deposit.ID, entityID); err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.deposits.Update(ctx, deposit); err != nil {
			return err
		}
		if entity == nil {
			return s.entities.Create(ctx, deposit.ShadowEntity())
		}
		entity.Name = deposit.Name
		entity.Description = deposit.Description
		entity.IsActive = deposit.IsActive
		return s.entities.Update(ctx, entity)
	})
	if err != nil {
		return nil, duplicateAsValidation(err)
	}

	publish(ctx, s.publisher, events.DepositUpdated, budgetID, deposit.ID)
	return deposit, nil
}

// DeleteDeposit removes the deposit, its entity goes with it.
func (s *depositService) DeleteDeposit(ctx context.Context, budgetID, depositID uuid.UUID) error {
	if err := s.deposits.Delete(ctx, budgetID, depositID); err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	log.Info().Str("deposit_id", depositID.String()).Msg("Deposit deleted")
	publish(ctx, s.publisher, events.DepositDeleted, budgetID, depositID)
	return nil
}
