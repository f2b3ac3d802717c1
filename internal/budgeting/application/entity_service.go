package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	budgetingErrors "github.com/sebuszqo/BudgetManager/internal/budgeting/errors"
	"github.com/sebuszqo/BudgetManager/internal/events"
)

const msgDepositEntity = "Entity representing Deposit can only be changed through Deposit."

type EntityInput struct {
	Name        *string
	Description *string
	IsActive    *bool
}

type EntityService interface {
	CreateEntity(ctx context.Context, budgetID uuid.UUID, in EntityInput) (*domain.Entity, error)
	GetEntity(ctx context.Context, budgetID, entityID uuid.UUID) (*domain.Entity, error)
	ListEntities(ctx context.Context, budgetID uuid.UUID, filter domain.EntityFilter) ([]domain.Entity, error)
	UpdateEntity(ctx context.Context, budgetID, entityID uuid.UUID, in EntityInput, partial bool) (*domain.Entity, error)
	DeleteEntity(ctx context.Context, budgetID, entityID uuid.UUID) error
}

type entityService struct {
	entities  domain.EntityRepository
	publisher events.Publisher
}

func NewEntityService(entities domain.EntityRepository, publisher events.Publisher) EntityService {
	return &entityService{entities: entities, publisher: publisher}
}

func (s *entityService) validate(ctx context.Context, entity *domain.Entity, in EntityInput, partial bool, excludeID *uuid.UUID) error {
	v := &fieldValidator{}
	v.requiredString("name", in.Name, partial, domain.MaxNameLength)
	v.maxLength("description", in.Description, domain.MaxDescriptionLength)
	if err := v.err(); err != nil {
		return err
	}

	entity.Name = stringOr(in.Name, entity.Name)
	entity.Description = stringOr(in.Description, entity.Description)
	entity.IsActive = boolOr(in.IsActive, entity.IsActive)

	taken, err := s.entities.ExistsByName(ctx, entity.BudgetID, entity.Name, excludeID)
	if err != nil {
		return fmt.Errorf("check entity name: %w", err)
	}
	if taken {
		return budgetingErrors.NewFieldError("name", "Entity with given name already exists in Budget.")
	}
	return nil
}

func (s *entityService) CreateEntity(ctx context.Context, budgetID uuid.UUID, in EntityInput) (*domain.Entity, error) {
	entity := &domain.Entity{ID: uuid.New(), BudgetID: budgetID, IsActive: true}
	if err := s.validate(ctx, entity, in, false, nil); err != nil {
		return nil, err
	}
	if err := s.entities.Create(ctx, entity); err != nil {
		return nil, duplicateAsValidation(err)
	}

	publish(ctx, s.publisher, events.EntityCreated, budgetID, entity.ID)
	return entity, nil
}

func (s *entityService) GetEntity(ctx context.Context, budgetID, entityID uuid.UUID) (*domain.Entity, error) {
	return s.entities.FindByID(ctx, budgetID, entityID)
}

func (s *entityService) ListEntities(ctx context.Context, budgetID uuid.UUID, filter domain.EntityFilter) ([]domain.Entity, error) {
	return s.entities.List(ctx, budgetID, filter)
}

// UpdateEntity rejects entities that mirror a deposit, those follow the deposit.
func (s *entityService) UpdateEntity(ctx context.Context, budgetID, entityID uuid.UUID, in EntityInput, partial bool) (*domain.Entity, error) {
	entity, err := s.entities.FindByID(ctx, budgetID, entityID)
	if err != nil {
		return nil, err
	}
	if entity.IsDeposit() {
		return nil, budgetingErrors.NewNonFieldError(msgDepositEntity)
	}
	if !partial {
		entity.Description = ""
		entity.IsActive = true
	}
	if err := s.validate(ctx, entity, in, partial, &entity.ID); err != nil {
		return nil, err
	}
	if err := s.entities.Update(ctx, entity); err != nil {
		return nil, duplicateAsValidation(err)
	}

	publish(ctx, s.publisher, events.EntityUpdated, budgetID, entity.ID)
	return entity, nil
}

func (s *entityService) DeleteEntity(ctx context.Context, budgetID, entityID uuid.UUID) error {
	entity, err := s.entities.FindByID(ctx, budgetID, entityID)
	if err != nil {
		return err
	}
	if entity.IsDeposit() {
		return budgetingErrors.NewNonFieldError(msgDepositEntity)
	}
	if err := s.entities.Delete(ctx, budgetID, entityID); err != nil {
		return err
	}

	publish(ctx, s.publisher, events.EntityDeleted, budgetID, entityID)
	return nil
}
