package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	budgetingErrors "github.com/sebuszqo/BudgetManager/internal/budgeting/errors"
	"github.com/sebuszqo/BudgetManager/internal/events"
)

type PeriodInput struct {
	Name      *string
	DateStart *domain.Date
	DateEnd   *domain.Date
	IsActive  *bool
}

type PeriodService interface {
	CreatePeriod(ctx context.Context, budgetID uuid.UUID, in PeriodInput) (*domain.BudgetingPeriod, error)
	GetPeriod(ctx context.Context, budgetID, periodID uuid.UUID) (*domain.BudgetingPeriod, error)
	ListPeriods(ctx context.Context, budgetID uuid.UUID, filter domain.PeriodFilter) ([]domain.BudgetingPeriod, error)
	UpdatePeriod(ctx context.Context, budgetID, periodID uuid.UUID, in PeriodInput, partial bool) (*domain.BudgetingPeriod, error)
	DeletePeriod(ctx context.Context, budgetID, periodID uuid.UUID) error
}

type periodService struct {
	periods   domain.PeriodRepository
	publisher events.Publisher
}

func NewPeriodService(periods domain.PeriodRepository, publisher events.Publisher) PeriodService {
	return &periodService{periods: periods, publisher: publisher}
}

func (s *periodService) validate(ctx context.Context, period *domain.BudgetingPeriod, in PeriodInput, partial bool, excludeID *uuid.UUID) error {
	v := &fieldValidator{}
	v.requiredString("name", in.Name, partial, domain.MaxNameLength)
	v.required("date_start", in.DateStart != nil, partial)
	v.required("date_end", in.DateEnd != nil, partial)
	if err := v.err(); err != nil {
		return err
	}

	if in.Name != nil {
		period.Name = *in.Name
	}
	if in.DateStart != nil {
		period.DateStart = *in.DateStart
	}
	if in.DateEnd != nil {
		period.DateEnd = *in.DateEnd
	}
	period.IsActive = boolOr(in.IsActive, period.IsActive)

	if !period.DateStart.Before(period.DateEnd.Time) {
		return budgetingErrors.NewNonFieldError("Start date should be earlier than end date.")
	}

	taken, err := s.periods.ExistsByName(ctx, period.BudgetID, period.Name, excludeID)
	if err != nil {
		return fmt.Errorf("check period name: %w", err)
	}
	if taken {
		return budgetingErrors.NewFieldError("name", "Period with given name already exists in Budget.")
	}

	overlapping, err := s.periods.ExistsOverlapping(ctx, period.BudgetID, period.DateStart, period.DateEnd, excludeID)
	if err != nil {
		return fmt.Errorf("check period dates: %w", err)
	}
	if overlapping {
		return budgetingErrors.NewNonFieldError("Budgeting period date range collides with other period in Budget.")
	}

	if period.IsActive {
		active, err := s.periods.ExistsActive(ctx, period.BudgetID, excludeID)
		if err != nil {
			return fmt.Errorf("check active period: %w", err)
		}
		if active {
			return budgetingErrors.NewFieldError("is_active", "Active period already exists in Budget.")
		}
	}
	return nil
}

func (s *periodService) CreatePeriod(ctx context.Context, budgetID uuid.UUID, in PeriodInput) (*domain.BudgetingPeriod, error) {
	period := &domain.BudgetingPeriod{ID: uuid.New(), BudgetID: budgetID}
	if err := s.validate(ctx, period, in, false, nil); err != nil {
		return nil, err
	}
	if err := s.periods.Create(ctx, period); err != nil {
		return nil, duplicateAsValidation(err)
	}

	publish(ctx, s.publisher, events.PeriodCreated, budgetID, period.ID)
	return period, nil
}

func (s *periodService) GetPeriod(ctx context.Context, budgetID, periodID uuid.UUID) (*domain.BudgetingPeriod, error) {
	return s.periods.FindByID(ctx, budgetID, periodID)
}

func (s *periodService) ListPeriods(ctx context.Context, budgetID uuid.UUID, filter domain.PeriodFilter) ([]domain.BudgetingPeriod, error) {
	return s.periods.List(ctx, budgetID, filter)
}

func (s *periodService) UpdatePeriod(ctx context.Context, budgetID, periodID uuid.UUID, in PeriodInput, partial bool) (*domain.BudgetingPeriod, error) {
	period, err := s.periods.FindByID(ctx, budgetID, periodID)
	if err != nil {
		return nil, err
	}
	if !partial && in.IsActive == nil {
		period.IsActive = false
	}
	if err := s.validate(ctx, period, in, partial, &period.ID); err != nil {
		return nil, err
	}
	if err := s.periods.Update(ctx, period); err != nil {
		return nil, duplicateAsValidation(err)
	}

	publish(ctx, s.publisher, events.PeriodUpdated, budgetID, period.ID)
	return period, nil
}

func (s *periodService) DeletePeriod(ctx context.Context, budgetID, periodID uuid.UUID) error {
	if err := s.periods.Delete(ctx, budgetID, periodID); err != nil {
		return err
	}
	publish(ctx, s.publisher, events.PeriodDeleted, budgetID, periodID)
	return nil
}
