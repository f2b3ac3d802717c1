package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	budgetingErrors "github.com/sebuszqo/BudgetManager/internal/budgeting/errors"
	"github.com/sebuszqo/BudgetManager/internal/events"
	"github.com/shopspring/decimal"
)

var maxPredictionValue = decimal.New(1, domain.PredictionMaxDigits-domain.PredictionDecimalPlaces)

type PredictionInput struct {
	PeriodID    *uuid.UUID
	CategoryID  *uuid.UUID
	Value       *decimal.Decimal
	Description *string
}

type PredictionService interface {
	CreatePrediction(ctx context.Context, budgetID uuid.UUID, in PredictionInput) (*domain.ExpensePrediction, error)
	GetPrediction(ctx context.Context, budgetID, predictionID uuid.UUID) (*domain.ExpensePrediction, error)
	ListPredictions(ctx context.Context, budgetID uuid.UUID, filter domain.PredictionFilter) ([]domain.ExpensePrediction, error)
	UpdatePrediction(ctx context.Context, budgetID, predictionID uuid.UUID, in PredictionInput, partial bool) (*domain.ExpensePrediction, error)
	DeletePrediction(ctx context.Context, budgetID, predictionID uuid.UUID) error
}

type predictionService struct {
	predictions domain.PredictionRepository
	periods     domain.PeriodRepository
	categories  domain.CategoryRepository
	publisher   events.Publisher
}

func NewPredictionService(predictions domain.PredictionRepository, periods domain.PeriodRepository, categories domain.CategoryRepository, publisher events.Publisher) PredictionService {
	return &predictionService{
		predictions: predictions,
		periods:     periods,
		categories:  categories,
		publisher:   publisher,
	}
}

func validateValue(v *fieldValidator, value decimal.Decimal) {
	switch {
	case value.IsNegative():
		v.add("value", "Ensure this value is greater than or equal to 0.")
	case !value.Equal(value.Round(domain.PredictionDecimalPlaces)):
		v.add("value", fmt.Sprintf("Ensure that there are no more than %d decimal places.", domain.PredictionDecimalPlaces))
	case value.GreaterThanOrEqual(maxPredictionValue):
		v.add("value", fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.",
			domain.PredictionMaxDigits-domain.PredictionDecimalPlaces))
	}
}

func (s *predictionService) validate(ctx context.Context, budgetID uuid.UUID, prediction *domain.ExpensePrediction, in PredictionInput, partial bool, excludeID *uuid.UUID) error {
	v := &fieldValidator{}
	v.required("period", in.PeriodID != nil, partial)
	v.required("category", in.CategoryID != nil, partial)
	if v.required("value", in.Value != nil, partial) {
		validateValue(v, *in.Value)
	}
	v.maxLength("description", in.Description, domain.MaxDescriptionLength)
	if err := v.err(); err != nil {
		return err
	}

	if in.PeriodID != nil {
		prediction.PeriodID = *in.PeriodID
	}
	if in.CategoryID != nil {
		prediction.CategoryID = *in.CategoryID
	}
	if in.Value != nil {
		prediction.Value = *in.Value
	}
	prediction.Description = stringOr(in.Description, prediction.Description)

	if _, err := s.periods.FindByID(ctx, budgetID, prediction.PeriodID); err != nil {
		if !errors.Is(err, budgetingErrors.ErrNotFound) {
			return fmt.Errorf("load period: %w", err)
		}
		v.add("period", "Budgeting period does not belong to Budget.")
	}
	category, err := s.categories.FindByID(ctx, budgetID, prediction.CategoryID)
	switch {
	case errors.Is(err, budgetingErrors.ErrNotFound):
		v.add("category", "Category does not belong to Budget.")
	case err != nil:
		return fmt.Errorf("load category: %w", err)
	case category.Type != domain.CategoryTypeExpense:
		v.add("category", "Expense prediction can be assigned only to ExpenseCategory.")
	}
	if err := v.err(); err != nil {
		return err
	}

	exists, err := s.predictions.Exists(ctx, prediction.PeriodID, prediction.CategoryID, excludeID)
	if err != nil {
		return fmt.Errorf("check prediction: %w", err)
	}
	if exists {
		return budgetingErrors.NewNonFieldError("Expense prediction for selected Period and Category already exists.")
	}
	return nil
}

func (s *predictionService) CreatePrediction(ctx context.Context, budgetID uuid.UUID, in PredictionInput) (*domain.ExpensePrediction, error) {
	prediction := &domain.ExpensePrediction{ID: uuid.New()}
	if err := s.validate(ctx, budgetID, prediction, in, false, nil); err != nil {
		return nil, err
	}
	if err := s.predictions.Create(ctx, prediction); err != nil {
		return nil, duplicateAsValidation(err)
	}

	publish(ctx, s.publisher, events.ExpensePredictionCreated, budgetID, prediction.ID)
	return prediction, nil
}

func (s *predictionService) GetPrediction(ctx context.Context, budgetID, predictionID uuid.UUID) (*domain.ExpensePrediction, error) {
	return s.predictions.FindByID(ctx, budgetID, predictionID)
}

func (s *predictionService) ListPredictions(ctx context.Context, budgetID uuid.UUID, filter domain.PredictionFilter) ([]domain.ExpensePrediction, error) {
	return s.predictions.List(ctx, budgetID, filter)
}

func (s *predictionService) UpdatePrediction(ctx context.Context, budgetID, predictionID uuid.UUID, in PredictionInput, partial bool) (*domain.ExpensePrediction, error) {
	prediction, err := s.predictions.FindByID(ctx, budgetID, predictionID)
	if err != nil {
		return nil, err
	}
	if !partial {
		prediction.Description = ""
	}
	if err := s.validate(ctx, budgetID, prediction, in, partial, &prediction.ID); err != nil {
		return nil, err
	}
	if err := s.predictions.Update(ctx, prediction); err != nil {
		return nil, duplicateAsValidation(err)
	}

	publish(ctx, s.publisher, events.ExpensePredictionUpdated, budgetID, prediction.ID)
	return prediction, nil
}

func (s *predictionService) DeletePrediction(ctx context.Context, budgetID, predictionID uuid.UUID) error {
	if err := s.predictions.Delete(ctx, budgetID, predictionID); err != nil {
		return err
	}
	publish(ctx, s.publisher, events.ExpensePredictionDeleted, budgetID, predictionID)
	return nil
}
