package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PredictionMaxDigits     = 10
	PredictionDecimalPlaces = 2
)

type ExpensePrediction struct {
	ID          uuid.UUID       `json:"id"`
	PeriodID    uuid.UUID       `json:"period"`
	CategoryID  uuid.UUID       `json:"category"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
}

type PredictionFilter struct {
	PeriodID   *uuid.UUID
	CategoryID *uuid.UUID
	OwnerID    *string
	Ordering   []Ordering
}

type PredictionRepository interface {
	Create(ctx context.Context, prediction *ExpensePrediction) error
	FindByID(ctx context.Context, budgetID, predictionID uuid.UUID) (*ExpensePrediction, error)
	List(ctx context.Context, budgetID uuid.UUID, filter PredictionFilter) ([]ExpensePrediction, error)
	Update(ctx context.Context, prediction *ExpensePrediction) error
	Delete(ctx context.Context, budgetID, predictionID uuid.UUID) error
	Exists(ctx context.Context, periodID, categoryID uuid.UUID, excludeID *uuid.UUID) (bool, error)
}
