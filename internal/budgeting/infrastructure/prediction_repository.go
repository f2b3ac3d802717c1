package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	database "github.com/sebuszqo/BudgetManager/internal/db"
)

var predictionOrderColumns = map[string]string{
	"id":       "e.id",
	"period":   "p.date_start",
	"category": "c.name",
	"value":    "e.value",
}

const predictionSelect = `SELECT e.id, e.period_id, e.category_id, e.value, e.description
                          FROM expense_predictions e
                          JOIN budgeting_periods p ON p.id = e.period_id
                          JOIN transfer_categories c ON c.id = e.category_id `

type predictionRepository struct {
	db *sql.DB
}

func NewPredictionRepository(db *sql.DB) domain.PredictionRepository {
	return &predictionRepository{db: db}
}

func scanPrediction(row rowScanner) (*domain.ExpensePrediction, error) {
	var e domain.ExpensePrediction
	if err := row.Scan(&e.ID, &e.PeriodID, &e.CategoryID, &e.Value, &e.Description); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *predictionRepository) Create(ctx context.Context, prediction *domain.ExpensePrediction) error {
	_, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO expense_predictions (id, period_id, category_id, value, description) VALUES ($1, $2, $3, $4, $5)`,
		prediction.ID, prediction.PeriodID, prediction.CategoryID, prediction.Value, prediction.Description)
	return mapWriteError(err, "insert expense prediction")
}

func (r *predictionRepository) FindByID(ctx context.Context, budgetID, predictionID uuid.UUID) (*domain.ExpensePrediction, error) {
	query := predictionSelect + `WHERE p.budget_id = $1 AND e.id = $2`
	e, err := scanPrediction(database.Conn(ctx, r.db).QueryRowContext(ctx, query, budgetID, predictionID))
	if err != nil {
		return nil, mapReadError(err, "find expense prediction")
	}
	return e, nil
}

func (r *predictionRepository) List(ctx context.Context, budgetID uuid.UUID, filter domain.PredictionFilter) ([]domain.ExpensePrediction, error) {
	where := newWhere("p.budget_id = %s", budgetID)
	if filter.PeriodID != nil {
		where.add("e.period_id = %s", *filter.PeriodID)
	}
	if filter.CategoryID != nil {
		where.add("e.category_id = %s", *filter.CategoryID)
	}
	if filter.OwnerID != nil {
		where.add("c.owner_id = %s", *filter.OwnerID)
	}

	query := predictionSelect + where.String() + ` ` + orderBy(filter.Ordering, predictionOrderColumns, "e.id")

	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("query expense predictions: %w", err)
	}
	defer rows.Close()

	predictions := []domain.ExpensePrediction{}
	for rows.Next() {
		e, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense prediction: %w", err)
		}
		predictions = append(predictions, *e)
	}
	return predictions, rows.Err()
}

func (r *predictionRepository) Update(ctx context.Context, prediction *domain.ExpensePrediction) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE expense_predictions SET period_id = $1, category_id = $2, value = $3, description = $4 WHERE id = $5`,
		prediction.PeriodID, prediction.CategoryID, prediction.Value, prediction.Description, prediction.ID)
	if err != nil {
		return mapWriteError(err, "update expense prediction")
	}
	return ensureAffected(res, "update expense prediction")
}

func (r *predictionRepository) Delete(ctx context.Context, budgetID, predictionID uuid.UUID) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM expense_predictions e USING budgeting_periods p
         WHERE p.id = e.period_id AND p.budget_id = $1 AND e.id = $2`, budgetID, predictionID)
	if err != nil {
		return fmt.Errorf("delete expense prediction: %w", err)
	}
	return ensureAffected(res, "delete expense prediction")
}

func (r *predictionRepository) Exists(ctx context.Context, periodID, categoryID uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	where := newWhere("period_id = %s", periodID)
	where.add("category_id = %s", categoryID)
	where.excluding(excludeID)

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM expense_predictions ` + where.String() + `)`
	if err := database.Conn(ctx, r.db).QueryRowContext(ctx, query, where.args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check expense prediction: %w", err)
	}
	return exists, nil
}
