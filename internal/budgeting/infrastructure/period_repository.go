package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	database "github.com/sebuszqo/BudgetManager/internal/db"
)

var periodOrderColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"date_start": "date_start",
	"date_end":   "date_end",
}

const periodColumns = `id, budget_id, name, date_start, date_end, is_active`

type periodRepository struct {
	db *sql.DB
}

func NewPeriodRepository(db *sql.DB) domain.PeriodRepository {
	return &periodRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPeriod(row rowScanner) (*domain.BudgetingPeriod, error) {
	var p domain.BudgetingPeriod
	err := row.Scan(&p.ID, &p.BudgetID, &p.Name, &p.DateStart.Time, &p.DateEnd.Time, &p.IsActive)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *periodRepository) Create(ctx context.Context, period *domain.BudgetingPeriod) error {
	query := `INSERT INTO budgeting_periods (` + periodColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, query,
		period.ID, period.BudgetID, period.Name, period.DateStart.Time, period.DateEnd.Time, period.IsActive)
	return mapWriteError(err, "insert period")
}

func (r *periodRepository) FindByID(ctx context.Context, budgetID, periodID uuid.UUID) (*domain.BudgetingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM budgeting_periods WHERE budget_id = $1 AND id = $2`
	p, err := scanPeriod(database.Conn(ctx, r.db).QueryRowContext(ctx, query, budgetID, periodID))
	if err != nil {
		return nil, mapReadError(err, "find period")
	}
	return p, nil
}

func (r *periodRepository) List(ctx context.Context, budgetID uuid.UUID, filter domain.PeriodFilter) ([]domain.BudgetingPeriod, error) {
	where := newWhere("budget_id = %s", budgetID)
	if filter.Name != "" {
		where.add("name ILIKE %s", likePattern(filter.Name))
	}
	if filter.IsActive != nil {
		where.add("is_active = %s", *filter.IsActive)
	}

	query := `SELECT ` + periodColumns + ` FROM budgeting_periods ` + where.String() + ` ` +
		orderBy(filter.Ordering, periodOrderColumns, "date_start DESC")

	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("query periods: %w", err)
	}
	defer rows.Close()

	periods := []domain.BudgetingPeriod{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("scan period: %w", err)
		}
		periods = append(periods, *p)
	}
	return periods, rows.Err()
}

func (r *periodRepository) Update(ctx context.Context, period *domain.BudgetingPeriod) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE budgeting_periods SET name = $1, date_start = $2, date_end = $3, is_active = $4
         WHERE budget_id = $5 AND id = $6`,
		period.Name, period.DateStart.Time, period.DateEnd.Time, period.IsActive, period.BudgetID, period.ID)
	if err != nil {
		return mapWriteError(err, "update period")
	}
	return ensureAffected(res, "update period")
}

func (r *periodRepository) Delete(ctx context.Context, budgetID, periodID uuid.UUID) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM budgeting_periods WHERE budget_id = $1 AND id = $2`, budgetID, periodID)
	if err != nil {
		return fmt.Errorf("delete period: %w", err)
	}
	return ensureAffected(res, "delete period")
}

func (r *periodRepository) exists(ctx context.Context, condition string, args ...any) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM budgeting_periods ` + condition + `)`
	if err := database.Conn(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check periods: %w", err)
	}
	return exists, nil
}

func (r *periodRepository) ExistsByName(ctx context.Context, budgetID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	where := newWhere("budget_id = %s", budgetID)
	where.add("name = %s", name)
	where.excluding(excludeID)
	return r.exists(ctx, where.String(), where.args...)
}

func (r *periodRepository) ExistsOverlapping(ctx context.Context, budgetID uuid.UUID, start, end domain.Date, excludeID *uuid.UUID) (bool, error) {
	where := newWhere("budget_id = %s", budgetID)
	where.add("date_start <= %s AND %s <= date_end", end.Time, start.Time)
	where.excluding(excludeID)
	return r.exists(ctx, where.String(), where.args...)
}

func (r *periodRepository) ExistsActive(ctx context.Context, budgetID uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	where := newWhere("budget_id = %s", budgetID)
	where.add("is_active")
	where.excluding(excludeID)
	return r.exists(ctx, where.String(), where.args...)
}
