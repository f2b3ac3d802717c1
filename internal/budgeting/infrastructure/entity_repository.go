package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	database "github.com/sebuszqo/BudgetManager/internal/db"
)

var entityOrderColumns = map[string]string{
	"id":   "id",
	"name": "name",
}

const entityColumns = `id, budget_id, deposit_id, name, description, is_active`

type entityRepository struct {
	db *sql.DB
}

func NewEntityRepository(db *sql.DB) domain.EntityRepository {
	return &entityRepository{db: db}
}

func scanEntity(row rowScanner) (*domain.Entity, error) {
	var e domain.Entity
	var depositID uuid.NullUUID
	if err := row.Scan(&e.ID, &e.BudgetID, &depositID, &e.Name, &e.Description, &e.IsActive); err != nil {
		return nil, err
	}
	e.DepositID = idPtr(depositID)
	return &e, nil
}

func (r *entityRepository) Create(ctx context.Context, entity *domain.Entity) error {
	query := `INSERT INTO entities (` + entityColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, query,
		entity.ID, entity.BudgetID, nullableID(entity.DepositID), entity.Name, entity.Description, entity.IsActive)
	return mapWriteError(err, "insert entity")
}

func (r *entityRepository) FindByID(ctx context.Context, budgetID, entityID uuid.UUID) (*domain.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE budget_id = $1 AND id = $2`
	e, err := scanEntity(database.Conn(ctx, r.db).QueryRowContext(ctx, query, budgetID, entityID))
	if err != nil {
		return nil, mapReadError(err, "find entity")
	}
	return e, nil
}

func (r *entityRepository) FindByDepositID(ctx context.Context, depositID uuid.UUID) (*domain.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE deposit_id = $1`
	e, err := scanEntity(database.Conn(ctx, r.db).QueryRowContext(ctx, query, depositID))
	if err != nil {
		return nil, mapReadError(err, "find deposit entity")
	}
	return e, nil
}

func (r *entityRepository) List(ctx context.Context, budgetID uuid.UUID, filter domain.EntityFilter) ([]domain.Entity, error) {
	where := newWhere("budget_id = %s", budgetID)
	if filter.Name != "" {
		where.add("name ILIKE %s", likePattern(filter.Name))
	}
	if filter.IsActive != nil {
		where.add("is_active = %s", *filter.IsActive)
	}
	if filter.IsDeposit != nil {
		if *filter.IsDeposit {
			where.add("deposit_id IS NOT NULL")
		} else {
			where.add("deposit_id IS NULL")
		}
	}

	query := `SELECT ` + entityColumns + ` FROM entities ` + where.String() + ` ` +
		orderBy(filter.Ordering, entityOrderColumns, "id")

	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	entities := []domain.Entity{}
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		entities = append(entities, *e)
	}
	return entities, rows.Err()
}

func (r *entityRepository) Update(ctx context.Context, entity *domain.Entity) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE entities SET name = $1, description = $2, is_active = $3 WHERE budget_id = $4 AND id = $5`,
		entity.Name, entity.Description, entity.IsActive, entity.BudgetID, entity.ID)
	if err != nil {
		return mapWriteError(err, "update entity")
	}
	return ensureAffected(res, "update entity")
}

func (r *entityRepository) Delete(ctx context.Context, budgetID, entityID uuid.UUID) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM entities WHERE budget_id = $1 AND id = $2`, budgetID, entityID)
	if err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}
	return ensureAffected(res, "delete entity")
}

func (r *entityRepository) ExistsByName(ctx context.Context, budgetID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	where := newWhere("budget_id = %s", budgetID)
	where.add("name = %s", name)
	where.excluding(excludeID)

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM entities ` + where.String() + `)`
	if err := database.Conn(ctx, r.db).QueryRowContext(ctx, query, where.args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check entity name: %w", err)
	}
	return exists, nil
}
