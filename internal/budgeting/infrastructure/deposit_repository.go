package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	database "github.com/sebuszqo/BudgetManager/internal/db"
)

var depositOrderColumns = map[string]string{
	"id":           "id",
	"name":         "name",
	"deposit_type": "deposit_type",
}

const depositColumns = `id, budget_id, owner_id, name, description, deposit_type, is_active`

type depositRepository struct {
	db *sql.DB
}

func NewDepositRepository(db *sql.DB) domain.DepositRepository {
	return &depositRepository{db: db}
}

func scanDeposit(row rowScanner) (*domain.Deposit, error) {
	var d domain.Deposit
	var owner sql.NullString
	if err := row.Scan(&d.ID, &d.BudgetID, &owner, &d.Name, &d.Description, &d.DepositType, &d.IsActive); err != nil {
		return nil, err
	}
	d.OwnerID = stringPtr(owner)
	return &d, nil
}

func (r *depositRepository) Create(ctx context.Context, deposit *domain.Deposit) error {
	query := `INSERT INTO deposits (` + depositColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, query,
		deposit.ID, deposit.BudgetID, nullableString(deposit.OwnerID), deposit.Name, deposit.Description,
		int(deposit.DepositType), deposit.IsActive)
	return mapWriteError(err, "insert deposit")
}

func (r *depositRepository) FindByID(ctx context.Context, budgetID, depositID uuid.UUID) (*domain.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE budget_id = $1 AND id = $2`
	d, err := scanDeposit(database.Conn(ctx, r.db).QueryRowContext(ctx, query, budgetID, depositID))
	if err != nil {
		return nil, mapReadError(err, "find deposit")
	}
	return d, nil
}

func (r *depositRepository) List(ctx context.Context, budgetID uuid.UUID, filter domain.DepositFilter) ([]domain.Deposit, error) {
	where := newWhere("budget_id = %s", budgetID)
	if filter.Name != "" {
		where.add("name ILIKE %s", likePattern(filter.Name))
	}
	if filter.DepositType != nil {
		where.add("deposit_type = %s", int(*filter.DepositType))
	}
	if filter.OwnerID != nil {
		where.add("owner_id = %s", *filter.OwnerID)
	}
	if filter.IsActive != nil {
		where.add("is_active = %s", *filter.IsActive)
	}

	query := `SELECT ` + depositColumns + ` FROM deposits ` + where.String() + ` ` +
		orderBy(filter.Ordering, depositOrderColumns, "id")

	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("query deposits: %w", err)
	}
	defer rows.Close()

	deposits := []domain.Deposit{}
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deposit: %w", err)
		}
		deposits = append(deposits, *d)
	}
	return deposits, rows.Err()
}

func (r *depositRepository) Update(ctx context.Context, deposit *domain.Deposit) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE deposits SET owner_id = $1, name = $2, description = $3, deposit_type = $4, is_active = $5
         WHERE budget_id = $6 AND id = $7`,
		nullableString(deposit.OwnerID), deposit.Name, deposit.Description, int(deposit.DepositType), deposit.IsActive,
		deposit.BudgetID, deposit.ID)
	if err != nil {
		return mapWriteError(err, "update deposit")
	}
	return ensureAffected(res, "update deposit")
}

func (r *depositRepository) Delete(ctx context.Context, budgetID, depositID uuid.UUID) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM deposits WHERE budget_id = $1 AND id = $2`, budgetID, depositID)
	if err != nil {
		return fmt.Errorf("delete deposit: %w", err)
	}
	return ensureAffected(res, "delete deposit")
}

func (r *depositRepository) ExistsByName(ctx context.Context, budgetID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	where := newWhere("budget_id = %s", budgetID)
	where.add("name = %s", name)
	where.excluding(excludeID)

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM deposits ` + where.String() + `)`
	if err := database.Conn(ctx, r.db).QueryRowContext(ctx, query, where.args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check deposit name: %w", err)
	}
	return exists, nil
}
