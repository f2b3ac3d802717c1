package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	database "github.com/sebuszqo/BudgetManager/internal/db"
)

type budgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) domain.BudgetRepository {
	return &budgetRepository{db: db}
}

func (r *budgetRepository) Create(ctx context.Context, budget *domain.Budget) error {
	query := `INSERT INTO budgets (id, owner_id, name, description, currency, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, query,
		budget.ID, budget.OwnerID, budget.Name, budget.Description, budget.Currency, budget.CreatedAt, budget.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "insert budget")
	}
	return r.insertMembers(ctx, budget.ID, budget.MemberIDs)
}

func (r *budgetRepository) insertMembers(ctx context.Context, budgetID uuid.UUID, memberIDs []string) error {
	conn := database.Conn(ctx, r.db)
	for _, memberID := range memberIDs {
		_, err := conn.ExecContext(ctx,
			`INSERT INTO budget_members (budget_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			budgetID, memberID)
		if err != nil {
			return mapWriteError(err, "insert budget member")
		}
	}
	return nil
}

func (r *budgetRepository) FindByID(ctx context.Context, budgetID uuid.UUID) (*domain.Budget, error) {
	query := `SELECT id, owner_id, name, description, currency, created_at, updated_at
              FROM budgets WHERE id = $1`

	var b domain.Budget
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, query, budgetID).Scan(
		&b.ID, &b.OwnerID, &b.Name, &b.Description, &b.Currency, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, mapReadError(err, "find budget")
	}

	members, err := r.loadMembers(ctx, []uuid.UUID{b.ID})
	if err != nil {
		return nil, err
	}
	b.MemberIDs = members[b.ID]
	if b.MemberIDs == nil {
		b.MemberIDs = []string{}
	}
	return &b, nil
}

func (r *budgetRepository) loadMembers(ctx context.Context, budgetIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	members := make(map[uuid.UUID][]string, len(budgetIDs))
	if len(budgetIDs) == 0 {
		return members, nil
	}

	ids := make([]string, len(budgetIDs))
	for i, id := range budgetIDs {
		ids[i] = id.String()
	}

	rows, err := database.Conn(ctx, r.db).QueryContext(ctx,
		`SELECT budget_id, user_id FROM budget_members WHERE budget_id = ANY($1::uuid[]) ORDER BY user_id`, ids)
	if err != nil {
		return nil, fmt.Errorf("query budget members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var budgetID uuid.UUID
		var userID string
		if err := rows.Scan(&budgetID, &userID); err != nil {
			return nil, fmt.Errorf("scan budget member: %w", err)
		}
		members[budgetID] = append(members[budgetID], userID)
	}
	return members, rows.Err()
}

func (r *budgetRepository) ListForUser(ctx context.Context, userID string, scope domain.BudgetScope) ([]domain.Budget, error) {
	memberOf := `EXISTS (SELECT 1 FROM budget_members m WHERE m.budget_id = b.id AND m.user_id = $1)`

	var condition string
	switch scope {
	case domain.BudgetScopeOwned:
		condition = `b.owner_id = $1`
	case domain.BudgetScopeMembered:
		condition = memberOf
	default:
		condition = `(b.owner_id = $1 OR ` + memberOf + `)`
	}

	query := `SELECT b.id, b.owner_id, b.name, b.description, b.currency, b.created_at, b.updated_at
              FROM budgets b WHERE ` + condition + ` ORDER BY b.name, b.id`

	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	budgets := []domain.Budget{}
	var ids []uuid.UUID
	for rows.Next() {
		var b domain.Budget
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Description, &b.Currency, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	members, err := r.loadMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range budgets {
		budgets[i].MemberIDs = members[budgets[i].ID]
		if budgets[i].MemberIDs == nil {
			budgets[i].MemberIDs = []string{}
		}
	}
	return budgets, nil
}

func (r *budgetRepository) ExistsByName(ctx context.Context, ownerID, name string, excludeID *uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (
                  SELECT 1 FROM budgets
                  WHERE owner_id = $1 AND name = $2 AND ($3::uuid IS NULL OR id <> $3::uuid))`

	var exists bool
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, query, ownerID, name, nullableID(excludeID)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check budget name: %w", err)
	}
	return exists, nil
}

func (r *budgetRepository) Update(ctx context.Context, budget *domain.Budget) error {
	conn := database.Conn(ctx, r.db)
	res, err := conn.ExecContext(ctx,
		`UPDATE budgets SET name = $1, description = $2, currency = $3, updated_at = $4 WHERE id = $5`,
		budget.Name, budget.Description, budget.Currency, budget.UpdatedAt, budget.ID)
	if err != nil {
		return mapWriteError(err, "update budget")
	}
	if err := ensureAffected(res, "update budget"); err != nil {
		return err
	}

	if _, err := conn.ExecContext(ctx, `DELETE FROM budget_members WHERE budget_id = $1`, budget.ID); err != nil {
		return fmt.Errorf("clear budget members: %w", err)
	}
	return r.insertMembers(ctx, budget.ID, budget.MemberIDs)
}

func (r *budgetRepository) Delete(ctx context.Context, budgetID uuid.UUID) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, budgetID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return ensureAffected(res, "delete budget")
}

type userDirectory struct {
	db *sql.DB
}

func NewUserDirectory(db *sql.DB) domain.UserDirectory {
	return &userDirectory{db: db}
}

func (d *userDirectory) ExistingUserIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(ids))

	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return existing, nil
	}

	rows, err := database.Conn(ctx, d.db).QueryContext(ctx, `SELECT id FROM users WHERE id = ANY($1::uuid[])`, valid)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		existing[id] = true
	}
	return existing, rows.Err()
}
