package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	database "github.com/sebuszqo/BudgetManager/internal/db"
)

var categoryOrderColumns = map[string]string{
	"id":    "id",
	"group": "category_group",
	"name":  "name",
}

const categoryColumns = `id, budget_id, owner_id, category_type, category_group, name, description, is_active`

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) domain.CategoryRepository {
	return &categoryRepository{db: db}
}

func scanCategory(row rowScanner) (*domain.TransferCategory, error) {
	var c domain.TransferCategory
	var owner sql.NullString
	if err := row.Scan(&c.ID, &c.BudgetID, &owner, &c.Type, &c.Group, &c.Name, &c.Description, &c.IsActive); err != nil {
		return nil, err
	}
	c.OwnerID = stringPtr(owner)
	return &c, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.TransferCategory) error {
	query := `INSERT INTO transfer_categories (` + categoryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, query,
		category.ID, category.BudgetID, nullableString(category.OwnerID), int(category.Type), category.Group,
		category.Name, category.Description, category.IsActive)
	return mapWriteError(err, "insert category")
}

func (r *categoryRepository) FindByID(ctx context.Context, budgetID, categoryID uuid.UUID) (*domain.TransferCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM transfer_categories WHERE budget_id = $1 AND id = $2`
	c, err := scanCategory(database.Conn(ctx, r.db).QueryRowContext(ctx, query, budgetID, categoryID))
	if err != nil {
		return nil, mapReadError(err, "find category")
	}
	return c, nil
}

func (r *categoryRepository) List(ctx context.Context, budgetID uuid.UUID, filter domain.CategoryFilter) ([]domain.TransferCategory, error) {
	where := newWhere("budget_id = %s", budgetID)
	if filter.Type != nil {
		where.add("category_type = %s", int(*filter.Type))
	}
	if filter.Name != "" {
		where.add("name ILIKE %s", likePattern(filter.Name))
	}
	if filter.CommonOnly {
		where.add("owner_id IS NULL")
	}
	if filter.Group != nil {
		where.add("category_group = %s", *filter.Group)
	}
	if filter.OwnerID != nil {
		where.add("owner_id = %s", *filter.OwnerID)
	}
	if filter.IsActive != nil {
		where.add("is_active = %s", *filter.IsActive)
	}

	query := `SELECT ` + categoryColumns + ` FROM transfer_categories ` + where.String() + ` ` +
		orderBy(filter.Ordering, categoryOrderColumns, "id, category_group, name")

	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.TransferCategory{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.TransferCategory) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE transfer_categories
         SET owner_id = $1, category_group = $2, name = $3, description = $4, is_active = $5
         WHERE budget_id = $6 AND id = $7`,
		nullableString(category.OwnerID), category.Group, category.Name, category.Description, category.IsActive,
		category.BudgetID, category.ID)
	if err != nil {
		return mapWriteError(err, "update category")
	}
	return ensureAffected(res, "update category")
}

func (r *categoryRepository) Delete(ctx context.Context, budgetID, categoryID uuid.UUID) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM transfer_categories WHERE budget_id = $1 AND id = $2`, budgetID, categoryID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return ensureAffected(res, "delete category")
}

func (r *categoryRepository) ExistsByName(ctx context.Context, key domain.CategoryNameKey) (bool, error) {
	where := newWhere("budget_id = %s", key.BudgetID)
	where.add("category_type = %s", int(key.Type))
	where.add("name = %s", key.Name)
	if key.OwnerID != nil {
		where.add("owner_id = %s", *key.OwnerID)
	} else {
		where.add("owner_id IS NULL")
	}
	where.excluding(key.ExcludeID)

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM transfer_categories ` + where.String() + `)`
	if err := database.Conn(ctx, r.db).QueryRowContext(ctx, query, where.args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check category name: %w", err)
	}
	return exists, nil
}
