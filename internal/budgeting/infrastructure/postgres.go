package infrastructure

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	budgetingErrors "github.com/sebuszqo/BudgetManager/internal/budgeting/errors"
)

const uniqueViolationCode = "23505"

// mapWriteError turns unique index violations into ErrDuplicate.
func mapWriteError(err error, op string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, budgetingErrors.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func mapReadError(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return budgetingErrors.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func ensureAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return budgetingErrors.ErrNotFound
	}
	return nil
}

func nullableID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func idPtr(nu uuid.NullUUID) *uuid.UUID {
	if !nu.Valid {
		return nil
	}
	id := nu.UUID
	return &id
}

// whereBuilder collects AND-ed conditions. Each %s in a condition is
// replaced with the next positional placeholder.
type whereBuilder struct {
	clauses []string
	args    []any
}

func newWhere(clause string, args ...any) *whereBuilder {
	w := &whereBuilder{}
	w.add(clause, args...)
	return w
}

func (w *whereBuilder) add(clause string, args ...any) {
	placeholders := make([]any, len(args))
	for i := range args {
		w.args = append(w.args, args[i])
		placeholders[i] = fmt.Sprintf("$%d", len(w.args))
	}
	w.clauses = append(w.clauses, fmt.Sprintf(clause, placeholders...))
}

func (w *whereBuilder) excluding(id *uuid.UUID) {
	if id != nil {
		w.add("id <> %s", *id)
	}
}

func (w *whereBuilder) String() string {
	return "WHERE " + strings.Join(w.clauses, " AND ")
}

// orderBy renders an ORDER BY clause for whitelisted fields; columns maps API
// field names to SQL expressions.
func orderBy(orderings []domain.Ordering, columns map[string]string, fallback string) string {
	if len(orderings) == 0 {
		return "ORDER BY " + fallback
	}
	terms := make([]string, 0, len(orderings))
	for _, o := range orderings {
		col, ok := columns[o.Field]
		if !ok {
			continue
		}
		if o.Desc {
			col += " DESC"
		}
		terms = append(terms, col)
	}
	if len(terms) == 0 {
		return "ORDER BY " + fallback
	}
	return "ORDER BY " + strings.Join(terms, ", ")
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
