package interfaces

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
)

type queryError struct {
	param string
	msg   string
}

func (e *queryError) Error() string {
	return fmt.Sprintf("%s: %s", e.param, e.msg)
}

// listQuery reads optional list filters, the first bad value is kept in err.
type listQuery struct {
	values url.Values
	err    error
}

func newListQuery(values url.Values) *listQuery {
	return &listQuery{values: values}
}

func (q *listQuery) fail(param, msg string) {
	if q.err == nil {
		q.err = &queryError{param: param, msg: msg}
	}
}

func (q *listQuery) str(param string) string {
	return q.values.Get(param)
}

func (q *listQuery) boolean(param string) *bool {
	raw := q.values.Get(param)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.fail(param, "Select a valid choice.")
		return nil
	}
	return &v
}

func (q *listQuery) integer(param string) *int {
	raw := q.values.Get(param)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(param, "Enter a whole number.")
		return nil
	}
	return &v
}

func (q *listQuery) id(param string) *uuid.UUID {
	raw := q.values.Get(param)
	if raw == "" {
		return nil
	}
	v, err := uuid.Parse(raw)
	if err != nil {
		q.fail(param, "Select a valid choice. That choice is not one of the available choices.")
		return nil
	}
	return &v
}

// owner accepts a user id only, filtering by owner never matches common rows.
func (q *listQuery) owner(param string) *string {
	raw := q.values.Get(param)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		q.fail(param, "Select a valid choice. That choice is not one of the available choices.")
		return nil
	}
	owner := id.String()
	return &owner
}

func (q *listQuery) ordering(allowed ...string) []domain.Ordering {
	orderings, ok := domain.ParseOrdering(q.values.Get("ordering"), allowed...)
	if !ok {
		q.fail("ordering", "Select a valid choice.")
	}
	return orderings
}
