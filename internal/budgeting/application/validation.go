package application

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	budgetingErrors "github.com/sebuszqo/BudgetManager/internal/budgeting/errors"
	"github.com/sebuszqo/BudgetManager/internal/events"
	"github.com/sebuszqo/BudgetManager/internal/logger"
)

const (
	msgOwnerNotInBudget = "Provided owner does not belong to Budget."
	msgAlreadyExists    = "Object with given values already exists."
)

// OptionalOwner tells an omitted owner apart from an explicit null.
type OptionalOwner struct {
	Set bool
	ID  *string
}

// fieldValidator collects field errors in the order checks are made.
type fieldValidator struct {
	verr budgetingErrors.ValidationError
}

func (v *fieldValidator) add(field, msg string) {
	v.verr.Add(field, msg)
}

// required reports a missing value unless the update is partial.
func (v *fieldValidator) required(field string, present, partial bool) bool {
	if !present && !partial {
		v.add(field, budgetingErrors.RequiredMsg())
		return false
	}
	return present
}

func (v *fieldValidator) requiredString(field string, value *string, partial bool, max int) {
	if !v.required(field, value != nil, partial) {
		return
	}
	if *value == "" {
		v.add(field, "This field may not be blank.")
		return
	}
	v.maxLength(field, value, max)
}

func (v *fieldValidator) maxLength(field string, value *string, max int) {
	if value != nil && utf8.RuneCountInString(*value) > max {
		v.add(field, budgetingErrors.MaxLengthMsg(max))
	}
}

func (v *fieldValidator) err() error {
	return v.verr.OrNil()
}

func ownerBelongsToBudget(budget *domain.Budget, owner *string) bool {
	return owner == nil || budget.HasAccess(*owner)
}

func mergeOwner(current *string, in OptionalOwner) *string {
	if !in.Set {
		return current
	}
	if in.ID == nil {
		return nil
	}
	id := normalizeUserID(*in.ID)
	return &id
}

// normalizeUserID returns the canonical lower-case form of a uuid so ids
// compare equal to the ones stored, anything unparsable is kept as sent.
func normalizeUserID(id string) string {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return id
	}
	return parsed.String()
}

func stringOr(value *string, fallback string) string {
	if value != nil {
		return *value
	}
	return fallback
}

func boolOr(value *bool, fallback bool) bool {
	if value != nil {
		return *value
	}
	return fallback
}

// duplicateAsValidation reports a unique index violation that passed the
// pre-checks as a validation error instead of a server error.
func duplicateAsValidation(err error) error {
	if errors.Is(err, budgetingErrors.ErrDuplicate) {
		return budgetingErrors.NewNonFieldError(msgAlreadyExists)
	}
	return err
}

func loadBudget(ctx context.Context, budgets domain.BudgetRepository, budgetID uuid.UUID) (*domain.Budget, error) {
	budget, err := budgets.FindByID(ctx, budgetID)
	if errors.Is(err, budgetingErrors.ErrNotFound) {
		return nil, budgetingErrors.ErrNoBudgetAccess
	}
	return budget, err
}

// publish sends the event and only logs failures; events are best-effort.
func publish(ctx context.Context, publisher events.Publisher, eventType string, budgetID, resourceID uuid.UUID) {
	if err := publisher.Publish(ctx, events.New(eventType, budgetID, resourceID)); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("event", eventType).Msg("Failed to publish event")
	}
}
