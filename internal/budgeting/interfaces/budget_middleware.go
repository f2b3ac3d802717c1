package interfaces

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/auth"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	budgetingErrors "github.com/sebuszqo/BudgetManager/internal/budgeting/errors"
	"github.com/sebuszqo/BudgetManager/internal/logger"
)

type budgetContextKey struct{}

func withBudget(ctx context.Context, budget *domain.Budget) context.Context {
	return context.WithValue(ctx, budgetContextKey{}, budget)
}

func budgetFromContext(ctx context.Context) (*domain.Budget, bool) {
	budget, ok := ctx.Value(budgetContextKey{}).(*domain.Budget)
	return budget, ok && budget != nil
}

// AccessChecker resolves a budget the user may access.
type AccessChecker interface {
	CheckAccess(ctx context.Context, budgetID uuid.UUID, userID string) (*domain.Budget, error)
}

// BudgetAccessMiddleware lets the request through only when the caller owns
// the {budgetID} budget or is one of its members. The budget is stored in the
// request context for the handlers.
func BudgetAccessMiddleware(checker AccessChecker, respondError RespondErrorFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromContext(r.Context())
			denied := budgetingErrors.ErrNoBudgetAccess.Error()

			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				respondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			budgetID, err := uuid.Parse(r.PathValue("budgetID"))
			if err != nil {
				log.Debug().Str("budget_id", r.PathValue("budgetID")).Msg("Invalid budget id")
				respondError(w, http.StatusForbidden, denied, denied)
				return
			}

			budget, err := checker.CheckAccess(r.Context(), budgetID, userID)
			if err != nil {
				if errors.Is(err, budgetingErrors.ErrNoBudgetAccess) {
					log.Debug().Str("budget_id", budgetID.String()).Str("user_id", userID).Msg("Budget access denied")
					respondError(w, http.StatusForbidden, denied, denied)
					return
				}
				log.Error().Err(err).Msg("Failed to check budget access")
				respondError(w, http.StatusInternalServerError, "Failed to check budget access")
				return
			}

			next.ServeHTTP(w, r.WithContext(withBudget(r.Context(), budget)))
		})
	}
}

// budgetID returns the budget resolved by BudgetAccessMiddleware.
func (h responder) budgetID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	budget, ok := budgetFromContext(r.Context())
	if !ok {
		denied := budgetingErrors.ErrNoBudgetAccess.Error()
		h.respondError(w, http.StatusForbidden, denied, denied)
		return uuid.Nil, false
	}
	return budget.ID, true
}
