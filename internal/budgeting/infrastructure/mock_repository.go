package infrastructure

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/domain"
	budgetingErrors "github.com/sebuszqo/BudgetManager/internal/budgeting/errors"
)

// MockStore is an in-memory implementation of every budgeting repository.
// WithinTransaction snapshots the whole store and restores it when fn fails.
type MockStore struct {
	mu          sync.Mutex
	users       map[string]bool
	budgets     map[uuid.UUID]domain.Budget
	periods     map[uuid.UUID]domain.BudgetingPeriod
	deposits    map[uuid.UUID]domain.Deposit
	entities    map[uuid.UUID]domain.Entity
	categories  map[uuid.UUID]domain.TransferCategory
	predictions map[uuid.UUID]domain.ExpensePrediction

	// Fail makes the named operation (e.g. "entities.Create") return the error.
	Fail map[string]error
}

func NewMockStore(userIDs ...string) *MockStore {
	s := &MockStore{
		users:       make(map[string]bool),
		budgets:     make(map[uuid.UUID]domain.Budget),
		periods:     make(map[uuid.UUID]domain.BudgetingPeriod),
		deposits:    make(map[uuid.UUID]domain.Deposit),
		entities:    make(map[uuid.UUID]domain.Entity),
		categories:  make(map[uuid.UUID]domain.TransferCategory),
		predictions: make(map[uuid.UUID]domain.ExpensePrediction),
		Fail:        make(map[string]error),
	}
	for _, id := range userIDs {
		s.users[id] = true
	}
	return s
}

func (s *MockStore) AddUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = true
}

func (s *MockStore) Budgets() domain.BudgetRepository         { return mockBudgetRepo{s} }
func (s *MockStore) Periods() domain.PeriodRepository         { return mockPeriodRepo{s} }
func (s *MockStore) Deposits() domain.DepositRepository       { return mockDepositRepo{s} }
func (s *MockStore) Entities() domain.EntityRepository        { return mockEntityRepo{s} }
func (s *MockStore) Categories() domain.CategoryRepository    { return mockCategoryRepo{s} }
func (s *MockStore) Predictions() domain.PredictionRepository { return mockPredictionRepo{s} }
func (s *MockStore) Users() domain.UserDirectory              { return mockUserDirectory{s} }

func (s *MockStore) fail(op string) error {
	return s.Fail[op]
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *MockStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	budgets, periods := copyMap(s.budgets), copyMap(s.periods)
	deposits, entities := copyMap(s.deposits), copyMap(s.entities)
	categories, predictions := copyMap(s.categories), copyMap(s.predictions)
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.budgets, s.periods = budgets, periods
		s.deposits, s.entities = deposits, entities
		s.categories, s.predictions = categories, predictions
		s.mu.Unlock()
		return err
	}
	return nil
}

// EntitiesForDeposit returns every entity linked to the deposit.
func (s *MockStore) EntitiesForDeposit(depositID uuid.UUID) []domain.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Entity
	for _, e := range s.entities {
		if e.DepositID != nil && *e.DepositID == depositID {
			out = append(out, e)
		}
	}
	return out
}

func sortedValues[V any](m map[uuid.UUID]V, keep func(V) bool, id func(V) uuid.UUID) []V {
	out := []V{}
	for _, v := range m {
		if keep(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := id(out[i]), id(out[j])
		return a.String() < b.String()
	})
	return out
}

type mockUserDirectory struct{ s *MockStore }

func (d mockUserDirectory) ExistingUserIDs(_ context.Context, ids []string) (map[string]bool, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	out := make(map[string]bool)
	for _, id := range ids {
		if d.s.users[id] {
			out[id] = true
		}
	}
	return out, nil
}

type mockBudgetRepo struct{ s *MockStore }

func cloneBudget(b domain.Budget) domain.Budget {
	b.MemberIDs = append([]string{}, b.MemberIDs...)
	return b
}

func (r mockBudgetRepo) Create(_ context.Context, budget *domain.Budget) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("budgets.Create"); err != nil {
		return err
	}
	for _, b := range r.s.budgets {
		if b.OwnerID == budget.OwnerID && b.Name == budget.Name {
			return budgetingErrors.ErrDuplicate
		}
	}
	r.s.budgets[budget.ID] = cloneBudget(*budget)
	return nil
}

func (r mockBudgetRepo) FindByID(_ context.Context, budgetID uuid.UUID) (*domain.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.budgets[budgetID]
	if !ok {
		return nil, budgetingErrors.ErrNotFound
	}
	b = cloneBudget(b)
	return &b, nil
}

func (r mockBudgetRepo) ListForUser(_ context.Context, userID string, scope domain.BudgetScope) ([]domain.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := sortedValues(r.s.budgets, func(b domain.Budget) bool {
		switch scope {
		case domain.BudgetScopeOwned:
			return b.OwnerID == userID
		case domain.BudgetScopeMembered:
			return b.IsMember(userID)
		default:
			return b.HasAccess(userID)
		}
	}, func(b domain.Budget) uuid.UUID { return b.ID })
	for i := range out {
		out[i] = cloneBudget(out[i])
	}
	return out, nil
}

func (r mockBudgetRepo) ExistsByName(_ context.Context, ownerID, name string, excludeID *uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.budgets {
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.OwnerID == ownerID && b.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r mockBudgetRepo) Update(_ context.Context, budget *domain.Budget) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.budgets[budget.ID]; !ok {
		return budgetingErrors.ErrNotFound
	}
	r.s.budgets[budget.ID] = cloneBudget(*budget)
	return nil
}

func (r mockBudgetRepo) Delete(_ context.Context, budgetID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.budgets[budgetID]; !ok {
		return budgetingErrors.ErrNotFound
	}
	delete(r.s.budgets, budgetID)
	// cascade
	for id, p := range r.s.periods {
		if p.BudgetID == budgetID {
			delete(r.s.periods, id)
			for pid, e := range r.s.predictions {
				if e.PeriodID == id {
					delete(r.s.predictions, pid)
				}
			}
		}
	}
	for id, d := range r.s.deposits {
		if d.BudgetID == budgetID {
			delete(r.s.deposits, id)
		}
	}
	for id, e := range r.s.entities {
		if e.BudgetID == budgetID {
			delete(r.s.entities, id)
		}
	}
	for id, c := range r.s.categories {
		if c.BudgetID == budgetID {
			delete(r.s.categories, id)
		}
	}
	return nil
}

type mockPeriodRepo struct{ s *MockStore }

func (r mockPeriodRepo) Create(_ context.Context, period *domain.BudgetingPeriod) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.periods[period.ID] = *period
	return nil
}

func (r mockPeriodRepo) FindByID(_ context.Context, budgetID, periodID uuid.UUID) (*domain.BudgetingPeriod, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.periods[periodID]
	if !ok || p.BudgetID != budgetID {
		return nil, budgetingErrors.ErrNotFound
	}
	return &p, nil
}

func (r mockPeriodRepo) List(_ context.Context, budgetID uuid.UUID, filter domain.PeriodFilter) ([]domain.BudgetingPeriod, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := sortedValues(r.s.periods, func(p domain.BudgetingPeriod) bool {
		return p.BudgetID == budgetID && filter.Matches(p)
	}, func(p domain.BudgetingPeriod) uuid.UUID { return p.ID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateStart.After(out[j].DateStart.Time) })
	return out, nil
}

func (r mockPeriodRepo) Update(_ context.Context, period *domain.BudgetingPeriod) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.periods[period.ID]; !ok || p.BudgetID != period.BudgetID {
		return budgetingErrors.ErrNotFound
	}
	r.s.periods[period.ID] = *period
	return nil
}

func (r mockPeriodRepo) Delete(_ context.Context, budgetID, periodID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.periods[periodID]; !ok || p.BudgetID != budgetID {
		return budgetingErrors.ErrNotFound
	}
	delete(r.s.periods, periodID)
	for id, e := range r.s.predictions {
		if e.PeriodID == periodID {
			delete(r.s.predictions, id)
		}
	}
	return nil
}

func (r mockPeriodRepo) anyMatch(budgetID uuid.UUID, excludeID *uuid.UUID, match func(domain.BudgetingPeriod) bool) bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.periods {
		if p.BudgetID != budgetID || (excludeID != nil && p.ID == *excludeID) {
			continue
		}
		if match(p) {
			return true
		}
	}
	return false
}

func (r mockPeriodRepo) ExistsByName(_ context.Context, budgetID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	return r.anyMatch(budgetID, excludeID, func(p domain.BudgetingPeriod) bool { return p.Name == name }), nil
}

func (r mockPeriodRepo) ExistsOverlapping(_ context.Context, budgetID uuid.UUID, start, end domain.Date, excludeID *uuid.UUID) (bool, error) {
	return r.anyMatch(budgetID, excludeID, func(p domain.BudgetingPeriod) bool { return p.Overlaps(start, end) }), nil
}

func (r mockPeriodRepo) ExistsActive(_ context.Context, budgetID uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	return r.anyMatch(budgetID, excludeID, func(p domain.BudgetingPeriod) bool { return p.IsActive }), nil
}

type mockDepositRepo struct{ s *MockStore }

func (r mockDepositRepo) Create(_ context.Context, deposit *domain.Deposit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("deposits.Create"); err != nil {
		return err
	}
	r.s.deposits[deposit.ID] = *deposit
	return nil
}

func (r mockDepositRepo) FindByID(_ context.Context, budgetID, depositID uuid.UUID) (*domain.Deposit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.deposits[depositID]
	if !ok || d.BudgetID != budgetID {
		return nil, budgetingErrors.ErrNotFound
	}
	return &d, nil
}

func (r mockDepositRepo) List(_ context.Context, budgetID uuid.UUID, filter domain.DepositFilter) ([]domain.Deposit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.deposits, func(d domain.Deposit) bool {
		return d.BudgetID == budgetID && filter.Matches(d)
	}, func(d domain.Deposit) uuid.UUID { return d.ID }), nil
}

func (r mockDepositRepo) Update(_ context.Context, deposit *domain.Deposit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("deposits.Update"); err != nil {
		return err
	}
	if d, ok := r.s.deposits[deposit.ID]; !ok || d.BudgetID != deposit.BudgetID {
		return budgetingErrors.ErrNotFound
	}
	r.s.deposits[deposit.ID] = *deposit
	return nil
}

func (r mockDepositRepo) Delete(_ context.Context, budgetID, depositID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.deposits[depositID]; !ok || d.BudgetID != budgetID {
		return budgetingErrors.ErrNotFound
	}
	delete(r.s.deposits, depositID)
	for id, e := range r.s.entities {
		if e.DepositID != nil && *e.DepositID == depositID {
			delete(r.s.entities, id)
		}
	}
	return nil
}

func (r mockDepositRepo) ExistsByName(_ context.Context, budgetID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.deposits {
		if excludeID != nil && d.ID == *excludeID {
			continue
		}
		if d.BudgetID == budgetID && d.Name == name {
			return true, nil
		}
	}
	return false, nil
}

type mockEntityRepo struct{ s *MockStore }

func (r mockEntityRepo) Create(_ context.Context, entity *domain.Entity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("entities.Create"); err != nil {
		return err
	}
	for _, e := range r.s.entities {
		if e.BudgetID == entity.BudgetID && e.Name == entity.Name {
			return budgetingErrors.ErrDuplicate
		}
	}
	r.s.entities[entity.ID] = *entity
	return nil
}

func (r mockEntityRepo) FindByID(_ context.Context, budgetID, entityID uuid.UUID) (*domain.Entity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entities[entityID]
	if !ok || e.BudgetID != budgetID {
		return nil, budgetingErrors.ErrNotFound
	}
	return &e, nil
}

func (r mockEntityRepo) FindByDepositID(_ context.Context, depositID uuid.UUID) (*domain.Entity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.entities {
		if e.DepositID != nil && *e.DepositID == depositID {
			return &e, nil
		}
	}
	return nil, budgetingErrors.ErrNotFound
}

func (r mockEntityRepo) List(_ context.Context, budgetID uuid.UUID, filter domain.EntityFilter) ([]domain.Entity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.entities, func(e domain.Entity) bool {
		return e.BudgetID == budgetID && filter.Matches(e)
	}, func(e domain.Entity) uuid.UUID { return e.ID }), nil
}

func (r mockEntityRepo) Update(_ context.Context, entity *domain.Entity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("entities.Update"); err != nil {
		return err
	}
	if e, ok := r.s.entities[entity.ID]; !ok || e.BudgetID != entity.BudgetID {
		return budgetingErrors.ErrNotFound
	}
	r.s.entities[entity.ID] = *entity
	return nil
}

func (r mockEntityRepo) Delete(_ context.Context, budgetID, entityID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.entities[entityID]; !ok || e.BudgetID != budgetID {
		return budgetingErrors.ErrNotFound
	}
	delete(r.s.entities, entityID)
	return nil
}

func (r mockEntityRepo) ExistsByName(_ context.Context, budgetID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.entities {
		if excludeID != nil && e.ID == *excludeID {
			continue
		}
		if e.BudgetID == budgetID && e.Name == name {
			return true, nil
		}
	}
	return false, nil
}

type mockCategoryRepo struct{ s *MockStore }

func (r mockCategoryRepo) Create(_ context.Context, category *domain.TransferCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("categories.Create"); err != nil {
		return err
	}
	key := domain.CategoryNameKey{BudgetID: category.BudgetID, Type: category.Type, OwnerID: category.OwnerID, Name: category.Name}
	for _, c := range r.s.categories {
		if key.Collides(c) {
			return budgetingErrors.ErrDuplicate
		}
	}
	r.s.categories[category.ID] = *category
	return nil
}

func (r mockCategoryRepo) FindByID(_ context.Context, budgetID, categoryID uuid.UUID) (*domain.TransferCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[categoryID]
	if !ok || c.BudgetID != budgetID {
		return nil, budgetingErrors.ErrNotFound
	}
	return &c, nil
}

func (r mockCategoryRepo) List(_ context.Context, budgetID uuid.UUID, filter domain.CategoryFilter) ([]domain.TransferCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.categories, func(c domain.TransferCategory) bool {
		return c.BudgetID == budgetID && filter.Matches(c)
	}, func(c domain.TransferCategory) uuid.UUID { return c.ID }), nil
}

func (r mockCategoryRepo) Update(_ context.Context, category *domain.TransferCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[category.ID]; !ok || c.BudgetID != category.BudgetID {
		return budgetingErrors.ErrNotFound
	}
	r.s.categories[category.ID] = *category
	return nil
}

func (r mockCategoryRepo) Delete(_ context.Context, budgetID, categoryID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[categoryID]; !ok || c.BudgetID != budgetID {
		return budgetingErrors.ErrNotFound
	}
	delete(r.s.categories, categoryID)
	for id, e := range r.s.predictions {
		if e.CategoryID == categoryID {
			delete(r.s.predictions, id)
		}
	}
	return nil
}

func (r mockCategoryRepo) ExistsByName(_ context.Context, key domain.CategoryNameKey) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if key.Collides(c) {
			return true, nil
		}
	}
	return false, nil
}

type mockPredictionRepo struct{ s *MockStore }

func (r mockPredictionRepo) Create(_ context.Context, prediction *domain.ExpensePrediction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.predictions[prediction.ID] = *prediction
	return nil
}

// inBudget must be called with mu held.
func (r mockPredictionRepo) inBudget(e domain.ExpensePrediction, budgetID uuid.UUID) bool {
	p, ok := r.s.periods[e.PeriodID]
	return ok && p.BudgetID == budgetID
}

func (r mockPredictionRepo) FindByID(_ context.Context, budgetID, predictionID uuid.UUID) (*domain.ExpensePrediction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.predictions[predictionID]
	if !ok || !r.inBudget(e, budgetID) {
		return nil, budgetingErrors.ErrNotFound
	}
	return &e, nil
}

func (r mockPredictionRepo) List(_ context.Context, budgetID uuid.UUID, filter domain.PredictionFilter) ([]domain.ExpensePrediction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.predictions, func(e domain.ExpensePrediction) bool {
		if !r.inBudget(e, budgetID) {
			return false
		}
		if filter.PeriodID != nil && e.PeriodID != *filter.PeriodID {
			return false
		}
		if filter.CategoryID != nil && e.CategoryID != *filter.CategoryID {
			return false
		}
		if filter.OwnerID != nil {
			c := r.s.categories[e.CategoryID]
			if c.OwnerID == nil || *c.OwnerID != *filter.OwnerID {
				return false
			}
		}
		return true
	}, func(e domain.ExpensePrediction) uuid.UUID { return e.ID }), nil
}

func (r mockPredictionRepo) Update(_ context.Context, prediction *domain.ExpensePrediction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.predictions[prediction.ID]; !ok {
		return budgetingErrors.ErrNotFound
	}
	r.s.predictions[prediction.ID] = *prediction
	return nil
}

func (r mockPredictionRepo) Delete(_ context.Context, budgetID, predictionID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.predictions[predictionID]
	if !ok || !r.inBudget(e, budgetID) {
		return budgetingErrors.ErrNotFound
	}
	delete(r.s.predictions, predictionID)
	return nil
}

func (r mockPredictionRepo) Exists(_ context.Context, periodID, categoryID uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.predictions {
		if excludeID != nil && e.ID == *excludeID {
			continue
		}
		if e.PeriodID == periodID && e.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}
