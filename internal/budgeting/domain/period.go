package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// Date is a calendar day serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("date has wrong format, use YYYY-MM-DD: %w", err)
	}
	*d = parsed
	return nil
}

type BudgetingPeriod struct {
	ID        uuid.UUID `json:"id"`
	BudgetID  uuid.UUID `json:"budget"`
	Name      string    `json:"name"`
	DateStart Date      `json:"date_start"`
	DateEnd   Date      `json:"date_end"`
	IsActive  bool      `json:"is_active"`
}

// Overlaps reports whether two inclusive date ranges share at least one day.
func (p *BudgetingPeriod) Overlaps(start, end Date) bool {
	return !p.DateStart.After(end.Time) && !start.After(p.DateEnd.Time)
}

type PeriodFilter struct {
	Name     string
	IsActive *bool
	Ordering []Ordering
}

func (f PeriodFilter) Matches(p BudgetingPeriod) bool {
	if f.Name != "" && !containsFold(p.Name, f.Name) {
		return false
	}
	if f.IsActive != nil && p.IsActive != *f.IsActive {
		return false
	}
	return true
}

type PeriodRepository interface {
	Create(ctx context.Context, period *BudgetingPeriod) error
	FindByID(ctx context.Context, budgetID, periodID uuid.UUID) (*BudgetingPeriod, error)
	List(ctx context.Context, budgetID uuid.UUID, filter PeriodFilter) ([]BudgetingPeriod, error)
	Update(ctx context.Context, period *BudgetingPeriod) error
	Delete(ctx context.Context, budgetID, periodID uuid.UUID) error
	ExistsByName(ctx context.Context, budgetID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	ExistsOverlapping(ctx context.Context, budgetID uuid.UUID, start, end Date, excludeID *uuid.UUID) (bool, error)
	ExistsActive(ctx context.Context, budgetID uuid.UUID, excludeID *uuid.UUID) (bool, error)
}
