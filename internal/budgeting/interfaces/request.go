package interfaces

import (
	"encoding/json"

	"github.com/sebuszqo/BudgetManager/internal/budgeting/application"
)

// nullableOwner tells a missing "owner" key apart from "owner": null.
type nullableOwner struct {
	set bool
	id  *string
}

func (o *nullableOwner) UnmarshalJSON(b []byte) error {
	o.set = true
	if string(b) == "null" {
		o.id = nil
		return nil
	}
	var id string
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	o.id = &id
	return nil
}

func (o nullableOwner) input() application.OptionalOwner {
	return application.OptionalOwner{Set: o.set, ID: o.id}
}
