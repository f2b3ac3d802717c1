package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Accumulates(t *testing.T) {
	verr := &ValidationError{}
	assert.NoError(t, verr.OrNil())

	verr.Add("name", RequiredMsg())
	verr.Add("name", MaxLengthMsg(128))
	verr.Add(NonFieldErrors, "Provided owner does not belong to Budget.")

	err := verr.OrNil()
	assert.Error(t, err)
	assert.True(t, verr.Has("name"))
	assert.False(t, verr.Has("description"))
	assert.Equal(t, []string{"This field is required.", "Ensure this field has no more than 128 characters."}, verr.Fields["name"])
	assert.Equal(t, "validation failed: name: This field is required. Ensure this field has no more than 128 characters.; non_field_errors: Provided owner does not belong to Budget.", err.Error())
}

func TestAsValidationError_Wrapped(t *testing.T) {
	err := fmt.Errorf("create deposit: %w", NewFieldError("owner", "Provided owner does not belong to Budget."))

	assert.True(t, IsValidationError(err))
	verr, ok := AsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, []string{"Provided owner does not belong to Budget."}, verr.Fields["owner"])

	assert.False(t, IsValidationError(errors.New("plain")))
}

func TestInvalidChoiceMsg(t *testing.T) {
	assert.Equal(t, `"5" is not a valid choice.`, InvalidChoiceMsg(5))
}
