package goerror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	err := NewValidation(
		FieldError{Field: "origin", Message: "Origin is required"},
		FieldError{Field: "destination", Message: "Destination is required"},
	)

	gerr := From(err)
	require.NotNil(t, gerr)
	assert.Equal(t, KindValidation, gerr.Kind())
	assert.Equal(t, http.StatusBadRequest, gerr.StatusCode())
	assert.True(t, gerr.IsOperational())
	assert.Equal(t, "Validation failed", gerr.Msg())
	assert.Equal(t, []FieldError{
		{Field: "origin", Message: "Origin is required"},
		{Field: "destination", Message: "Destination is required"},
	}, gerr.Fields())
}

func TestNewValidation_FieldsAreImmutable(t *testing.T) {
	fields := []FieldError{{Field: "origin", Message: "required"}}
	gerr := From(NewValidation(fields...))

	fields[0].Field = "changed"
	got := gerr.Fields()
	got[0].Message = "changed"

	assert.Equal(t, []FieldError{{Field: "origin", Message: "required"}}, gerr.Fields())
}

func TestNewValidation_WithoutFields(t *testing.T) {
	gerr := From(NewValidation())

	assert.Equal(t, KindOperational, gerr.Kind())
	assert.Equal(t, http.StatusBadRequest, gerr.StatusCode())
	assert.Empty(t, gerr.Fields())
}

func TestNewNotFound(t *testing.T) {
	gerr := From(NewNotFound("Shipment not found"))

	assert.Equal(t, KindOperational, gerr.Kind())
	assert.Equal(t, http.StatusNotFound, gerr.StatusCode())
	assert.Equal(t, "Shipment not found", gerr.Error())
	assert.Empty(t, gerr.Stack())
}

func TestNewServer(t *testing.T) {
	cause := errors.New("socket timeout")
	err := NewServer(cause)

	gerr := From(err)
	assert.Equal(t, KindInternal, gerr.Kind())
	assert.False(t, gerr.IsOperational())
	assert.Equal(t, http.StatusInternalServerError, gerr.StatusCode())
	assert.Equal(t, "socket timeout", gerr.Msg())
	assert.ErrorIs(t, err, cause)
	assert.NotEmpty(t, gerr.Stack())
}

func TestFrom(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, From(nil))
	})

	t.Run("wrapped taxonomy error", func(t *testing.T) {
		err := fmt.Errorf("usecase: %w", NewNotFound("Shipment not found"))
		assert.Equal(t, http.StatusNotFound, From(err).StatusCode())
	})

	t.Run("plain error defaults to internal", func(t *testing.T) {
		gerr := From(errors.New("boom"))
		assert.Equal(t, KindInternal, gerr.Kind())
		assert.Equal(t, http.StatusInternalServerError, gerr.StatusCode())
		assert.Equal(t, "boom", gerr.Msg())
	})
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "ERROR_KIND_VALIDATION", KindValidation.String())
	assert.Equal(t, "ERROR_KIND_OPERATIONAL", KindOperational.String())
	assert.Equal(t, "ERROR_KIND_INTERNAL", KindInternal.String())
	assert.Equal(t, "ERROR_KIND_UNKNOWN", Kind(42).String())
}
