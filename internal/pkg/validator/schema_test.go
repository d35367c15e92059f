package validator

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T) *V10Validator {
	t.Helper()

	v, err := NewV10Validator()
	require.NoError(t, err)
	return v
}

func TestParse_CollectsEveryViolationInOrder(t *testing.T) {
	// Arrange
	v := newTestValidator(t)
	schema := NewSchema(
		String("origin", "min=1").Required().Message("required", "Origin is required"),
		String("destination", "min=1").Required().Message("required", "Destination is required"),
		String("status", "oneof=pending delivered"),
	)

	// Act
	values, fieldErrs := v.Parse(schema, map[string]any{"status": "lost"})

	// Assert
	assert.Nil(t, values)
	require.Len(t, fieldErrs, 3)
	assert.Equal(t, FieldError{Field: "origin", Message: "Origin is required"}, fieldErrs[0])
	assert.Equal(t, FieldError{Field: "destination", Message: "Destination is required"}, fieldErrs[1])
	assert.Equal(t, "status", fieldErrs[2].Field)
	assert.Contains(t, fieldErrs[2].Message, "status must be one of")
}

func TestParse_CoercesBeforeValidating(t *testing.T) {
	v := newTestValidator(t)
	schema := NewSchema(
		Int("page", "gte=1").Default(1),
		Int("limit", "gte=1,lte=100").Default(10),
	)

	tests := []struct {
		name      string
		raw       map[string]any
		wantPage  int
		wantLimit int
	}{
		{name: "numeric strings", raw: map[string]any{"page": "5", "limit": "20"}, wantPage: 5, wantLimit: 20},
		{name: "json numbers", raw: map[string]any{"page": json.Number("2"), "limit": float64(50)}, wantPage: 2, wantLimit: 50},
		{name: "defaults", raw: map[string]any{}, wantPage: 1, wantLimit: 10},
		{name: "padded string", raw: map[string]any{"page": " 3 "}, wantPage: 3, wantLimit: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, fieldErrs := v.Parse(schema, tt.raw)

			require.Empty(t, fieldErrs)
			page, ok := values.Int("page")
			require.True(t, ok)
			limit, ok := values.Int("limit")
			require.True(t, ok)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestParse_NumericBounds(t *testing.T) {
	v := newTestValidator(t)
	schema := NewSchema(
		Int("page", "gte=1").Default(1),
		Int("limit", "gte=1,lte=100").Default(10),
	)

	tests := []struct {
		name  string
		raw   map[string]any
		field string
	}{
		{name: "page zero", raw: map[string]any{"page": "0"}, field: "page"},
		{name: "limit too large", raw: map[string]any{"limit": "101"}, field: "limit"},
		{name: "not a number", raw: map[string]any{"page": "abc"}, field: "page"},
		{name: "fraction", raw: map[string]any{"limit": "2.5"}, field: "limit"},
		{name: "empty string", raw: map[string]any{"page": ""}, field: "page"},
		{name: "boolean", raw: map[string]any{"page": true}, field: "page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, fieldErrs := v.Parse(schema, tt.raw)

			assert.Nil(t, values)
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, tt.field, fieldErrs[0].Field)
			assert.NotEmpty(t, fieldErrs[0].Message)
		})
	}
}

func TestParse_StringRules(t *testing.T) {
	v := newTestValidator(t)
	schema := NewSchema(
		String("origin", "min=3"),
		String("destination", "min=3"),
	)

	t.Run("too short", func(t *testing.T) {
		_, fieldErrs := v.Parse(schema, map[string]any{"origin": "AB", "destination": "Akure"})

		require.Len(t, fieldErrs, 1)
		assert.Equal(t, "origin", fieldErrs[0].Field)
		assert.Contains(t, fieldErrs[0].Message, "origin must be at least 3 characters")
	})

	t.Run("wrong type", func(t *testing.T) {
		_, fieldErrs := v.Parse(schema, map[string]any{"origin": float64(12)})

		require.Len(t, fieldErrs, 1)
		assert.Equal(t, "origin expected string, received number", fieldErrs[0].Message)
	})

	t.Run("optional absent", func(t *testing.T) {
		values, fieldErrs := v.Parse(schema, map[string]any{})

		require.Empty(t, fieldErrs)
		assert.False(t, values.Has("origin"))
		assert.False(t, values.Has("destination"))
	})
}

func TestParse_Trim(t *testing.T) {
	v := newTestValidator(t)
	schema := NewSchema(
		String("origin", "min=1").Required().Trim().Message("required", "Origin is required"),
		String("destination", "min=3").Trim(),
	)

	t.Run("length is checked before trimming", func(t *testing.T) {
		// Arrange
		raw := map[string]any{"origin": "  Lagos ", "destination": " ab "}

		// Act
		values, fieldErrs := v.Parse(schema, raw)

		// Assert
		require.Empty(t, fieldErrs)
		origin, _ := values.String("origin")
		destination, _ := values.String("destination")
		assert.Equal(t, "Lagos", origin)
		assert.Equal(t, "ab", destination)
	})

	t.Run("blank after trim", func(t *testing.T) {
		_, fieldErrs := v.Parse(schema, map[string]any{"origin": "   ", "destination": "\t\t\t"})

		assert.Equal(t, []FieldError{
			{Field: "origin", Message: "Origin is required"},
			{Field: "destination", Message: "destination is a required field"},
		}, fieldErrs)
	})

	t.Run("tag still fails on short raw value", func(t *testing.T) {
		_, fieldErrs := v.Parse(schema, map[string]any{"origin": "Lagos", "destination": "ab"})

		require.Len(t, fieldErrs, 1)
		assert.Equal(t, "destination", fieldErrs[0].Field)
	})
}

func TestParse_Time(t *testing.T) {
	v := newTestValidator(t)
	schema := NewSchema(Time("estimatedDelivery"))

	t.Run("iso datetime", func(t *testing.T) {
		values, fieldErrs := v.Parse(schema, map[string]any{"estimatedDelivery": "2026-10-17T08:30:00.123Z"})

		require.Empty(t, fieldErrs)
		got, ok := values.Time("estimatedDelivery")
		require.True(t, ok)
		assert.True(t, got.Equal(time.Date(2026, 10, 17, 8, 30, 0, 123_000_000, time.UTC)))
	})

	t.Run("not a datetime", func(t *testing.T) {
		_, fieldErrs := v.Parse(schema, map[string]any{"estimatedDelivery": "tomorrow"})

		require.Len(t, fieldErrs, 1)
		assert.Equal(t, "estimatedDelivery", fieldErrs[0].Field)
	})
}

func TestParse_UnknownFieldsIgnored(t *testing.T) {
	v := newTestValidator(t)
	schema := NewSchema(String("origin", "min=1").Required())

	values, fieldErrs := v.Parse(schema, map[string]any{"origin": "Lagos", "weight": float64(3)})

	require.Empty(t, fieldErrs)
	assert.Equal(t, Values{"origin": "Lagos"}, values)
}

func TestParse_ObjectID(t *testing.T) {
	v := newTestValidator(t)
	schema := NewSchema(String("id", "objectid").Required())

	_, fieldErrs := v.Parse(schema, map[string]any{"id": "invalid-id"})
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "id must be a 24 character hex identifier", fieldErrs[0].Message)

	values, fieldErrs := v.Parse(schema, map[string]any{"id": "507f1f77bcf86cd799439011"})
	require.Empty(t, fieldErrs)
	id, _ := values.String("id")
	assert.Equal(t, "507f1f77bcf86cd799439011", id)
}

func TestSchema_Extend(t *testing.T) {
	base := NewSchema(String("origin", ""))
	extended := base.Extend(String("destination", ""))

	assert.Len(t, base.rules, 1)
	assert.Len(t, extended.rules, 2)
}

func TestValidate_Struct(t *testing.T) {
	v := newTestValidator(t)

	type input struct {
		Origin string `json:"origin" validate:"required"`
		Status string `json:"status" validate:"oneof=pending delivered"`
	}

	err := v.Validate(input{Status: "lost"})
	require.Error(t, err)

	var verr V10ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr, 2)
	assert.Contains(t, verr, "origin")
	assert.Contains(t, verr, "status")

	assert.NoError(t, v.Validate(input{Origin: "Lagos", Status: "pending"}))
}
