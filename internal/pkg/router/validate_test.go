package router

import (
	"net/http"
	"strings"
	"testing"

	"github.com/shandysiswandi/goship/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var thingSchema = validator.NewSchema(
	validator.String("name", "min=1").Required().Message("required", "Name is required"),
	validator.Int("size", "gte=1").Default(1),
)

func TestValidate_Body(t *testing.T) {
	r := newTestRouter(t, false)
	var values validator.Values
	r.POST("/things", func(req *Request) (any, error) {
		values = req.Valid(SourceBody)
		return nil, nil
	}, r.Validate(SourceBody, thingSchema))

	t.Run("coerced values reach the handler", func(t *testing.T) {
		rec, _ := serve(r, http.MethodPost, "/things", `{"name":"box","size":"3","extra":true}`)

		require.Equal(t, http.StatusOK, rec.Code)
		name, _ := values.String("name")
		size, _ := values.Int("size")
		assert.Equal(t, "box", name)
		assert.Equal(t, 3, size)
		assert.False(t, values.Has("extra"))
	})

	t.Run("missing field", func(t *testing.T) {
		rec, got := serve(r, http.MethodPost, "/things", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, got["success"])
		assert.Equal(t, "Validation failed", got["message"])
		assert.Equal(t, []any{map[string]any{"field": "name", "message": "Name is required"}}, got["data"])
	})

	t.Run("empty body is an empty object", func(t *testing.T) {
		rec, got := serve(r, http.MethodPost, "/things", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Validation failed", got["message"])
	})

	t.Run("array body", func(t *testing.T) {
		rec, got := serve(r, http.MethodPost, "/things", `[1,2]`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Request body must be a JSON object", got["message"])
	})

	t.Run("malformed body", func(t *testing.T) {
		rec, got := serve(r, http.MethodPost, "/things", `{"name":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", got["message"])
	})

	t.Run("oversized body", func(t *testing.T) {
		body := `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`

		rec, _ := serve(r, http.MethodPost, "/things", body)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestValidate_Query(t *testing.T) {
	r := newTestRouter(t, false)
	var values validator.Values
	var rawPage string
	r.GET("/things", func(req *Request) (any, error) {
		values = req.Valid(SourceQuery)
		rawPage = req.URL.Query().Get("size")
		return nil, nil
	}, r.Validate(SourceQuery, thingSchema))

	rec, _ := serve(r, http.MethodGet, "/things?name=box&size=07", "")

	require.Equal(t, http.StatusOK, rec.Code)
	size, _ := values.Int("size")
	assert.Equal(t, 7, size)
	assert.Equal(t, "07", rawPage)

	rec, got := serve(r, http.MethodGet, "/things?name=box&size=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, got["data"], 1)
}

func TestValidate_All(t *testing.T) {
	r := newTestRouter(t, false)
	idSchema := validator.NewSchema(validator.String("id", "objectid").Required())
	r.PUT("/things/:id", func(*Request) (any, error) { return nil, nil },
		r.ValidateAll(Bind(SourceParams, idSchema), Bind(SourceBody, thingSchema)),
	)

	rec, got := serve(r, http.MethodPut, "/things/nope", `{"size":0}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	data, ok := got["data"].([]any)
	require.True(t, ok)
	fields := make([]string, 0, len(data))
	for _, d := range data {
		fields = append(fields, d.(map[string]any)["field"].(string))
	}
	assert.Equal(t, []string{"params.id", "body.name", "body.size"}, fields)
}

func TestValidate_ObjectID(t *testing.T) {
	r := newTestRouter(t, false)
	var id string
	r.GET("/things/:id", func(req *Request) (any, error) {
		id, _ = req.Valid(SourceParams).String("id")
		return nil, nil
	}, r.ValidateObjectID("id"))

	rec, got := serve(r, http.MethodGet, "/things/123", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{map[string]any{"field": "id", "message": "Invalid id format"}}, got["data"])

	rec, _ = serve(r, http.MethodGet, "/things/65a1b2c3d4e5f60718293a4b", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "65a1b2c3d4e5f60718293a4b", id)
}
