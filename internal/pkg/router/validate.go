package router

import (
	"bytes"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/goship/internal/pkg/goerror"
	"github.com/shandysiswandi/goship/internal/pkg/validator"
)

// Source names the part of a request a schema is applied to.
type Source string

const (
	SourceBody   Source = "body"
	SourceQuery  Source = "query"
	SourceParams Source = "params"
)

const maxBodyBytes = 1 << 20 // 1MB

// Binding pairs a schema with the request source it validates.
type Binding struct {
	Source Source
	Schema *validator.Schema
}

// Bind returns a Binding of schema to src.
func Bind(src Source, schema *validator.Schema) Binding {
	return Binding{Source: src, Schema: schema}
}

// Validate checks one request source against schema. On success the coerced
// values are available through Request.Valid; on failure the request faults
// with a validation error and the handler never runs.
func (r *Router) Validate(src Source, schema *validator.Schema) Middleware {
	return r.validate(false, Bind(src, schema))
}

// ValidateAll checks every binding and reports all failures at once, with
// field names prefixed by their source ("params.id", "body.origin").
func (r *Router) ValidateAll(bindings ...Binding) Middleware {
	return r.validate(true, bindings...)
}

// ValidateObjectID rejects requests whose path parameter is not a 24
// character hex identifier.
func (r *Router) ValidateObjectID(param string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id := httprouter.ParamsFromContext(req.Context()).ByName(param)
			if !validator.IsObjectID(id) {
				r.raise(w, req, goerror.NewValidation(validator.FieldError{
					Field:   param,
					Message: "Invalid " + param + " format",
				}))
				return
			}

			ctx := withValid(req.Context(), SourceParams, validator.Values{param: id})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

func (r *Router) validate(prefix bool, bindings ...Binding) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			var fieldErrs []validator.FieldError
			parsed := make(map[Source]validator.Values, len(bindings))

			for _, b := range bindings {
				raw, err := rawInput(req, b.Source)
				if err != nil {
					r.raise(w, req, err)
					return
				}

				values, errs := r.validator.Parse(b.Schema, raw)
				for _, fe := range errs {
					if prefix {
						fe.Field = string(b.Source) + "." + fe.Field
					}
					fieldErrs = append(fieldErrs, fe)
				}
				if len(errs) == 0 {
					parsed[b.Source] = values
				}
			}

			if len(fieldErrs) > 0 {
				r.raise(w, req, goerror.NewValidation(fieldErrs...))
				return
			}

			ctx := req.Context()
			for src, values := range parsed {
				ctx = withValid(ctx, src, values)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

func rawInput(req *http.Request, src Source) (map[string]any, error) {
	switch src {
	case SourceBody:
		return rawBody(req)
	case SourceQuery:
		raw := make(map[string]any)
		for key, vals := range req.URL.Query() {
			if len(vals) == 1 {
				raw[key] = vals[0]
				continue
			}
			list := make([]any, len(vals))
			for i, v := range vals {
				list[i] = v
			}
			raw[key] = list
		}
		return raw, nil
	case SourceParams:
		params := httprouter.ParamsFromContext(req.Context())
		raw := make(map[string]any, len(params))
		for _, p := range params {
			if p.Key == httprouter.MatchedRoutePathParam {
				continue
			}
			raw[p.Key] = p.Value
		}
		return raw, nil
	default:
		return map[string]any{}, nil
	}
}

// rawBody decodes a JSON object body. An empty body is an empty object. The
// body is restored so it can be read again.
func rawBody(req *http.Request) (map[string]any, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return map[string]any{}, nil
	}

	data, err := io.ReadAll(io.LimitReader(req.Body, maxBodyBytes+1))
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}
	if len(data) > maxBodyBytes {
		return nil, goerror.NewBusiness("Request body too large", http.StatusRequestEntityTooLarge)
	}
	req.Body = io.NopCloser(bytes.NewReader(data))

	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, goerror.NewInvalidFormat()
	}
	if dec.More() {
		return nil, goerror.NewInvalidFormat()
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, goerror.NewInvalidFormat("Request body must be a JSON object")
	}
	return obj, nil
}
