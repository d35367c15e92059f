package router

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/goship/internal/pkg/validator"
)

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	// Request is the underlying http.Request.
	*http.Request
}

// GetParam reads a path parameter from the request context (as stored by httprouter).
func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

// GetHeader returns the trimmed value of a request header.
func (r *Request) GetHeader(key string) string {
	return strings.TrimSpace(r.Header.Get(key))
}

// Valid returns the values a validation middleware produced for src. It is
// empty when no middleware validated that source.
func (r *Request) Valid(src Source) validator.Values {
	return ValidFromContext(r.Context(), src)
}

type ctxKeyValid struct {
	src Source
}

// ValidFromContext returns the validated values stored for src.
func ValidFromContext(ctx context.Context, src Source) validator.Values {
	values, ok := ctx.Value(ctxKeyValid{src: src}).(validator.Values)
	if !ok {
		return validator.Values{}
	}
	return values
}

// withValid stores values for src, keeping values from earlier validators of
// the same source.
func withValid(ctx context.Context, src Source, values validator.Values) context.Context {
	merged := make(validator.Values, len(values))
	for k, v := range ValidFromContext(ctx, src) {
		merged[k] = v
	}
	for k, v := range values {
		merged[k] = v
	}
	return context.WithValue(ctx, ctxKeyValid{src: src}, merged)
}
