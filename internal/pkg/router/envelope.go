package router

import (
	"net/http"

	"github.com/shandysiswandi/goship/internal/pkg/paginate"
)

// Envelope is the JSON shape of every response.
//
// When Success is false, Data is either absent or the list of field errors of
// a validation failure.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Stack   []string `json:"stack,omitempty"`
}

// PaginatedEnvelope is the envelope of list endpoints.
type PaginatedEnvelope struct {
	Envelope
	Pagination paginate.Meta `json:"pagination"`
}

// Response payloads may implement any of these to shape the success envelope.
type (
	statusCoder interface{ StatusCode() int }
	messenger   interface{ Message() string }
	payloader   interface{ Payload() any }
	paginator   interface{ Pagination() paginate.Meta }
)

func writeOK(w http.ResponseWriter, resp any) {
	code := http.StatusOK
	if sc, ok := resp.(statusCoder); ok {
		code = sc.StatusCode()
	}

	env := Envelope{Success: true, Data: resp}
	if m, ok := resp.(messenger); ok {
		env.Message = m.Message()
	}
	if p, ok := resp.(payloader); ok {
		env.Data = p.Payload()
	}

	if code == http.StatusNoContent {
		w.WriteHeader(code)
		return
	}

	if pg, ok := resp.(paginator); ok {
		writeJSON(w, PaginatedEnvelope{Envelope: env, Pagination: pg.Pagination()}, code)
		return
	}

	writeJSON(w, env, code)
}
