package router

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/shandysiswandi/goship/internal/pkg/goerror"
	"github.com/shandysiswandi/goship/internal/pkg/instrument"
)

// faultHolder records the error in flight for one request. Only the first
// fault is rendered.
type faultHolder struct {
	mu  sync.Mutex
	err error
}

type ctxKeyFault struct{}

func middlewareFault(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ctxKeyFault{}, &faultHolder{})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Fault returns the error a request faulted with, if any.
func Fault(ctx context.Context) error {
	h, ok := ctx.Value(ctxKeyFault{}).(*faultHolder)
	if !ok {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// raise moves the request into the faulted state and renders the error. A
// request that is already faulted keeps its first error.
func (r *Router) raise(w http.ResponseWriter, req *http.Request, err error) {
	if h, ok := req.Context().Value(ctxKeyFault{}).(*faultHolder); ok {
		h.mu.Lock()
		first := h.err == nil
		if first {
			h.err = err
		}
		h.mu.Unlock()

		if !first {
			slog.DebugContext(req.Context(), "request already faulted, dropping error", "error", err)
			return
		}
	}

	if setter, ok := w.(interface{ SetError(error) }); ok {
		setter.SetError(err)
	}

	r.fault(w, req, err)
}

// fault is the single place where an error becomes an HTTP response.
func (r *Router) fault(w http.ResponseWriter, req *http.Request, err error) {
	ctx := req.Context()
	gerr := goerror.From(err)

	if gerr.Kind() == goerror.KindValidation {
		fields := gerr.Fields()
		slog.WarnContext(ctx, "validation failed",
			"method", req.Method,
			"uri", req.RequestURI,
			"ip", req.RemoteAddr,
			"errors", fields,
		)

		writeJSON(w, Envelope{Message: "Validation failed", Data: fields}, http.StatusBadRequest)
		return
	}

	status := gerr.StatusCode()
	msg := gerr.Msg()
	if msg == "" {
		msg = gerr.Error()
	}

	slog.ErrorContext(ctx, "request failed",
		"status", status,
		"kind", gerr.Kind().String(),
		"method", req.Method,
		"path", matchedRoutePath(req),
		"uri", req.RequestURI,
		"ip", req.RemoteAddr,
		"cid", instrument.GetCorrelationID(ctx),
		"error", err,
		"stack", gerr.Stack(),
	)

	env := Envelope{Message: msg}
	if r.production {
		if status == http.StatusInternalServerError {
			env.Message = "Internal Server Error"
		}
	} else if !gerr.IsOperational() {
		env.Stack = gerr.Stack()
	}

	writeJSON(w, env, status)
}
