package router

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/goccy/go-json"
	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/goship/internal/pkg/instrument"
	"github.com/shandysiswandi/goship/internal/pkg/uid"
	"github.com/shandysiswandi/goship/internal/pkg/validator"
)

// Handler is the application-style handler used by this router.
//
// It returns a response payload (wrapped into the success envelope) or an
// error (rendered by the fault funnel).
type Handler func(r *Request) (any, error)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies mws to h so that mws[0] is the outermost middleware.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Config holds dependencies required to build a Router.
type Config struct {
	// Production hides internal error details from clients.
	Production bool
	// MaskFields lists header and body keys masked in access logs.
	MaskFields []string
	// UUID generates request correlation IDs.
	UUID uid.StringID
	// Validator runs request schemas.
	Validator validator.Validator
	// Instrument provides tracing and metrics helpers.
	Instrument instrument.Instrumentation
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr         *httprouter.Router
	validator  validator.Validator
	production bool
	mws        []Middleware
}

// NewRouter builds the default application router with standard middleware.
func NewRouter(cfg Config) *Router {
	ins := cfg.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	ro := &Router{
		validator:  cfg.Validator,
		production: cfg.Production,
	}
	ro.mws = []Middleware{
		middlewareIP,
		middlewareCorrelationID(cfg.UUID),
		middlewareFault,
		middlewareObservability(cfg.MaskFields, ins),
		ro.middlewareRecoverer,
	}

	ro.hr = &httprouter.Router{
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, Envelope{
				Message: "Route " + r.RequestURI + " not found",
				Error:   http.StatusText(http.StatusNotFound),
			}, http.StatusNotFound)
		}), ro.mws...),
		MethodNotAllowed: Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, Envelope{
				Message: "Method " + r.Method + " not allowed on " + r.URL.Path,
				Error:   http.StatusText(http.StatusMethodNotAllowed),
			}, http.StatusMethodNotAllowed)
		}), ro.mws...),
	}

	ro.hr.GET("/", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		writeJSON(w, Envelope{Success: true, Message: "Welcome to goship API"}, http.StatusOK)
	})

	return ro
}

// GET registers a GET endpoint using the application Handler signature.
func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
}

// POST registers a POST endpoint using the application Handler signature.
func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

// PUT registers a PUT endpoint using the application Handler signature.
func (r *Router) PUT(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPut, path, h, mws...)
}

// DELETE registers a DELETE endpoint using the application Handler signature.
func (r *Router) DELETE(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodDelete, path, h, mws...)
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	r.hr.Handler(method, path, Chain(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		resp, err := h(&Request{Request: req})
		if err != nil {
			r.raise(w, req, err)
			return
		}
		writeOK(w, resp)
	}), slices.Concat(r.mws, mws)...))
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
	}
}
