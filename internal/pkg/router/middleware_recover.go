package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/shandysiswandi/goship/internal/pkg/goerror"
	"github.com/shandysiswandi/goship/internal/pkg/stacktrace"
)

// middlewareRecoverer turns a panic into an internal error and hands it to the
// fault funnel.
func (r *Router) middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				//nolint:err113,errorlint // this must compare directly
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				if paths := stacktrace.InternalPaths(debug.Stack()); len(paths) == 0 {
					slog.DebugContext(req.Context(), "panic on the server trace debug", "because", rvr, "stack", string(debug.Stack()))
				}

				//nolint:err113 // panic value is only known at runtime
				r.raise(w, req, goerror.NewServer(fmt.Errorf("panic: %v", rvr)))
			}
		}()

		next.ServeHTTP(w, req)
	})
}
