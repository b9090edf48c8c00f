package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/kbukum/chatrelay/errors"
	"github.com/kbukum/chatrelay/logger"
)

// Recovery recovers from handler panics, logs the stack and answers with
// an INTERNAL_ERROR body when nothing has been written yet.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.WithContext(r.Context()).Error("Panic recovered", logger.Fields(
					logger.FieldError, fmt.Sprintf("%v", rec),
					"stack", string(debug.Stack()),
					"path", r.URL.Path,
					"method", r.Method,
					logger.FieldRemoteAddr, r.RemoteAddr,
				))

				if sw.wroteHeader {
					return
				}
				appErr := errors.Internal(fmt.Errorf("panic: %v", rec))
				sw.Header().Set("Content-Type", "application/json; charset=utf-8")
				sw.WriteHeader(appErr.HTTPStatus)
				body := appErr.ResponseFor(r)
				if body.Error.RequestID == "" {
					body.Error.RequestID = sw.Header().Get(HeaderRequestID)
				}
				_ = json.NewEncoder(sw).Encode(body)
			}()
			next.ServeHTTP(sw, r)
		})
	}
}
