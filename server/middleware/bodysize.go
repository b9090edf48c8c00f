package middleware

import (
	"net/http"

	"github.com/kbukum/chatrelay/util"
)

const defaultMaxBodySize = 1 << 20 // 1MB

// BodySizeLimit caps request bodies at maxSize ("64KB", "1MB"). An invalid
// size falls back to 1MB. Reads past the limit fail, which form parsing
// reports as an error.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSizeOr(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, size)
			}
			next.ServeHTTP(w, r)
		})
	}
}
