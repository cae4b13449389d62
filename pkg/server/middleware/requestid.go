package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/projeto-canaa/cadastro/pkg/logging"
)

// RequestIDHeader carries the request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

// validRequestID bounds identifiers accepted from clients to a short token
// that is safe to echo in headers and log lines.
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// RequestID tags every request with an identifier, reusing the client's
// X-Request-ID when it sends a well-formed one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if !validRequestID.MatchString(id) {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}
