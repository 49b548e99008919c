package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/EdnondDantes/golosStroyki/internal/pkg/response"
)

// BearerAuth rejects requests without "Authorization: Bearer <token>". An
// empty token rejects everything.
func BearerAuth(token string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				w.Header().Set("WWW-Authenticate", `Bearer realm="moderation"`)
				response.Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
