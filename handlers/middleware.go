package handlers

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ActorTokenMiddleware guards mutating endpoints with a shared bearer token
// checked against a bcrypt hash. An empty hash disables the check, which is
// only sensible in development. This is deliberately not user-level
// authorization; roles and accounts live in the surrounding system.
func ActorTokenMiddleware(tokenHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenHash == "" {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authorization header format must be Bearer {token}")
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(parts[1])); err != nil {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "invalid actor token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
