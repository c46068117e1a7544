package middleware

import (
	"net/http"
	"strings"

	"converse/internal/auth"
	"converse/internal/httputil"
)

// Auth verifies an optional bearer token and places the authenticated user
// id in the request context. Requests without an Authorization header pass
// through anonymously: callers may still identify themselves in the request
// body, matching the nullable user id of the chat API. A present but
// invalid token is rejected.
func Auth(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if verifier == nil || header == "" {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "malformed authorization header")
				return
			}

			claims, err := verifier.VerifyToken(tokenString)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.UserID()))
		})
	}
}
