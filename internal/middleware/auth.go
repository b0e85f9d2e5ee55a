package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/qorohq/qoro/internal/domain/user"
	"github.com/qorohq/qoro/internal/service"
)

// publicPaths are served without a token.
var publicPaths = map[string]bool{
	"/health":               true,
	"/api/v1/auth/login":    true,
	"/api/v1/auth/register": true,
	"/api/v1/auth/refresh":  true,
}

// Auth validates the bearer token and puts the authenticated actor on the
// request context. Requests to public paths pass through untouched.
func Auth(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				writeAuthError(w, "missing bearer token")
				return
			}

			claims, err := auth.ValidateAccessToken(token)
			if err != nil {
				writeAuthError(w, "invalid or expired token")
				return
			}

			ctx := user.WithActor(r.Context(), claims.Actor())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}

func writeAuthError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
