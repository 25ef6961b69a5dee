package middleware

import (
	"net/http"
	"strings"

	"dailypay/internal/domain/auth"
	"dailypay/internal/requestctx"
	"dailypay/internal/transport/http/api"
)

// Auth attaches the operator from a valid bearer token. Requests without one
// pass through unauthenticated.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := requestctx.WithOperatorID(r.Context(), claims.OperatorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOperator rejects requests that are not from the configured operator.
func RequireOperator(allowedOperatorID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			operator, ok := GetOperator(r)
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			if operator.OperatorID != allowedOperatorID {
				api.Fail(w, http.StatusForbidden, "forbidden", "operator not allowed", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetOperator(r *http.Request) (auth.OperatorContext, bool) {
	id := requestctx.GetOperatorID(r.Context())
	if id == "" {
		return auth.OperatorContext{}, false
	}
	return auth.OperatorContext{OperatorID: id}, true
}
