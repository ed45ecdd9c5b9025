package middleware

import (
	"context"
	"net/http"
	"strings"

	"supscore/internal/service"
)

type contextKey string

const (
	SupervisorIDKey   contextKey = "supervisorId"
	SupervisorNameKey contextKey = "supervisorName"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireSupervisor validates a supervisor JWT from the Authorization header
func (m *AuthMiddleware) RequireSupervisor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token := extractBearerToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, SupervisorIDKey, claims.SupervisorID)
		ctx = context.WithValue(ctx, SupervisorNameKey, claims.Name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSupervisorID extracts the supervisor id from context
func GetSupervisorID(ctx context.Context) string {
	if v := ctx.Value(SupervisorIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetSupervisorName extracts the supervisor name from context
func GetSupervisorName(ctx context.Context) string {
	if v := ctx.Value(SupervisorNameKey); v != nil {
		return v.(string)
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
