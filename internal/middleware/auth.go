package middleware

import (
	"context"
	"net/http"
	"strings"

	"pir-integrity/internal/auth"
)

type contextKey string

const (
	EmployeeIDKey contextKey = "employee_id"
	EmailKey      contextKey = "email"
	RolesKey      contextKey = "roles"
)

// RoleHRAdmin can manage the catalog, reset scoring and read any result
const RoleHRAdmin = "hr_admin"

// AuthMiddleware validates JWT tokens issued by the host platform
type AuthMiddleware struct {
	authService *auth.Service
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate validates the JWT token and adds employee info to context
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondWithError(w, http.StatusUnauthorized, "Missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondWithError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := m.authService.ValidateToken(parts[1])
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), EmployeeIDKey, claims.EmployeeID)
		ctx = context.WithValue(ctx, EmailKey, claims.Email)
		ctx = context.WithValue(ctx, RolesKey, claims.Roles)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects requests whose token lacks the given role. Must run
// after Authenticate.
func (m *AuthMiddleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !HasRole(r, role) {
				respondWithError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetEmployeeID retrieves the employee ID from the request context
func GetEmployeeID(r *http.Request) (uint, bool) {
	employeeID, ok := r.Context().Value(EmployeeIDKey).(uint)
	return employeeID, ok
}

// GetEmail retrieves the employee email from the request context
func GetEmail(r *http.Request) (string, bool) {
	email, ok := r.Context().Value(EmailKey).(string)
	return email, ok
}

// HasRole reports whether the authenticated request carries the given role
func HasRole(r *http.Request, role string) bool {
	roles, ok := r.Context().Value(RolesKey).([]string)
	if !ok {
		return false
	}
	for _, have := range roles {
		if have == role {
			return true
		}
	}
	return false
}

// Helper function to respond with JSON error
func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
