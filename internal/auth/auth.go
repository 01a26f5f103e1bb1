package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"pir-integrity/internal/config"
)

// Claims are the token claims the host HR platform issues for its employees
type Claims struct {
	EmployeeID uint     `json:"employee_id"`
	Email      string   `json:"email"`
	Roles      []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole reports whether the token carries the given role
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Service validates tokens issued by the host platform. This service never
// issues tokens itself.
type Service struct {
	config *config.JWTConfig
}

// NewService creates a new auth service
func NewService(cfg *config.JWTConfig) *Service {
	return &Service{config: cfg}
}

// ValidateToken validates a JWT token and returns the claims
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if s.config.Issuer != "" && claims.Issuer != s.config.Issuer {
		return nil, fmt.Errorf("unexpected token issuer: %s", claims.Issuer)
	}

	return claims, nil
}
