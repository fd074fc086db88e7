// Package auth issues and validates host JWTs and exposes the gin
// middleware that turns a bearer token into a caller identity.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
)

type contextKey string

// IdentityKey is the context key carrying the authenticated identity
const IdentityKey contextKey = "identity"

// TokenService signs and validates host tokens
type TokenService struct {
	secret   []byte
	duration time.Duration
}

func NewTokenService(secret string, duration time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), duration: duration}
}

// GenerateToken issues a signed token for a host
func (s *TokenService) GenerateToken(hostID string, role domain.Role) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.duration)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"host_id": hostID,
		"role":    string(role),
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses a token and returns the caller identity
func (s *TokenService) ValidateToken(tokenString string) (domain.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return domain.Identity{}, fmt.Errorf("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, fmt.Errorf("invalid token claims")
	}

	hostID, _ := claims["host_id"].(string)
	role, _ := claims["role"].(string)
	if hostID == "" {
		return domain.Identity{}, fmt.Errorf("token missing host_id")
	}

	return domain.Identity{HostID: hostID, Role: domain.Role(role)}, nil
}

// GinMiddleware validates the Authorization header and stores the
// identity on the request context. Requests without a valid token are
// rejected; viewer routes should not mount this middleware.
func (s *TokenService) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "missing authorization header",
			})
			return
		}

		tokenString := header
		if strings.HasPrefix(header, "Bearer ") {
			tokenString = header[7:]
		}

		identity, err := s.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "invalid token",
			})
			return
		}

		ctx := context.WithValue(c.Request.Context(), IdentityKey, identity)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// IdentityFromContext extracts the authenticated identity
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(domain.Identity)
	return identity, ok
}
