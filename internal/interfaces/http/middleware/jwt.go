package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/condoledger/backend/internal/infrastructure/auth"
	"github.com/condoledger/backend/internal/interfaces/http/dto"
)

const (
	// JWTClaimsKey is the context key for storing validated JWT claims
	JWTClaimsKey = "jwt_claims"
	// JWTUserIDKey is the context key for storing the authenticated user ID
	JWTUserIDKey = "jwt_user_id"
	// AuthHeaderKey is the header containing the bearer token
	AuthHeaderKey = "Authorization"
	// BearerPrefix is the expected token prefix
	BearerPrefix = "Bearer "
)

// JWTMiddlewareConfig holds configuration for the JWT auth middleware
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// SkipPaths are exact request paths that bypass authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that bypass authentication
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// JWTAuthMiddleware creates a JWT authentication middleware with default skip paths
func JWTAuthMiddleware(jwtService *auth.JWTService, logger *zap.Logger) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths:  []string{"/health", "/api/v1/health"},
		Logger:     logger,
	})
}

// JWTAuthMiddlewareWithConfig creates a JWT authentication middleware with
// custom configuration
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		if tokenString == "" {
			abortUnauthorized(c, "empty bearer token")
			return
		}

		claims, err := cfg.JWTService.ValidateToken(tokenString)
		if err != nil {
			cfg.Logger.Debug("token validation failed",
				zap.String("path", path),
				zap.Error(err),
			)
			abortUnauthorized(c, authErrorMessage(err))
			return
		}

		userID, err := claims.GetUserID()
		if err != nil {
			abortUnauthorized(c, "invalid token claims")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, userID)
		c.Next()
	}
}

func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "token expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return "token not yet valid"
	default:
		return "invalid token"
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	requestID := c.GetString("request_id")
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, requestID))
}

// GetJWTClaims extracts the validated claims from the gin context
func GetJWTClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(JWTClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// GetJWTUserID extracts the authenticated user ID from the gin context
func GetJWTUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(JWTUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}
