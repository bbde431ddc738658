// File: internal/handler/http/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matchbook-rentals/verification-service/internal/config"
	"github.com/matchbook-rentals/verification-service/internal/domain/models"
)

const (
	AuthHeaderKey  = "Authorization"
	AuthTypeBearer = "bearer"

	// GinContextAuthKey holds the resolved models.AuthContext.
	GinContextAuthKey = "authContext"
)

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and stores an explicit
// models.AuthContext on the request. Handlers read identity from that context
// value only; nothing downstream parses tokens.
func AuthMiddleware(cfg config.AuthConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != AuthTypeBearer {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header format must be Bearer <token>"})
			return
		}

		claims := &accessClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWTSecret), nil
		}, jwt.WithIssuer(cfg.Issuer))
		if err != nil || !token.Valid {
			logger.Warn("invalid access token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			logger.Warn("token subject is not a uuid", zap.String("sub", claims.Subject))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(GinContextAuthKey, models.AuthContext{
			UserID: userID,
			Email:  claims.Email,
		})
		c.Next()
	}
}

// AuthFromContext returns the AuthContext set by AuthMiddleware.
func AuthFromContext(c *gin.Context) (models.AuthContext, bool) {
	val, ok := c.Get(GinContextAuthKey)
	if !ok {
		return models.AuthContext{}, false
	}
	auth, ok := val.(models.AuthContext)
	return auth, ok
}
