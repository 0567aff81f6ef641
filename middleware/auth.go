package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"sushi-shop-api/models"
)

type Claims struct {
	Session models.AdminSession `json:"session"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT carrying the admin session
func GenerateToken(session *models.AdminSession, secret []byte) (string, error) {
	claims := Claims{
		Session: *session,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// AuthRequired validates the JWT and injects the session into context
func AuthRequired(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		c.Set("session", claims.Session)
		c.Next()
	}
}

// RoleRequired enforces that the caller's session has one of the allowed roles
func RoleRequired(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, exists := GetSession(c)
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Session not found in context"})
			c.Abort()
			return
		}
		for _, r := range roles {
			if session.Role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + strings.Join(roles, ", "),
		})
		c.Abort()
	}
}

// GetSession extracts the admin session from context
func GetSession(c *gin.Context) (models.AdminSession, bool) {
	val, exists := c.Get("session")
	if !exists {
		return models.AdminSession{}, false
	}
	session, ok := val.(models.AdminSession)
	return session, ok
}
