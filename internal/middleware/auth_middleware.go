package middleware

import (
	"net/http"
	"strings"

	"groove/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserIDKey is the gin context key holding the authenticated uuid.UUID.
const UserIDKey = "userID"

// JWTAuthMiddleware accepts "Authorization: Bearer <token>" or, for browser
// clients, the session cookie.
func JWTAuthMiddleware(tokens *auth.Tokens, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c, cookieName)
		if !ok {
			return
		}

		subject, err := tokens.Parse(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		userID, err := uuid.Parse(subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context, cookieName string) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
			return cookie, true
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
		return "", false
	}
	return parts[1], true
}

// CurrentUserID returns the id stored by JWTAuthMiddleware.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
