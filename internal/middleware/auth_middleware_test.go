package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"groove/internal/auth"
	"groove/internal/logger"
	"groove/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const (
	jwtSecret  = "test-secret-key"
	cookieName = "groove_session"
)

func setupRouter(logs *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestLogger(logger.NewWithWriter(logs, "info")))

	protected := r.Group("/protected")
	protected.Use(middleware.JWTAuthMiddleware(auth.NewTokens(jwtSecret, time.Hour), cookieName))

	protected.GET("/resource", func(c *gin.Context) {
		userID, exists := middleware.CurrentUserID(c)
		if !exists {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User ID not found in context"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Access granted",
			"user_id": userID,
		})
	})

	return r
}

func generateTestToken(t *testing.T, userID uuid.UUID) string {
	token, err := auth.NewTokens(jwtSecret, 24*time.Hour).Generate(userID.String())
	assert.NoError(t, err)
	return token
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	var logs bytes.Buffer
	router := setupRouter(&logs)
	userID := uuid.New()

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(t, userID))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Access granted")
	assert.Contains(t, resp.Body.String(), userID.String())
	assert.Contains(t, logs.String(), "/protected/resource")
}

func TestJWTAuthMiddleware_SessionCookie(t *testing.T) {
	router := setupRouter(&bytes.Buffer{})
	userID := uuid.New()

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: generateTestToken(t, userID)})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), userID.String())
}

func TestJWTAuthMiddleware_NoAuthHeader(t *testing.T) {
	var logs bytes.Buffer
	router := setupRouter(&logs)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Authorization header is required")
	assert.Contains(t, logs.String(), "status=401")
}

func TestJWTAuthMiddleware_InvalidAuthFormat(t *testing.T) {
	router := setupRouter(&bytes.Buffer{})

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "InvalidFormat token123")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Authorization header format must be Bearer {token}")
}

func TestJWTAuthMiddleware_InvalidToken(t *testing.T) {
	router := setupRouter(&bytes.Buffer{})

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid or expired token")
}

func TestJWTAuthMiddleware_TokenWithInvalidUserID(t *testing.T) {
	router := setupRouter(&bytes.Buffer{})

	claims := jwt.MapClaims{
		"user_id": "not-a-valid-uuid",
		"exp":     jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(jwtSecret))

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid user ID in token")
}
