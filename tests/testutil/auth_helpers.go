package testutil

import (
	"strings"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/renovation-quotes-api/middleware"
)

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject, issuer, role string, scopes []string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  issuer,
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Scope: strings.Join(scopes, " "),
			Role:  role,
		},
	}
}

// SetMockAuthContext sets up a mock authenticated context for testing
func SetMockAuthContext(c *gin.Context, userID, role string, scopes []string) {
	claims := MockValidatedClaims(userID, "https://test.auth0.com/", role, scopes)
	c.Set("user_id", userID)
	c.Set("validated_claims", claims)
}

// MockAuthMiddleware simulates EnsureValidToken: it stores the same context
// keys the real middleware does
func MockAuthMiddleware(auth0ID, role, accessToken string, scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, auth0ID, role, scopes)
		if accessToken != "" {
			c.Set("access_token", accessToken)
		}
		c.Next()
	}
}

// HeaderAuthMiddleware authenticates as the Auth0 subject named in the
// X-Test-User header, so one router can serve several callers. Requests
// without the header are left unauthenticated.
func HeaderAuthMiddleware(scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if subject := c.GetHeader("X-Test-User"); subject != "" {
			SetMockAuthContext(c, subject, c.GetHeader("X-Test-Role"), scopes)
			c.Set("access_token", "token-"+subject)
		}
		c.Next()
	}
}

// CreateTestContext creates a test Gin context
func CreateTestContext() (*gin.Context, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	c, engine := gin.CreateTestContext(nil)
	return c, engine
}
