package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CronSecretHeader carries the shared secret for scheduled job endpoints
const CronSecretHeader = "X-Cron-Secret"

// RequireCronSecret rejects requests whose X-Cron-Secret header does not match secret.
// An empty secret disables the endpoint entirely.
func RequireCronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(CronSecretHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_CRON_SECRET",
					"message": "Missing or invalid cron secret",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
