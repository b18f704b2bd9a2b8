package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"royal-dine/utils"
)

// ContextEmail is the gin context key holding the verified guest email.
const ContextEmail = "email"

// RequireSession accepts requests carrying a session token issued after OTP
// verification.
func RequireSession(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			utils.AbortJSONError(c, http.StatusUnauthorized, "Login required")
			return
		}
		claims, err := utils.ParseSessionToken(secret, strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			utils.AbortJSONError(c, http.StatusUnauthorized, "Session expired, please log in again")
			return
		}
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}
