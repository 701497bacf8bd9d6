package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// LoadUser puts the session user, if any, into the gin context under "user".
// It never rejects a request.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := userFromSession(sessions.Default(c)); user != nil {
			c.Set("user", user)
		}
		c.Next()
	}
}

// RequireAdmin rejects every request whose session role is not exactly admin
// with a plain 403, without redirecting.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).IsAdmin() {
			c.String(http.StatusForbidden, "Access denied")
			c.Abort()
			return
		}
		c.Next()
	}
}
