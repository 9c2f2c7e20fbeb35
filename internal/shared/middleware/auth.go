package middleware

import (
	"github.com/gin-gonic/gin"

	"blog-backend/internal/domains/auth/model"
	"blog-backend/internal/domains/auth/service"
	"blog-backend/internal/shared/response"
)

const userContextKey = "currentUser"

// SessionAuth resolves the session cookie to a user and aborts with 401
// when no valid session is presented. Redis TTL expiry makes stale
// cookies resolve to nothing, so there is no expiry check here.
func SessionAuth(auth service.Service, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if err != nil || sessionID == "" {
			response.Unauthorized(c, "Unauthorized. Please log in.")
			c.Abort()
			return
		}

		user, err := auth.UserFromSession(c.Request.Context(), sessionID)
		if err != nil {
			response.InternalServerError(c, "session lookup failed")
			c.Abort()
			return
		}
		if user == nil {
			response.Unauthorized(c, "Unauthorized. Please log in.")
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireAdmin gates a route on the admin role. Must run after
// SessionAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			response.Forbidden(c, "Forbidden. Only administrators can perform this action.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by SessionAuth, or nil.
func CurrentUser(c *gin.Context) *model.User {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*model.User)
	if !ok {
		return nil
	}
	return user
}
