package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/config"
	"blog-backend/internal/domains/auth/model"
	"blog-backend/internal/domains/auth/service"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/response"
)

type AuthHandler struct {
	service service.Service
	auth    config.AuthConfig
}

func NewAuthHandler(s service.Service, auth config.AuthConfig) *AuthHandler {
	return &AuthHandler{service: s, auth: auth}
}

// Login handles POST /auth/login: verifies credentials, creates a Redis
// session and sets the HttpOnly session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Username and password are required.")
		return
	}

	user, sessionID, err := h.service.Login(c.Request.Context(), req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMissingCredentials):
			response.BadRequest(c, "Username and password are required.")
		case errors.Is(err, model.ErrInvalidCredentials):
			response.Unauthorized(c, "Invalid credentials.")
		default:
			response.InternalServerError(c, "login failed")
		}
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.auth.CookieName, sessionID, h.auth.CookieMaxAge, "/", "", h.auth.CookieSecure, true)

	response.SuccessWithMessage(c, http.StatusOK, "Login successful.", gin.H{"user": user})
}

// Logout handles POST /auth/logout. The cookie is cleared even when no
// server-side session was found.
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, _ := c.Cookie(h.auth.CookieName)

	if err := h.service.Logout(c.Request.Context(), sessionID); err != nil {
		response.InternalServerError(c, "logout failed")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.auth.CookieName, "", -1, "/", "", h.auth.CookieSecure, true)

	response.SuccessWithMessage(c, http.StatusOK, "Logout successful.", nil)
}

// Me handles GET /auth/me for the session's user.
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Unauthorized.")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user.ToDTO()})
}
