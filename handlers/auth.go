package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Harish-hex/SIH-HealthTwin/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success      bool              `json:"success"`
	Message      string            `json:"message"`
	User         services.Identity `json:"user"`
	DashboardURL string            `json:"dashboard_url"`
	Token        string            `json:"token"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Login error: " + err.Error()})
		return
	}

	res, err := h.authService.Login(req.Username, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid username or password"})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success:      true,
		Message:      "Login successful",
		User:         res.User,
		DashboardURL: res.DashboardURL,
		Token:        res.Token,
	})
}

type VerifyRequest struct {
	Token string `json:"token"`
}

// Verify always succeeds. When the request carries a valid token, in the
// body or as a bearer header, the token's user is echoed back.
func (h *AuthHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	_ = c.ShouldBindJSON(&req)

	token := req.Token
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}

	resp := gin.H{"success": true, "message": "Token verified"}
	if token != "" {
		if claims, err := h.authService.ValidateToken(token); err == nil {
			resp["user"] = claims.Identity()
		}
	}
	c.JSON(http.StatusOK, resp)
}
