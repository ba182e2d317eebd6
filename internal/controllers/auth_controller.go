package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/responsehub/backend/internal/middleware"
	"github.com/responsehub/backend/internal/models"
	"github.com/responsehub/backend/internal/services"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username string   `json:"username" binding:"required,min=3,max=50"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=6"`
	Role     string   `json:"role" binding:"omitempty,role"`
	Skills   []string `json:"skills"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	User      *models.User `json:"user"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	result, err := ac.auth.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.UserRole(req.Role),
		Skills:   req.Skills,
	})
	if err != nil {
		respondError(c, err, "auth_controller")
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: result.Token, User: result.User, ExpiresAt: result.ExpiresAt})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	result, err := ac.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "auth_controller")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: result.Token, User: result.User, ExpiresAt: result.ExpiresAt})
}

// Profile returns the caller with their volunteer profile, if any.
func (ac *AuthController) Profile(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	user, err := ac.auth.Profile(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err, "auth_controller")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (ac *AuthController) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := ac.auth.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err, "auth_controller")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
