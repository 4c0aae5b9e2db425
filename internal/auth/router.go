package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ens-screening/backend/internal/apperrors"
)

type loginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshDTO struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type registerDTO struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	UserGroup string `json:"user_group" binding:"required"`
}

// AuthRouter serves login, token refresh and registration routes.
type AuthRouter struct {
	service *AuthService
}

func NewAuthRouter(service *AuthService) *AuthRouter {
	return &AuthRouter{service: service}
}

func (ar *AuthRouter) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", ar.HandleLogin)
	rg.POST("/refresh-token", ar.HandleRefreshToken)
	rg.POST("/register", ar.HandleRegister)
}

// HandleLogin handles POST /api/auth/login requests.
func (ar *AuthRouter) HandleLogin(c *gin.Context) {
	var payload loginDTO
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	pair, err := ar.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, pair)
}

// HandleRefreshToken handles POST /api/auth/refresh-token requests.
func (ar *AuthRouter) HandleRefreshToken(c *gin.Context) {
	var payload refreshDTO
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	pair, err := ar.service.Refresh(c.Request.Context(), payload.RefreshToken)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, pair)
}

// HandleRegister handles POST /api/auth/register requests.
func (ar *AuthRouter) HandleRegister(c *gin.Context) {
	var payload registerDTO
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	user, err := ar.service.Register(c.Request.Context(), payload.Username, payload.Email, payload.Password, payload.UserGroup)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, user)
}
