package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todoapi/internal/app"
	"todoapi/internal/model"
	"todoapi/internal/transport/http/middleware"
	"todoapi/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func NewAuthHandler(authService *app.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.authService.Signup(app.SignupInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrPasswordTooShort), errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrEmailTaken):
			response.Error(c, http.StatusConflict, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "signup failed")
		}
		return
	}

	c.JSON(http.StatusCreated, publicUser(user))
}

func (h *AuthHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Signin(app.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredential) {
			response.Error(c, http.StatusUnauthorized, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "signin failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": result.Token,
		"token_type":   "bearer",
		"expires_in":   result.ExpiresIn,
		"user":         publicUser(result.User),
	})
}

// Signout is stateless: tokens are not revocable server-side, the client is
// expected to discard its copy.
func (h *AuthHandler) Signout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "successfully signed out"})
}

// Me returns the public profile of the token's subject.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.GetUserByID(middleware.AuthenticatedUserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "fetch current user failed")
		return
	}
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}
	c.JSON(http.StatusOK, publicUser(user))
}

func publicUser(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
