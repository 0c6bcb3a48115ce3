package httpapi

import (
	"net/http"

	"commerce-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	res, err := h.Auth.Register(c.Request.Context(), auth.RegisterRequest{
		Email:     req.Email,
		Password:  req.Password,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Refresh runs behind the refresh token guard; the guard has already matched
// the presented token against the stored fingerprint.
func (h Handlers) Refresh(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	res, err := h.Auth.Refresh(c.Request.Context(), u.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Logout runs behind the access token guard.
func (h Handlers) Logout(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.Auth.Logout(c.Request.Context(), u.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
