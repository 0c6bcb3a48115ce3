package httpapi

import (
	"net/http"

	"commerce-platform/internal/users"

	"github.com/gin-gonic/gin"
)

type updateProfileRequest struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

func (h Handlers) Me(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h Handlers) UpdateMe(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	updated, err := h.Users.UpdateProfile(c.Request.Context(), u.ID, users.ProfileUpdate{
		Email:     req.Email,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h Handlers) ChangePassword(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "currentPassword and newPassword are required"})
		return
	}
	if err := h.Users.ChangePassword(c.Request.Context(), u.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

func (h Handlers) DeleteMe(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.Users.Delete(c.Request.Context(), u.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

/* ===================== ADMIN ===================== */

func (h Handlers) ListUsers(c *gin.Context) {
	list, err := h.Users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h Handlers) GetUser(c *gin.Context) {
	p, err := h.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h Handlers) DeleteUser(c *gin.Context) {
	if err := h.Users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
