package handlers

import (
	"net/http"

	"cavea/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users service.UserService
}

func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type updateUserRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=255"`
	Firstname *string `json:"firstname" binding:"omitempty,max=255"`
}

// Profile routes are self-only: the path id must match the caller.
func (h *UserHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if id != currentUser(c).ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "This action is unauthorized."})
		return
	}
	c.JSON(http.StatusOK, currentUser(c))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if id != currentUser(c).ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "This action is unauthorized."})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, service.UpdateUserInput{
		Name:      req.Name,
		Firstname: req.Firstname,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Destroy(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if id != currentUser(c).ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "This action is unauthorized."})
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		return
	}
	c.Status(http.StatusNoContent)
}
