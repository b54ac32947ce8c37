package handlers

import (
	"net/http"
	"time"

	"cavea/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments service.CommentService
}

func NewCommentHandler(comments service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

type createCommentRequest struct {
	Date    string `json:"date" binding:"required,datetime=2006-01-02"`
	Content string `json:"content" binding:"required"`
}

func (h *CommentHandler) Store(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}
	date, _ := time.Parse("2006-01-02", req.Date)

	comment, err := h.comments.Create(c.Request.Context(), currentUser(c).ID, itemID, date, req.Content)
	if err != nil {
		itemError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) Destroy(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), currentUser(c).ID, commentID); err != nil {
		itemError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
