package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog/internal/responses"
	"blog/internal/services"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// ListPostComments handles GET /api/v1/posts/:id/comments
func (h *CommentHandler) ListPostComments(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.ListForPost(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err, "Failed to retrieve comments")
		return
	}

	responses.Success(c, http.StatusOK, comments, "Comments retrieved successfully")
}

// CreateComment handles POST /api/v1/posts/:id/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), postID, req)
	if err != nil {
		respondError(c, err, "Failed to create comment")
		return
	}

	responses.Success(c, http.StatusCreated, comment, "Comment created successfully")
}

// GetComment handles GET /api/v1/comments/:id
func (h *CommentHandler) GetComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	comment, err := h.commentService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve comment")
		return
	}

	responses.Success(c, http.StatusOK, comment, "Comment retrieved successfully")
}

// UpdateComment handles PATCH /api/v1/comments/:id
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "Failed to update comment")
		return
	}

	responses.Success(c, http.StatusOK, comment, "Comment updated successfully")
}

// DeleteComment handles DELETE /api/v1/comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete comment")
		return
	}

	c.Status(http.StatusNoContent)
}
