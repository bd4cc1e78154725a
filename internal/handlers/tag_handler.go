package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog/internal/responses"
	"blog/internal/services"
)

type TagHandler struct {
	tagService *services.TagService
}

func NewTagHandler(tagService *services.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// ListTags handles GET /api/v1/tags
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.tagService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve tags")
		return
	}

	responses.Success(c, http.StatusOK, tags, "Tags retrieved successfully")
}

// CreateTag handles POST /api/v1/tags
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req services.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	tag, err := h.tagService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create tag")
		return
	}

	responses.Success(c, http.StatusCreated, tag, "Tag created successfully")
}

// GetTag handles GET /api/v1/tags/:slug
func (h *TagHandler) GetTag(c *gin.Context) {
	tag, err := h.tagService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "Failed to retrieve tag")
		return
	}

	responses.Success(c, http.StatusOK, tag, "Tag retrieved successfully")
}

// DeleteTag handles DELETE /api/v1/tags/:slug
func (h *TagHandler) DeleteTag(c *gin.Context) {
	if err := h.tagService.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err, "Failed to delete tag")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetTagPosts handles GET /api/v1/tags/:slug/posts
func (h *TagHandler) GetTagPosts(c *gin.Context) {
	posts, err := h.tagService.Posts(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "Failed to retrieve tag posts")
		return
	}

	responses.Success(c, http.StatusOK, posts, "Tag posts retrieved successfully")
}
