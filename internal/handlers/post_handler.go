package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"blog/internal/repositories"
	"blog/internal/responses"
	"blog/internal/services"
)

type PostHandler struct {
	postService *services.PostService
}

func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

func parsePostFilter(c *gin.Context) (repositories.PostFilter, error) {
	var filter repositories.PostFilter

	if raw := c.Query("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("published: %w", err)
		}
		filter.Published = &published
	}
	if raw := c.Query("author_id"); raw != "" {
		authorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("author_id: %w", err)
		}
		filter.AuthorID = &authorID
	}
	if raw := c.Query("created_after"); raw != "" {
		after, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, fmt.Errorf("created_after: %w", err)
		}
		filter.CreatedAfter = &after
	}
	if raw := c.Query("created_before"); raw != "" {
		before, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, fmt.Errorf("created_before: %w", err)
		}
		filter.CreatedBefore = &before
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return filter, fmt.Errorf("page: %w", err)
		}
		filter.Page = page
	}
	if raw := c.Query("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil {
			return filter, fmt.Errorf("per_page: %w", err)
		}
		filter.PerPage = perPage
	}

	return filter, nil
}

// ListPosts handles GET /api/v1/posts
func (h *PostHandler) ListPosts(c *gin.Context) {
	filter, err := parsePostFilter(c)
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid query parameter")
		return
	}

	page, err := h.postService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to retrieve posts")
		return
	}

	responses.Success(c, http.StatusOK, page, "Posts retrieved successfully")
}

// SearchPosts handles GET /api/v1/posts/search
func (h *PostHandler) SearchPosts(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		responses.Fail(c, http.StatusBadRequest, nil, "Missing search query")
		return
	}

	posts, err := h.postService.Search(c.Request.Context(), term)
	if err != nil {
		respondError(c, err, "Failed to search posts")
		return
	}

	responses.Success(c, http.StatusOK, posts, "Posts retrieved successfully")
}

// GetPostStats handles GET /api/v1/posts/stats
func (h *PostHandler) GetPostStats(c *gin.Context) {
	stats, err := h.postService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve post stats")
		return
	}

	responses.Success(c, http.StatusOK, stats, "Post stats retrieved successfully")
}

// CreatePost handles POST /api/v1/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req services.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	post, err := h.postService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create post")
		return
	}

	responses.Success(c, http.StatusCreated, post, "Post created successfully")
}

// CreatePostWithTags handles POST /api/v1/posts/with-tags
func (h *PostHandler) CreatePostWithTags(c *gin.Context) {
	var req services.CreatePostWithTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	post, err := h.postService.CreateWithTags(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create post with tags")
		return
	}

	responses.Success(c, http.StatusCreated, post, "Post created successfully")
}

// GetPost handles GET /api/v1/posts/:id
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	post, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve post")
		return
	}

	responses.Success(c, http.StatusOK, post, "Post retrieved successfully")
}

// GetPostFull handles GET /api/v1/posts/:id/full
func (h *PostHandler) GetPostFull(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.postService.GetDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve post")
		return
	}

	responses.Success(c, http.StatusOK, detail, "Post retrieved successfully")
}

// UpdatePost handles PATCH /api/v1/posts/:id
func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	post, err := h.postService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "Failed to update post")
		return
	}

	responses.Success(c, http.StatusOK, post, "Post updated successfully")
}

// DeletePost handles DELETE /api/v1/posts/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.postService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete post")
		return
	}

	c.Status(http.StatusNoContent)
}

// SetPostTagsRequest is the PUT /posts/:id/tags body.
type SetPostTagsRequest struct {
	Tags []string `json:"tags"`
}

// SetPostTags handles PUT /api/v1/posts/:id/tags
func (h *PostHandler) SetPostTags(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req SetPostTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	tags, err := h.postService.SetTags(c.Request.Context(), id, req.Tags)
	if err != nil {
		respondError(c, err, "Failed to set post tags")
		return
	}

	responses.Success(c, http.StatusOK, tags, "Post tags updated successfully")
}

// AddPostTag handles POST /api/v1/posts/:id/tags/:tag_id
func (h *PostHandler) AddPostTag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tagID, ok := parseID(c, "tag_id")
	if !ok {
		return
	}

	if err := h.postService.AddTag(c.Request.Context(), id, tagID); err != nil {
		respondError(c, err, "Failed to add tag to post")
		return
	}

	responses.Success(c, http.StatusCreated, nil, "Tag added to post successfully")
}

// RemovePostTag handles DELETE /api/v1/posts/:id/tags/:tag_id
func (h *PostHandler) RemovePostTag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tagID, ok := parseID(c, "tag_id")
	if !ok {
		return
	}

	if err := h.postService.RemoveTag(c.Request.Context(), id, tagID); err != nil {
		respondError(c, err, "Failed to remove tag from post")
		return
	}

	c.Status(http.StatusNoContent)
}
