package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"blog/internal/handlers"
	"blog/internal/integrity"
	"blog/internal/models"
	"blog/internal/repositories"
	"blog/internal/routes"
	"blog/internal/services"
	"blog/internal/testutil"
)

// envelope mirrors the response wrapper with the payload left raw, so each
// assertion decodes it into its own type.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	pool, model := testutil.MigratedPool(t)
	enforcer := integrity.NewEnforcer(model)

	userRepo := repositories.NewUserRepository(pool)
	postRepo := repositories.NewPostRepository(pool)
	commentRepo := repositories.NewCommentRepository(pool)
	tagRepo := repositories.NewTagRepository(pool)
	postTagRepo := repositories.NewPostTagRepository(pool)

	userService := services.NewUserService(pool, enforcer, userRepo, postRepo, commentRepo)
	postService := services.NewPostService(pool, enforcer, postRepo, userRepo, commentRepo, tagRepo, postTagRepo)
	commentService := services.NewCommentService(pool, enforcer, commentRepo, postRepo)
	tagService := services.NewTagService(pool, enforcer, tagRepo, postTagRepo)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	routes.RegisterRoutes(router,
		handlers.NewUserHandler(userService),
		handlers.NewPostHandler(postService),
		handlers.NewCommentHandler(commentService),
		handlers.NewTagHandler(tagService),
	)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code, env
}

func decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data %q: %v", env.Data, err)
	}
}

func TestAPI(t *testing.T) {
	router := newRouter(t)

	t.Run("health", func(t *testing.T) {
		code, env := do(t, router, http.MethodGet, "/", nil)
		if code != http.StatusOK || env.Status != "ok" {
			t.Fatalf("got %d %+v", code, env)
		}
	})

	var author models.User
	t.Run("users", func(t *testing.T) {
		code, env := do(t, router, http.MethodPost, "/api/v1/users", gin.H{"username": "june", "email": "june@example.com"})
		if code != http.StatusCreated || env.Status != "success" {
			t.Fatalf("create: %d %+v", code, env)
		}
		decodeData(t, env, &author)
		if author.ID == 0 {
			t.Fatal("no ID assigned")
		}

		code, env = do(t, router, http.MethodPost, "/api/v1/users", gin.H{"username": "nomail"})
		if code != http.StatusBadRequest || env.Message != "Invalid request body" {
			t.Fatalf("missing field: %d %+v", code, env)
		}

		code, env = do(t, router, http.MethodPost, "/api/v1/users", gin.H{"username": "june", "email": "other@example.com"})
		if code != http.StatusBadRequest || env.Status != "error" {
			t.Fatalf("duplicate: %d %+v", code, env)
		}

		code, env = do(t, router, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", author.ID), nil)
		if code != http.StatusOK {
			t.Fatalf("get: %d %+v", code, env)
		}

		code, env = do(t, router, http.MethodGet, "/api/v1/users/999999", nil)
		if code != http.StatusNotFound || env.Message != "user not found" {
			t.Fatalf("missing user: %d %+v", code, env)
		}

		code, env = do(t, router, http.MethodGet, "/api/v1/users/banana", nil)
		if code != http.StatusBadRequest || env.Message != "Invalid ID format" {
			t.Fatalf("bad id: %d %+v", code, env)
		}

		code, env = do(t, router, http.MethodPatch, fmt.Sprintf("/api/v1/users/%d", author.ID), gin.H{"email": "june@blog.example"})
		if code != http.StatusOK {
			t.Fatalf("patch: %d %+v", code, env)
		}
		var updated models.User
		decodeData(t, env, &updated)
		if updated.Email != "june@blog.example" || updated.Username != "june" {
			t.Fatalf("updated = %+v", updated)
		}
	})

	var post models.Post
	t.Run("posts", func(t *testing.T) {
		code, env := do(t, router, http.MethodPost, "/api/v1/posts", gin.H{
			"title": "Hello", "content": "world", "published": true, "author_id": author.ID,
		})
		if code != http.StatusCreated {
			t.Fatalf("create: %d %+v", code, env)
		}
		decodeData(t, env, &post)

		code, env = do(t, router, http.MethodPost, "/api/v1/posts", gin.H{
			"title": "Orphan", "content": "x", "author_id": 999999,
		})
		if code != http.StatusBadRequest || env.Status != "error" {
			t.Fatalf("bad author: %d %+v", code, env)
		}

		code, env = do(t, router, http.MethodGet, "/api/v1/posts?published=true&per_page=5", nil)
		if code != http.StatusOK {
			t.Fatalf("list: %d %+v", code, env)
		}
		var page models.PostPage
		decodeData(t, env, &page)
		if page.Total != 1 || len(page.Items) != 1 || page.Items[0].ID != post.ID {
			t.Fatalf("page = %+v", page)
		}

		code, env = do(t, router, http.MethodGet, "/api/v1/posts?published=banana", nil)
		if code != http.StatusBadRequest {
			t.Fatalf("bad filter: %d %+v", code, env)
		}

		code, env = do(t, router, http.MethodGet, "/api/v1/posts/search", nil)
		if code != http.StatusBadRequest || env.Message != "Missing search query" {
			t.Fatalf("empty query: %d %+v", code, env)
		}
		code, env = do(t, router, http.MethodGet, "/api/v1/posts/search?q=hello", nil)
		if code != http.StatusOK {
			t.Fatalf("search: %d %+v", code, env)
		}
		var found []models.Post
		decodeData(t, env, &found)
		if len(found) != 1 {
			t.Fatalf("found = %+v", found)
		}

		code, env = do(t, router, http.MethodPut, fmt.Sprintf("/api/v1/posts/%d/tags", post.ID), gin.H{"tags": []string{"go", "http"}})
		if code != http.StatusOK {
			t.Fatalf("set tags: %d %+v", code, env)
		}
		var tags []models.Tag
		decodeData(t, env, &tags)
		if len(tags) != 2 {
			t.Fatalf("tags = %+v", tags)
		}

		code, env = do(t, router, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d/full", post.ID), nil)
		if code != http.StatusOK {
			t.Fatalf("full: %d %+v", code, env)
		}
		var detail models.PostDetail
		decodeData(t, env, &detail)
		if detail.Author == nil || detail.Author.Username != "june" {
			t.Fatalf("detail = %+v", detail)
		}

		code, env = do(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d/tags/%d", post.ID, tags[0].ID), nil)
		if code != http.StatusNoContent {
			t.Fatalf("detach: %d %+v", code, env)
		}
		code, env = do(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d/tags/%d", post.ID, tags[0].ID), nil)
		if code != http.StatusNotFound {
			t.Fatalf("second detach: %d %+v", code, env)
		}
		code, env = do(t, router, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/tags/%d", post.ID, tags[0].ID), nil)
		if code != http.StatusCreated {
			t.Fatalf("attach: %d %+v", code, env)
		}
	})

	t.Run("posts with tags", func(t *testing.T) {
		code, env := do(t, router, http.MethodPost, "/api/v1/posts/with-tags", gin.H{
			"title": "Bundle", "content": "x", "tags": []string{"go", "release"},
		})
		if code != http.StatusCreated {
			t.Fatalf("create: %d %+v", code, env)
		}
		var bundled models.Post
		decodeData(t, env, &bundled)
		if len(bundled.Tags) != 2 {
			t.Fatalf("tags = %+v", bundled.Tags)
		}
	})

	t.Run("comments", func(t *testing.T) {
		code, env := do(t, router, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", post.ID), gin.H{"content": "nice one"})
		if code != http.StatusCreated {
			t.Fatalf("create: %d %+v", code, env)
		}
		var comment models.Comment
		decodeData(t, env, &comment)

		code, env = do(t, router, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d/comments", post.ID), nil)
		if code != http.StatusOK {
			t.Fatalf("list: %d %+v", code, env)
		}
		var comments []models.Comment
		decodeData(t, env, &comments)
		if len(comments) != 1 {
			t.Fatalf("comments = %+v", comments)
		}

		code, env = do(t, router, http.MethodPost, "/api/v1/posts/999999/comments", gin.H{"content": "void"})
		if code != http.StatusNotFound || env.Message != "post not found" {
			t.Fatalf("missing post: %d %+v", code, env)
		}

		code, env = do(t, router, http.MethodPatch, fmt.Sprintf("/api/v1/comments/%d", comment.ID), gin.H{"content": "edited"})
		if code != http.StatusOK {
			t.Fatalf("patch: %d %+v", code, env)
		}
		code, env = do(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/comments/%d", comment.ID), nil)
		if code != http.StatusNoContent {
			t.Fatalf("delete: %d %+v", code, env)
		}
		code, env = do(t, router, http.MethodGet, fmt.Sprintf("/api/v1/comments/%d", comment.ID), nil)
		if code != http.StatusNotFound {
			t.Fatalf("get after delete: %d %+v", code, env)
		}
	})

	t.Run("tags", func(t *testing.T) {
		code, env := do(t, router, http.MethodPost, "/api/v1/tags", gin.H{"name": "Deep Dive"})
		if code != http.StatusCreated {
			t.Fatalf("create: %d %+v", code, env)
		}
		var tag models.Tag
		decodeData(t, env, &tag)
		if tag.Slug != "deep-dive" {
			t.Fatalf("slug = %q", tag.Slug)
		}

		code, env = do(t, router, http.MethodGet, "/api/v1/tags/go/posts", nil)
		if code != http.StatusOK {
			t.Fatalf("posts for tag: %d %+v", code, env)
		}
		var tagged []models.Post
		decodeData(t, env, &tagged)
		if len(tagged) != 2 {
			t.Fatalf("tagged = %+v", tagged)
		}

		code, env = do(t, router, http.MethodDelete, "/api/v1/tags/deep-dive", nil)
		if code != http.StatusNoContent {
			t.Fatalf("delete: %d %+v", code, env)
		}
		code, env = do(t, router, http.MethodGet, "/api/v1/tags/deep-dive", nil)
		if code != http.StatusNotFound || env.Message != "tag not found" {
			t.Fatalf("get after delete: %d %+v", code, env)
		}
	})

	t.Run("delete user cascades over the api", func(t *testing.T) {
		code, env := do(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", author.ID), nil)
		if code != http.StatusNoContent {
			t.Fatalf("delete: %d %+v", code, env)
		}
		code, env = do(t, router, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", post.ID), nil)
		if code != http.StatusNotFound || env.Message != "post not found" {
			t.Fatalf("authored post survived: %d %+v", code, env)
		}
	})
}
