package services_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"blog/internal/integrity"
	"blog/internal/models"
	"blog/internal/repositories"
	"blog/internal/services"
	"blog/internal/testutil"
)

// testEnv wires the full service stack against one throwaway database.
type testEnv struct {
	pool     *pgxpool.Pool
	users    *services.UserService
	posts    *services.PostService
	comments *services.CommentService
	tags     *services.TagService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	pool, model := testutil.MigratedPool(t)
	enforcer := integrity.NewEnforcer(model)

	userRepo := repositories.NewUserRepository(pool)
	postRepo := repositories.NewPostRepository(pool)
	commentRepo := repositories.NewCommentRepository(pool)
	tagRepo := repositories.NewTagRepository(pool)
	postTagRepo := repositories.NewPostTagRepository(pool)

	return &testEnv{
		pool:     pool,
		users:    services.NewUserService(pool, enforcer, userRepo, postRepo, commentRepo),
		posts:    services.NewPostService(pool, enforcer, postRepo, userRepo, commentRepo, tagRepo, postTagRepo),
		comments: services.NewCommentService(pool, enforcer, commentRepo, postRepo),
		tags:     services.NewTagService(pool, enforcer, tagRepo, postTagRepo),
	}
}

func (e *testEnv) createUser(t *testing.T, username, email string) *models.User {
	t.Helper()
	user, err := e.users.Create(context.Background(), services.CreateUserRequest{Username: username, Email: email})
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func (e *testEnv) createPost(t *testing.T, req services.CreatePostRequest) *models.Post {
	t.Helper()
	post, err := e.posts.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("create post %q: %v", req.Title, err)
	}
	return post
}

func (e *testEnv) createComment(t *testing.T, postID int64, req services.CreateCommentRequest) *models.Comment {
	t.Helper()
	comment, err := e.comments.Create(context.Background(), postID, req)
	if err != nil {
		t.Fatalf("create comment on post %d: %v", postID, err)
	}
	return comment
}

func countRows(t *testing.T, pool *pgxpool.Pool, table string) int64 {
	t.Helper()
	var n int64
	if err := pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func tagSlugs(tags []models.Tag) []string {
	slugs := make([]string, len(tags))
	for i, tag := range tags {
		slugs[i] = tag.Slug
	}
	return slugs
}
