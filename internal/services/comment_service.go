package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"blog/internal/database"
	"blog/internal/integrity"
	"blog/internal/models"
	"blog/internal/repositories"
)

type CommentService struct {
	pool        *pgxpool.Pool
	enforcer    *integrity.Enforcer
	commentRepo *repositories.CommentRepository
	postRepo    *repositories.PostRepository
}

func NewCommentService(pool *pgxpool.Pool, enforcer *integrity.Enforcer, commentRepo *repositories.CommentRepository, postRepo *repositories.PostRepository) *CommentService {
	return &CommentService{
		pool:        pool,
		enforcer:    enforcer,
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CreateCommentRequest is the POST /posts/:id/comments body.
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required"`
	AuthorID *int64 `json:"author_id"`
}

// UpdateCommentRequest is the PATCH /comments/:id body.
type UpdateCommentRequest struct {
	Content *string `json:"content,omitempty"`
}

// ListForPost lists a post's comments oldest first.
func (s *CommentService) ListForPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return s.commentRepo.FindByPost(ctx, postID)
}

func (s *CommentService) Get(ctx context.Context, id int64) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

func (s *CommentService) Create(ctx context.Context, postID int64, req CreateCommentRequest) (*models.Comment, error) {
	comment := &models.Comment{
		Content:  req.Content,
		PostID:   &postID,
		AuthorID: req.AuthorID,
	}

	err := database.RunInTx(ctx, s.pool, func(ctx context.Context) error {
		post, err := s.postRepo.FindByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}

		q := database.From(ctx, s.pool)
		if err := s.enforcer.CheckInsert(ctx, q, "comments", map[string]any{
			"content":   comment.Content,
			"post_id":   comment.PostID,
			"author_id": comment.AuthorID,
		}); err != nil {
			return err
		}
		return integrity.MapError(s.commentRepo.Create(ctx, comment))
	})
	if err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, id int64, req UpdateCommentRequest) (*models.Comment, error) {
	var comment *models.Comment
	err := database.RunInTx(ctx, s.pool, func(ctx context.Context) error {
		var err error
		comment, err = s.commentRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if comment == nil {
			return ErrCommentNotFound
		}

		values := map[string]any{}
		if req.Content != nil {
			comment.Content = *req.Content
			values["content"] = comment.Content
		}

		q := database.From(ctx, s.pool)
		if err := s.enforcer.CheckUpdate(ctx, q, "comments", comment.ID, values); err != nil {
			return err
		}
		return integrity.MapError(s.commentRepo.Update(ctx, comment))
	})
	if err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, id int64) error {
	return database.RunInTx(ctx, s.pool, func(ctx context.Context) error {
		n, err := s.enforcer.Delete(ctx, database.From(ctx, s.pool), "comments", id)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrCommentNotFound
		}
		return nil
	})
}
