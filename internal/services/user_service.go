package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"blog/internal/database"
	"blog/internal/integrity"
	"blog/internal/models"
	"blog/internal/repositories"
)

type UserService struct {
	pool        *pgxpool.Pool
	enforcer    *integrity.Enforcer
	userRepo    *repositories.UserRepository
	postRepo    *repositories.PostRepository
	commentRepo *repositories.CommentRepository
}

func NewUserService(pool *pgxpool.Pool, enforcer *integrity.Enforcer, userRepo *repositories.UserRepository, postRepo *repositories.PostRepository, commentRepo *repositories.CommentRepository) *UserService {
	return &UserService{
		pool:        pool,
		enforcer:    enforcer,
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

// CreateUserRequest is the POST /users body.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

// UpdateUserRequest is the PATCH /users/:id body. Nil fields stay unchanged.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.userRepo.FindAll(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	user := &models.User{Username: req.Username, Email: req.Email}
	user.Prepare()

	err := database.RunInTx(ctx, s.pool, func(ctx context.Context) error {
		q := database.From(ctx, s.pool)
		if err := s.enforcer.CheckInsert(ctx, q, "users", map[string]any{
			"username": user.Username,
			"email":    user.Email,
		}); err != nil {
			return err
		}
		return integrity.MapError(s.userRepo.Create(ctx, user))
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) Update(ctx context.Context, id int64, req UpdateUserRequest) (*models.User, error) {
	var user *models.User
	err := database.RunInTx(ctx, s.pool, func(ctx context.Context) error {
		var err error
		user, err = s.userRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		if req.Username != nil {
			user.Username = *req.Username
		}
		if req.Email != nil {
			user.Email = *req.Email
		}
		user.Prepare()

		values := map[string]any{}
		if req.Username != nil {
			values["username"] = user.Username
		}
		if req.Email != nil {
			values["email"] = user.Email
		}

		q := database.From(ctx, s.pool)
		if err := s.enforcer.CheckUpdate(ctx, q, "users", user.ID, values); err != nil {
			return err
		}
		return integrity.MapError(s.userRepo.Update(ctx, user))
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Delete removes the user and everything hanging off them: their posts,
// those posts' comments and tag links, and their own comments elsewhere.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return database.RunInTx(ctx, s.pool, func(ctx context.Context) error {
		n, err := s.enforcer.Delete(ctx, database.From(ctx, s.pool), "users", id)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// Posts lists the user's posts newest first.
func (s *UserService) Posts(ctx context.Context, id int64) ([]models.Post, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.postRepo.FindByAuthor(ctx, id)
}

func (s *UserService) Stats(ctx context.Context, id int64) (*models.UserStats, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	total, published, err := s.postRepo.CountByAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.CountByAuthor(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.UserStats{
		PostsCount:          total,
		PublishedPostsCount: published,
		CommentsCount:       comments,
	}, nil
}
