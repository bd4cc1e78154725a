package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"blog/internal/database"
	"blog/internal/integrity"
	"blog/internal/models"
	"blog/internal/repositories"
	"blog/internal/utils"
)

type PostService struct {
	pool        *pgxpool.Pool
	enforcer    *integrity.Enforcer
	postRepo    *repositories.PostRepository
	userRepo    *repositories.UserRepository
	commentRepo *repositories.CommentRepository
	tagRepo     *repositories.TagRepository
	postTagRepo *repositories.PostTagRepository
}

func NewPostService(pool *pgxpool.Pool, enforcer *integrity.Enforcer, postRepo *repositories.PostRepository, userRepo *repositories.UserRepository, commentRepo *repositories.CommentRepository, tagRepo *repositories.TagRepository, postTagRepo *repositories.PostTagRepository) *PostService {
	return &PostService{
		pool:        pool,
		enforcer:    enforcer,
		postRepo:    postRepo,
		userRepo:    userRepo,
		commentRepo: commentRepo,
		tagRepo:     tagRepo,
		postTagRepo: postTagRepo,
	}
}

// CreatePostRequest is the POST /posts body.
type CreatePostRequest struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content" binding:"required"`
	Published bool   `json:"published"`
	AuthorID  *int64 `json:"author_id"`
}

// CreatePostWithTagsRequest bundles a new post with tag names. The post and
// every association land in one unit of work.
type CreatePostWithTagsRequest struct {
	CreatePostRequest
	Tags []string `json:"tags"`
}

// UpdatePostRequest is the PATCH /posts/:id body. Nil fields stay unchanged.
type UpdatePostRequest struct {
	Title     *string `json:"title,omitempty"`
	Content   *string `json:"content,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

// List returns one page of posts matching the filter, applying the default
// page size and its upper bound.
func (s *PostService) List(ctx context.Context, filter repositories.PostFilter) (*models.PostPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = 10
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	items, total, err := s.postRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(filter.PerPage) - 1) / int64(filter.PerPage))
	return &models.PostPage{
		Items:   items,
		Total:   total,
		Page:    filter.Page,
		PerPage: filter.PerPage,
		Pages:   pages,
	}, nil
}

func (s *PostService) Search(ctx context.Context, term string) ([]models.Post, error) {
	return s.postRepo.Search(ctx, term)
}

func (s *PostService) Stats(ctx context.Context) (*models.PostStats, error) {
	return s.postRepo.Stats(ctx)
}

// Get returns the post with its tags attached.
func (s *PostService) Get(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	post.Tags, err = s.postTagRepo.TagsForPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// GetDetail returns the post with tags, author and comments.
func (s *PostService) GetDetail(ctx context.Context, id int64) (*models.PostDetail, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.PostDetail{Post: *post}
	if post.AuthorID != nil {
		detail.Author, err = s.userRepo.FindByID(ctx, *post.AuthorID)
		if err != nil {
			return nil, err
		}
	}
	detail.Comments, err = s.commentRepo.FindByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *PostService) Create(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	var post *models.Post
	err := database.RunInTx(ctx, s.pool, func(ctx context.Context) error {
		var err error
		post, err = s.create(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// CreateWithTags creates the post and attaches every named tag, creating
// missing tags on the way. Any failure rolls the whole lot back.
func (s *PostService) CreateWithTags(ctx context.Context, req CreatePostWithTagsRequest) (*models.Post, error) {
	var post *models.Post
	err := database.RunInTx(ctx, s.pool, func(ctx context.Context) error {
		var err error
		post, err = s.create(ctx, req.CreatePostRequest)
		if err != nil {
			return err
		}

		seen := map[int64]bool{}
		for _, name := range req.Tags {
			tag, err := s.getOrCreateTag(ctx, name)
			if err != nil {
				return err
			}
			if seen[tag.ID] {
				continue
			}
			seen[tag.ID] = true
			if err := s.attach(ctx, post.ID, tag.ID); err != nil {
				return err
			}
		}

		post.Tags, err = s.postTagRepo.TagsForPost(ctx, post.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, id int64, req UpdatePostRequest) (*models.Post, error) {
	var post *models.Post
	err := database.RunInTx(ctx, s.pool, func(ctx context.Context) error {
		var err error
		post, err = s.postRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}

		if req.Title != nil {
			post.Title = *req.Title
		}
		if req.Content != nil {
			post.Content = *req.Content
		}
		if req.Published != nil {
			post.Published = *req.Published
		}
		post.Prepare()

		values := map[string]any{}
		if req.Title != nil {
			values["title"] = post.Title
		}
		if req.Content != nil {
			values["content"] = post.Content
		}
		if req.Published != nil {
			values["published"] = post.Published
		}

		q := database.From(ctx, s.pool)
		if err := s.enforcer.CheckUpdate(ctx, q, "posts", post.ID, values); err != nil {
			return err
		}
		return integrity.MapError(s.postRepo.Update(ctx, post))
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes the post, its comments and its tag links. The tags
// themselves stay.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	return database.RunInTx(ctx, s.pool, func(ctx context.Context) error {
		n, err := s.enforcer.Delete(ctx, database.From(ctx, s.pool), "posts", id)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrPostNotFound
		}
		return nil
	})
}

// SetTags atomically replaces the post's tag set with the named tags.
func (s *PostService) SetTags(ctx context.Context, postID int64, names []string) ([]models.Tag, error) {
	var tags []models.Tag
	err := database.RunInTx(ctx, s.pool, func(ctx context.Context) error {
		post, err := s.postRepo.FindByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}

		if err := s.postTagRepo.RemoveForPost(ctx, postID); err != nil {
			return err
		}

		seen := map[int64]bool{}
		for _, name := range names {
			tag, err := s.getOrCreateTag(ctx, name)
			if err != nil {
				return err
			}
			if seen[tag.ID] {
				continue
			}
			seen[tag.ID] = true
			if err := s.attach(ctx, postID, tag.ID); err != nil {
				return err
			}
		}

		tags, err = s.postTagRepo.TagsForPost(ctx, postID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// AddTag attaches an existing tag to the post. Attaching the same tag twice
// is an integrity violation.
func (s *PostService) AddTag(ctx context.Context, postID, tagID int64) error {
	return database.RunInTx(ctx, s.pool, func(ctx context.Context) error {
		post, err := s.postRepo.FindByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}

		tag, err := s.tagRepo.FindByID(ctx, tagID)
		if err != nil {
			return err
		}
		if tag == nil {
			return ErrTagNotFound
		}

		return s.attach(ctx, postID, tagID)
	})
}

func (s *PostService) RemoveTag(ctx context.Context, postID, tagID int64) error {
	return database.RunInTx(ctx, s.pool, func(ctx context.Context) error {
		post, err := s.postRepo.FindByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}

		n, err := s.postTagRepo.Remove(ctx, postID, tagID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrTagNotAttached
		}
		return nil
	})
}

func (s *PostService) create(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	post := &models.Post{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
		AuthorID:  req.AuthorID,
	}
	post.Prepare()

	q := database.From(ctx, s.pool)
	err := s.enforcer.CheckInsert(ctx, q, "posts", map[string]any{
		"title":     post.Title,
		"content":   post.Content,
		"published": post.Published,
		"author_id": post.AuthorID,
	})
	if err != nil {
		return nil, err
	}
	if err := integrity.MapError(s.postRepo.Create(ctx, post)); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) getOrCreateTag(ctx context.Context, name string) (*models.Tag, error) {
	tag, err := s.tagRepo.FindByName(ctx, name)
	if err != nil || tag != nil {
		return tag, err
	}

	tag = &models.Tag{Name: name, Slug: utils.Slugify(name)}
	q := database.From(ctx, s.pool)
	if err := s.enforcer.CheckInsert(ctx, q, "tags", map[string]any{
		"name": tag.Name,
		"slug": tag.Slug,
	}); err != nil {
		return nil, err
	}
	if err := integrity.MapError(s.tagRepo.Create(ctx, tag)); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *PostService) attach(ctx context.Context, postID, tagID int64) error {
	q := database.From(ctx, s.pool)
	if err := s.enforcer.CheckInsert(ctx, q, "post_tags", map[string]any{
		"post_id": postID,
		"tag_id":  tagID,
	}); err != nil {
		return err
	}
	return integrity.MapError(s.postTagRepo.Add(ctx, postID, tagID))
}
