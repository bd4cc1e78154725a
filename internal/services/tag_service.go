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

type TagService struct {
	pool        *pgxpool.Pool
	enforcer    *integrity.Enforcer
	tagRepo     *repositories.TagRepository
	postTagRepo *repositories.PostTagRepository
}

func NewTagService(pool *pgxpool.Pool, enforcer *integrity.Enforcer, tagRepo *repositories.TagRepository, postTagRepo *repositories.PostTagRepository) *TagService {
	return &TagService{
		pool:        pool,
		enforcer:    enforcer,
		tagRepo:     tagRepo,
		postTagRepo: postTagRepo,
	}
}

// CreateTagRequest is the POST /tags body. An empty slug is derived from
// the name.
type CreateTagRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	return s.tagRepo.FindAll(ctx)
}

func (s *TagService) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	tag, err := s.tagRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, ErrTagNotFound
	}
	return tag, nil
}

func (s *TagService) Create(ctx context.Context, req CreateTagRequest) (*models.Tag, error) {
	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Name)
	}
	tag := &models.Tag{Name: req.Name, Slug: slug}

	err := database.RunInTx(ctx, s.pool, func(ctx context.Context) error {
		q := database.From(ctx, s.pool)
		if err := s.enforcer.CheckInsert(ctx, q, "tags", map[string]any{
			"name": tag.Name,
			"slug": tag.Slug,
		}); err != nil {
			return err
		}
		return integrity.MapError(s.tagRepo.Create(ctx, tag))
	})
	if err != nil {
		return nil, err
	}

	return tag, nil
}

// Posts lists the posts carrying the tag, newest first.
func (s *TagService) Posts(ctx context.Context, slug string) ([]models.Post, error) {
	tag, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.postTagRepo.PostsForTag(ctx, tag.ID)
}

// Delete removes the tag and its junction rows. Tagged posts are not
// touched.
func (s *TagService) Delete(ctx context.Context, slug string) error {
	return database.RunInTx(ctx, s.pool, func(ctx context.Context) error {
		tag, err := s.tagRepo.FindBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if tag == nil {
			return ErrTagNotFound
		}

		_, err = s.enforcer.Delete(ctx, database.From(ctx, s.pool), "tags", tag.ID)
		return err
	})
}
