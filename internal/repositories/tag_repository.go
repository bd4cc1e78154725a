package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog/internal/database"
	"blog/internal/models"
)

type TagRepository struct {
	pool *pgxpool.Pool
}

func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	query := `INSERT INTO tags (name, slug) VALUES ($1, $2) RETURNING id`

	return database.From(ctx, r.pool).QueryRow(ctx, query, tag.Name, tag.Slug).Scan(&tag.ID)
}

func (r *TagRepository) FindAll(ctx context.Context) ([]models.Tag, error) {
	query := `SELECT id, name, slug FROM tags ORDER BY name`

	rows, err := database.From(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

func (r *TagRepository) findOne(ctx context.Context, query string, arg any) (*models.Tag, error) {
	var tag models.Tag
	err := database.From(ctx, r.pool).QueryRow(ctx, query, arg).Scan(&tag.ID, &tag.Name, &tag.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

func (r *TagRepository) FindByID(ctx context.Context, id int64) (*models.Tag, error) {
	return r.findOne(ctx, `SELECT id, name, slug FROM tags WHERE id = $1`, id)
}

func (r *TagRepository) FindBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	return r.findOne(ctx, `SELECT id, name, slug FROM tags WHERE slug = $1`, slug)
}

func (r *TagRepository) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	return r.findOne(ctx, `SELECT id, name, slug FROM tags WHERE name = $1`, name)
}
