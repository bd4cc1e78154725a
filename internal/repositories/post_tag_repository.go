package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"blog/internal/database"
	"blog/internal/models"
)

// PostTagRepository manages the post_tags junction table. Rows are only
// ever created or removed; associations have no state of their own.
type PostTagRepository struct {
	pool *pgxpool.Pool
}

func NewPostTagRepository(pool *pgxpool.Pool) *PostTagRepository {
	return &PostTagRepository{pool: pool}
}

func (r *PostTagRepository) Add(ctx context.Context, postID, tagID int64) error {
	query := `INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)`

	_, err := database.From(ctx, r.pool).Exec(ctx, query, postID, tagID)
	return err
}

// Remove deletes one association and reports how many rows went away, so
// callers can tell a missing association from a removed one.
func (r *PostTagRepository) Remove(ctx context.Context, postID, tagID int64) (int64, error) {
	query := `DELETE FROM post_tags WHERE post_id = $1 AND tag_id = $2`

	tag, err := database.From(ctx, r.pool).Exec(ctx, query, postID, tagID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PostTagRepository) RemoveForPost(ctx context.Context, postID int64) error {
	query := `DELETE FROM post_tags WHERE post_id = $1`

	_, err := database.From(ctx, r.pool).Exec(ctx, query, postID)
	return err
}

func (r *PostTagRepository) TagsForPost(ctx context.Context, postID int64) ([]models.Tag, error) {
	query := `SELECT t.id, t.name, t.slug FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name`

	rows, err := database.From(ctx, r.pool).Query(ctx, query, postID)
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

func (r *PostTagRepository) PostsForTag(ctx context.Context, tagID int64) ([]models.Post, error) {
	query := `SELECT p.id, p.title, p.content, p.published, p.created_at, p.updated_at, p.author_id
		FROM posts p
		JOIN post_tags pt ON pt.post_id = p.id
		WHERE pt.tag_id = $1
		ORDER BY p.created_at DESC, p.id DESC`

	rows, err := database.From(ctx, r.pool).Query(ctx, query, tagID)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}
