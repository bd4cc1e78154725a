package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog/internal/database"
	"blog/internal/models"
)

// PostFilter narrows and paginates post listings. Nil fields are ignored.
type PostFilter struct {
	Published     *bool
	AuthorID      *int64
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Page          int
	PerPage       int
}

const postColumns = `id, title, content, published, created_at, updated_at, author_id`

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func scanPost(row pgx.Row, post *models.Post) error {
	return row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Published,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.AuthorID,
	)
}

func collectPosts(rows pgx.Rows) ([]models.Post, error) {
	defer rows.Close()
	posts := []models.Post{}
	for rows.Next() {
		var post models.Post
		if err := scanPost(rows, &post); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (title, content, published, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, published, created_at, updated_at
	`

	return database.From(ctx, r.pool).QueryRow(ctx, query,
		post.Title,
		post.Content,
		post.Published,
		post.AuthorID,
	).Scan(&post.ID, &post.Published, &post.CreatedAt, &post.UpdatedAt)
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	var post models.Post
	err := scanPost(database.From(ctx, r.pool).QueryRow(ctx, query, id), &post)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &post, nil
}

// List returns one page of posts matching the filter, newest first, along
// with the total match count before pagination.
func (r *PostRepository) List(ctx context.Context, filter PostFilter) ([]models.Post, int64, error) {
	where := []string{}
	args := []any{}
	add := func(cond string, val any) {
		args = append(args, val)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.Published != nil {
		add("published = $%d", *filter.Published)
	}
	if filter.AuthorID != nil {
		add("author_id = $%d", *filter.AuthorID)
	}
	if filter.CreatedAfter != nil {
		add("created_at >= $%d", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		add("created_at <= $%d", *filter.CreatedBefore)
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	q := database.From(ctx, r.pool)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM posts`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	listQuery := fmt.Sprintf(`SELECT %s FROM posts%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		postColumns, clause, len(args)+1, len(args)+2)
	rows, err := q.Query(ctx, listQuery, append(args, filter.PerPage, offset)...)
	if err != nil {
		return nil, 0, err
	}

	posts, err := collectPosts(rows)
	return posts, total, err
}

// Search matches the query string case-insensitively against title and
// content.
func (r *PostRepository) Search(ctx context.Context, term string) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts
		WHERE title ILIKE $1 OR content ILIKE $1
		ORDER BY created_at DESC, id DESC`

	rows, err := database.From(ctx, r.pool).Query(ctx, query, "%"+term+"%")
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

func (r *PostRepository) FindByAuthor(ctx context.Context, authorID int64) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := database.From(ctx, r.pool).Query(ctx, query, authorID)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET title = $1, content = $2, published = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING updated_at
	`

	return database.From(ctx, r.pool).QueryRow(ctx, query,
		post.Title,
		post.Content,
		post.Published,
		post.ID,
	).Scan(&post.UpdatedAt)
}

func (r *PostRepository) Stats(ctx context.Context) (*models.PostStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE published),
		       COUNT(*) FILTER (WHERE NOT published)
		FROM posts
	`

	var stats models.PostStats
	err := database.From(ctx, r.pool).QueryRow(ctx, query).Scan(
		&stats.TotalPosts,
		&stats.PublishedPosts,
		&stats.DraftPosts,
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// CountByAuthor returns the author's post total and how many of those are
// published.
func (r *PostRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, int64, error) {
	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE published) FROM posts WHERE author_id = $1`

	var total, published int64
	err := database.From(ctx, r.pool).QueryRow(ctx, query, authorID).Scan(&total, &published)
	return total, published, err
}
