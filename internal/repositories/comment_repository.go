package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog/internal/database"
	"blog/internal/models"
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (content, post_id, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	return database.From(ctx, r.pool).QueryRow(ctx, query,
		comment.Content,
		comment.PostID,
		comment.AuthorID,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *CommentRepository) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := `SELECT id, content, created_at, post_id, author_id FROM comments WHERE id = $1`

	var comment models.Comment
	err := database.From(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.PostID,
		&comment.AuthorID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &comment, nil
}

// FindByPost lists a post's comments oldest first.
func (r *CommentRepository) FindByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	query := `SELECT id, content, created_at, post_id, author_id FROM comments
		WHERE post_id = $1
		ORDER BY created_at, id`

	rows, err := database.From(ctx, r.pool).Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(&comment.ID, &comment.Content, &comment.CreatedAt, &comment.PostID, &comment.AuthorID); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	query := `UPDATE comments SET content = $1 WHERE id = $2`

	_, err := database.From(ctx, r.pool).Exec(ctx, query, comment.Content, comment.ID)
	return err
}

func (r *CommentRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM comments WHERE author_id = $1`

	var n int64
	err := database.From(ctx, r.pool).QueryRow(ctx, query, authorID).Scan(&n)
	return n, err
}
