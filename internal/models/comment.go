package models

import "time"

// Comment matches the comments table built by migration 0003.
type Comment struct {
	ID        int64      `json:"id"`
	Content   string     `json:"content"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	PostID    *int64     `json:"post_id"`
	AuthorID  *int64     `json:"author_id"`
}
