package models

import (
	"html"
	"strings"
	"time"
)

// Post matches the posts table built by migration 0002. Tags carries the
// junction associations when the caller asked for them.
type Post struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Published bool       `json:"published"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	AuthorID  *int64     `json:"author_id"`
	Tags      []Tag      `json:"tags,omitempty"`
}

func (p *Post) Prepare() {
	p.Title = html.EscapeString(strings.TrimSpace(p.Title))
}

// PostDetail is the expanded representation served alongside the author and
// the post's comments.
type PostDetail struct {
	Post
	Author   *User     `json:"author,omitempty"`
	Comments []Comment `json:"comments"`
}

// PostPage wraps one page of a filtered post listing.
type PostPage struct {
	Items   []Post `json:"items"`
	Total   int64  `json:"total"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	Pages   int    `json:"pages"`
}

// PostStats summarizes the posts table.
type PostStats struct {
	TotalPosts     int64 `json:"total_posts"`
	PublishedPosts int64 `json:"published_posts"`
	DraftPosts     int64 `json:"draft_posts"`
}
