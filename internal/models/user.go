package models

import (
	"html"
	"strings"
	"time"
)

// User matches the users table built by migration 0001.
// Columns: id, username (NOT NULL UNIQUE), email (NOT NULL UNIQUE), created_at
type User struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func (u *User) Prepare() {
	u.Username = html.EscapeString(strings.TrimSpace(u.Username))
	u.Email = html.EscapeString(strings.TrimSpace(u.Email))
}

// UserStats aggregates one user's activity counters.
type UserStats struct {
	PostsCount          int64 `json:"posts_count"`
	PublishedPostsCount int64 `json:"published_posts_count"`
	CommentsCount       int64 `json:"comments_count"`
}
