package models

// Tag matches the tags table built by migration 0004. Posts carry their
// tags through the post_tags junction table.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
