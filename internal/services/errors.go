package services

import "errors"

// Sentinel errors the HTTP layer maps to 404 responses. They survive being
// wrapped by the transaction coordinator, so handlers match them with
// errors.Is.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrTagNotFound     = errors.New("tag not found")
	ErrTagNotAttached  = errors.New("tag not attached to post")
)
