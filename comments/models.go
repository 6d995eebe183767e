// Package comments implements the per-film comment store and its paginated,
// newest-first feed. Comments are immutable once posted and may be anonymous:
// the author is an optional reference to a user, resolved by joining at read
// time rather than denormalized at write time.
package comments

import "time"

// Author is the public view of a comment's author, joined from the users
// table on every read so it always reflects the current username.
type Author struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// Comment represents a single comment on a film. Author is nil for anonymous
// comments; the JSON field carrying the text is "comment", matching the
// frontend contract.
type Comment struct {
	ID        int       `json:"id"`
	FilmID    string    `json:"filmId"`
	Author    *Author   `json:"author,omitempty"`
	Body      string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentPage is one page of a film's comment feed plus the metadata the
// client needs to decide whether to fetch more.
type CommentPage struct {
	Comments    []Comment `json:"comments"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
	HasMore     bool      `json:"hasMore"`
}

// PostCommentRequest is the request payload for submitting a comment.
type PostCommentRequest struct {
	Comment string `json:"comment"`
}
