package comments

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EaRebusa/API-Project-Ghibli-Catalog/apperror"
)

const (
	// DefaultPageSize is the page size used when the client does not ask for
	// one. Matches the frontend's fixed limit of 5.
	DefaultPageSize = 5
	// maxPageSize caps the page size a client may request.
	maxPageSize = 100
)

// CommentService defines the operations of the comment store. Handlers depend
// on this interface rather than the pgx-backed implementation so they can be
// tested against a stub.
type CommentService interface {
	// List returns one page of a film's comments, newest first. Pages are
	// 1-indexed; out-of-range pages return an empty page with correct
	// metadata, never an error.
	List(ctx context.Context, filmID string, page, limit int) (*CommentPage, error)
	// Post persists a comment, attributing it to authorID when non-nil.
	// Whitespace-only text is rejected before anything touches the database.
	Post(ctx context.Context, filmID string, authorID *int, body string) (*Comment, error)
}

type commentService struct {
	db *pgxpool.Pool
}

// NewCommentService creates a pgx-backed CommentService.
func NewCommentService(db *pgxpool.Pool) CommentService {
	return &commentService{db: db}
}

// NormalizePage coerces a page number to its 1-indexed domain.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// NormalizeLimit coerces a page size into [1, maxPageSize], applying the
// default when the client sent nothing useful.
func NormalizeLimit(limit int) int {
	if limit < 1 {
		return DefaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

// TotalPages computes ceil(total/limit). Zero comments means zero pages.
func TotalPages(total, limit int) int {
	return (total + limit - 1) / limit
}

// HasMore reports whether any comments remain beyond the given page.
func HasMore(page, limit, total int) bool {
	return page*limit < total
}

func (s *commentService) List(ctx context.Context, filmID string, page, limit int) (*CommentPage, error) {
	page = NormalizePage(page)
	limit = NormalizeLimit(limit)

	var total int
	if err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE film_id = $1`, filmID,
	).Scan(&total); err != nil {
		return nil, apperror.NewDatabaseError("failed to count comments", err)
	}

	// Newest first, with the id as tiebreaker so comments created in the
	// same instant keep a stable insertion order across pages.
	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.film_id, c.body, c.created_at, u.id, u.username
		FROM comments c
		LEFT JOIN users u ON u.id = c.author_id
		WHERE c.film_id = $1
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $2 OFFSET $3`,
		filmID, limit, (page-1)*limit)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to fetch comments", err)
	}
	defer rows.Close()

	items := make([]Comment, 0, limit)
	for rows.Next() {
		var c Comment
		var authorID sql.NullInt32
		var authorName sql.NullString
		if err := rows.Scan(&c.ID, &c.FilmID, &c.Body, &c.CreatedAt, &authorID, &authorName); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan comment", err)
		}
		if authorID.Valid {
			c.Author = &Author{ID: int(authorID.Int32), Username: authorName.String}
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read comments", err)
	}

	return &CommentPage{
		Comments:    items,
		TotalPages:  TotalPages(total, limit),
		CurrentPage: page,
		HasMore:     HasMore(page, limit, total),
	}, nil
}

func (s *commentService) Post(ctx context.Context, filmID string, authorID *int, body string) (*Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperror.NewValidationError("comment text is required", nil)
	}

	var id int
	err := s.db.QueryRow(ctx, `
		INSERT INTO comments (film_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id`,
		filmID, authorID, body).Scan(&id)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to insert comment", err)
	}

	// Re-read the stored row joined with its author. The write path returns
	// exactly what the display path would, so the two can never disagree on
	// the author name.
	return s.getByID(ctx, id)
}

func (s *commentService) getByID(ctx context.Context, id int) (*Comment, error) {
	var c Comment
	var authorID sql.NullInt32
	var authorName sql.NullString
	err := s.db.QueryRow(ctx, `
		SELECT c.id, c.film_id, c.body, c.created_at, u.id, u.username
		FROM comments c
		LEFT JOIN users u ON u.id = c.author_id
		WHERE c.id = $1`, id).Scan(&c.ID, &c.FilmID, &c.Body, &c.CreatedAt, &authorID, &authorName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("comment not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to fetch comment", err)
	}
	if authorID.Valid {
		c.Author = &Author{ID: int(authorID.Int32), Username: authorName.String}
	}
	return &c, nil
}
