// Package likes implements the per-film like counter: a lazily created row
// per film whose count only ever moves up, incremented with a single atomic
// upsert so concurrent likes never lose updates.
package likes

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EaRebusa/API-Project-Ghibli-Catalog/apperror"
)

// LikeCount is the like counter for one film. The JSON field is "likes",
// matching the frontend contract.
type LikeCount struct {
	FilmID string `json:"filmId"`
	Count  int64  `json:"likes"`
}

// LikeService defines the like counter operations.
type LikeService interface {
	// Get returns the current count for a film. A film nobody has liked yet
	// reports zero; absence is never a not-found error.
	Get(ctx context.Context, filmID string) (*LikeCount, error)
	// Increment atomically creates-or-increments the film's counter and
	// returns the updated value.
	Increment(ctx context.Context, filmID string) (*LikeCount, error)
}

type likeService struct {
	db *pgxpool.Pool
}

// NewLikeService creates a pgx-backed LikeService.
func NewLikeService(db *pgxpool.Pool) LikeService {
	return &likeService{db: db}
}

func (s *likeService) Get(ctx context.Context, filmID string) (*LikeCount, error) {
	lc := &LikeCount{FilmID: filmID}
	err := s.db.QueryRow(ctx,
		`SELECT count FROM likes WHERE film_id = $1`, filmID,
	).Scan(&lc.Count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No row yet means zero likes.
			return lc, nil
		}
		return nil, apperror.NewDatabaseError("failed to get likes", err)
	}
	return lc, nil
}

func (s *likeService) Increment(ctx context.Context, filmID string) (*LikeCount, error) {
	// A single upsert statement so concurrent increments for the same film
	// serialize inside the database; the application holds no locks.
	lc := &LikeCount{FilmID: filmID}
	err := s.db.QueryRow(ctx, `
		INSERT INTO likes (film_id, count)
		VALUES ($1, 1)
		ON CONFLICT (film_id) DO UPDATE
		SET count = likes.count + 1
		RETURNING count`, filmID).Scan(&lc.Count)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to add like", err)
	}
	return lc, nil
}
