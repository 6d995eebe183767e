package films

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EaRebusa/API-Project-Ghibli-Catalog/apperror"
)

//go:embed ghibli-data.json
var seedFS embed.FS

// sortColumns whitelists the columns a client may sort by. Anything else
// falls back to the default release_date ordering; column names are never
// interpolated from raw client input.
var sortColumns = map[string]string{
	"title":        "title",
	"director":     "director",
	"release_date": "release_date",
	"rt_score":     "rt_score",
	"running_time": "running_time",
}

// FilmService defines the read-only catalog operations.
type FilmService interface {
	List(ctx context.Context, q ListQuery) ([]Film, error)
	GetByID(ctx context.Context, id string) (*Film, error)
	Directors(ctx context.Context) ([]string, error)
	Years(ctx context.Context) ([]string, error)
}

type filmService struct {
	db *pgxpool.Pool
}

// NewFilmService creates a pgx-backed FilmService.
func NewFilmService(db *pgxpool.Pool) FilmService {
	return &filmService{db: db}
}

// BuildListSQL assembles the catalog query for the given filters. Exposed at
// package level so the filter/sort assembly can be tested without a database.
func BuildListSQL(q ListQuery) (string, []interface{}) {
	sql := `SELECT id, title, original_title, description, director, producer,
	       release_date, running_time, rt_score, image, movie_banner
	FROM films`

	var conds []string
	var args []interface{}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		conds = append(conds, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if q.Director != "" {
		args = append(args, q.Director)
		conds = append(conds, fmt.Sprintf("director = $%d", len(args)))
	}
	if q.Year != "" {
		args = append(args, q.Year)
		conds = append(conds, fmt.Sprintf("release_date = $%d", len(args)))
	}
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}

	column, ok := sortColumns[q.Sort]
	if !ok {
		column = "release_date"
	}
	direction := "ASC"
	if strings.EqualFold(q.Order, "desc") {
		direction = "DESC"
	}
	sql += fmt.Sprintf(" ORDER BY %s %s", column, direction)

	return sql, args
}

func (s *filmService) List(ctx context.Context, q ListQuery) ([]Film, error) {
	sql, args := BuildListSQL(q)
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to fetch films", err)
	}
	defer rows.Close()

	films := make([]Film, 0)
	for rows.Next() {
		var f Film
		if err := rows.Scan(&f.ID, &f.Title, &f.OriginalTitle, &f.Description, &f.Director,
			&f.Producer, &f.ReleaseDate, &f.RunningTime, &f.RTScore, &f.Image, &f.MovieBanner); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan film", err)
		}
		films = append(films, f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read films", err)
	}
	return films, nil
}

func (s *filmService) GetByID(ctx context.Context, id string) (*Film, error) {
	var f Film
	err := s.db.QueryRow(ctx, `
		SELECT id, title, original_title, description, director, producer,
		       release_date, running_time, rt_score, image, movie_banner
		FROM films WHERE id = $1`, id).Scan(
		&f.ID, &f.Title, &f.OriginalTitle, &f.Description, &f.Director,
		&f.Producer, &f.ReleaseDate, &f.RunningTime, &f.RTScore, &f.Image, &f.MovieBanner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("film not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to fetch film", err)
	}
	return &f, nil
}

func (s *filmService) Directors(ctx context.Context) ([]string, error) {
	directors, err := s.distinct(ctx, "director")
	if err != nil {
		return nil, err
	}
	sort.Strings(directors)
	return directors, nil
}

func (s *filmService) Years(ctx context.Context) ([]string, error) {
	years, err := s.distinct(ctx, "release_date")
	if err != nil {
		return nil, err
	}
	// Newest first, matching the filter dropdown.
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years, nil
}

func (s *filmService) distinct(ctx context.Context, column string) ([]string, error) {
	// column is one of two literals chosen by this package, never client input.
	rows, err := s.db.Query(ctx, fmt.Sprintf(`SELECT DISTINCT %s FROM films`, column))
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to fetch distinct "+column, err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan "+column, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read "+column, err)
	}
	return values, nil
}

// Seed inserts the embedded catalog snapshot when the films table is empty.
// Safe to call on every startup.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	var count int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM films`).Scan(&count); err != nil {
		return apperror.NewDatabaseError("failed to count films", err)
	}
	if count > 0 {
		return nil
	}

	data, err := seedFS.ReadFile("ghibli-data.json")
	if err != nil {
		return apperror.NewInternalError("failed to read embedded film data", err)
	}
	var films []Film
	if err := json.Unmarshal(data, &films); err != nil {
		return apperror.NewInternalError("failed to parse embedded film data", err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return apperror.NewDatabaseError("failed to begin seed transaction", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, f := range films {
		_, err := tx.Exec(ctx, `
			INSERT INTO films (id, title, original_title, description, director, producer,
			                   release_date, running_time, rt_score, image, movie_banner)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO NOTHING`,
			f.ID, f.Title, f.OriginalTitle, f.Description, f.Director, f.Producer,
			f.ReleaseDate, f.RunningTime, f.RTScore, f.Image, f.MovieBanner)
		if err != nil {
			return apperror.NewDatabaseError("failed to seed film "+f.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return apperror.NewDatabaseError("failed to commit seed transaction", err)
	}

	log.Printf("seeded %d films from embedded snapshot", len(films))
	return nil
}
