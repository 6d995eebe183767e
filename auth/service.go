package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/EaRebusa/API-Project-Ghibli-Catalog/apperror"
	"github.com/EaRebusa/API-Project-Ghibli-Catalog/config"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// AuthService provides registration, login and token services. Dependencies
// are injected through the constructor: a pgx pool for user records and the
// auth configuration carrying the signing secret and token lifetime.
type AuthService struct {
	db         *pgxpool.Pool
	authConfig config.AuthConfig
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *pgxpool.Pool, authConfig config.AuthConfig) *AuthService {
	return &AuthService{db: db, authConfig: authConfig}
}

// Register creates a new user. Usernames are trimmed and stored lowercase, so
// uniqueness is case-insensitive by construction: "Totoro" and "totoro" are
// the same account.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || req.Password == "" {
		return nil, apperror.NewValidationError("username and password are required", nil)
	}
	if utf8.RuneCountInString(username) < minUsernameLen {
		return nil, apperror.NewValidationError("username must be at least 3 characters", nil)
	}
	if len(req.Password) < minPasswordLen {
		return nil, apperror.NewValidationError("password must be at least 6 characters", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := &User{
		Username:     username,
		PasswordHash: string(hashed),
	}

	query := `INSERT INTO users (username, password_hash)
              VALUES ($1, $2)
              RETURNING id, created_at`
	err = s.db.QueryRow(ctx, query, user.Username, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			// The second registration of a case-folded username fails as a
			// validation problem, matching the 400 the frontend expects.
			return nil, apperror.NewValidationError("username is already taken", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return user, nil
}

// Login authenticates a user and returns a signed bearer token. An unknown
// username and a wrong password produce the same "invalid credentials"
// response so the endpoint does not reveal which half was wrong.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, apperror.NewBadRequestError("username and password are required", nil)
	}

	user, err := s.getUserByUsername(ctx, strings.ToLower(strings.TrimSpace(req.Username)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewBadRequestError("invalid credentials", nil)
		}
		log.Printf("database error during login lookup: %v", err)
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.NewBadRequestError("invalid credentials", nil)
	}

	token, err := s.IssueToken(user.ID, user.Username)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}
	return &TokenResponse{Token: token}, nil
}

// FindUserByID resolves a user by primary key. The auth middleware uses it to
// confirm that the subject of a verified token still exists.
func (s *AuthService) FindUserByID(ctx context.Context, id int) (*User, error) {
	var user User
	query := `SELECT id, username, password_hash, created_at FROM users WHERE id = $1`
	err := s.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user by id", err)
	}
	return &user, nil
}

func (s *AuthService) getUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	query := `SELECT id, username, password_hash, created_at FROM users WHERE username = $1`
	err := s.db.QueryRow(ctx, query, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
